package tables

// Asserter receives the outcome of a comparison. Mismatches are expected,
// recoverable outcomes reported through this interface, never panics: a
// false condition carries the failure message, a true one carries none.
type Asserter interface {
	Assert(ok bool, failureMessage string)
}

// AssertEqual runs Compare and reports the outcome through a.
// It returns true when the tables matched.
func AssertEqual(a Asserter, test Table, ref Reference, label string) bool {
	res := Compare(test, ref, label)
	a.Assert(res.OK, res.Message)
	return res.OK
}

// Recorder is an Asserter that collects failure messages instead of
// reporting them, for callers outside a test run (the CLI surface).
type Recorder struct {
	Failures []string
}

// Assert implements Asserter.
func (r *Recorder) Assert(ok bool, failureMessage string) {
	if !ok {
		r.Failures = append(r.Failures, failureMessage)
	}
}

// OK reports whether no failures were recorded.
func (r *Recorder) OK() bool {
	return len(r.Failures) == 0
}
