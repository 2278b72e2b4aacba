// Package tablestest provides table comparison helpers for use inside
// Go tests, analogous to net/http/httptest for net/http.
package tablestest

import (
	"testing"

	"github.com/statflow/devkit/internal/tables"
)

type asserter struct {
	tb testing.TB
}

// NewAsserter adapts a testing.TB to the tables.Asserter interface so
// analysis regression tests can consume comparison outcomes directly.
func NewAsserter(tb testing.TB) tables.Asserter {
	return asserter{tb: tb}
}

func (a asserter) Assert(ok bool, failureMessage string) {
	a.tb.Helper()
	if !ok {
		a.tb.Error(failureMessage)
	}
}
