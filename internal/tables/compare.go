package tables

import (
	"fmt"
	"strings"
)

// EncodingArtifactMarker is the sentinel that signals a known, ignorable
// encoding discrepancy between platforms. Test cells whose full-precision
// value contains it are skipped during matching, and reference leftovers
// containing it are excluded from reports.
const EncodingArtifactMarker = "�"

// Result is the outcome of a single comparison.
type Result struct {
	OK      bool
	Message string
}

// annotatedCell is one element of the transient matching vector: the
// rounded, stringified value used for lookups, the full-precision original
// used for the encoding-artifact check, and (test side only) the name of
// the column the cell came from.
type annotatedCell struct {
	rounded  string
	original string
	column   string
}

// Compare diffs a freshly computed table against a reference snapshot.
// label only prefixes messages; it has no effect on the comparison.
//
// Matching is multiset-based per row: within a row, each reference value
// can satisfy at most one test cell, so duplicates must be present the
// same number of times on both sides. Equality of total cell counts
// selects the row-wise path; otherwise a size diff with a best-effort
// rows/columns classification is produced. Inputs are never mutated and
// no state survives the call, so concurrent use is safe.
func Compare(test Table, ref Reference, label string) Result {
	if test.NumCells() == 0 {
		return Result{Message: fmt.Sprintf("%s: table to compare is empty", label)}
	}
	if err := ref.Validate(); err != nil {
		return Result{Message: fmt.Sprintf("%s: %v", label, err)}
	}

	testVec := annotateTable(test)
	refVec := annotateReference(ref)

	if len(testVec) == len(refVec) {
		return compareRows(test, testVec, refVec, label)
	}
	return compareSizes(test, testVec, refVec, label)
}

// annotateTable flattens a table row-major, visiting storage index
// r + c*nRows for each row r and column c.
func annotateTable(t Table) []annotatedCell {
	nRows, nCols := t.NumRows(), t.NumCols()
	out := make([]annotatedCell, 0, nRows*nCols)
	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			rounded, original := formatCell(t.Columns[c].Cells[r])
			out = append(out, annotatedCell{rounded: rounded, original: original, column: t.Columns[c].Name})
		}
	}
	return out
}

func annotateReference(ref Reference) []annotatedCell {
	nRows, nCols := ref.NumRows(), len(ref)
	out := make([]annotatedCell, 0, nRows*nCols)
	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			rounded, original := formatCell(ref[c][r])
			out = append(out, annotatedCell{rounded: rounded, original: original})
		}
	}
	return out
}

// consume removes the first element of pool whose rounded value equals
// want. It reports whether a match was found.
func consume(pool *[]annotatedCell, want string) bool {
	for i, c := range *pool {
		if c.rounded == want {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return true
		}
	}
	return false
}

// compareRows handles equal total cell counts: each test row is matched
// against the same row range of the reference as a consumable multiset.
func compareRows(test Table, testVec, refVec []annotatedCell, label string) Result {
	nRows, nCols := test.NumRows(), test.NumCols()

	var blocks []string
	for r := 0; r < nRows; r++ {
		lookup := append([]annotatedCell(nil), refVec[r*nCols:(r+1)*nCols]...)

		var changed []annotatedCell
		for _, cell := range testVec[r*nCols : (r+1)*nCols] {
			if consume(&lookup, cell.rounded) {
				continue
			}
			if strings.Contains(cell.original, EncodingArtifactMarker) {
				continue
			}
			changed = append(changed, cell)
		}
		if len(changed) == 0 {
			continue
		}

		var leftover []string
		for _, c := range lookup {
			if !strings.Contains(c.rounded, EncodingArtifactMarker) {
				leftover = append(leftover, c.rounded)
			}
		}
		blocks = append(blocks, formatRowBlock(r+1, changed, leftover))
	}

	if len(blocks) == 0 {
		return Result{OK: true}
	}
	return Result{Message: fmt.Sprintf("%s: tables differ\n%s", label, strings.Join(blocks, "\n"))}
}

func formatRowBlock(row int, changed []annotatedCell, leftover []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d:", row)
	for _, c := range changed {
		fmt.Fprintf(&b, "\n  got %q (column %q) with no match in the reference", c.rounded, c.column)
	}
	if len(leftover) > 0 {
		fmt.Fprintf(&b, "\n  reference values left unmatched: %s", quoteJoin(leftover))
	}
	return b.String()
}

// compareSizes handles differing total cell counts. The larger side is
// searched for in the smaller one, and the size delta is classified as
// whole columns, whole rows, or loose cells. This path always fails; it
// exists to produce a useful diagnostic.
func compareSizes(test Table, testVec, refVec []annotatedCell, label string) Result {
	nRows, nCols := test.NumRows(), test.NumCols()

	newLarger := len(testVec) > len(refVec)
	searchFor, searchIn := refVec, testVec
	if newLarger {
		searchFor, searchIn = testVec, refVec
	}

	pool := append([]annotatedCell(nil), searchIn...)
	var missing []annotatedCell
	for _, cell := range searchFor {
		if consume(&pool, cell.rounded) {
			continue
		}
		if strings.Contains(cell.original, EncodingArtifactMarker) {
			continue
		}
		missing = append(missing, cell)
	}

	cellDiff := len(searchFor) - len(searchIn)

	// Heuristic: a delta divisible by the row count looks like whole
	// columns, one divisible by the column count looks like whole rows.
	// Ambiguous when nRows == nCols or the delta divides both; columns
	// win the tie-break.
	unit := "cells (possibly footnotes or per-cell flags)"
	switch {
	case nRows > 0 && cellDiff%nRows == 0:
		unit = "columns"
	case nCols > 0 && cellDiff%nCols == 0:
		unit = "rows"
	}

	var b strings.Builder
	if newLarger {
		fmt.Fprintf(&b, "%s: new table has %s not present in the reference", label, unit)
	} else {
		fmt.Fprintf(&b, "%s: %s were removed from the reference table", label, unit)
	}
	fmt.Fprintf(&b, " (%d cells)", cellDiff)
	if len(missing) > 0 {
		fmt.Fprintf(&b, "\nunmatched values: %s", strings.Join(describeCells(missing), ", "))
	}
	return Result{Message: b.String()}
}

func describeCells(cells []annotatedCell) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c.column != "" {
			out = append(out, fmt.Sprintf("%q (column %q)", c.rounded, c.column))
			continue
		}
		out = append(out, fmt.Sprintf("%q", c.rounded))
	}
	return out
}

func quoteJoin(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}
