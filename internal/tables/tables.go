// Package tables implements the results-table comparison helper used by
// analysis regression tests. A freshly computed table is diffed against a
// previously accepted reference snapshot; numeric cells are rounded before
// comparison so floating-point noise from re-computation does not produce
// spurious failures.
package tables

import (
	"fmt"
)

// Cell is a single scalar table value: a number, a string, or a bool.
type Cell any

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string `json:"name" yaml:"name"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Table is an ordered sequence of columns produced by an analysis.
// Storage is column-major; reporting order is row-major (for row r and
// column c the flat storage index is r + c*nRows).
type Table struct {
	Columns []Column `json:"columns" yaml:"columns"`
}

// Reference is a previously accepted "golden" table snapshot: the same
// column-major layout as Table, without column-name metadata.
type Reference [][]Cell

// NumRows returns the row count, taken from the first column.
func (t Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumCols returns the column count.
func (t Table) NumCols() int {
	return len(t.Columns)
}

// NumCells returns the total cell count across all columns.
func (t Table) NumCells() int {
	n := 0
	for _, col := range t.Columns {
		n += len(col.Cells)
	}
	return n
}

// Validate rejects ragged tables. Comparison assumes rectangular input;
// a column whose length differs from the first column's is a caller bug.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return nil
	}
	nRows := len(t.Columns[0].Cells)
	for _, col := range t.Columns {
		if len(col.Cells) != nRows {
			return fmt.Errorf("table is not rectangular: column %q has %d cells, expected %d", col.Name, len(col.Cells), nRows)
		}
	}
	return nil
}

// Validate rejects ragged references, mirroring Table.Validate.
func (r Reference) Validate() error {
	if len(r) == 0 {
		return nil
	}
	nRows := len(r[0])
	for i, col := range r {
		if len(col) != nRows {
			return fmt.Errorf("reference is not rectangular: column %d has %d cells, expected %d", i+1, len(col), nRows)
		}
	}
	return nil
}

// NumRows returns the row count, taken from the first column.
func (r Reference) NumRows() int {
	if len(r) == 0 {
		return 0
	}
	return len(r[0])
}

// NumCells returns the total cell count across all columns.
func (r Reference) NumCells() int {
	n := 0
	for _, col := range r {
		n += len(col)
	}
	return n
}
