package tables

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "table.yaml", `columns:
  - name: contBinom
    cells: ["TRUE", "FALSE"]
  - name: counts
    cells: [58, 42]
`)
		tbl, err := LoadTable(path)
		if err != nil {
			t.Fatalf("LoadTable() error = %v", err)
		}
		if tbl.NumRows() != 2 || tbl.NumCols() != 2 {
			t.Errorf("LoadTable() shape = %dx%d, want 2x2", tbl.NumRows(), tbl.NumCols())
		}
		if tbl.Columns[1].Name != "counts" {
			t.Errorf("LoadTable() column name = %q, want %q", tbl.Columns[1].Name, "counts")
		}
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "table.json", `{"columns": [{"name": "p", "cells": [0.05, 0.01]}]}`)
		tbl, err := LoadTable(path)
		if err != nil {
			t.Fatalf("LoadTable() error = %v", err)
		}
		if tbl.NumRows() != 2 || tbl.NumCols() != 1 {
			t.Errorf("LoadTable() shape = %dx%d, want 2x1", tbl.NumRows(), tbl.NumCols())
		}
	})

	t.Run("ragged rejected", func(t *testing.T) {
		path := writeFile(t, "table.yaml", `columns:
  - name: a
    cells: [1, 2]
  - name: b
    cells: [3]
`)
		if _, err := LoadTable(path); err == nil {
			t.Error("LoadTable() accepted a ragged table, want error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadTable() succeeded for a missing file, want error")
		}
	})
}

func TestLoadReference(t *testing.T) {
	t.Run("bare sequences", func(t *testing.T) {
		path := writeFile(t, "ref.yaml", `- ["TRUE", "FALSE"]
- [58, 42]
`)
		ref, err := LoadReference(path)
		if err != nil {
			t.Fatalf("LoadReference() error = %v", err)
		}
		if len(ref) != 2 || ref.NumRows() != 2 {
			t.Errorf("LoadReference() shape = %dx%d, want 2 columns of 2", len(ref), ref.NumRows())
		}
	})

	t.Run("table shaped file", func(t *testing.T) {
		path := writeFile(t, "ref.json", `{"columns": [{"name": "p", "cells": [0.05]}]}`)
		ref, err := LoadReference(path)
		if err != nil {
			t.Fatalf("LoadReference() error = %v", err)
		}
		if len(ref) != 1 || ref.NumRows() != 1 {
			t.Errorf("LoadReference() shape = %dx%d, want 1 column of 1", len(ref), ref.NumRows())
		}
	})

	t.Run("ragged rejected", func(t *testing.T) {
		path := writeFile(t, "ref.yaml", `- [1, 2]
- [3]
`)
		if _, err := LoadReference(path); err == nil {
			t.Error("LoadReference() accepted a ragged reference, want error")
		}
	})

	t.Run("ragged table shaped rejected", func(t *testing.T) {
		path := writeFile(t, "ref.json", `{"columns": [{"name": "a", "cells": [1, 2]}, {"name": "b", "cells": [3]}]}`)
		if _, err := LoadReference(path); err == nil {
			t.Error("LoadReference() accepted a ragged table-shaped reference, want error")
		}
	})
}
