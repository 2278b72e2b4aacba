package tables

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a computed table.
type tableFile struct {
	Columns []Column `yaml:"columns"`
}

// ParseTable decodes a computed table from YAML or JSON bytes. The
// document holds a mapping with a "columns" list of {name, cells}
// entries.
func ParseTable(data []byte) (Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Table{}, fmt.Errorf("parse table: %w", err)
	}

	t := Table{Columns: tf.Columns}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// LoadTable reads a computed table from a YAML or JSON file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read table file: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return Table{}, fmt.Errorf("table file %s: %w", path, err)
	}
	return t, nil
}

// ParseReference decodes a reference snapshot from YAML or JSON bytes.
// Snapshots are stored as bare nested sequences (one sequence per
// column); a table-shaped document is accepted too, with the column
// names dropped.
func ParseReference(data []byte) (Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err == nil {
		if err := ref.Validate(); err != nil {
			return nil, err
		}
		return ref, nil
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse reference: %w", err)
	}
	ref = make(Reference, 0, len(tf.Columns))
	for _, col := range tf.Columns {
		ref = append(ref, col.Cells)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

// LoadReference reads a reference snapshot from a YAML or JSON file.
func LoadReference(path string) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	ref, err := ParseReference(data)
	if err != nil {
		return nil, fmt.Errorf("reference file %s: %w", path, err)
	}
	return ref, nil
}
