// Package manifest reads the required-files manifest: the list of
// dataset files an analysis environment must provide. Manifests are a
// JSON array or NDJSON, one entry per file.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// MaxInputSize is the maximum manifest file size (10MB).
	MaxInputSize = 10 * 1024 * 1024
	// MaxEntryCount is the maximum number of manifest entries.
	MaxEntryCount = 10000
)

// Entry describes one required dataset file.
type Entry struct {
	// File is the path of the dataset relative to the datasets root.
	File string `json:"file"`
	// Description is free text shown in status output.
	Description string `json:"description,omitempty"`
	// Optional indicates the file may be absent without failing a
	// readiness check.
	Optional bool `json:"optional,omitempty"`
}

// Read reads manifest entries from a JSON array or NDJSON file.
func Read(path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat manifest: %w", err)
	}

	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("manifest exceeds maximum size of %d bytes", MaxInputSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Try to parse as JSON array first
	var entries []Entry
	dec := json.NewDecoder(f)
	if err := dec.Decode(&entries); err == nil {
		if len(entries) > MaxEntryCount {
			return nil, fmt.Errorf("manifest exceeds maximum entry count of %d", MaxEntryCount)
		}
		return validated(entries)
	}

	// Fallback to NDJSON (one JSON object per line)
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("cannot seek manifest: %w", err)
	}
	entries = nil
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", len(entries)+1, err)
		}

		entries = append(entries, entry)
		if len(entries) > MaxEntryCount {
			return nil, fmt.Errorf("manifest exceeds maximum entry count of %d", MaxEntryCount)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	return validated(entries)
}

func validated(entries []Entry) ([]Entry, error) {
	for i, e := range entries {
		if e.File == "" {
			return nil, fmt.Errorf("manifest entry %d has no file", i)
		}
	}
	return entries, nil
}

// Missing returns the non-optional entries whose files do not exist
// under root.
func Missing(root string, entries []Entry) []Entry {
	var missing []Entry
	for _, e := range entries {
		if e.Optional {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.File)); err != nil {
			missing = append(missing, e)
		}
	}
	return missing
}
