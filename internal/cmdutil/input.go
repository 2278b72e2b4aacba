// Package cmdutil holds small helpers shared by command implementations.
package cmdutil

import (
	"fmt"
	"io"
	"os"
)

// ReadInputSource reads a command input argument: a file path, or stdin
// when the path is "-".
func ReadInputSource(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("input file path is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return data, nil
}
