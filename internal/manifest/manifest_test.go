package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "required-files.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantFiles []string
		wantErr   string
	}{
		{
			name:      "json array",
			content:   `[{"file": "debug.csv"}, {"file": "kitchenSink.csv", "optional": true}]`,
			wantFiles: []string{"debug.csv", "kitchenSink.csv"},
		},
		{
			name:      "ndjson",
			content:   "{\"file\": \"debug.csv\"}\n\n{\"file\": \"anova.csv\", \"description\": \"ANOVA fixture\"}\n",
			wantFiles: []string{"debug.csv", "anova.csv"},
		},
		{
			name:    "entry without file",
			content: `[{"description": "orphan"}]`,
			wantErr: "has no file",
		},
		{
			name:    "invalid ndjson line",
			content: "{\"file\": \"debug.csv\"}\nnot json\n",
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Read(writeManifest(t, tt.content))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Read() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(entries) != len(tt.wantFiles) {
				t.Fatalf("Read() returned %d entries, want %d", len(entries), len(tt.wantFiles))
			}
			for i, want := range tt.wantFiles {
				if entries[i].File != want {
					t.Errorf("entry %d file = %q, want %q", i, entries[i].File, want)
				}
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Read() succeeded for a missing manifest, want error")
	}
}

func TestMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "present.csv"), []byte("a,b\n"), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	entries := []Entry{
		{File: "present.csv"},
		{File: "absent.csv"},
		{File: "alsoAbsent.csv", Optional: true},
	}

	missing := Missing(root, entries)
	if len(missing) != 1 || missing[0].File != "absent.csv" {
		t.Errorf("Missing() = %+v, want only absent.csv", missing)
	}
}
