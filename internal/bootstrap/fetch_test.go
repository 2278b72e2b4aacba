package bootstrap

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/statflow/devkit/internal/compat"
	"github.com/statflow/devkit/internal/forge"
	"github.com/statflow/devkit/internal/testutil"
)

// buildArchive builds a zip with the single top-level directory the
// forge wraps archives in.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create("statflow-analyses-abc123/" + name)
		if err != nil {
			t.Fatalf("failed to add archive entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write archive entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

func TestFetchCompanion(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()

	archive := buildArchive(t, map[string]string{
		"R/anova.R":        "anova <- function() {}",
		"html/index.html":  "<html></html>",
		"html/js/table.js": "export {}",
	})
	ms.HandleBlob("GET", "/repos/statflow/statflow-analyses/zipball/v0.19.2", "application/zip", archive)

	root := t.TempDir()
	state, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	assetTarget := t.TempDir()
	f := NewFetcher(forge.NewClient("").WithBaseURL(ms.URL()), state)
	f.AssetTarget = assetTarget

	comp := compat.Companion{
		Name:     "analyses",
		Repo:     "statflow/statflow-analyses",
		Ref:      "v0.19.2",
		AssetDir: "html",
	}
	if err := f.FetchCompanion(context.Background(), comp); err != nil {
		t.Fatalf("FetchCompanion() error = %v", err)
	}

	// Top-level archive directory must be stripped.
	if _, err := os.Stat(filepath.Join(root, "analyses", "R", "anova.R")); err != nil {
		t.Errorf("unpacked file missing: %v", err)
	}
	// Asset dir contents copied to the target.
	if _, err := os.Stat(filepath.Join(assetTarget, "index.html")); err != nil {
		t.Errorf("asset copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(assetTarget, "js", "table.js")); err != nil {
		t.Errorf("nested asset copy missing: %v", err)
	}

	// Fetch recorded and persisted.
	cs, ok := state.Component("analyses")
	if !ok || cs.Ref != "v0.19.2" {
		t.Errorf("component state = %+v, %v; want recorded fetch", cs, ok)
	}
	reloaded, err := Init(root)
	if err != nil {
		t.Fatalf("Init() reload error = %v", err)
	}
	if _, ok := reloaded.Component("analyses"); !ok {
		t.Error("fetch record not persisted")
	}
}

func TestFetchCompanionDownloadFailure(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()
	ms.HandleError("GET", "/repos/statflow/statflow-analyses/zipball/v0.19.2", 404, "Not Found")

	state, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	f := NewFetcher(forge.NewClient("").WithBaseURL(ms.URL()), state)
	comp := compat.Companion{Name: "analyses", Repo: "statflow/statflow-analyses", Ref: "v0.19.2"}
	if err := f.FetchCompanion(context.Background(), comp); err == nil {
		t.Fatal("FetchCompanion() succeeded, want download error")
	}
	if _, ok := state.Component("analyses"); ok {
		t.Error("failed fetch must not be recorded")
	}
}

func TestUnzipRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	// A benign entry alongside the traversal keeps the top-level prefix
	// from swallowing the "..".
	for _, name := range []string{"repo/ok.txt", "../escape.txt"} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := unzip(archivePath, filepath.Join(dir, "out")); err == nil {
		t.Error("unzip() accepted an escaping entry, want error")
	}
}
