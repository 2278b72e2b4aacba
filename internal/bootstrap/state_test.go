package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStateLifecycle(t *testing.T) {
	root := filepath.Join(t.TempDir(), "env")

	s, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if s.SetupComplete {
		t.Error("fresh state reports setup complete")
	}

	fetchedAt := time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC)
	s.MarkFetched("analyses", ComponentState{Repo: "statflow/statflow-analyses", Ref: "v0.19.2", FetchedAt: fetchedAt})
	s.MarkInstalled(fetchedAt)
	s.SetupComplete = true
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A second Init must load the persisted record.
	reloaded, err := Init(root)
	if err != nil {
		t.Fatalf("Init() reload error = %v", err)
	}
	if !reloaded.SetupComplete {
		t.Error("reloaded state lost setup_complete")
	}
	cs, ok := reloaded.Component("analyses")
	if !ok || cs.Ref != "v0.19.2" {
		t.Errorf("reloaded component = %+v, %v; want analyses at v0.19.2", cs, ok)
	}

	if err := Teardown(root); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("Teardown() left the environment root behind")
	}
}

func TestInitRejectsEmptyRoot(t *testing.T) {
	if _, err := Init(""); err == nil {
		t.Error("Init(\"\") succeeded, want error")
	}
}

func TestQuery(t *testing.T) {
	root := t.TempDir()
	s, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	s.MarkFetched("assets", ComponentState{Repo: "statflow/statflow-html-assets", Ref: "v0.19.0", FetchedAt: time.Now()})

	st := s.Query()
	if st.Root != root {
		t.Errorf("Query().Root = %q, want %q", st.Root, root)
	}
	if st.PackagesInstalled {
		t.Error("Query() reports packages installed before any install")
	}
	if len(st.Components) != 1 || st.Components[0].Name != "assets" {
		t.Errorf("Query().Components = %+v, want one assets entry", st.Components)
	}
}

func TestQueryReportsMissingDatasets(t *testing.T) {
	root := t.TempDir()
	s, err := Init(root)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "datasets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "datasets", "debug.csv"), []byte("a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	manifestContent := `[{"file": "debug.csv"}, {"file": "anova.csv"}]`
	if err := os.WriteFile(filepath.Join(root, "required-files.json"), []byte(manifestContent), 0o600); err != nil {
		t.Fatal(err)
	}
	s.ManifestPath = "required-files.json"

	st := s.Query()
	if len(st.MissingDatasets) != 1 || st.MissingDatasets[0] != "anova.csv" {
		t.Errorf("Query().MissingDatasets = %v, want [anova.csv]", st.MissingDatasets)
	}
}

func TestTeardownRefusesRootDir(t *testing.T) {
	if err := Teardown(""); err == nil {
		t.Error("Teardown(\"\") succeeded, want error")
	}
	if err := Teardown(string(filepath.Separator)); err == nil {
		t.Error("Teardown(root separator) succeeded, want error")
	}
}
