package compat

import "testing"

func TestCurrent(t *testing.T) {
	cfg, err := Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if len(cfg.Companions) == 0 {
		t.Fatal("Current() returned no companions")
	}
	if len(cfg.Packages) == 0 {
		t.Fatal("Current() returned no packages")
	}

	for _, c := range cfg.Companions {
		if c.Name == "" || c.Repo == "" || c.Ref == "" {
			t.Errorf("companion %+v is missing a required field", c)
		}
	}
}

func TestCompanionLookup(t *testing.T) {
	cfg, err := Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	if _, ok := cfg.Companion("analyses"); !ok {
		t.Error(`Companion("analyses") not found`)
	}
	if _, ok := cfg.Companion("nonexistent"); ok {
		t.Error(`Companion("nonexistent") found, want miss`)
	}
}
