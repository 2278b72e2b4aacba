// Package bootstrap prepares a local development environment for
// iterating on analysis code outside the full application build: it
// fetches companion repositories, datasets, and HTML assets, and
// installs the package constellation.
//
// Environment state is an explicit object persisted to state.yaml in the
// environment root, with an init -> query -> teardown lifecycle. There
// are no sentinel flag files; everything a caller can ask about the
// environment is answered from this one record.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/statflow/devkit/internal/manifest"
)

const stateFileName = "state.yaml"

// ComponentState records one fetched companion component.
type ComponentState struct {
	Repo      string    `yaml:"repo"`
	Ref       string    `yaml:"ref"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// State is the persisted environment record.
type State struct {
	root string

	SetupComplete       bool                      `yaml:"setup_complete"`
	Components          map[string]ComponentState `yaml:"components,omitempty"`
	PackagesInstalledAt time.Time                 `yaml:"packages_installed_at,omitempty"`
	// ManifestPath locates the required-files manifest, relative to the
	// environment root.
	ManifestPath string `yaml:"manifest_path,omitempty"`
}

// Init creates the environment root if needed and loads the existing
// state record, or returns a fresh one.
func Init(root string) (*State, error) {
	if root == "" {
		return nil, fmt.Errorf("environment root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create environment root: %w", err)
	}

	s := &State{root: root, Components: map[string]ComponentState{}}

	data, err := os.ReadFile(filepath.Join(root, stateFileName))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read environment state: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("invalid environment state: %w", err)
	}
	if s.Components == nil {
		s.Components = map[string]ComponentState{}
	}
	return s, nil
}

// Root returns the environment root directory.
func (s *State) Root() string {
	return s.root
}

// Save persists the state record to the environment root.
func (s *State) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.root, stateFileName), data, 0o644)
}

// MarkFetched records a fetched component.
func (s *State) MarkFetched(name string, cs ComponentState) {
	s.Components[name] = cs
}

// Component returns the fetch record for a component, if any.
func (s *State) Component(name string) (ComponentState, bool) {
	cs, ok := s.Components[name]
	return cs, ok
}

// MarkInstalled records a completed package installation.
func (s *State) MarkInstalled(at time.Time) {
	s.PackagesInstalledAt = at
}

// ComponentStatus is one row of a Status report.
type ComponentStatus struct {
	Name      string    `json:"name" yaml:"name"`
	Repo      string    `json:"repo" yaml:"repo"`
	Ref       string    `json:"ref" yaml:"ref"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Status is a point-in-time snapshot of environment readiness.
type Status struct {
	Root              string            `json:"root" yaml:"root"`
	SetupComplete     bool              `json:"setup_complete" yaml:"setup_complete"`
	PackagesInstalled bool              `json:"packages_installed" yaml:"packages_installed"`
	Components        []ComponentStatus `json:"components" yaml:"components"`
	MissingDatasets   []string          `json:"missing_datasets,omitempty" yaml:"missing_datasets,omitempty"`
}

// Query builds a Status snapshot. When a manifest path is recorded, the
// datasets directory is checked against it and missing files reported.
func (s *State) Query() Status {
	st := Status{
		Root:              s.root,
		SetupComplete:     s.SetupComplete,
		PackagesInstalled: !s.PackagesInstalledAt.IsZero(),
	}

	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := s.Components[name]
		st.Components = append(st.Components, ComponentStatus{
			Name:      name,
			Repo:      cs.Repo,
			Ref:       cs.Ref,
			FetchedAt: cs.FetchedAt,
		})
	}

	if s.ManifestPath != "" {
		entries, err := manifest.Read(filepath.Join(s.root, s.ManifestPath))
		if err == nil {
			for _, e := range manifest.Missing(filepath.Join(s.root, "datasets"), entries) {
				st.MissingDatasets = append(st.MissingDatasets, e.File)
			}
		}
	}

	return st
}

// Teardown removes the environment root and everything under it,
// including the state record.
func Teardown(root string) error {
	if root == "" || root == string(filepath.Separator) {
		return fmt.Errorf("refusing to remove %q", root)
	}
	return os.RemoveAll(root)
}
