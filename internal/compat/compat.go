// Package compat pins the companion repositories and the package
// constellation the bootstrap installs, so every contributor gets the
// same environment for a given devkit build.
package compat

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Companion identifies one companion repository at a pinned ref.
type Companion struct {
	// Name is the component name used on the CLI (e.g. "analyses").
	Name string `json:"name"`
	// Repo is the owner/name slug on the forge.
	Repo string `json:"repo"`
	// Ref is the pinned branch, tag, or commit.
	Ref string `json:"ref"`
	// AssetDir, when set, is the subdirectory whose contents are copied
	// into the application's asset directory after unpacking.
	AssetDir string `json:"asset_dir,omitempty"`
}

// Compat is the pinned environment description.
type Compat struct {
	Companions []Companion `json:"companions"`
	// Packages is the interdependent package constellation, in install
	// order.
	Packages  []string `json:"packages"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

//go:embed compat.json
var compatJSON []byte

var (
	compatOnce sync.Once
	compatCfg  Compat
	compatErr  error
)

// Current returns the pinned compatibility configuration.
func Current() (Compat, error) {
	compatOnce.Do(func() {
		compatErr = json.Unmarshal(compatJSON, &compatCfg)
		if compatErr != nil {
			compatErr = fmt.Errorf("parse compat config: %w", compatErr)
			return
		}
		if len(compatCfg.Companions) == 0 {
			compatErr = fmt.Errorf("compat config lists no companion repositories")
			return
		}
		for i, c := range compatCfg.Companions {
			compatCfg.Companions[i].Name = strings.TrimSpace(c.Name)
			compatCfg.Companions[i].Repo = strings.TrimSpace(c.Repo)
			compatCfg.Companions[i].Ref = strings.TrimSpace(c.Ref)
			if compatCfg.Companions[i].Name == "" || compatCfg.Companions[i].Repo == "" || compatCfg.Companions[i].Ref == "" {
				compatErr = fmt.Errorf("compat config companion %d is missing name, repo, or ref", i)
				return
			}
		}
	})
	if compatErr != nil {
		return Compat{}, compatErr
	}
	return compatCfg, nil
}

// Companion looks up a pinned companion by name.
func (c Compat) Companion(name string) (Companion, bool) {
	for _, comp := range c.Companions {
		if comp.Name == name {
			return comp, true
		}
	}
	return Companion{}, false
}
