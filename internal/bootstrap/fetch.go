package bootstrap

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/statflow/devkit/internal/compat"
	"github.com/statflow/devkit/internal/forge"
)

// Fetcher downloads companion components into an environment.
type Fetcher struct {
	client *forge.Client
	state  *State
	// AssetTarget, when set, receives the contents of a companion's
	// asset directory after unpacking (the application's html dir).
	AssetTarget string
	now         func() time.Time
}

// NewFetcher creates a Fetcher operating on the given environment state.
func NewFetcher(client *forge.Client, state *State) *Fetcher {
	return &Fetcher{client: client, state: state, now: time.Now}
}

// FetchCompanion downloads one pinned companion repository, unpacks it
// under the environment root, copies its asset directory if it has one,
// and records the fetch in the state.
func (f *Fetcher) FetchCompanion(ctx context.Context, comp compat.Companion) error {
	tmp, err := os.CreateTemp("", "devkit-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := f.client.DownloadArchive(ctx, comp.Repo, comp.Ref, tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("flush temp archive: %w", err)
	}

	dest := filepath.Join(f.state.Root(), comp.Name)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clear previous %s: %w", comp.Name, err)
	}
	if err := unzip(tmp.Name(), dest); err != nil {
		return fmt.Errorf("unpack %s: %w", comp.Name, err)
	}

	if comp.AssetDir != "" && f.AssetTarget != "" {
		src := filepath.Join(dest, comp.AssetDir)
		if err := copyDir(src, f.AssetTarget); err != nil {
			return fmt.Errorf("copy %s assets: %w", comp.Name, err)
		}
		slog.Debug("copied assets", "component", comp.Name, "from", src, "to", f.AssetTarget)
	}

	f.state.MarkFetched(comp.Name, ComponentState{
		Repo:      comp.Repo,
		Ref:       comp.Ref,
		FetchedAt: f.now(),
	})
	if err := f.state.Save(); err != nil {
		return fmt.Errorf("record fetch of %s: %w", comp.Name, err)
	}

	slog.Info("fetched companion", "component", comp.Name, "repo", comp.Repo, "ref", comp.Ref)
	return nil
}

// unzip extracts archive into dest. Forge archives wrap everything in a
// single top-level directory, which is stripped.
func unzip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	prefix := commonTopLevel(r.File)

	for _, file := range r.File {
		name := strings.TrimPrefix(file.Name, prefix)
		if name == "" {
			continue
		}

		path := filepath.Join(dest, filepath.FromSlash(name))
		// Guard against zip-slip: the joined path must stay inside dest.
		if !strings.HasPrefix(path, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes destination", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := extractFile(file, path); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, path string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, rc)
	return err
}

// commonTopLevel returns the shared leading directory of all entries, or
// empty when there is none.
func commonTopLevel(files []*zip.File) string {
	var top string
	for _, f := range files {
		idx := strings.Index(f.Name, "/")
		if idx < 0 {
			return ""
		}
		dir := f.Name[:idx+1]
		if top == "" {
			top = dir
			continue
		}
		if dir != top {
			return ""
		}
	}
	return top
}

func copyDir(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm()|0o600)
	})
}
