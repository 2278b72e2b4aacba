package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/statflow/devkit/internal/bootstrap"
	"github.com/statflow/devkit/internal/config"
	"github.com/statflow/devkit/internal/errors"
)

// datasetManifest is the required-files manifest shipped inside the
// example-data companion, relative to the environment root.
const datasetManifest = "datasets/manifest.json"

func envRoot(ctx context.Context) (string, error) {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg.GetRoot()
}

// openEnv loads the environment state, creating the root if needed.
func openEnv(ctx context.Context) (*bootstrap.State, error) {
	root, err := envRoot(ctx)
	if err != nil {
		return nil, err
	}
	return bootstrap.Init(root)
}

// requireEnv loads the environment state and fails with a setup hint when
// the environment has never been set up.
func requireEnv(ctx context.Context) (*bootstrap.State, error) {
	state, err := openEnv(ctx)
	if err != nil {
		return nil, err
	}
	if !state.SetupComplete {
		return nil, errors.EnvironmentNotReadyError()
	}
	return state, nil
}

// recordManifestIfPresent points the state at the dataset manifest when
// the fetched example-data companion ships one.
func recordManifestIfPresent(state *bootstrap.State) {
	if _, err := os.Stat(filepath.Join(state.Root(), datasetManifest)); err == nil {
		state.ManifestPath = datasetManifest
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newInstallerForContext(ctx context.Context, state *bootstrap.State) *bootstrap.Installer {
	cfg := ConfigFromContext(ctx)
	command := "R"
	var args []string
	if cfg != nil {
		command = cfg.GetInstallerCommand()
		args = cfg.InstallerArgs
	}
	if len(args) == 0 {
		args = []string{"CMD", "INSTALL"}
	}

	inst := bootstrap.NewInstaller(command, args, state)
	inst.Stdout = stderrFromContext(ctx)
	inst.Stderr = stderrFromContext(ctx)
	return inst
}
