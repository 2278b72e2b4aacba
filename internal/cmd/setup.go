package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/bootstrap"
	"github.com/statflow/devkit/internal/compat"
	"github.com/statflow/devkit/internal/ui"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the development environment",
		Long: `Fetch the pinned companion repositories, copy HTML assets, and
install the package constellation into a fresh or existing environment.

The environment root defaults to ~/statflow-dev and can be changed with
'sfdev config set root <dir>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := envRoot(ctx)
			if err != nil {
				return err
			}
			if !confirm(ctx, fmt.Sprintf("Set up the Statflow development environment in %s?", root)) {
				return fmt.Errorf("setup aborted")
			}

			state, err := bootstrap.Init(root)
			if err != nil {
				return err
			}

			cc, err := compat.Current()
			if err != nil {
				return err
			}

			fetcher := bootstrap.NewFetcher(newForgeClient(ctx), state)
			fetcher.AssetTarget = filepath.Join(root, "html")

			for _, comp := range cc.Companions {
				if err := fetcher.FetchCompanion(ctx, comp); err != nil {
					return err
				}
			}
			recordManifestIfPresent(state)

			installer := newInstallerForContext(ctx, state)
			if err := installer.Install(ctx, localPackagePaths(state, cc.Packages)); err != nil {
				return err
			}

			state.SetupComplete = true
			if err := state.Save(); err != nil {
				return err
			}

			ui.FromContext(ctx).Success("Environment ready in %s", root)
			return printerForContext(ctx).Print(ctx, state.Query())
		},
	}
}

// localPackagePaths resolves constellation package names to their source
// directories inside the fetched analyses companion when present; names
// without a local checkout are passed through for the installer to
// resolve from its own repositories.
func localPackagePaths(state *bootstrap.State, packages []string) []string {
	out := make([]string, 0, len(packages))
	for _, pkg := range packages {
		local := filepath.Join(state.Root(), "analyses", pkg)
		if dirExists(local) {
			out = append(out, local)
		} else {
			out = append(out, pkg)
		}
	}
	return out
}
