package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/compat"
	"github.com/statflow/devkit/internal/ui"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [package...]",
		Short: "Install the package constellation",
		Long: `Run the configured package installer for the pinned constellation, in
order. The packages are interdependent, so a failure stops the run.

With arguments, only the named packages are installed (still in pinned
order). Locally fetched package sources under the analyses companion are
preferred over the installer's own repositories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			state, err := requireEnv(ctx)
			if err != nil {
				return err
			}

			cc, err := compat.Current()
			if err != nil {
				return err
			}

			packages := cc.Packages
			if len(args) > 0 {
				packages = selectPackages(cc.Packages, args)
			}

			installer := newInstallerForContext(ctx, state)
			if err := installer.Install(ctx, localPackagePaths(state, packages)); err != nil {
				return err
			}

			ui.FromContext(ctx).Success("Installed %d packages", len(packages))
			return printerForContext(ctx).Print(ctx, state.Query())
		},
	}
}

// selectPackages filters the pinned constellation down to the requested
// names, preserving pinned order. Unknown names are appended last so the
// installer can report them itself.
func selectPackages(pinned, requested []string) []string {
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}

	var out []string
	for _, name := range pinned {
		if want[name] {
			out = append(out, name)
			delete(want, name)
		}
	}
	for _, name := range requested {
		if want[name] {
			out = append(out, name)
			delete(want, name)
		}
	}
	return out
}
