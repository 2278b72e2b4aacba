package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/bootstrap"
	"github.com/statflow/devkit/internal/ui"
)

func newTeardownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown",
		Short: "Remove the development environment",
		Long: `Delete the environment root and everything under it, including the
fetched companions, datasets, and the environment state record.

Installed packages are not uninstalled; re-run 'sfdev setup' to rebuild
the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := envRoot(ctx)
			if err != nil {
				return err
			}
			if !confirm(ctx, fmt.Sprintf("Remove the development environment in %s?", root)) {
				return fmt.Errorf("teardown aborted")
			}

			if err := bootstrap.Teardown(root); err != nil {
				return err
			}

			ui.FromContext(ctx).Success("Removed %s", root)
			return printerForContext(ctx).Print(ctx, map[string]interface{}{
				"status": "removed",
				"root":   root,
			})
		},
	}
}
