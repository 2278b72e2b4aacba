package cmd

import (
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the development environment",
		Long: `Report which companions have been fetched, whether the package
constellation is installed, and which required dataset files are missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			state, err := openEnv(ctx)
			if err != nil {
				return err
			}
			return printerForContext(ctx).Print(ctx, state.Query())
		},
	}
}
