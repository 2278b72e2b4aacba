package cmd

import (
	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/cmdutil"
	"github.com/statflow/devkit/internal/errors"
	"github.com/statflow/devkit/internal/tables"
	"github.com/statflow/devkit/internal/ui"
)

func newCompareCmd() *cobra.Command {
	var labelFlag string

	cmd := &cobra.Command{
		Use:   "compare <table-file> <reference-file>",
		Short: "Compare a results table against a reference snapshot",
		Long: `Diff a freshly computed results table against a reference snapshot the
way the analysis regression tests do: numbers are rounded to four
significant digits, row order is ignored, and within a row each
reference value satisfies at most one cell.

Both files may be YAML or JSON, and "-" reads the table from stdin. The
table file holds named columns; the reference file holds the expected
rows.

Example:
  sfdev compare out/contingency.yaml analyses/tests/ref/contingency.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tableData, err := cmdutil.ReadInputSource(args[0])
			if err != nil {
				return err
			}
			table, err := tables.ParseTable(tableData)
			if err != nil {
				return err
			}
			ref, err := tables.LoadReference(args[1])
			if err != nil {
				return err
			}

			label := labelFlag
			if label == "" {
				label = args[0]
			}

			result := tables.Compare(table, ref, label)
			if result.OK {
				ui.FromContext(ctx).Success("%s matches the reference", label)
				return printerForContext(ctx).Print(ctx, map[string]interface{}{
					"status": "match",
					"label":  label,
				})
			}

			if err := printerForContext(ctx).Print(ctx, map[string]interface{}{
				"status":  "mismatch",
				"label":   label,
				"message": result.Message,
			}); err != nil {
				return err
			}
			return errors.NewUserError(
				"table does not match the reference",
				"Inspect the mismatch report above; regenerate the reference if the change is intended",
			)
		},
	}

	cmd.Flags().StringVar(&labelFlag, "label", "", "Label used in the mismatch report (defaults to the table file)")
	return cmd
}
