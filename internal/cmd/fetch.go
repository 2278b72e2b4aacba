package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/bootstrap"
	"github.com/statflow/devkit/internal/compat"
	"github.com/statflow/devkit/internal/errors"
	"github.com/statflow/devkit/internal/ui"
	"github.com/statflow/devkit/internal/validate"
)

func newFetchCmd() *cobra.Command {
	var refFlag string

	cmd := &cobra.Command{
		Use:   "fetch <component>",
		Short: "Fetch one companion component",
		Long: `Download a single companion component into the environment, replacing
any previous checkout.

The component can be a pinned name from the compatibility set (analyses,
assets, datasets) or an owner/name repository slug for ad-hoc fetches.

Example:
  sfdev fetch datasets
  sfdev fetch statflow/statflow-analyses --ref main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			state, err := requireEnv(ctx)
			if err != nil {
				return err
			}

			comp, err := resolveComponent(args[0], refFlag)
			if err != nil {
				return err
			}

			fetcher := bootstrap.NewFetcher(newForgeClient(ctx), state)
			fetcher.AssetTarget = filepath.Join(state.Root(), "html")
			if err := fetcher.FetchCompanion(ctx, comp); err != nil {
				return err
			}
			if comp.Name == "datasets" {
				recordManifestIfPresent(state)
				if err := state.Save(); err != nil {
					return err
				}
			}

			ui.FromContext(ctx).Success("Fetched %s (%s@%s)", comp.Name, comp.Repo, comp.Ref)
			return printerForContext(ctx).Print(ctx, state.Query())
		},
	}

	cmd.Flags().StringVar(&refFlag, "ref", "", "Branch, tag, or commit to fetch (defaults to the pinned ref)")
	return cmd
}

// resolveComponent maps a CLI argument to a companion: pinned names come
// from the compatibility set, slugs become ad-hoc components named after
// the repository.
func resolveComponent(arg, ref string) (compat.Companion, error) {
	cc, err := compat.Current()
	if err != nil {
		return compat.Companion{}, err
	}

	if comp, ok := cc.Companion(arg); ok {
		if ref != "" {
			comp.Ref = ref
		}
		return comp, nil
	}

	if err := validate.RepoSlug("component", arg); err != nil {
		return compat.Companion{}, errors.NewUserError(
			err.Error(),
			"Use a pinned component name (analyses, assets, datasets) or an owner/name slug",
		)
	}

	comp := compat.Companion{
		Name: arg[strings.LastIndex(arg, "/")+1:],
		Repo: arg,
		Ref:  ref,
	}
	if comp.Ref == "" {
		comp.Ref = "main"
	}
	return comp, nil
}
