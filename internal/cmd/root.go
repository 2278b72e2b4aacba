package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statflow/devkit/internal/auth"
	"github.com/statflow/devkit/internal/config"
	"github.com/statflow/devkit/internal/debug"
	"github.com/statflow/devkit/internal/forge"
	"github.com/statflow/devkit/internal/iocontext"
	"github.com/statflow/devkit/internal/logging"
	"github.com/statflow/devkit/internal/output"
	"github.com/statflow/devkit/internal/ui"
)

func newRootCmd(app *App) *cobra.Command {
	// Global flags
	var (
		debugMode    bool
		queryFlag    string
		jsonPathFlag string
		errorFormat  string
		quietFlag    bool
		compactJSON  bool
		colorFlag    string
		yesFlag      bool
	)

	rootCmd := &cobra.Command{
		Use:   "sfdev",
		Short: "Developer environment tooling for Statflow",
		Long: `sfdev bootstraps and maintains a Statflow development environment:
it fetches the companion repositories, example datasets, and HTML assets
the application needs, installs the pinned package constellation, and
ships the table comparison used by the analysis regression tests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Ensure Cobra doesn't emit its own error/usage text; we handle error output centrally.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			// Configure slog based on debug flag
			logging.Setup(debugMode, app.Stderr)

			// Load config file (skip for config commands to avoid recursion)
			var cfg *config.Config
			if cmd.Name() != "config" && (cmd.Parent() == nil || cmd.Parent().Name() != "config") {
				loadedCfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loadedCfg
			} else {
				cfg = &config.Config{}
			}

			if err := validateErrorFormat(errorFormat); err != nil {
				return err
			}

			formatStr, _ := cmd.Flags().GetString("output")
			if !cmd.Flags().Changed("output") {
				if env := strings.TrimSpace(os.Getenv("SFDEV_OUTPUT")); env != "" {
					formatStr = env
				} else if cfg.GetOutput() != "" {
					formatStr = cfg.GetOutput()
				} else if !isTerminal(app.Stdout) {
					formatStr = string(output.FormatJSON)
				}
			}
			format, err := output.ParseFormat(formatStr)
			if err != nil {
				return err
			}

			colorMode := colorFlag
			if colorMode == "" {
				colorMode = cfg.GetColor()
			}

			quiet := quietFlag
			if !cmd.Flags().Changed("quiet") && !isTerminal(app.Stdout) {
				switch format {
				case output.FormatJSON, output.FormatYAML:
					quiet = true
				}
			}

			// Inject parsed global options into context so subcommands can access them.
			ctx := cmd.Context()
			ctx = iocontext.WithIO(ctx, app.Stdout, app.Stderr)
			ctx = output.WithFormat(ctx, format)
			ctx = output.WithQuery(ctx, queryFlag)
			ctx = output.WithJSONPath(ctx, jsonPathFlag)
			ctx = output.WithQuiet(ctx, quiet)
			ctx = output.WithCompactJSON(ctx, compactJSON)
			ctx = debug.WithDebug(ctx, debugMode)
			ctx = WithConfig(ctx, cfg)
			ctx = WithErrorFormat(ctx, errorFormat)
			ctx = WithAssumeYes(ctx, yesFlag)
			ctx = ui.WithUI(ctx, ui.New(parseColorMode(colorMode)))
			cmd.SetContext(ctx)

			// Check token age and warn if old (skip for auth and config commands)
			skipCommands := map[string]bool{"auth": true, "config": true}
			if !skipCommands[cmd.Name()] && (cmd.Parent() == nil || !skipCommands[cmd.Parent().Name()]) {
				checkTokenAgeAndWarn(ctx, quiet)
			}

			return nil
		},
	}

	// Set version info
	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("sfdev %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))

	// Global flags
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text|json|table|yaml")
	rootCmd.PersistentFlags().StringVarP(&queryFlag, "query", "q", "", "JQ expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&jsonPathFlag, "jsonpath", "", "Extract a value using JSONPath (e.g. $.components[0].name)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output (shows HTTP requests/responses)")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact-json", false, "Output compact JSON (single-line) instead of pretty JSON")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color mode: auto|always|never")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts")
	flagAlias(rootCmd.PersistentFlags(), "compact-json", "compact")

	// Register subcommands
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTeardownCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// checkTokenAgeAndWarn checks if the token is older than the rotation threshold
// and prints a warning to stderr if it is. This is non-blocking.
func checkTokenAgeAndWarn(ctx context.Context, quiet bool) {
	if quiet {
		return
	}
	// Only check for keyring tokens (not env var tokens)
	if os.Getenv(auth.EnvVarName) != "" {
		return
	}

	metadata, err := auth.GetTokenMetadata()
	if err != nil || metadata == nil {
		return
	}

	if auth.IsTokenExpiringSoon(metadata.CreatedAt) {
		age := auth.TokenAgeDays(metadata.CreatedAt)
		_, _ = fmt.Fprintf(stderrFromContext(ctx), "Warning: Your forge token is %d days old. Consider rotating it for security.\n", age)
	}
}

// newForgeClient creates a forge API client with debug mode enabled if the
// --debug flag was set. The token is optional: public companion repos can
// be fetched anonymously.
func newForgeClient(ctx context.Context) *forge.Client {
	token, _ := auth.ResolveToken(ConfigFromContext(ctx))
	client := forge.NewClient(token)

	// Allows tests and self-hosted forges to override the API base URL.
	// Precedence: STATFLOW_FORGE_URL env var, then forge_url in config.yaml.
	if baseURL := strings.TrimSpace(os.Getenv("STATFLOW_FORGE_URL")); baseURL != "" {
		client.WithBaseURL(baseURL)
	} else if cfg := ConfigFromContext(ctx); cfg != nil && strings.TrimSpace(cfg.ForgeURL) != "" {
		client.WithBaseURL(cfg.ForgeURL)
	}

	if debug.IsDebug(ctx) {
		client.WithDebug(stderrFromContext(ctx))
	}
	return client
}

func parseColorMode(value string) ui.ColorMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "always":
		return ui.ColorAlways
	case "never":
		return ui.ColorNever
	default:
		return ui.ColorAuto
	}
}
