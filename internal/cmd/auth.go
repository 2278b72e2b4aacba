package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/statflow/devkit/internal/auth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage forge authentication",
		Long:  `Manage the forge API token used for fetching companion repositories. Tokens are securely stored in the system keyring.`,
	}

	cmd.AddCommand(newAuthSetTokenCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthRemoveCmd())

	return cmd
}

func newAuthSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token",
		Short: "Store a forge API token in the system keyring",
		Long: `Store a forge API token in your system keyring:
  - macOS: Keychain
  - Linux: Secret Service (GNOME Keyring, KWallet), with encrypted file fallback
  - Windows: Credential Manager

You will be prompted to enter your token interactively. Input will be hidden.

A token is only needed for private companion repositories; public repos
can be fetched without one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Prompt for token (use stderr for prompts so stdout is clean)
			_, _ = fmt.Fprint(stderrFromContext(ctx), "Enter your forge API token: ")

			// Read token with hidden input
			tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			_, _ = fmt.Fprintln(stderrFromContext(ctx)) // Print newline after hidden input

			token := strings.TrimSpace(string(tokenBytes))
			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			if err := auth.StoreToken(token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"status":  "success",
				"message": "Token stored successfully in keyring",
			})
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Display whether a forge API token is configured.

Shows:
  - Whether a token is available
  - Token source (keyring or environment variable)
  - Token age and rotation warnings

Does not display the actual token value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			hasToken := auth.HasToken()

			var tokenSource string
			fromEnvVar := false
			if hasToken {
				if token := os.Getenv(auth.EnvVarName); token != "" {
					tokenSource = "environment variable (" + auth.EnvVarName + ")"
					fromEnvVar = true
				} else {
					tokenSource = "system keyring"
				}
			} else {
				tokenSource = "none"
			}

			result := map[string]interface{}{
				"authenticated": hasToken,
				"token_source":  tokenSource,
			}

			// Add token age info if available
			if hasToken && !fromEnvVar {
				if metadata, err := auth.GetTokenMetadata(); err == nil && metadata != nil {
					if !metadata.CreatedAt.IsZero() {
						age := auth.TokenAgeDays(metadata.CreatedAt)
						result["token_age_days"] = age
						result["token_created_at"] = metadata.CreatedAt.Format("2006-01-02")
						result["token_age"] = auth.FormatTokenAge(metadata.CreatedAt)

						if auth.IsTokenExpiringSoon(metadata.CreatedAt) {
							result["warning"] = fmt.Sprintf("Token is %d days old. Consider rotating for security.", age)
						}
					}
				}
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, result)
		},
	}
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored forge token",
		Long: `Remove the stored forge token from the system keyring.

Note: If you have set the STATFLOW_TOKEN environment variable,
you will need to unset it separately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"status":  "success",
				"message": "Token removed from keyring",
			})
		},
	}
}
