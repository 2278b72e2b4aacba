package cmd

import "github.com/spf13/cobra"

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sfdev.

To load completions:

Bash:
  $ source <(sfdev completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ sfdev completion bash > /etc/bash_completion.d/sfdev
  # macOS:
  $ sfdev completion bash > $(brew --prefix)/etc/bash_completion.d/sfdev

Zsh:
  $ source <(sfdev completion zsh)
  # To load completions for each session, execute once:
  $ sfdev completion zsh > "${fpath[1]}/_sfdev"

Fish:
  $ sfdev completion fish | source
  # To load completions for each session, execute once:
  $ sfdev completion fish > ~/.config/fish/completions/sfdev.fish

PowerShell:
  PS> sfdev completion powershell | Out-String | Invoke-Expression
  # To load completions for each session, execute once:
  PS> sfdev completion powershell > sfdev.ps1
  # and source this file from your PowerShell profile.
`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletion(stdoutFromContext(cmd.Context()))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate zsh completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(stdoutFromContext(cmd.Context()))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(stdoutFromContext(cmd.Context()), true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "Generate powershell completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenPowerShellCompletionWithDesc(stdoutFromContext(cmd.Context()))
		},
	})

	return cmd
}
