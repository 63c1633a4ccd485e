package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/plugin"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for typo3vite.

To load completions:

Bash:
  $ source <(typo3vite completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ typo3vite completion bash > /etc/bash_completion.d/typo3vite
  # macOS:
  $ typo3vite completion bash > $(brew --prefix)/etc/bash_completion.d/typo3vite

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ typo3vite completion zsh > "${fpath[1]}/_typo3vite"

Fish:
  $ typo3vite completion fish | source

  # To load completions for each session, execute once:
  $ typo3vite completion fish > ~/.config/fish/completions/typo3vite.fish

PowerShell:
  PS> typo3vite completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// sessionFlagValues lists the fixed values of the session flags.
var sessionFlagValues = map[string][]string{
	"command": {vite.CommandBuild, vite.CommandServe},
	"mode":    {"development", "production"},
	"target":  {string(plugin.TargetProject), string(plugin.TargetExtension)},
	"aliases": {"true", "false", "@", "EXT:"},
}

// completeSessionFlags registers value completions for the flags bound by
// sessionOpts.bind.
func completeSessionFlags(cmd *cobra.Command) {
	for name, values := range sessionFlagValues {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	for _, name := range []string{"root", "composer-root", "composer-package-path"} {
		_ = cmd.MarkFlagDirname(name)
	}
	_ = cmd.MarkFlagFilename("vite-config", "json")
}
