package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/vite"
)

// configCommand creates the config command, which prints the merged Vite
// configuration.
func (c *CLI) configCommand() *cobra.Command {
	var (
		opts   sessionOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the Vite configuration for a TYPO3 project or extension",
		Long: `Run the plugin on a partial Vite configuration and print the result as JSON.

The partial configuration is read from --vite-config (JSON, "-" for stdin).
Plugin options are read from typo3vite.toml, typo3vite.yaml or typo3vite.yml
in the Vite root; flags override them. Regular expressions in
server.cors.origin are printed as "/pattern/flags" strings, which the plugin
printed by "typo3vite shim" turns back into RegExp objects.

Examples:
  typo3vite config                                  # project in the working directory
  typo3vite config --command serve -o vite.typo3.json
  typo3vite config --target extension --root packages/site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newProgress(c.Logger)
			s, err := runSession(cmd, &opts, c.Logger)
			if err != nil {
				return err
			}
			if err := writeConfig(s.config, output, cmd.OutOrStdout()); err != nil {
				return err
			}
			if output != "" {
				p.done("Wrote " + output)
			}
			return nil
		},
	}

	opts.bind(cmd.Flags())
	completeSessionFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// writeConfig encodes cfg as indented JSON to path, or to stdout if path is
// empty.
func writeConfig(cfg *vite.UserConfig, path string, stdout io.Writer) error {
	if path == "" {
		return encodeJSON(stdout, cfg)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeJSON(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
