package cli

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/buildinfo"
)

// ShimFile is the file name suggested for the Vite plugin printed by the
// shim command.
const ShimFile = "vite.typo3.mjs"

//go:embed tmpl/vite.typo3.mjs
var shimSource string

// shimCommand creates the shim command, which prints the Vite plugin that
// calls "typo3vite config" from vite.config.js.
func (c *CLI) shimCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "shim",
		Short: "Print the Vite plugin that applies the typo3vite configuration",
		Long: `Print a Vite plugin module that runs "typo3vite config" from vite.config.js.

The plugin passes the Vite command, mode and user configuration to typo3vite,
merges the result into the configuration and turns the "/pattern/flags"
strings of server.cors.origin back into RegExp objects.

Examples:
  typo3vite shim -o ` + ShimFile + `

  // vite.config.js
  import { defineConfig } from "vite";
  import typo3 from "./` + ShimFile + `";
  export default defineConfig({ plugins: [typo3()] });`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := buildinfo.Banner() + "\n" + shimSource
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), src)
				return err
			}
			if err := os.WriteFile(output, []byte(src), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			newProgress(c.Logger).done("Wrote " + output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
