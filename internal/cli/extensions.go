package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/plugin"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// extensionInfo is the JSON form of a recognized extension.
type extensionInfo struct {
	Key     string   `json:"key"`
	Path    string   `json:"path"`
	Aliases []string `json:"aliases"`
}

// entrypointInfo is the JSON form of an entrypoint.
type entrypointInfo struct {
	Path     string `json:"path"`
	Relative string `json:"relative"`
}

// extensionsCommand lists the extensions contributing entrypoints.
func (c *CLI) extensionsCommand() *cobra.Command {
	var (
		opts   sessionOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List TYPO3 extensions with Vite entrypoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runSession(cmd, &opts, c.Logger)
			if err != nil {
				return err
			}
			infos := extensionInfos(s.report)

			out := cmd.OutOrStdout()
			if asJSON {
				return encodeJSON(out, infos)
			}
			if len(infos) == 0 {
				printWarning(out, "No extensions with entrypoint declarations found")
				return nil
			}
			printSuccess(out, "%d extensions", len(infos))
			for _, info := range infos {
				printItem(out, StyleHighlight.Render(info.Key))
				printKeyValue(out, "path", relativePath(s.report.Context.Path, info.Path))
				if len(info.Aliases) > 0 {
					printKeyValue(out, "aliases", joinList(info.Aliases))
				}
			}
			return nil
		},
	}

	opts.bind(cmd.Flags())
	completeSessionFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// entrypointsCommand lists the entrypoints the plugin adds to the config.
func (c *CLI) entrypointsCommand() *cobra.Command {
	var (
		opts   sessionOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "entrypoints",
		Short: "List Vite entrypoints declared by TYPO3 extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runSession(cmd, &opts, c.Logger)
			if err != nil {
				return err
			}
			infos := make([]entrypointInfo, 0, len(s.report.Entrypoints))
			for _, e := range s.report.Entrypoints {
				infos = append(infos, entrypointInfo{Path: e, Relative: relativePath(s.report.Context.Path, e)})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return encodeJSON(out, infos)
			}
			if len(infos) == 0 {
				printWarning(out, "No entrypoints found")
				return nil
			}
			printSuccess(out, "%d entrypoints", len(infos))
			for _, info := range infos {
				printItem(out, info.Relative)
			}
			return nil
		},
	}

	opts.bind(cmd.Flags())
	completeSessionFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// extensionInfos pairs every extension of r with the aliases generated for it.
func extensionInfos(r plugin.Report) []extensionInfo {
	infos := make([]extensionInfo, 0, len(r.Extensions))
	for _, ext := range r.Extensions {
		infos = append(infos, extensionInfo{
			Key:     ext.ExtensionKey,
			Path:    ext.Path,
			Aliases: aliasesOf(ext, r.Aliases),
		})
	}
	return infos
}

// aliasesOf returns the finds of all aliases pointing into ext.
func aliasesOf(ext composer.Context, aliases []vite.Alias) []string {
	own := vite.ExtensionAliases(ext, vite.AliasesBoth)
	var finds []string
	for _, a := range aliases {
		for _, o := range own {
			if a.Same(o) {
				finds = append(finds, a.Find)
			}
		}
	}
	if finds == nil {
		finds = []string{}
	}
	return finds
}

// relativePath shortens path to be relative to base when it lies below base.
func relativePath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
