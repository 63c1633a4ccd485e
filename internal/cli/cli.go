// Package cli implements the typo3vite command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "typo3vite"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "typo3vite configures Vite for TYPO3 composer projects",
		Long: `typo3vite discovers TYPO3 extensions of a composer project, collects the
Vite entrypoints they declare and merges output directory, inputs, aliases and
dev server settings into a Vite configuration.

The merged configuration is printed as JSON. "typo3vite shim" prints a Vite
plugin that applies it from vite.config.js.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.configCommand())
	root.AddCommand(c.extensionsCommand())
	root.AddCommand(c.entrypointsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.shimCommand())
	root.AddCommand(c.completionCommand())

	return root
}
