// Package plugin injects TYPO3 specific settings into a Vite configuration.
//
// A Plugin mirrors the two configuration hooks of a Vite plugin:
//
//  1. Config mutates the user configuration before Vite resolves it. It
//     applies defaults only where the user left an option unset, discovers
//     extensions and their entrypoints and merges aliases and inputs into
//     the configuration.
//  2. ConfigResolved inspects the final configuration, warns about settings
//     that break the TYPO3 side and prints a debug report on request.
//
// Each plugin value belongs to one session; create a new one per run:
//
//	p := plugin.New(plugin.Options{Debug: true}, logger)
//	if err := plugin.Run(p, cfg, vite.ConfigEnv{Command: vite.CommandBuild}); err != nil {
//	    return err
//	}
package plugin

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// Plugin is one Vite plugin session.
type Plugin interface {
	// Name returns the plugin name as registered with Vite.
	Name() string
	// Applies reports whether the plugin takes part in the given command.
	Applies(env vite.ConfigEnv) bool
	// Config mutates cfg before it is resolved.
	Config(cfg *vite.UserConfig, env vite.ConfigEnv) error
	// ConfigResolved inspects the final configuration.
	ConfigResolved(cfg *vite.UserConfig)
	// Report returns what the session discovered.
	Report() Report
}

// Report summarises the discovery of one session.
type Report struct {
	Context     composer.Context   // composer package the session worked on
	Extensions  []composer.Context // extensions contributing entrypoints
	Aliases     []vite.Alias       // aliases generated for Extensions
	Entrypoints []string           // absolute entrypoint paths
}

// New creates the plugin for opts.Target. A nil logger logs to stderr.
func New(opts Options, logger *log.Logger) Plugin {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
		})
	}
	if opts.Target == TargetExtension {
		return &Extension{options: opts, logger: logger.WithPrefix(ExtensionPluginName)}
	}
	return &Project{options: opts, logger: logger.WithPrefix(ProjectPluginName)}
}

// Run executes both hooks of p on cfg, the way Vite would for env.
// Plugins that do not apply to env leave cfg untouched.
func Run(p Plugin, cfg *vite.UserConfig, env vite.ConfigEnv) error {
	if !p.Applies(env) {
		return nil
	}
	if err := p.Config(cfg, env); err != nil {
		return err
	}
	p.ConfigResolved(cfg)
	return nil
}

// rootOf returns the absolute Vite root of cfg; Vite defaults it to the
// working directory.
func rootOf(cfg *vite.UserConfig) string {
	root := ""
	if cfg.Root != nil {
		root = *cfg.Root
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// applyCommonDefaults sets the options both targets share.
func applyCommonDefaults(cfg *vite.UserConfig) {
	// Relative asset paths in generated CSS
	if cfg.Base == nil {
		cfg.Base = vite.String("")
	}
	// TYPO3 serves static files itself
	if cfg.PublicDir == nil {
		cfg.PublicDir = vite.Off()
	}
	css := cfg.EnsureCSS()
	if css.DevSourcemap == nil {
		css.DevSourcemap = vite.Bool(true)
	}
}

// generatedAliases lists the aliases policy yields for extensions.
func generatedAliases(extensions []composer.Context, policy vite.AliasPolicy) []vite.Alias {
	var aliases []vite.Alias
	for _, ext := range extensions {
		aliases = append(aliases, vite.ExtensionAliases(ext, policy)...)
	}
	return aliases
}
