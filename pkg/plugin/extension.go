package plugin

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/entrypoint"
	"github.com/matzehuels/typo3vite/pkg/errors"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// ExtensionPluginName is the name of the extension plugin.
const ExtensionPluginName = "vite-plugin-typo3-extension"

// Extension configures Vite to build a single extension in library mode,
// writing its assets into the extension itself.
type Extension struct {
	options Options
	logger  *log.Logger

	config      *Config
	extension   composer.Context
	aliases     []vite.Alias
	entrypoints []string
}

func (e *Extension) Name() string { return ExtensionPluginName }

// Applies reports whether env is a build; extensions ship prebuilt assets
// and have no dev server.
func (e *Extension) Applies(env vite.ConfigEnv) bool {
	return env.Command == vite.CommandBuild
}

// Config resolves the plugin configuration and mutates cfg. When no
// extension manifest can be found, the error is logged and cfg is left
// untouched.
func (e *Extension) Config(cfg *vite.UserConfig, env vite.ConfigEnv) error {
	pc, err := InitializeConfig(e.options, rootOf(cfg))
	if err != nil {
		e.logger.Error(styleWarning.Render(errors.UserMessage(err)))
		return nil
	}
	e.config = pc
	e.extension = pc.Context

	applyCommonDefaults(cfg)

	build := cfg.EnsureBuild()
	if build.OutDir == nil {
		build.OutDir = vite.String(filepath.Join(e.extension.Path, "Resources", "Public", "Vite"))
	}

	extensions := []composer.Context{e.extension}

	resolve := cfg.EnsureResolve()
	resolve.Alias = vite.AddAliases(resolve.Alias, extensions, pc.Aliases)
	e.aliases = generatedAliases(extensions, pc.Aliases)

	e.entrypoints, err = entrypoint.Find(extensions, pc.EntrypointFile, pc.EntrypointIgnorePatterns)
	if err != nil {
		return err
	}
	if len(e.entrypoints) == 0 {
		warn(e.logger, noEntrypointsWarning)
	}

	lib := build.Lib
	if lib == nil || lib.Disabled {
		lib = &vite.LibraryOptions{}
	}
	lib.Entry = vite.AddInputs(lib.Entry, e.entrypoints)
	build.Lib = lib

	e.logger.Debug("configured extension", "key", e.extension.ExtensionKey, "entrypoints", len(e.entrypoints))
	return nil
}

// ConfigResolved prints the debug report if requested.
func (e *Extension) ConfigResolved(cfg *vite.UserConfig) {
	if e.config != nil && e.config.Debug {
		OutputDebugInformation(e.logger, e.Report())
	}
}

func (e *Extension) Report() Report {
	if e.config == nil {
		return Report{}
	}
	return Report{
		Context:     e.config.Context,
		Extensions:  []composer.Context{e.extension},
		Aliases:     e.aliases,
		Entrypoints: e.entrypoints,
	}
}
