package plugin

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/entrypoint"
	"github.com/matzehuels/typo3vite/pkg/errors"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// ProjectPluginName is the name of the project plugin.
const ProjectPluginName = "vite-plugin-typo3-project"

// Project configures Vite for a whole composer project: every installed
// extension with an entrypoint declaration contributes inputs and aliases.
type Project struct {
	options Options
	logger  *log.Logger

	config      *Config
	extensions  []composer.Context
	aliases     []vite.Alias
	entrypoints []string
}

func (p *Project) Name() string { return ProjectPluginName }

// Applies reports true: projects are configured for build and dev server.
func (p *Project) Applies(env vite.ConfigEnv) bool { return true }

// Config resolves the plugin configuration and mutates cfg. When no composer
// project can be determined, the error is logged and cfg is left untouched.
// A missing or broken installed-package index is returned as error.
func (p *Project) Config(cfg *vite.UserConfig, env vite.ConfigEnv) error {
	pc, err := InitializeConfig(p.options, rootOf(cfg))
	if err != nil {
		p.logger.Error(styleWarning.Render(errors.UserMessage(err)))
		return nil
	}
	p.config = pc
	project := pc.Context

	if env.Command == vite.CommandServe && env.Mode == "production" {
		warn(p.logger, "The dev server is running in production mode, which is not supported by TYPO3.")
	}

	applyCommonDefaults(cfg)

	build := cfg.EnsureBuild()
	if build.Manifest == nil {
		build.Manifest = vite.On()
	}
	if build.OutDir == nil {
		build.OutDir = vite.String(filepath.Join(project.Path, project.WebDir, "_assets", "vite"))
	}

	applyServerDefaults(cfg, project)

	if len(pc.ComposerPackagePaths) > 0 {
		p.extensions, err = composer.ContextsFromPaths(project.Path, pc.ComposerPackagePaths, pc.EntrypointFile)
	} else {
		p.extensions, err = composer.ResolveExtensions(project, pc.EntrypointFile)
	}
	if err != nil {
		return err
	}

	resolve := cfg.EnsureResolve()
	resolve.Alias = vite.AddAliases(resolve.Alias, p.extensions, pc.Aliases)
	p.aliases = generatedAliases(p.extensions, pc.Aliases)

	p.entrypoints, err = entrypoint.Find(p.extensions, pc.EntrypointFile, pc.EntrypointIgnorePatterns)
	if err != nil {
		return err
	}
	if len(p.entrypoints) == 0 {
		warn(p.logger, noEntrypointsWarning)
	}

	// Entrypoints listed by the user stay in place.
	rollup := build.EnsureRollupOptions()
	rollup.Input = vite.AddInputs(rollup.Input, p.entrypoints)

	p.logger.Debug("configured project", "path", project.Path, "extensions", len(p.extensions), "entrypoints", len(p.entrypoints))
	return nil
}

// ConfigResolved warns about a disabled manifest and prints the debug
// report if requested.
func (p *Project) ConfigResolved(cfg *vite.UserConfig) {
	if p.config == nil {
		return
	}
	if cfg.ManifestDisabled() {
		warn(p.logger, "'config.build.manifest' is set to 'false', which might lead to problems with TYPO3.")
	}
	if p.config.Debug {
		OutputDebugInformation(p.logger, p.Report())
	}
}

func (p *Project) Report() Report {
	r := Report{Extensions: p.extensions, Aliases: p.aliases, Entrypoints: p.entrypoints}
	if p.config != nil {
		r.Context = p.config.Context
	}
	return r
}
