package plugin

import (
	"path/filepath"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/entrypoint"
	"github.com/matzehuels/typo3vite/pkg/errors"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// Target selects what the Vite configuration is built for.
type Target string

const (
	// TargetProject bundles the entrypoints of every installed extension of
	// a composer project.
	TargetProject Target = "project"

	// TargetExtension bundles a single extension in library mode.
	TargetExtension Target = "extension"
)

// Options are the user-facing plugin options. Zero values select defaults.
type Options struct {
	Target                   Target            `json:"target,omitempty"`
	ComposerRoot             string            `json:"composerRoot,omitempty"`
	EntrypointFile           string            `json:"entrypointFile,omitempty"`
	EntrypointIgnorePatterns []string          `json:"entrypointIgnorePatterns,omitempty"`
	Debug                    bool              `json:"debug,omitempty"`
	Aliases                  *vite.AliasPolicy `json:"aliases,omitempty"`
	ComposerPackagePaths     []string          `json:"composerPackagePaths,omitempty"`
}

// Config is the resolved configuration of one plugin session.
type Config struct {
	Target                   Target
	EntrypointFile           string
	EntrypointIgnorePatterns []string
	Debug                    bool
	Aliases                  vite.AliasPolicy
	ComposerPackagePaths     []string

	// Context is the composer package the session works on: the root
	// project for TargetProject, the nearest extension for TargetExtension.
	Context composer.Context
}

// InitializeConfig applies defaults to opts, validates them and determines
// the composer context for the target by walking up from root (or from
// opts.ComposerRoot, if set).
func InitializeConfig(opts Options, root string) (*Config, error) {
	cfg := &Config{
		Target:                   opts.Target,
		EntrypointFile:           opts.EntrypointFile,
		EntrypointIgnorePatterns: opts.EntrypointIgnorePatterns,
		Debug:                    opts.Debug,
		Aliases:                  vite.AliasesBoth,
		ComposerPackagePaths:     opts.ComposerPackagePaths,
	}
	if cfg.Target == "" {
		cfg.Target = TargetProject
	}
	if cfg.EntrypointFile == "" {
		cfg.EntrypointFile = entrypoint.DefaultFile
	}
	if cfg.EntrypointIgnorePatterns == nil {
		cfg.EntrypointIgnorePatterns = entrypoint.DefaultIgnorePatterns
	}
	if opts.Aliases != nil {
		cfg.Aliases = *opts.Aliases
	}

	var typ string
	switch cfg.Target {
	case TargetProject:
		typ = composer.TypeProject
	case TargetExtension:
		typ = composer.TypeExtension
	default:
		return nil, errors.New(errors.ErrCodeInvalidTarget,
			"invalid target %q: use %q or %q", cfg.Target, TargetProject, TargetExtension)
	}
	if err := errors.ValidateEntrypointFile(cfg.EntrypointFile); err != nil {
		return nil, err
	}
	if err := errors.ValidatePatterns(cfg.EntrypointIgnorePatterns, "entrypoint ignore"); err != nil {
		return nil, err
	}

	start := root
	if opts.ComposerRoot != "" {
		start = opts.ComposerRoot
		if !filepath.IsAbs(start) {
			start = filepath.Join(root, start)
		}
	}

	chain, err := composer.CollectChain(start)
	if err != nil {
		return nil, err
	}

	ctx, ok := chain.Find(typ)
	if !ok {
		if cfg.Target == TargetProject {
			return nil, errors.New(errors.ErrCodeProjectNotFound,
				"No composer project could be found in parent directories. Make sure to set \"type\": \"project\" in your root composer.json.")
		}
		return nil, errors.New(errors.ErrCodeExtensionNotFound,
			"No extension composer file could be found in parent directories. Make sure that your extension has a valid composer file.")
	}
	cfg.Context = ctx
	return cfg, nil
}
