package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/typo3vite/pkg/plugin"
	"github.com/matzehuels/typo3vite/pkg/settings"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// sessionOpts holds the flags shared by all commands that run the plugin.
type sessionOpts struct {
	root       string // Vite root; working directory if empty
	viteConfig string // partial Vite config as JSON file, "-" for stdin
	command    string // build or serve
	mode       string // Vite mode

	target         string
	composerRoot   string
	entrypointFile string
	ignore         []string
	debug          bool
	aliases        string
	packagePaths   []string
}

// bind registers the session flags on fs.
func (o *sessionOpts) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.root, "root", "", "Vite root directory (default: working directory)")
	fs.StringVar(&o.viteConfig, "vite-config", "", `partial Vite config as JSON file ("-" reads stdin)`)
	fs.StringVar(&o.command, "command", vite.CommandBuild, "Vite command: build, serve")
	fs.StringVar(&o.mode, "mode", "", "Vite mode (default: production for build, development for serve)")

	fs.StringVarP(&o.target, "target", "t", "", "plugin target: project (default), extension")
	fs.StringVar(&o.composerRoot, "composer-root", "", "directory to start the composer lookup from")
	fs.StringVar(&o.entrypointFile, "entrypoint-file", "", "entrypoint declaration file inside extensions")
	fs.StringSliceVar(&o.ignore, "entrypoint-ignore", nil, "glob patterns excluded from entrypoints (comma-separated)")
	fs.BoolVar(&o.debug, "debug", false, "log recognized extensions, aliases and entrypoints")
	fs.StringVar(&o.aliases, "aliases", "", `extension aliases: true, false, "@", "EXT:"`)
	fs.StringSliceVar(&o.packagePaths, "composer-package-path", nil, "extension directories used instead of composer's installed.json")
}

// env returns the Vite command environment.
func (o *sessionOpts) env() (vite.ConfigEnv, error) {
	env := vite.ConfigEnv{Command: o.command, Mode: o.mode}
	switch env.Command {
	case vite.CommandBuild:
		if env.Mode == "" {
			env.Mode = "production"
		}
	case vite.CommandServe:
		if env.Mode == "" {
			env.Mode = "development"
		}
	default:
		return env, fmt.Errorf("invalid command %q: use %q or %q", o.command, vite.CommandBuild, vite.CommandServe)
	}
	return env, nil
}

// absRoot returns the absolute Vite root.
func (o *sessionOpts) absRoot() (string, error) {
	root := o.root
	if root == "" {
		root = "."
	}
	return filepath.Abs(root)
}

// pluginOptions merges the settings file in root with the flags set on fs.
// Flags win over the file.
func (o *sessionOpts) pluginOptions(fs *pflag.FlagSet, root string) (plugin.Options, string, error) {
	var (
		opts plugin.Options
		from string
	)
	file, err := settings.Load(root)
	if err != nil {
		return opts, "", err
	}
	if file != nil {
		if opts, err = file.Options(); err != nil {
			return opts, "", err
		}
		from = file.Path
	}

	if fs.Changed("target") {
		opts.Target = plugin.Target(o.target)
	}
	if fs.Changed("composer-root") {
		opts.ComposerRoot = o.composerRoot
	}
	if fs.Changed("entrypoint-file") {
		opts.EntrypointFile = o.entrypointFile
	}
	if fs.Changed("entrypoint-ignore") {
		opts.EntrypointIgnorePatterns = o.ignore
	}
	if fs.Changed("debug") {
		opts.Debug = o.debug
	}
	if fs.Changed("aliases") {
		policy, err := vite.ParseAliasPolicy(o.aliases)
		if err != nil {
			return opts, "", err
		}
		opts.Aliases = &policy
	}
	if fs.Changed("composer-package-path") {
		opts.ComposerPackagePaths = o.packagePaths
	}
	return opts, from, nil
}

// readViteConfig loads the partial Vite config. No file means an empty
// config.
func (o *sessionOpts) readViteConfig(stdin io.Reader) (*vite.UserConfig, error) {
	var (
		data []byte
		err  error
	)
	switch o.viteConfig {
	case "":
		return &vite.UserConfig{}, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(o.viteConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("read vite config: %w", err)
	}
	cfg, err := vite.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse vite config %s: %w", o.viteConfig, err)
	}
	return cfg, nil
}

// session is the outcome of one plugin run.
type session struct {
	root     string
	settings string // options file that was applied, if any
	options  plugin.Options
	config   *vite.UserConfig
	report   plugin.Report
}

// runSession runs both plugin hooks on the partial Vite config, the way one
// Vite invocation would.
func runSession(cmd *cobra.Command, o *sessionOpts, logger *log.Logger) (*session, error) {
	root, err := o.absRoot()
	if err != nil {
		return nil, err
	}
	env, err := o.env()
	if err != nil {
		return nil, err
	}
	opts, from, err := o.pluginOptions(cmd.Flags(), root)
	if err != nil {
		return nil, err
	}
	cfg, err := o.readViteConfig(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	if cfg.Root == nil {
		cfg.Root = vite.String(root)
	} else if !filepath.IsAbs(*cfg.Root) {
		cfg.Root = vite.String(filepath.Join(root, *cfg.Root))
	}

	if from != "" {
		logger.Debug("loaded settings", "file", from)
	}

	p := plugin.New(opts, logger)
	if err := plugin.Run(p, cfg, env); err != nil {
		return nil, err
	}
	return &session{
		root:     root,
		settings: from,
		options:  opts,
		config:   cfg,
		report:   p.Report(),
	}, nil
}
