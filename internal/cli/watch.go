package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/entrypoint"
	"github.com/matzehuels/typo3vite/pkg/settings"
	"github.com/matzehuels/typo3vite/pkg/watch"
)

// watchCommand creates the watch command, which regenerates the Vite
// configuration whenever one of its inputs changes.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts     sessionOpts
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the Vite configuration when extensions change",
		Long: `Write the Vite configuration like "config" does and rewrite it whenever
composer manifests, composer's installed.json, entrypoint declarations,
the settings file or the set of files inside an extension change.

Examples:
  typo3vite watch -o vite.typo3.json
  typo3vite watch --command serve --vite-config vite.user.json -o vite.typo3.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.viteConfig == "-" {
				return errors.New("watch cannot re-read the vite config from stdin, pass a file")
			}
			return c.watch(cmd, &opts, output, debounce)
		},
	}

	opts.bind(cmd.Flags())
	completeSessionFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")

	return cmd
}

// watch regenerates the config until the command context is cancelled. The
// watcher is rebuilt whenever the set of watched directories changes, e.g.
// after an extension was installed.
func (c *CLI) watch(cmd *cobra.Command, opts *sessionOpts, output string, debounce time.Duration) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := c.emit(cmd, opts, output)
	if err != nil {
		return err
	}

	for {
		plan := newWatchPlan(s, opts, output)
		inner, cancel := context.WithCancel(ctx)

		var restart *session
		w, err := watch.New(watch.Config{
			Roots:    plan.roots,
			Patterns: plan.patterns,
			Ignore:   plan.ignore,
			Debounce: debounce,
			Logger:   c.Logger,
			OnChange: func(_ context.Context, changed []string) error {
				c.Logger.Debug("change detected", "files", changed)
				next, err := c.emit(cmd, opts, output)
				if err != nil {
					return err
				}
				if newWatchPlan(next, opts, output).key() != plan.key() {
					restart = next
					cancel()
				}
				return nil
			},
		})
		if err != nil {
			cancel()
			return err
		}

		c.Logger.Info("Watching for changes", "directories", len(plan.roots))
		err = w.Run(inner)
		cancel()
		if err != nil {
			return err
		}
		if ctx.Err() != nil || restart == nil {
			return nil
		}
		s = restart
	}
}

// emit runs one plugin session and writes its config.
func (c *CLI) emit(cmd *cobra.Command, opts *sessionOpts, output string) (*session, error) {
	p := newProgress(c.Logger)
	s, err := runSession(cmd, opts, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := writeConfig(s.config, output, cmd.OutOrStdout()); err != nil {
		return nil, err
	}
	target := output
	if target == "" {
		target = "stdout"
	}
	p.done(fmt.Sprintf("Wrote %s (%d entrypoints)", target, len(s.report.Entrypoints)))
	return s, nil
}

// watchPlan lists what a session depends on.
type watchPlan struct {
	roots    []watch.Root
	patterns []string
	ignore   []string
}

func newWatchPlan(s *session, opts *sessionOpts, output string) watchPlan {
	var plan watchPlan

	dirs := map[string]bool{}
	add := func(dir string, recursive bool) {
		if dir == "" {
			return
		}
		dirs[dir] = dirs[dir] || recursive
	}

	add(s.root, false)
	if ctx := s.report.Context; ctx.Path != "" {
		add(ctx.Path, false)
		if ctx.IsProject() {
			add(filepath.Dir(composer.InstalledFile(ctx)), false)
		}
	}
	for _, ext := range s.report.Extensions {
		add(ext.Path, true)
	}
	if opts.viteConfig != "" {
		if abs, err := filepath.Abs(opts.viteConfig); err == nil {
			add(filepath.Dir(abs), false)
			plan.patterns = append(plan.patterns, globPath(abs))
		}
	}
	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		plan.roots = append(plan.roots, watch.Root{Path: dir, Recursive: dirs[dir]})
	}

	declaration := s.options.EntrypointFile
	if declaration == "" {
		declaration = entrypoint.DefaultFile
	}
	plan.patterns = append(plan.patterns,
		"**/"+composer.ManifestFile,
		"**/composer/installed.json",
		"**/{"+settings.TOMLFile+","+settings.YAMLFile+","+settings.YMLFile+"}",
		"**/"+filepath.ToSlash(declaration),
	)

	plan.ignore = append(plan.ignore, s.options.EntrypointIgnorePatterns...)
	if output != "" {
		if abs, err := filepath.Abs(output); err == nil {
			plan.ignore = append(plan.ignore, globPath(abs))
		}
	}
	if b := s.config.Build; b != nil && b.OutDir != nil && *b.OutDir != "" {
		outDir := *b.OutDir
		if !filepath.IsAbs(outDir) && s.config.Root != nil {
			outDir = filepath.Join(*s.config.Root, outDir)
		}
		plan.ignore = append(plan.ignore, globPath(outDir)+"/**")
	}
	return plan
}

// key identifies the watched directories of a plan.
func (p watchPlan) key() string {
	parts := make([]string, 0, len(p.roots))
	for _, r := range p.roots {
		parts = append(parts, fmt.Sprintf("%s:%t", r.Path, r.Recursive))
	}
	return strings.Join(parts, "\n")
}

// globPath turns an absolute path into the form watch patterns are matched
// against.
func globPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
}
