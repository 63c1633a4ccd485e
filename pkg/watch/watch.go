// Package watch reports changes to the files a Vite configuration is derived
// from.
//
// A Watcher observes a set of root directories and fires a debounced
// callback with the changed paths. Files matching one of the configured
// patterns trigger on every event; any other file below a recursive root
// only triggers when it is created, removed or renamed, since that can
// change the result of an entrypoint glob.
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires.
const DefaultDebounce = 300 * time.Millisecond

// DefaultIgnores never trigger callbacks and are not descended into.
var DefaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Root is a directory to observe.
type Root struct {
	Path      string
	Recursive bool
}

// Config holds the parameters of a Watcher.
type Config struct {
	Roots []Root

	// Patterns select files whose content matters. They are matched against
	// the slash-separated absolute path without its leading slash, so
	// "**/composer.json" matches every manifest.
	Patterns []string

	// Ignore is merged with DefaultIgnores.
	Ignore []string

	// Debounce falls back to DefaultDebounce when not positive.
	Debounce time.Duration

	// OnChange receives the absolute paths changed within one debounce
	// window, sorted.
	OnChange func(ctx context.Context, changed []string) error

	Logger *log.Logger
}

// Watcher fires Config.OnChange for relevant file changes. Run may only be
// called once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	roots    []Root
	debounce time.Duration
	logger   *log.Logger
	started  atomic.Bool
}

// New validates cfg and registers all roots with fsnotify. Roots that do not
// exist are skipped.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(DefaultIgnores), cfg.Ignore...),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.Default()
	}

	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root.Path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: resolve %q: %w", root.Path, err)
		}
		root.Path = abs
		if err := w.addRoot(root); err != nil {
			fsw.Close()
			return nil, err
		}
		w.roots = append(w.roots, root)
	}
	return w, nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		// Skip while the previous callback is running and retry later, so
		// the pending set is not lost.
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("watch callback failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}
			if !w.relevant(evt) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			w.logger.Debug("file changed", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// relevant reports whether evt should schedule the callback.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Op == fsnotify.Chmod || w.isIgnored(evt.Name) {
		return false
	}
	if w.matchesPatterns(evt.Name) {
		return true
	}
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	root, ok := w.rootOf(evt.Name)
	return ok && root.Recursive
}

// rootOf returns the innermost root containing path.
func (w *Watcher) rootOf(path string) (Root, bool) {
	var (
		best  Root
		found bool
	)
	for _, root := range w.roots {
		if path != root.Path && !strings.HasPrefix(path, root.Path+string(filepath.Separator)) {
			continue
		}
		if !found || len(root.Path) > len(best.Path) {
			best, found = root, true
		}
	}
	return best, found
}

func (w *Watcher) addRoot(root Root) error {
	info, err := os.Stat(root.Path)
	if err != nil || !info.IsDir() {
		w.logger.Debug("skipping watch root", "path", root.Path)
		return nil
	}
	if !root.Recursive {
		if err := w.fsw.Add(root.Path); err != nil {
			return fmt.Errorf("watch: add %q: %w", root.Path, err)
		}
		return nil
	}
	return filepath.WalkDir(root.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.isIgnored(path + string(filepath.Separator)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %q: %w", path, err)
		}
		return nil
	})
}

// maybeAddDir extends recursive roots to directories created after start.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if root, ok := w.rootOf(path); !ok || !root.Recursive {
		return
	}
	if err := w.addRoot(Root{Path: path, Recursive: true}); err != nil {
		w.logger.Warn("watch new directory", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnored(path string) bool {
	return matchAny(w.ignores, path)
}

func (w *Watcher) matchesPatterns(path string) bool {
	return matchAny(w.cfg.Patterns, path)
}

// matchAny matches path against patterns in the normalised form described at
// Config.Patterns.
func matchAny(patterns []string, path string) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pattern)
		}
	}
	return nil
}

// isFatal classifies errors caused by exhausted inotify watches or file
// descriptors, after which no further events arrive.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
