// Package entrypoint expands the Vite entrypoint declarations of TYPO3
// extensions into absolute file paths.
//
// A declaration is a JSON array of glob patterns stored inside the extension,
// by default at Configuration/ViteEntrypoints.json. Patterns are resolved
// relative to the declaration file and matched with doublestar, so "**" spans
// directories:
//
//	[
//	    "../Resources/Private/JavaScript/*.entry.js",
//	    "../Resources/Private/Scss/Main.scss"
//	]
package entrypoint

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/errors"
)

// DefaultFile is the declaration file looked up inside every extension.
const DefaultFile = "Configuration/ViteEntrypoints.json"

// DefaultIgnorePatterns exclude dependency and version control directories.
var DefaultIgnorePatterns = []string{"**/node_modules/**", "**/.git/**"}

// Find returns the entrypoints declared by extensions, as absolute paths.
//
// Extensions are processed in order and extensions without a declaration
// file are skipped. Within one extension the order of the patterns is kept;
// matches of a single pattern are sorted. Paths matching one of
// ignorePatterns are dropped. Results are not de-duplicated across
// extensions.
//
// A declaration that is not a JSON array of strings fails with
// ErrCodeInvalidJSON.
func Find(extensions []composer.Context, file string, ignorePatterns []string) ([]string, error) {
	if err := errors.ValidatePatterns(ignorePatterns, "ignore"); err != nil {
		return nil, err
	}

	var entrypoints []string
	for _, ext := range extensions {
		declaration := filepath.Join(ext.Path, file)
		if info, err := os.Stat(declaration); err != nil || info.IsDir() {
			continue
		}

		patterns, err := ReadDeclaration(declaration)
		if err != nil {
			return nil, err
		}

		base := filepath.Dir(declaration)
		for _, pattern := range patterns {
			matches, err := expand(base, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if !ignored(base, m, ignorePatterns) {
					entrypoints = append(entrypoints, m)
				}
			}
		}
	}
	return entrypoints, nil
}

// ReadDeclaration reads the glob patterns of an entrypoint declaration file.
func ReadDeclaration(path string) ([]string, error) {
	var patterns []string
	if err := composer.ReadJSONFile(path, &patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

// expand resolves pattern against base and returns the matching regular
// files, sorted.
func expand(base, pattern string) ([]string, error) {
	abs := pattern
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, pattern)
	}

	matches, err := doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "expand entrypoint pattern %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// ignored reports whether path matches one of patterns. Patterns are checked
// against the path relative to base and against the absolute path, so
// "**/node_modules/**" also catches dependencies outside of base.
func ignored(base, path string, patterns []string) bool {
	candidates := []string{strings.TrimPrefix(filepath.ToSlash(path), "/")}
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		candidates = append(candidates, filepath.ToSlash(rel))
	}

	for _, pattern := range patterns {
		for _, c := range candidates {
			if ok, err := doublestar.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
