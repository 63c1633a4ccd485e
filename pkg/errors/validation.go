package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidateEntrypointFile validates the location of the entrypoint declaration
// file inside an extension. It must be a relative path that stays inside the
// extension directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidateEntrypointFile(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "entrypoint file cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "entrypoint file path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "entrypoint file path contains invalid characters")
		}
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "entrypoint file must be relative to the extension (got %q)", path)
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "entrypoint file cannot leave the extension directory (got %q)", path)
		}
	}

	return nil
}

// ValidatePatterns checks that every entry is a syntactically valid
// doublestar glob. kind names the option in the returned error.
func ValidatePatterns(patterns []string, kind string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return New(ErrCodeInvalidPattern, "invalid %s pattern %q", kind, p)
		}
	}
	return nil
}
