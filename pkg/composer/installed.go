package composer

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/matzehuels/typo3vite/pkg/errors"
)

// InstalledFile returns the location of the installed-package index of a
// project: <project>/<vendor-dir>/composer/installed.json.
func InstalledFile(project Context) string {
	vendorDir := project.VendorDir
	if vendorDir == "" {
		vendorDir = defaultVendorDir
	}
	if filepath.IsAbs(vendorDir) {
		return filepath.Join(vendorDir, "composer", "installed.json")
	}
	return filepath.Join(project.Path, vendorDir, "composer", "installed.json")
}

// ResolveExtensions lists the TYPO3 extensions installed into project that
// ship an entrypoint declaration at entrypointFile. Extensions keep the order
// of the installed-package index; extensions without declaration are
// dropped silently.
//
// A missing index fails with ErrCodeComposerNotInstalled, an index without
// a "packages" list with ErrCodeInvalidComposerState.
func ResolveExtensions(project Context, entrypointFile string) ([]Context, error) {
	installed := InstalledFile(project)
	if !fileExists(installed) {
		return nil, errors.New(errors.ErrCodeComposerNotInstalled,
			"Unable to read composer package information from %q. Try executing \"composer install\".", installed)
	}

	packages, err := readInstalledPackages(installed)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(installed)
	var extensions []Context
	for _, pkg := range packages {
		if pkg.Type != TypeExtension {
			continue
		}
		ext := NewContext(pkg, resolvePath(base, pkg.InstallPath))
		if fileExists(filepath.Join(ext.Path, entrypointFile)) {
			extensions = append(extensions, ext)
		}
	}
	return extensions, nil
}

// ContextsFromPaths builds extension contexts from explicit package
// directories instead of the installed-package index. Relative paths are
// resolved against base. Packages that are not TYPO3 extensions or that lack
// an entrypoint declaration are skipped; a directory without composer.json
// is an error.
func ContextsFromPaths(base string, paths []string, entrypointFile string) ([]Context, error) {
	var extensions []Context
	for _, p := range paths {
		dir := resolvePath(base, p)
		ctx, err := ReadContext(dir)
		if err != nil {
			return nil, err
		}
		if !ctx.IsExtension() {
			continue
		}
		if fileExists(filepath.Join(ctx.Path, entrypointFile)) {
			extensions = append(extensions, ctx)
		}
	}
	return extensions, nil
}

func readInstalledPackages(installed string) ([]Manifest, error) {
	var index map[string]json.RawMessage
	if err := ReadJSONFile(installed, &index); err != nil {
		if errors.Is(err, errors.ErrCodeInvalidJSON) {
			return nil, errors.Wrap(errors.ErrCodeInvalidComposerState, err,
				"Invalid composer state in %q. Try executing \"composer install\".", installed)
		}
		return nil, err
	}

	raw, ok := index["packages"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errors.New(errors.ErrCodeInvalidComposerState,
			"Invalid composer state in %q. Try executing \"composer install\".", installed)
	}

	var packages []Manifest
	if err := json.Unmarshal(raw, &packages); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidComposerState, err,
			"Invalid composer state in %q. Try executing \"composer install\".", installed)
	}
	return packages, nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
