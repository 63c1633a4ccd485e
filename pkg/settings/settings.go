// Package settings reads plugin options from a file next to the Vite
// configuration.
//
// The file is looked up in the Vite root in this order:
//
//	typo3vite.toml
//	typo3vite.yaml
//	typo3vite.yml
//
// Keys use the spelling of the plugin options in vite.config.js:
//
//	target = "project"
//	entrypointFile = "Configuration/ViteEntrypoints.json"
//	entrypointIgnorePatterns = ["**/node_modules/**", "**/.git/**"]
//	debug = true
//	aliases = "@"
//	composerPackagePaths = ["packages/site"]
package settings

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/typo3vite/pkg/errors"
	"github.com/matzehuels/typo3vite/pkg/plugin"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// Names of the options file, in lookup order.
const (
	TOMLFile = "typo3vite.toml"
	YAMLFile = "typo3vite.yaml"
	YMLFile  = "typo3vite.yml"
)

var lookupOrder = []string{TOMLFile, YAMLFile, YMLFile}

// File is the content of an options file. Unset keys keep the plugin
// defaults.
type File struct {
	Target                   string   `toml:"target" yaml:"target"`
	ComposerRoot             string   `toml:"composerRoot" yaml:"composerRoot"`
	EntrypointFile           string   `toml:"entrypointFile" yaml:"entrypointFile"`
	EntrypointIgnorePatterns []string `toml:"entrypointIgnorePatterns" yaml:"entrypointIgnorePatterns"`
	Debug                    *bool    `toml:"debug" yaml:"debug"`
	Aliases                  any      `toml:"aliases" yaml:"aliases"`
	ComposerPackagePaths     []string `toml:"composerPackagePaths" yaml:"composerPackagePaths"`

	// Path is the file the settings were read from.
	Path string `toml:"-" yaml:"-"`
}

// Find returns the options file in dir, if any.
func Find(dir string) (string, bool) {
	for _, name := range lookupOrder {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads the options file in dir. It returns nil without error when dir
// holds none.
func Load(dir string) (*File, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, nil
	}
	return Read(path)
}

// Read decodes the options file at path; the format follows the extension.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	f := &File{Path: path}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown option %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported settings format %q", ext)
	}
	return f, nil
}

// Options converts the file into plugin options.
func (f *File) Options() (plugin.Options, error) {
	opts := plugin.Options{
		Target:                   plugin.Target(f.Target),
		ComposerRoot:             f.ComposerRoot,
		EntrypointFile:           f.EntrypointFile,
		EntrypointIgnorePatterns: f.EntrypointIgnorePatterns,
		ComposerPackagePaths:     f.ComposerPackagePaths,
	}
	if f.Debug != nil {
		opts.Debug = *f.Debug
	}
	if f.Aliases != nil {
		policy, err := vite.ParseAliasPolicy(f.Aliases)
		if err != nil {
			return plugin.Options{}, errors.Wrap(errors.ErrCodeInvalidAliases, err, "%s", f.Path)
		}
		opts.Aliases = &policy
	}
	return opts, nil
}
