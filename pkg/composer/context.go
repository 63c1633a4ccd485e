package composer

import (
	"bytes"
	"encoding/json"
)

// Package types recognised in composer.json and installed.json.
const (
	TypeProject   = "project"
	TypeExtension = "typo3-cms-extension"
	TypeLibrary   = "library"
)

const (
	defaultVendorDir = "vendor"
	defaultWebDir    = "public"
)

// Context describes one composer package on disk.
// Which optional fields are populated depends on Type: projects carry
// VendorDir and WebDir, extensions carry ExtensionKey.
type Context struct {
	Type         string // TypeProject, TypeExtension or the manifest's own type
	Path         string // Absolute package directory
	Name         string // Composer package name, if declared
	ExtensionKey string // TYPO3 extension key (extensions only)
	VendorDir    string // config.vendor-dir relative to Path; "." for the project root (projects only)
	WebDir       string // extra.typo3/cms.web-dir relative to Path (projects only)
}

// IsProject reports whether c describes a composer root project.
func (c Context) IsProject() bool { return c.Type == TypeProject }

// IsExtension reports whether c describes a TYPO3 extension.
func (c Context) IsExtension() bool { return c.Type == TypeExtension }

// Manifest is the subset of composer.json (and of an installed.json package
// entry) that matters for Vite integration.
type Manifest struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	InstallPath string         `json:"install-path"`
	Config      manifestConfig `json:"config"`
	Extra       manifestExtra  `json:"extra"`
}

type manifestConfig struct {
	VendorDir *string `json:"vendor-dir"`
}

type manifestExtra struct {
	TYPO3 typo3Extra `json:"typo3/cms"`
}

type typo3Extra struct {
	ExtensionKey string  `json:"extension-key"`
	WebDir       *string `json:"web-dir"`
}

// PHP serialises empty maps as [], so "config" and "extra" are ignored unless
// they are JSON objects.

func (c *manifestConfig) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		return nil
	}
	type plain manifestConfig
	return json.Unmarshal(data, (*plain)(c))
}

func (e *manifestExtra) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		return nil
	}
	type plain manifestExtra
	return json.Unmarshal(data, (*plain)(e))
}

func (t *typo3Extra) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		return nil
	}
	type plain typo3Extra
	return json.Unmarshal(data, (*plain)(t))
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// NewContext classifies a decoded manifest located in dir.
//
// A missing extension key is kept as an empty string: composer packages of
// type typo3-cms-extension are required to declare one, and guessing it from
// the package name would hide a broken package.
func NewContext(m Manifest, dir string) Context {
	switch m.Type {
	case TypeProject:
		// Only absent keys fall back to the defaults. An empty vendor-dir
		// places the vendor files in the project root.
		vendorDir := defaultVendorDir
		if v := m.Config.VendorDir; v != nil {
			vendorDir = *v
			if vendorDir == "" {
				vendorDir = "."
			}
		}
		webDir := defaultWebDir
		if v := m.Extra.TYPO3.WebDir; v != nil {
			webDir = *v
		}
		return Context{
			Type:      TypeProject,
			Path:      dir,
			Name:      m.Name,
			VendorDir: vendorDir,
			WebDir:    webDir,
		}

	case TypeExtension:
		return Context{
			Type:         TypeExtension,
			Path:         dir,
			Name:         m.Name,
			ExtensionKey: m.Extra.TYPO3.ExtensionKey,
		}

	default:
		typ := m.Type
		if typ == "" {
			typ = TypeLibrary
		}
		return Context{Type: typ, Path: dir, Name: m.Name}
	}
}

// ReadContext parses the composer.json inside dir.
func ReadContext(dir string) (Context, error) {
	var m Manifest
	if err := ReadJSONFile(manifestPath(dir), &m); err != nil {
		return Context{}, err
	}
	return NewContext(m, dir), nil
}
