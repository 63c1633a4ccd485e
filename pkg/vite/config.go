// Package vite models the part of Vite's user configuration that the TYPO3
// integration reads and writes.
//
// Every option is optional: a nil pointer means "not configured", which is
// what the plugin hooks need to apply defaults without overriding explicit
// user settings. Options outside the model are preserved in Extra maps, so a
// configuration decoded from JSON encodes back with all of its keys.
//
// Options that Vite accepts in several shapes are explicit union types:
// Input (string, list or object), AliasOptions (mapping or list), Switch
// (boolean or string), Origin and HostList.
package vite

import "encoding/json"

// Commands passed to the config hooks.
const (
	CommandBuild = "build"
	CommandServe = "serve"
)

// ConfigEnv describes the Vite invocation a configuration is resolved for.
type ConfigEnv struct {
	Command string `json:"command"` // CommandBuild or CommandServe
	Mode    string `json:"mode"`    // "development", "production" or custom
}

// UserConfig is a Vite user configuration.
type UserConfig struct {
	Root      *string         `json:"root,omitempty"`
	Base      *string         `json:"base,omitempty"`
	PublicDir *Switch         `json:"publicDir,omitempty"`
	CSS       *CSSOptions     `json:"css,omitempty"`
	Build     *BuildOptions   `json:"build,omitempty"`
	Resolve   *ResolveOptions `json:"resolve,omitempty"`
	Server    *ServerOptions  `json:"server,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CSSOptions is the css section.
type CSSOptions struct {
	DevSourcemap *bool `json:"devSourcemap,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// BuildOptions is the build section.
type BuildOptions struct {
	Manifest      *Switch         `json:"manifest,omitempty"`
	OutDir        *string         `json:"outDir,omitempty"`
	RollupOptions *RollupOptions  `json:"rollupOptions,omitempty"`
	Lib           *LibraryOptions `json:"lib,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// RollupOptions is build.rollupOptions.
type RollupOptions struct {
	Input *Input `json:"input,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// LibraryOptions is build.lib. Vite also accepts false, which is kept as
// Disabled.
type LibraryOptions struct {
	Disabled bool   `json:"-"`
	Entry    *Input `json:"entry,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ResolveOptions is the resolve section.
type ResolveOptions struct {
	Alias *AliasOptions `json:"alias,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ServerOptions is the server section.
type ServerOptions struct {
	Watch        *WatchOptions `json:"watch,omitempty"`
	Cors         *CorsOptions  `json:"cors,omitempty"`
	AllowedHosts *HostList     `json:"allowedHosts,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// WatchOptions is server.watch.
type WatchOptions struct {
	Ignored *StringList `json:"ignored,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CorsOptions is server.cors. Vite also accepts a plain boolean, which is
// kept in Enabled.
type CorsOptions struct {
	Enabled *bool   `json:"-"`
	Origin  *Origin `json:"origin,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// EnsureCSS returns the css section, creating it when unset.
func (c *UserConfig) EnsureCSS() *CSSOptions {
	if c.CSS == nil {
		c.CSS = &CSSOptions{}
	}
	return c.CSS
}

// EnsureBuild returns the build section, creating it when unset.
func (c *UserConfig) EnsureBuild() *BuildOptions {
	if c.Build == nil {
		c.Build = &BuildOptions{}
	}
	return c.Build
}

// EnsureResolve returns the resolve section, creating it when unset.
func (c *UserConfig) EnsureResolve() *ResolveOptions {
	if c.Resolve == nil {
		c.Resolve = &ResolveOptions{}
	}
	return c.Resolve
}

// EnsureServer returns the server section, creating it when unset.
func (c *UserConfig) EnsureServer() *ServerOptions {
	if c.Server == nil {
		c.Server = &ServerOptions{}
	}
	return c.Server
}

// EnsureRollupOptions returns build.rollupOptions, creating it when unset.
func (b *BuildOptions) EnsureRollupOptions() *RollupOptions {
	if b.RollupOptions == nil {
		b.RollupOptions = &RollupOptions{}
	}
	return b.RollupOptions
}

// EnsureWatch returns server.watch, creating it when unset.
func (s *ServerOptions) EnsureWatch() *WatchOptions {
	if s.Watch == nil {
		s.Watch = &WatchOptions{}
	}
	return s.Watch
}

// ManifestDisabled reports whether build.manifest is explicitly false.
func (c *UserConfig) ManifestDisabled() bool {
	return c.Build != nil && c.Build.Manifest.IsOff()
}

// Parse decodes a JSON user configuration. Empty input yields an empty
// configuration.
func Parse(data []byte) (*UserConfig, error) {
	cfg := &UserConfig{}
	if len(data) == 0 || isNull(data) {
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c UserConfig) MarshalJSON() ([]byte, error) {
	type plain UserConfig
	return marshalWithExtra(plain(c), c.Extra)
}

func (c *UserConfig) UnmarshalJSON(data []byte) error {
	type plain UserConfig
	return unmarshalWithExtra(data, (*plain)(c), &c.Extra)
}

func (c CSSOptions) MarshalJSON() ([]byte, error) {
	type plain CSSOptions
	return marshalWithExtra(plain(c), c.Extra)
}

func (c *CSSOptions) UnmarshalJSON(data []byte) error {
	type plain CSSOptions
	return unmarshalWithExtra(data, (*plain)(c), &c.Extra)
}

func (b BuildOptions) MarshalJSON() ([]byte, error) {
	type plain BuildOptions
	return marshalWithExtra(plain(b), b.Extra)
}

func (b *BuildOptions) UnmarshalJSON(data []byte) error {
	type plain BuildOptions
	return unmarshalWithExtra(data, (*plain)(b), &b.Extra)
}

func (r RollupOptions) MarshalJSON() ([]byte, error) {
	type plain RollupOptions
	return marshalWithExtra(plain(r), r.Extra)
}

func (r *RollupOptions) UnmarshalJSON(data []byte) error {
	type plain RollupOptions
	return unmarshalWithExtra(data, (*plain)(r), &r.Extra)
}

func (l LibraryOptions) MarshalJSON() ([]byte, error) {
	if l.Disabled {
		return []byte("false"), nil
	}
	type plain LibraryOptions
	return marshalWithExtra(plain(l), l.Extra)
}

func (l *LibraryOptions) UnmarshalJSON(data []byte) error {
	if kindOf(data) == "boolean" {
		var enabled bool
		if err := json.Unmarshal(data, &enabled); err != nil {
			return err
		}
		*l = LibraryOptions{Disabled: !enabled}
		return nil
	}
	type plain LibraryOptions
	return unmarshalWithExtra(data, (*plain)(l), &l.Extra)
}

func (r ResolveOptions) MarshalJSON() ([]byte, error) {
	type plain ResolveOptions
	return marshalWithExtra(plain(r), r.Extra)
}

func (r *ResolveOptions) UnmarshalJSON(data []byte) error {
	type plain ResolveOptions
	return unmarshalWithExtra(data, (*plain)(r), &r.Extra)
}

func (s ServerOptions) MarshalJSON() ([]byte, error) {
	type plain ServerOptions
	return marshalWithExtra(plain(s), s.Extra)
}

func (s *ServerOptions) UnmarshalJSON(data []byte) error {
	type plain ServerOptions
	return unmarshalWithExtra(data, (*plain)(s), &s.Extra)
}

func (w WatchOptions) MarshalJSON() ([]byte, error) {
	type plain WatchOptions
	return marshalWithExtra(plain(w), w.Extra)
}

func (w *WatchOptions) UnmarshalJSON(data []byte) error {
	type plain WatchOptions
	return unmarshalWithExtra(data, (*plain)(w), &w.Extra)
}

func (c CorsOptions) MarshalJSON() ([]byte, error) {
	if c.Enabled != nil {
		return json.Marshal(*c.Enabled)
	}
	type plain CorsOptions
	return marshalWithExtra(plain(c), c.Extra)
}

func (c *CorsOptions) UnmarshalJSON(data []byte) error {
	if kindOf(data) == "boolean" {
		var enabled bool
		if err := json.Unmarshal(data, &enabled); err != nil {
			return err
		}
		*c = CorsOptions{Enabled: &enabled}
		return nil
	}
	type plain CorsOptions
	return unmarshalWithExtra(data, (*plain)(c), &c.Extra)
}
