package vite

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "null"} {
		cfg, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if cfg.Build != nil || cfg.Base != nil {
			t.Errorf("Parse(%q) = %+v, want empty config", in, cfg)
		}
	}
}

func TestParseKnownOptions(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"base": "/assets/",
		"publicDir": false,
		"build": {
			"manifest": "manifest.json",
			"outDir": "dist",
			"rollupOptions": {"input": "src/main.ts"},
			"lib": false
		},
		"resolve": {"alias": {"~": "/src/"}},
		"server": {
			"cors": true,
			"allowedHosts": ["example.test"],
			"watch": {"ignored": "**/tmp/**"}
		}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if *cfg.Base != "/assets/" {
		t.Errorf("base = %q", *cfg.Base)
	}
	if !cfg.PublicDir.IsOff() {
		t.Errorf("publicDir = %+v, want off", cfg.PublicDir)
	}
	if m := cfg.Build.Manifest; !m.Enabled || m.Value != "manifest.json" {
		t.Errorf("manifest = %+v", m)
	}
	if cfg.ManifestDisabled() {
		t.Error("ManifestDisabled() = true for a named manifest")
	}
	if in := cfg.Build.RollupOptions.Input; in.Kind != InputString || in.String != "src/main.ts" {
		t.Errorf("input = %+v", in)
	}
	if !cfg.Build.Lib.Disabled {
		t.Error("lib: false not decoded as disabled")
	}
	if !cfg.Resolve.Alias.Mapping || cfg.Resolve.Alias.Entries[0].Find != "~" {
		t.Errorf("alias = %+v", cfg.Resolve.Alias)
	}
	if c := cfg.Server.Cors; c.Enabled == nil || !*c.Enabled {
		t.Errorf("cors = %+v", c)
	}
	if h := cfg.Server.AllowedHosts; h.All || len(h.Hosts) != 1 {
		t.Errorf("allowedHosts = %+v", h)
	}
	if w := cfg.Server.Watch.Ignored; w == nil || len(*w) != 1 || (*w)[0] != "**/tmp/**" {
		t.Errorf("watch.ignored = %v", w)
	}
}

func TestUnknownOptionsRoundTrip(t *testing.T) {
	in := `{"base":"","plugins":[],"build":{"outDir":"dist","minify":false,"rollupOptions":{"input":["a.js"],"output":{"format":"es"}}},"define":{"X":"1"}}`

	cfg, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var want, got any
	_ = json.Unmarshal([]byte(in), &want)
	_ = json.Unmarshal(out, &got)
	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if string(wantJSON) != string(gotJSON) {
		t.Errorf("round trip\n got: %s\nwant: %s", gotJSON, wantJSON)
	}
}

func TestManifestDisabled(t *testing.T) {
	tests := []struct {
		json string
		want bool
	}{
		{`{}`, false},
		{`{"build":{}}`, false},
		{`{"build":{"manifest":true}}`, false},
		{`{"build":{"manifest":false}}`, true},
		{`{"build":{"manifest":""}}`, true},
		{`{"build":{"manifest":"assets.json"}}`, false},
	}
	for _, tt := range tests {
		cfg, err := Parse([]byte(tt.json))
		if err != nil {
			t.Fatalf("Parse(%s): %v", tt.json, err)
		}
		if got := cfg.ManifestDisabled(); got != tt.want {
			t.Errorf("ManifestDisabled(%s) = %v, want %v", tt.json, got, tt.want)
		}
	}
}

func TestEmptyStringSwitchRoundTrip(t *testing.T) {
	for _, in := range []string{
		`{"publicDir":""}`,
		`{"build":{"manifest":""}}`,
		`{"publicDir":"static","build":{"manifest":false}}`,
	} {
		cfg, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%s): %v", in, err)
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", in, err)
		}
		if string(data) != in {
			t.Errorf("round trip = %s, want %s", data, in)
		}
	}
}

func TestMarshalUnions(t *testing.T) {
	cfg := &UserConfig{
		PublicDir: Off(),
		Build: &BuildOptions{
			Manifest: On(),
			Lib:      &LibraryOptions{Entry: &Input{Kind: InputArray, Array: []string{"/a.js"}}},
		},
		Server: &ServerOptions{
			Cors:         &CorsOptions{Origin: &Origin{List: []string{"/^https?:\\/\\/localhost$/"}}},
			AllowedHosts: &HostList{All: true},
		},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"publicDir":false`,
		`"manifest":true`,
		`"lib":{"entry":["/a.js"]}`,
		`"allowedHosts":true`,
		`"origin":["/^https?:\\/\\/localhost$/"]`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("marshal output %s lacks %s", s, want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{`[]`, `{"build": {"manifest": 3}}`, `{"resolve": {"alias": "x"}}`} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%s) succeeded, want error", in)
		}
	}
}
