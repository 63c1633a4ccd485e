package vite

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/errors"
)

func ext(key, path string) composer.Context {
	return composer.Context{Type: composer.TypeExtension, ExtensionKey: key, Path: path}
}

func TestAddAliases(t *testing.T) {
	extensions := []composer.Context{ext("test_extension", "/path/to/dummy/extension1")}

	tests := []struct {
		name     string
		existing *AliasOptions
		exts     []composer.Context
		policy   AliasPolicy
		want     []Alias
	}{
		{
			name:   "nothing",
			policy: AliasesBoth,
			want:   []Alias{},
		},
		{
			name:   "no existing aliases",
			exts:   extensions,
			policy: AliasesBoth,
			want: []Alias{
				{Find: "@test_extension", Replacement: "/path/to/dummy/extension1/"},
				{Find: "EXT:test_extension", Replacement: "/path/to/dummy/extension1/"},
			},
		},
		{
			name:     "existing mapping comes first",
			existing: &AliasOptions{Mapping: true, Entries: []Alias{{Find: "@existing_find", Replacement: "/path/to/replace/with/"}}},
			exts:     extensions,
			policy:   AliasesAt,
			want: []Alias{
				{Find: "@existing_find", Replacement: "/path/to/replace/with/"},
				{Find: "@test_extension", Replacement: "/path/to/dummy/extension1/"},
			},
		},
		{
			name:     "existing list without extensions",
			existing: &AliasOptions{Entries: []Alias{{Find: "@existing_find", Replacement: "/path/to/replace/with/"}}},
			policy:   AliasesBoth,
			want:     []Alias{{Find: "@existing_find", Replacement: "/path/to/replace/with/"}},
		},
		{
			name:   "EXT only",
			exts:   extensions,
			policy: AliasesExt,
			want:   []Alias{{Find: "EXT:test_extension", Replacement: "/path/to/dummy/extension1/"}},
		},
		{
			name:     "disabled",
			existing: &AliasOptions{Entries: []Alias{{Find: "~", Replacement: "/src/"}}},
			exts:     extensions,
			policy:   AliasesNone,
			want:     []Alias{{Find: "~", Replacement: "/src/"}},
		},
		{
			name:     "duplicates are kept",
			existing: &AliasOptions{Entries: []Alias{{Find: "@test_extension", Replacement: "/elsewhere/"}}},
			exts:     extensions,
			policy:   AliasesAt,
			want: []Alias{
				{Find: "@test_extension", Replacement: "/elsewhere/"},
				{Find: "@test_extension", Replacement: "/path/to/dummy/extension1/"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddAliases(tt.existing, tt.exts, tt.policy)
			if got.Mapping {
				t.Error("result should be list-shaped")
			}
			if !reflect.DeepEqual(got.Entries, tt.want) {
				t.Errorf("AddAliases() = %+v, want %+v", got.Entries, tt.want)
			}
		})
	}
}

func TestExtensionAliasesTrailingSlash(t *testing.T) {
	for _, path := range []string{"/x/y", "/x/y/", "/x/y//"} {
		aliases := ExtensionAliases(ext("y", path), AliasesBoth)
		for _, a := range aliases {
			if a.Replacement != "/x/y/" {
				t.Errorf("path %q: replacement = %q, want /x/y/", path, a.Replacement)
			}
		}
	}
}

func TestParseAliasPolicy(t *testing.T) {
	tests := []struct {
		in      any
		want    AliasPolicy
		wantErr bool
	}{
		{nil, AliasesBoth, false},
		{true, AliasesBoth, false},
		{false, AliasesNone, false},
		{"@", AliasesAt, false},
		{"EXT", AliasesExt, false},
		{"EXT:", AliasesExt, false},
		{"true", AliasesBoth, false},
		{"false", AliasesNone, false},
		{"ext", AliasPolicy{}, true},
		{42, AliasPolicy{}, true},
	}

	for _, tt := range tests {
		got, err := ParseAliasPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAliasPolicy(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidAliases) {
			t.Errorf("ParseAliasPolicy(%v) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseAliasPolicy(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAliasPolicyJSON(t *testing.T) {
	for _, p := range []AliasPolicy{AliasesBoth, AliasesAt, AliasesExt, AliasesNone} {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", p, err)
		}
		var got AliasPolicy
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != p {
			t.Errorf("%s decoded to %+v, want %+v", data, got, p)
		}
	}
}

func TestAliasOptionsJSON(t *testing.T) {
	var mapping AliasOptions
	if err := json.Unmarshal([]byte(`{"@b":"/b/","@a":"/a/"}`), &mapping); err != nil {
		t.Fatal(err)
	}
	want := []Alias{{Find: "@b", Replacement: "/b/"}, {Find: "@a", Replacement: "/a/"}}
	if !mapping.Mapping || !reflect.DeepEqual(mapping.Entries, want) {
		t.Errorf("mapping = %+v", mapping)
	}
	data, _ := json.Marshal(mapping)
	if string(data) != `{"@b":"/b/","@a":"/a/"}` {
		t.Errorf("mapping marshal = %s", data)
	}

	var list AliasOptions
	if err := json.Unmarshal([]byte(`[{"find":"@a","replacement":"/a/"}]`), &list); err != nil {
		t.Fatal(err)
	}
	if list.Mapping || len(list.Entries) != 1 {
		t.Errorf("list = %+v", list)
	}
	data, _ = json.Marshal(list)
	if string(data) != `[{"find":"@a","replacement":"/a/"}]` {
		t.Errorf("list marshal = %s", data)
	}
}

func TestAliasExtraKeysRoundTrip(t *testing.T) {
	in := `[{"find":"@a","replacement":"/a/","customResolver":{"x":1}}]`
	var list AliasOptions
	if err := json.Unmarshal([]byte(in), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Entries) != 1 || string(list.Entries[0].Extra["customResolver"]) != `{"x":1}` {
		t.Fatalf("entries = %+v", list.Entries)
	}

	got := AddAliases(&list, []composer.Context{ext("b", "/b")}, AliasesAt)
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"find":"@a","replacement":"/a/","customResolver":{"x":1}},{"find":"@b","replacement":"/b/"}]`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}
