package vite

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/errors"
)

// Alias is one resolve.alias rule. Keys other than find and replacement,
// such as customResolver, are kept in Extra.
type Alias struct {
	Find        string `json:"find"`
	Replacement string `json:"replacement"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Same reports whether a and b rewrite the same find to the same
// replacement.
func (a Alias) Same(b Alias) bool {
	return a.Find == b.Find && a.Replacement == b.Replacement
}

func (a Alias) MarshalJSON() ([]byte, error) {
	type plain Alias
	return marshalWithExtra(plain(a), a.Extra)
}

func (a *Alias) UnmarshalJSON(data []byte) error {
	type plain Alias
	return unmarshalWithExtra(data, (*plain)(a), &a.Extra)
}

// AliasOptions is resolve.alias, which Vite accepts either as a mapping of
// find to replacement or as an ordered list of Alias rules. Mapping records
// which shape was decoded so unmodified options round-trip unchanged.
type AliasOptions struct {
	Entries []Alias
	Mapping bool
}

func (a AliasOptions) MarshalJSON() ([]byte, error) {
	if a.Mapping {
		members := make([]member, 0, len(a.Entries))
		for _, e := range a.Entries {
			v, err := json.Marshal(e.Replacement)
			if err != nil {
				return nil, err
			}
			members = append(members, member{Key: e.Find, Value: v})
		}
		return encodeObject(members), nil
	}
	entries := a.Entries
	if entries == nil {
		entries = []Alias{}
	}
	return json.Marshal(entries)
}

func (a *AliasOptions) UnmarshalJSON(data []byte) error {
	switch kindOf(data) {
	case "object":
		members, err := decodeObject(data)
		if err != nil {
			return err
		}
		entries := make([]Alias, 0, len(members))
		for _, m := range members {
			var replacement string
			if err := json.Unmarshal(m.Value, &replacement); err != nil {
				return fmt.Errorf("alias %q: expected string replacement, got %s", m.Key, kindOf(m.Value))
			}
			entries = append(entries, Alias{Find: m.Key, Replacement: replacement})
		}
		*a = AliasOptions{Entries: entries, Mapping: true}
	case "array":
		var entries []Alias
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("alias: %w", err)
		}
		*a = AliasOptions{Entries: entries}
	case "null":
		*a = AliasOptions{}
	default:
		return fmt.Errorf("alias: expected object or list, got %s", kindOf(data))
	}
	return nil
}

// AliasPolicy selects which aliases are generated per extension:
// "@<key>", "EXT:<key>", both or none.
type AliasPolicy struct {
	At  bool // "@<extension key>"
	Ext bool // "EXT:<extension key>"
}

// Predefined policies.
var (
	AliasesBoth = AliasPolicy{At: true, Ext: true}
	AliasesAt   = AliasPolicy{At: true}
	AliasesExt  = AliasPolicy{Ext: true}
	AliasesNone = AliasPolicy{}
)

// ParseAliasPolicy converts a user-supplied option into an AliasPolicy.
// Accepted values are true, false, "@", "EXT" and "EXT:"; the strings "true"
// and "false" are accepted for command-line use. nil yields the default,
// both aliases.
func ParseAliasPolicy(v any) (AliasPolicy, error) {
	switch v := v.(type) {
	case nil:
		return AliasesBoth, nil
	case bool:
		if v {
			return AliasesBoth, nil
		}
		return AliasesNone, nil
	case string:
		switch strings.TrimSpace(v) {
		case "true":
			return AliasesBoth, nil
		case "false":
			return AliasesNone, nil
		case "@":
			return AliasesAt, nil
		case "EXT", "EXT:":
			return AliasesExt, nil
		}
	}
	return AliasPolicy{}, errors.New(errors.ErrCodeInvalidAliases,
		"invalid aliases option %v: use true, false, \"@\" or \"EXT:\"", v)
}

// String returns the option value that produces p.
func (p AliasPolicy) String() string {
	switch p {
	case AliasesBoth:
		return "true"
	case AliasesAt:
		return "@"
	case AliasesExt:
		return "EXT:"
	default:
		return "false"
	}
}

func (p AliasPolicy) MarshalJSON() ([]byte, error) {
	switch p {
	case AliasesBoth:
		return []byte("true"), nil
	case AliasesNone:
		return []byte("false"), nil
	default:
		return json.Marshal(p.String())
	}
}

func (p *AliasPolicy) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	policy, err := ParseAliasPolicy(v)
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// ExtensionAliases returns the aliases policy generates for one extension.
// The replacement always ends in exactly one slash.
func ExtensionAliases(ext composer.Context, policy AliasPolicy) []Alias {
	replacement := strings.TrimRight(filepath.ToSlash(ext.Path), "/") + "/"

	var aliases []Alias
	if policy.At {
		aliases = append(aliases, Alias{Find: "@" + ext.ExtensionKey, Replacement: replacement})
	}
	if policy.Ext {
		aliases = append(aliases, Alias{Find: "EXT:" + ext.ExtensionKey, Replacement: replacement})
	}
	return aliases
}

// AddAliases appends the extension aliases selected by policy to the
// aliases the user configured. Existing aliases keep their order and come
// first; the result is always list-shaped. Duplicate find values are kept,
// Vite resolves them itself.
func AddAliases(existing *AliasOptions, extensions []composer.Context, policy AliasPolicy) *AliasOptions {
	var entries []Alias
	if existing != nil {
		entries = append(entries, existing.Entries...)
	}
	for _, ext := range extensions {
		entries = append(entries, ExtensionAliases(ext, policy)...)
	}
	if entries == nil {
		entries = []Alias{}
	}
	return &AliasOptions{Entries: entries}
}
