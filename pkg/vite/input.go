package vite

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// InputKind tells which shape an Input has.
type InputKind int

const (
	InputNone   InputKind = iota // not set
	InputString                  // a single file
	InputArray                   // a list of files
	InputObject                  // named entries
)

// NamedInput is one entry of an object-shaped Input.
type NamedInput struct {
	Name string
	Path string
}

// Input is build.rollupOptions.input or build.lib.entry. Rollup accepts a
// single path, a list of paths or an object mapping chunk names to paths;
// Kind selects which of the fields is meaningful.
type Input struct {
	Kind   InputKind
	String string
	Array  []string
	Object []NamedInput
}

// Paths returns every path of the input regardless of its shape.
func (in *Input) Paths() []string {
	if in == nil {
		return nil
	}
	switch in.Kind {
	case InputString:
		return []string{in.String}
	case InputArray:
		return append([]string(nil), in.Array...)
	case InputObject:
		paths := make([]string, 0, len(in.Object))
		for _, e := range in.Object {
			paths = append(paths, e.Path)
		}
		return paths
	}
	return nil
}

// AddInputs merges additional entrypoints into input while keeping every
// entry that is already configured:
//   - an unset input becomes a list, even an empty one, since an empty input
//     makes Vite fall back to index.html
//   - a string is wrapped into a list before appending
//   - a list is appended to
//   - an object receives the additional paths under their list index ("0",
//     "1", ...), replacing entries of the same name
func AddInputs(input *Input, additional []string) *Input {
	if input == nil || input.Kind == InputNone {
		return &Input{Kind: InputArray, Array: append([]string{}, additional...)}
	}

	switch input.Kind {
	case InputString:
		return &Input{Kind: InputArray, Array: append([]string{input.String}, additional...)}

	case InputArray:
		merged := make([]string, 0, len(input.Array)+len(additional))
		merged = append(merged, input.Array...)
		return &Input{Kind: InputArray, Array: append(merged, additional...)}

	default:
		merged := append([]NamedInput(nil), input.Object...)
		for i, path := range additional {
			name := strconv.Itoa(i)
			replaced := false
			for j := range merged {
				if merged[j].Name == name {
					merged[j].Path = path
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, NamedInput{Name: name, Path: path})
			}
		}
		return &Input{Kind: InputObject, Object: merged}
	}
}

func (in Input) MarshalJSON() ([]byte, error) {
	switch in.Kind {
	case InputString:
		return json.Marshal(in.String)
	case InputArray:
		arr := in.Array
		if arr == nil {
			arr = []string{}
		}
		return json.Marshal(arr)
	case InputObject:
		members := make([]member, 0, len(in.Object))
		for _, e := range in.Object {
			v, err := json.Marshal(e.Path)
			if err != nil {
				return nil, err
			}
			members = append(members, member{Key: e.Name, Value: v})
		}
		return encodeObject(members), nil
	}
	return []byte("null"), nil
}

func (in *Input) UnmarshalJSON(data []byte) error {
	switch kindOf(data) {
	case "null":
		*in = Input{}
	case "string":
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Input{Kind: InputString, String: s}
	case "array":
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("input: %w", err)
		}
		*in = Input{Kind: InputArray, Array: arr}
	case "object":
		members, err := decodeObject(data)
		if err != nil {
			return err
		}
		obj := make([]NamedInput, 0, len(members))
		for _, m := range members {
			var path string
			if err := json.Unmarshal(m.Value, &path); err != nil {
				return fmt.Errorf("input %q: expected string path, got %s", m.Key, kindOf(m.Value))
			}
			obj = append(obj, NamedInput{Name: m.Key, Path: path})
		}
		*in = Input{Kind: InputObject, Object: obj}
	default:
		return fmt.Errorf("input: expected string, list or object, got %s", kindOf(data))
	}
	return nil
}
