package vite

import (
	"encoding/json"
	"fmt"
)

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Switch is an option that is either a boolean or a string, such as
// build.manifest (true or a file name) or publicDir (false or a directory).
// IsString records that a string was configured; like in JavaScript, the
// empty string counts as off.
type Switch struct {
	Enabled  bool
	Value    string
	IsString bool
}

// On returns an enabled Switch without value.
func On() *Switch { return &Switch{Enabled: true} }

// Off returns a disabled Switch.
func Off() *Switch { return &Switch{} }

// IsOff reports whether the switch is explicitly false or "".
func (s *Switch) IsOff() bool {
	return s != nil && !s.Enabled && s.Value == ""
}

func (s Switch) MarshalJSON() ([]byte, error) {
	if s.IsString || s.Value != "" {
		return json.Marshal(s.Value)
	}
	return json.Marshal(s.Enabled)
}

func (s *Switch) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case bool:
		*s = Switch{Enabled: v}
	case string:
		*s = Switch{Enabled: v != "", Value: v, IsString: true}
	default:
		return fmt.Errorf("expected boolean or string, got %s", kindOf(data))
	}
	return nil
}

// StringList accepts a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*l = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings, got %s", kindOf(data))
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// Origin is server.cors.origin: a boolean (reflect any origin or none) or a
// list of allowed origins. Regular expressions are written as "/pattern/flags"
// strings; the plugin printed by "typo3vite shim" turns them back into RegExp
// objects.
type Origin struct {
	Any  bool
	List []string
}

func (o Origin) MarshalJSON() ([]byte, error) {
	if o.List != nil {
		return json.Marshal(o.List)
	}
	return json.Marshal(o.Any)
}

func (o *Origin) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*o = Origin{Any: b}
		return nil
	}
	var list StringList
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("cors origin: expected boolean, string or list, got %s", kindOf(data))
	}
	*o = Origin{List: list}
	return nil
}

// HostList is server.allowedHosts: true (any host) or a list of host names.
type HostList struct {
	All   bool
	Hosts []string
}

func (h HostList) MarshalJSON() ([]byte, error) {
	if h.All {
		return []byte("true"), nil
	}
	hosts := h.Hosts
	if hosts == nil {
		hosts = []string{}
	}
	return json.Marshal(hosts)
}

func (h *HostList) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*h = HostList{All: b}
		return nil
	}
	var hosts []string
	if err := json.Unmarshal(data, &hosts); err != nil {
		return fmt.Errorf("allowedHosts: expected boolean or list, got %s", kindOf(data))
	}
	*h = HostList{Hosts: hosts}
	return nil
}
