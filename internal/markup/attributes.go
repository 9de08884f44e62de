package markup

import (
	"sort"
	"strings"
)

// Attributes maps lower-cased attribute names to their raw values.
//
// The set is filled while a tag is parsed and is read-only afterwards.
type Attributes struct {
	values map[string]string
}

// NewAttributes creates an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set stores value under the lower-cased name. Empty names are ignored.
func (a *Attributes) Set(name, value string) {
	if name == "" {
		return
	}
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[strings.ToLower(name)] = value
}

// Get returns the raw value and whether the attribute is present.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil || a.values == nil {
		return "", false
	}
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// Exists reports whether the attribute is present.
func (a *Attributes) Exists(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Quoted returns the value with '"' and '\' backslash-escaped.
func (a *Attributes) Quoted(name string) (string, bool) {
	v, ok := a.Get(name)
	if !ok {
		return "", false
	}
	return quote(v), true
}

func quote(v string) string {
	if !strings.ContainsAny(v, `"\`) {
		return v
	}
	var sb strings.Builder
	sb.Grow(len(v) + 4)
	for _, r := range v {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Render serializes one attribute: name="value", a bare name for an empty
// value, or "" when the attribute is absent.
func (a *Attributes) Render(name string) string {
	v, ok := a.Quoted(name)
	if !ok {
		return ""
	}
	name = strings.ToLower(name)
	if v == "" {
		return name
	}
	return name + `="` + v + `"`
}

// Names returns the attribute names in ascending order.
func (a *Attributes) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.values))
	for k := range a.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Map returns a copy of the name/value pairs.
func (a *Attributes) Map() map[string]string {
	out := make(map[string]string, a.Len())
	if a == nil {
		return out
	}
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// String renders every attribute, sorted by name, separated by one space.
func (a *Attributes) String() string {
	names := a.Names()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, a.Render(n))
	}
	return strings.Join(parts, " ")
}
