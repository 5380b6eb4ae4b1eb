package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Properties is the key/value tree of spec.md §6: a nested map/array bag
// recognized keys include `okl/validate`, `compiler`, `compilerFlags`,
// `compilerEnvScript`, `header`, `footer`, `defines`, `includes`,
// `include_paths`, and backend-specific subtrees like
// `opencl/extensions/<name>` and `serial/restrict`.
type Properties map[string]interface{}

// NewProperties returns an empty property tree with OKL validation on, as
// spec.md §6 documents as the default.
func NewProperties() Properties {
	return Properties{"okl/validate": true}
}

// LoadJSON parses a JSON properties document into a Properties tree.
func LoadJSON(data []byte) (Properties, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: invalid JSON properties: %w", err)
	}
	return Properties(m), nil
}

// LoadYAML parses a YAML properties document (e.g. an `occa.yaml` sidecar)
// into a Properties tree using the same key space as LoadJSON.
func LoadYAML(data []byte) (Properties, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: invalid YAML properties: %w", err)
	}
	return Properties(normalizeYAML(m)), nil
}

// normalizeYAML recursively converts map[string]interface{} nodes that
// yaml.v3 may produce as map[interface{}]interface{} (older behavior) or
// leave nested maps typed as map[string]interface{} (current behavior)
// into a single consistent shape so callers never branch on it.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// Get resolves a slash-separated path like "opencl/extensions/cl_khr_fp64"
// by first trying the literal key (properties are commonly flat with
// slashes baked into the key, as spec.md §6 examples show), then falling
// back to walking nested maps segment by segment.
func (p Properties) Get(path string) (interface{}, bool) {
	if v, ok := p[path]; ok {
		return v, true
	}
	segs := strings.Split(path, "/")
	var cur interface{} = map[string]interface{}(p)
	for _, seg := range segs {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Bool resolves path as a boolean, returning def if absent or not a bool.
func (p Properties) Bool(path string, def bool) bool {
	v, ok := p.Get(path)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Int resolves path as an integer, returning def if absent or unparsable.
// Accepts JSON's float64 and YAML's int representations alike.
func (p Properties) Int(path string, def int) int {
	v, ok := p.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// String resolves path as a string, returning def if absent.
func (p Properties) String(path string, def string) string {
	v, ok := p.Get(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// StringList resolves path as a list of strings (e.g. `includes`,
// `include_paths`), returning nil if absent.
func (p Properties) StringList(path string) []string {
	v, ok := p.Get(path)
	if !ok {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Defines resolves the `defines` subtree into a name -> value map, each
// entry becoming a compiler-macro per spec.md §6.
func (p Properties) Defines() map[string]string {
	v, ok := p.Get("defines")
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = fmt.Sprint(val)
	}
	return out
}

// ExclusiveWidth resolves the `serial/exclusiveWidth` backend property,
// defaulting per spec.md §9 Open Question 2.
func (p Properties) ExclusiveWidth() int {
	return p.Int("serial/exclusiveWidth", DefaultExclusiveWidth)
}
