// Package prefs stores and validates user- and site-scoped preference
// trees: writing style, enabled context providers, and AI parameters.
// Preferences are validated against a schema declared as data; invalid
// fields are silently dropped or clamped so a partial or malformed payload
// never fails a save.
package prefs

import (
	"fmt"
	"strconv"
	"strings"
)

// Field types supported by the schema.
const (
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeArray   = "array"
)

// Field declares one preference value: its type, constraints, and default.
type Field struct {
	Type    string
	Options []string // allowed values for string fields; empty = any
	Default any
	Min     float64 // number fields only
	Max     float64 // number fields only
}

// Section is a named group of fields.
type Section map[string]Field

// Schema declares the full preference tree for one scope.
type Schema map[string]Section

// Provider keys toggled through the context_providers section. Mirrors the
// manager's default registrations.
var providerKeys = []string{"site", "user", "writing_style", "content", "conversation"}

// DefaultUserSchema returns the built-in per-user preference schema.
func DefaultUserSchema() Schema {
	providers := Section{}
	for _, key := range providerKeys {
		providers[key] = Field{Type: TypeBoolean, Default: true}
	}
	return Schema{
		"writing_style": {
			"tone": Field{
				Type:    TypeString,
				Options: []string{"professional", "casual", "technical", "friendly"},
				Default: "professional",
			},
			"target_audience": Field{
				Type:    TypeString,
				Options: []string{"general", "beginners", "experts", "business"},
				Default: "general",
			},
			"preferred_length": Field{
				Type:    TypeString,
				Options: []string{"short", "medium", "long"},
				Default: "medium",
			},
		},
		"context_providers": providers,
	}
}

// DefaultSiteSchema returns the built-in site-wide preference schema.
func DefaultSiteSchema() Schema {
	return Schema{
		"ai_settings": {
			"max_tokens":  Field{Type: TypeNumber, Default: 4000, Min: 1000, Max: 8000},
			"temperature": Field{Type: TypeNumber, Default: 0.7, Min: 0.1, Max: 1.0},
			"model":       Field{Type: TypeString, Default: "gpt-4o"},
		},
	}
}

// Defaults computes the default preference tree declared by the schema.
func (s Schema) Defaults() map[string]any {
	tree := make(map[string]any, len(s))
	for name, section := range s {
		sub := make(map[string]any, len(section))
		for field, decl := range section {
			sub[field] = decl.Default
		}
		tree[name] = sub
	}
	return tree
}

// Validate sanitizes a raw preference tree against the schema. Unknown
// sections and fields are dropped, enum violations are dropped, numbers are
// clamped, booleans coerced, arrays sanitized element-wise. The returned
// tree contains only the fields that survived; it never errors.
func (s Schema) Validate(raw map[string]any) map[string]any {
	out := make(map[string]any)
	for name, decl := range s {
		rawSection, ok := raw[name].(map[string]any)
		if !ok {
			continue
		}
		clean := make(map[string]any)
		for field, fd := range decl {
			value, present := rawSection[field]
			if !present {
				continue
			}
			if v, ok := fd.sanitize(value); ok {
				clean[field] = v
			}
		}
		if len(clean) > 0 {
			out[name] = clean
		}
	}
	return out
}

// sanitize validates a single value against the field declaration.
func (f Field) sanitize(value any) (any, bool) {
	switch f.Type {
	case TypeBoolean:
		return coerceBool(value), true
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, false
		}
		if len(f.Options) > 0 && !optionAllowed(f.Options, str) {
			return nil, false
		}
		return str, true
	case TypeNumber:
		n, ok := coerceNumber(value)
		if !ok {
			return nil, false
		}
		if f.Min != 0 || f.Max != 0 {
			if n < f.Min {
				n = f.Min
			}
			if n > f.Max {
				n = f.Max
			}
		}
		return n, true
	case TypeArray:
		list, ok := value.([]any)
		if !ok {
			return nil, false
		}
		clean := make([]any, 0, len(list))
		for _, item := range list {
			switch item.(type) {
			case string, bool, int, int64, float64:
				clean = append(clean, item)
			}
		}
		return clean, true
	}
	return nil, false
}

func optionAllowed(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		return lower == "1" || lower == "true" || lower == "yes" || lower == "on"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Merge deep-merges overlay onto base: nested maps merge recursively,
// scalars and arrays from the overlay win. Neither input is mutated.
func Merge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		baseMap, okBase := out[k].(map[string]any)
		overlayMap, okOverlay := v.(map[string]any)
		if okBase && okOverlay {
			out[k] = Merge(baseMap, overlayMap)
			continue
		}
		out[k] = v
	}
	return out
}

// Value reads a dot-notation path from a nested tree, returning def when
// any segment is missing.
func Value(tree map[string]any, path string, def any) any {
	current := any(tree)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return def
		}
		current, ok = node[segment]
		if !ok {
			return def
		}
	}
	return current
}

// SetPath builds a sparse tree containing only the given dot-notation path.
func SetPath(path string, value any) (map[string]any, error) {
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("invalid preference path %q", path)
		}
	}
	tree := value
	for i := len(segments) - 1; i >= 0; i-- {
		tree = map[string]any{segments[i]: tree}
	}
	return tree.(map[string]any), nil
}
