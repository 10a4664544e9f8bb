package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Compile resolves a template's placeholders and conditional blocks
// against the variable set and returns the final prompt text. Caller
// variables override the library's ambient defaults. Substitution is
// literal (no escaping); unresolved placeholders render empty; the result
// is trimmed.
//
// Compile is pure: identical template and variables always produce the
// same output.
func (l *Library) Compile(t *Template, vars map[string]any) string {
	merged := make(map[string]any)
	if l.defaults != nil {
		for k, v := range l.defaults() {
			merged[k] = v
		}
	}
	merged["current_date"] = l.now().Format("January 2, 2006")
	merged["current_time"] = l.now().Format("15:04")
	for k, v := range vars {
		merged[k] = v
	}

	// Stray closers make parseNodes return early; keep parsing so the
	// remainder of the template is not lost.
	var nodes []node
	for pos := 0; pos < len(t.Content); {
		parsed, next := parseNodes(t.Content, pos)
		nodes = append(nodes, parsed...)
		pos = next
	}

	var b strings.Builder
	renderNodes(&b, nodes, merged)
	return strings.TrimSpace(b.String())
}

// The template grammar is a flat token stream of text, {{var}}
// placeholders, and {{#if}}/{{#unless}} blocks. Blocks nest; the parser
// is recursive-descent so inner blocks resolve correctly.

type node interface{}

type textNode string

type varNode string

type blockNode struct {
	name     string
	negate   bool // unless
	children []node
}

// parseNodes parses until end of input or a closing tag, returning the
// parsed nodes and the index just past the closer.
func parseNodes(input string, pos int) ([]node, int) {
	var nodes []node

	for pos < len(input) {
		open := strings.Index(input[pos:], "{{")
		if open < 0 {
			nodes = append(nodes, textNode(input[pos:]))
			return nodes, len(input)
		}
		open += pos
		if open > pos {
			nodes = append(nodes, textNode(input[pos:open]))
		}

		end := strings.Index(input[open:], "}}")
		if end < 0 {
			// Unterminated tag: keep as literal text.
			nodes = append(nodes, textNode(input[open:]))
			return nodes, len(input)
		}
		end += open
		tag := strings.TrimSpace(input[open+2 : end])
		pos = end + 2

		switch {
		case strings.HasPrefix(tag, "#if "):
			children, next := parseNodes(input, pos)
			nodes = append(nodes, blockNode{
				name:     strings.TrimSpace(tag[4:]),
				children: children,
			})
			pos = next
		case strings.HasPrefix(tag, "#unless "):
			children, next := parseNodes(input, pos)
			nodes = append(nodes, blockNode{
				name:     strings.TrimSpace(tag[8:]),
				negate:   true,
				children: children,
			})
			pos = next
		case strings.HasPrefix(tag, "/"):
			// Close tag ends this level. A stray closer at top level is
			// swallowed, matching the "strip leftovers" rule.
			return nodes, pos
		default:
			nodes = append(nodes, varNode(tag))
		}
	}
	return nodes, pos
}

func renderNodes(b *strings.Builder, nodes []node, vars map[string]any) {
	for _, n := range nodes {
		switch v := n.(type) {
		case textNode:
			b.WriteString(string(v))
		case varNode:
			if value, ok := vars[string(v)]; ok {
				b.WriteString(stringifyVar(value))
			}
		case blockNode:
			if truthy(vars[v.name]) != v.negate {
				renderNodes(b, v.children, vars)
			}
		}
	}
}

// truthy implements conditional semantics: absent, empty string, "0",
// false, and zero numbers are false; everything else is true.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != "" && value != "0"
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case []string:
		return len(value) > 0
	case []any:
		return len(value) > 0
	}
	return true
}

func stringifyVar(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case []string:
		return strings.Join(value, ", ")
	default:
		return fmt.Sprintf("%v", value)
	}
}
