package context

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format selects the textual rendering style for context sections.
type Format string

const (
	// FormatStructured renders "NAME:" plus one "- Key: value" line per key.
	FormatStructured Format = "structured"
	// FormatMarkdown renders "## Name" plus bold key/value bullets.
	FormatMarkdown Format = "markdown"
	// FormatPlain renders sentence-joined "Key: value" pairs.
	FormatPlain Format = "plain"
)

// Stringification limits. Longer lists and larger maps are truncated
// silently; callers that care about completeness must flatten upstream.
const (
	maxListItems = 5
	maxMapPairs  = 3
)

// FormatEntry renders an entry under the given section name. Providers
// share this as their Format implementation.
func FormatEntry(name string, entry *Entry, format Format) string {
	if entry.Len() == 0 {
		return ""
	}

	switch format {
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("## " + name + "\n")
		for _, key := range entry.Keys() {
			v, _ := entry.Get(key)
			fmt.Fprintf(&b, "\n- **%s**: %s", label(key), Stringify(v))
		}
		return b.String()
	case FormatPlain:
		pairs := make([]string, 0, entry.Len())
		for _, key := range entry.Keys() {
			v, _ := entry.Get(key)
			pairs = append(pairs, label(key)+": "+Stringify(v))
		}
		return strings.Join(pairs, ". ")
	default:
		var b strings.Builder
		b.WriteString(strings.ToUpper(name) + ":")
		for _, key := range entry.Keys() {
			v, _ := entry.Get(key)
			b.WriteString("\n- " + label(key) + ": " + Stringify(v))
		}
		return b.String()
	}
}

// label turns a snake_case key into a display label ("site_name" → "Site Name").
func label(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if upper := strings.ToUpper(w); isInitialism(upper) {
			words[i] = upper
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isInitialism(word string) bool {
	switch word {
	case "SEO", "AI", "URL", "ID", "CTA":
		return true
	}
	return false
}

// Stringify converts a context value to display text. Booleans become
// "true"/"false", nil becomes "null", lists keep at most 5 items
// comma-joined, and nested maps keep at most 3 sorted "key: value" pairs.
func Stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return formatFloat(value)
	case float32:
		return formatFloat(float64(value))
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return stringifyList(items)
	case []any:
		return stringifyList(value)
	case map[string]any:
		return stringifyMap(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func stringifyList(items []any) string {
	if len(items) > maxListItems {
		items = items[:maxListItems]
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, ", ")
}

// stringifyMap renders up to maxMapPairs pairs. Keys are sorted so output
// stays deterministic; the remainder is dropped without a marker.
func stringifyMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxMapPairs {
		keys = keys[:maxMapPairs]
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = label(k) + ": " + Stringify(m[k])
	}
	return strings.Join(parts, ", ")
}
