package context

import (
	"strings"
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"site_name", "Site Name"},
		{"seo_context", "SEO Context"},
		{"ai_generated", "AI Generated"},
		{"tone", "Tone"},
	}
	for _, tt := range tests {
		if got := label(tt.in); got != tt.want {
			t.Errorf("label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"nil", nil, "null"},
		{"int", 42, "42"},
		{"whole float", 5.0, "5"},
		{"fraction", 2.5, "2.5"},
		{"list", []string{"a", "b"}, "a, b"},
		{"long list truncated", []string{"1", "2", "3", "4", "5", "6", "7"}, "1, 2, 3, 4, 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringifyMapDeterministic(t *testing.T) {
	m := map[string]any{"delta": 4, "alpha": 1, "charlie": 3, "bravo": 2}

	first := Stringify(m)
	for i := 0; i < 20; i++ {
		if got := Stringify(m); got != first {
			t.Fatalf("map stringification not stable: %q vs %q", got, first)
		}
	}
	// Sorted keys, truncated to three pairs.
	if first != "Alpha: 1, Bravo: 2, Charlie: 3" {
		t.Errorf("map rendering = %q", first)
	}
}

func TestFormatEntryStructured(t *testing.T) {
	entry := NewEntry()
	entry.Set("site_name", "Acme Blog")
	entry.Set("tagline", "Just another blog")

	got := FormatEntry("Site Context", entry, FormatStructured)

	want := "SITE CONTEXT:\n- Site Name: Acme Blog\n- Tagline: Just another blog"
	if got != want {
		t.Errorf("structured = %q, want %q", got, want)
	}
}

func TestFormatEntryMarkdown(t *testing.T) {
	entry := NewEntry()
	entry.Set("site_name", "Acme Blog")

	got := FormatEntry("Site Context", entry, FormatMarkdown)

	if !strings.HasPrefix(got, "## Site Context\n") {
		t.Errorf("markdown heading missing: %q", got)
	}
	if !strings.Contains(got, "- **Site Name**: Acme Blog") {
		t.Errorf("markdown bullet missing: %q", got)
	}
}

func TestFormatEntryPlain(t *testing.T) {
	entry := NewEntry()
	entry.Set("site_name", "Acme Blog")
	entry.Set("language", "en_US")

	got := FormatEntry("Site Context", entry, FormatPlain)

	want := "Site Name: Acme Blog. Language: en_US"
	if got != want {
		t.Errorf("plain = %q, want %q", got, want)
	}
}

func TestFormatEntryEmpty(t *testing.T) {
	if got := FormatEntry("Site Context", NewEntry(), FormatStructured); got != "" {
		t.Errorf("empty entry should render empty, got %q", got)
	}
}

func TestEntryInsertionOrder(t *testing.T) {
	entry := NewEntry()
	entry.Set("b", 1)
	entry.Set("a", 2)
	entry.Set("b", 3) // replace keeps position

	keys := entry.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("keys = %v, want [b a]", keys)
	}
	if v, _ := entry.Get("b"); v != 3 {
		t.Errorf("replaced value = %v, want 3", v)
	}
}
