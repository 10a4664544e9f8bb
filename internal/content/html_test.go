package content

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	got := HTMLToText(`<h2>Heading</h2><p>Hello <strong>world</strong> from <a href="https://example.com">our blog</a>.</p>`)

	for _, forbidden := range []string{"<", ">", "**", "##", "]("} {
		if strings.Contains(got, forbidden) {
			t.Errorf("output still contains %q: %q", forbidden, got)
		}
	}
	for _, want := range []string{"Heading", "Hello", "world", "our blog"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestHTMLToTextEmpty(t *testing.T) {
	if got := HTMLToText(""); got != "" {
		t.Errorf("HTMLToText(\"\") = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"  two   words  ", 2},
		{"a b c d e", 5},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTrimWords(t *testing.T) {
	if got := TrimWords("one two three four", 2); got != "one two..." {
		t.Errorf("TrimWords = %q", got)
	}
	if got := TrimWords("one two", 5); got != "one two" {
		t.Errorf("short input should be untouched, got %q", got)
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("First one. Second one! Third?  ")
	if len(got) != 3 {
		t.Fatalf("Sentences returned %d fragments: %v", len(got), got)
	}
	if got[1] != "Second one" {
		t.Errorf("second sentence = %q", got[1])
	}
}
