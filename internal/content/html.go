package content

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var (
	converter     = md.NewConverter("", true, nil)
	markdownMarks = regexp.MustCompile(`[*_#>` + "`" + `]+`)
	linkPattern   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
)

// HTMLToText converts an HTML post body to plain text suitable for word
// counting and excerpting. Structure is flattened: links keep their label,
// markdown markers are stripped, whitespace is collapsed.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}
	text, err := converter.ConvertString(html)
	if err != nil {
		// Fall back to a crude tag strip
		text = regexp.MustCompile(`<[^>]*>`).ReplaceAllString(html, " ")
	}
	text = linkPattern.ReplaceAllString(text, "$1")
	text = markdownMarks.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// WordCount counts whitespace-separated words in plain text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// TrimWords truncates text to at most n words, appending "..." when cut.
func TrimWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// PlainExcerpt returns the post excerpt if set, otherwise the first n words
// of the post body converted to plain text.
func PlainExcerpt(p Post, n int) string {
	if p.Excerpt != "" {
		return TrimWords(p.Excerpt, n)
	}
	return TrimWords(HTMLToText(p.Content), n)
}

// Paragraphs splits plain text into non-empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Sentences splits plain text on sentence terminators. Empty fragments are
// dropped.
func Sentences(text string) []string {
	var out []string
	for _, s := range regexp.MustCompile(`[.!?]+`).Split(text, -1) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
