package context

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/inkpress-ai/inkpress/internal/content"
	"github.com/inkpress-ai/inkpress/internal/prefs"
)

// Inference windows and thresholds.
const (
	styleSampleSize   = 10
	styleSampleWindow = 6 * 30 * 24 * time.Hour // ~6 months

	usageRatioThreshold = 0.5

	simpleSentenceMax   = 15.0
	moderateSentenceMax = 20.0

	personalDensityMin = 0.02
	formalDensityMin   = 0.005
	casualDensityMin   = 0.01
)

var (
	headingPattern  = regexp.MustCompile(`(?i)<h[2-6][\s>]|^#{1,6}\s`)
	listPattern     = regexp.MustCompile(`(?i)<[uo]l[\s>]|^[-*]\s|^\d+\.\s`)
	numberedPattern = regexp.MustCompile(`(?m)^\d+[.)]\s`)
	engagingOpening = regexp.MustCompile(`(?i)^(imagine|picture|have you|what if|did you know|ever wonder)|\?`)
	dataOpening     = regexp.MustCompile(`(?i)^\d|%|\d+ (percent|million|billion)|according to|study|research`)

	personalWords = []string{"i", "my", "me", "we", "our", "you", "your"}
	formalWords   = []string{"therefore", "however", "furthermore", "consequently", "moreover", "thus", "nevertheless"}
	casualWords   = []string{"really", "pretty", "kinda", "stuff", "awesome", "gonna", "basically", "honestly"}

	businessVocab  = []string{"business", "marketing", "sales", "startup", "finance", "consulting", "agency"}
	creativeVocab  = []string{"art", "design", "photography", "music", "craft", "writing", "studio"}
	technicalVocab = []string{"tech", "software", "developer", "code", "engineering", "data", "cloud"}
)

// StyleProvider infers the author's writing style from their recent posts
// and merges it with explicitly stored style preferences.
type StyleProvider struct {
	store content.Store
	prefs *prefs.Engine
	cache *entryCache
}

// NewStyleProvider creates a writing-style provider.
func NewStyleProvider(store content.Store, engine *prefs.Engine) *StyleProvider {
	return &StyleProvider{
		store: store,
		prefs: engine,
		cache: newEntryCache(DefaultCacheTTL),
	}
}

// Key implements Provider.
func (p *StyleProvider) Key() string { return "writing_style" }

// Name implements Provider.
func (p *StyleProvider) Name() string { return "Writing Style" }

// Description implements Provider.
func (p *StyleProvider) Description() string {
	return "Explicit style preferences merged with style inferred from recent posts"
}

// Available implements Provider. Inference needs an author.
func (p *StyleProvider) Available(opts Options) bool { return opts.UserID != 0 }

// Format implements Provider.
func (p *StyleProvider) Format(entry *Entry, format Format) string {
	return FormatEntry(p.Name(), entry, format)
}

// Context implements Provider.
func (p *StyleProvider) Context(ctx context.Context, opts Options) (*Entry, error) {
	if cached, ok := p.cache.get(opts); ok {
		return cached, nil
	}

	entry := NewEntry()
	p.addExplicitPreferences(entry, opts.UserID)

	posts, err := p.store.Query(ctx, content.QueryOptions{
		AuthorID:  opts.UserID,
		Type:      "post",
		Statuses:  []string{content.StatusPublished},
		After:     time.Now().Add(-styleSampleWindow),
		OrderBy:   content.OrderDate,
		Limit:     styleSampleSize,
		ExcludeAI: true,
	})
	if err == nil && len(posts) > 0 {
		p.addInferredStyle(entry, posts)
	}

	if site, err := p.store.Site(ctx); err == nil {
		if guideline := siteGuideline(site); guideline != "" {
			entry.Set("site_style_guideline", guideline)
		}
	}

	p.cache.put(opts, entry)
	return entry, nil
}

// addExplicitPreferences copies whatever style fields the user stored.
func (p *StyleProvider) addExplicitPreferences(entry *Entry, userID int) {
	if p.prefs == nil {
		return
	}
	tree := p.prefs.Get(prefs.ScopeUser, userID)
	style, ok := tree["writing_style"].(map[string]any)
	if !ok {
		return
	}
	for _, field := range []string{"tone", "voice", "target_audience", "complexity", "perspective", "preferred_length", "use_humor", "use_examples", "cta_style"} {
		if v, present := style[field]; present {
			entry.Set("preferred_"+field, v)
		}
	}
}

// addInferredStyle computes statistical style signals from the sample.
func (p *StyleProvider) addInferredStyle(entry *Entry, posts []content.Post) {
	var (
		totalWords      int
		totalParagraphs int
		totalSentences  int
		headingPosts    int
		listPosts       int
		questionPosts   int
		numberedPosts   int
		openings        = make(map[string]int)
		fullText        strings.Builder
	)

	for _, post := range posts {
		text := content.HTMLToText(post.Content)
		words := content.WordCount(text)
		paragraphs := content.Paragraphs(text)
		sentences := content.Sentences(text)

		totalWords += words
		totalParagraphs += len(paragraphs)
		totalSentences += len(sentences)

		if headingPattern.MatchString(post.Content) {
			headingPosts++
		}
		if listPattern.MatchString(post.Content) {
			listPosts++
		}
		if strings.Contains(text, "?") {
			questionPosts++
		}
		if numberedPattern.MatchString(text) {
			numberedPosts++
		}
		if len(paragraphs) > 0 {
			openings[classifyOpening(paragraphs[0])]++
		}

		fullText.WriteString(strings.ToLower(text))
		fullText.WriteString(" ")
	}

	n := len(posts)
	avgWords := totalWords / n
	avgParagraphs := totalParagraphs / n
	avgSentenceLen := 0.0
	if totalSentences > 0 {
		avgSentenceLen = float64(totalWords) / float64(totalSentences)
	}

	entry.Set("average_post_length", avgWords)
	entry.Set("average_paragraphs", avgParagraphs)
	entry.Set("average_sentence_length", avgSentenceLen)
	entry.Set("uses_headings", ratioExceeds(headingPosts, n))
	entry.Set("uses_lists", ratioExceeds(listPosts, n))
	entry.Set("complexity", complexityTier(avgSentenceLen))
	entry.Set("preferred_opening", majorityOpening(openings))
	entry.Set("uses_questions", ratioExceeds(questionPosts, n))
	entry.Set("uses_numbered_structure", ratioExceeds(numberedPosts, n))

	tone, usesExclamation := classifyTone(fullText.String())
	entry.Set("inferred_tone", tone)
	entry.Set("uses_exclamations", usesExclamation)
}

func ratioExceeds(count, total int) bool {
	return total > 0 && float64(count)/float64(total) > usageRatioThreshold
}

func complexityTier(avgSentenceLen float64) string {
	switch {
	case avgSentenceLen < simpleSentenceMax:
		return "simple"
	case avgSentenceLen <= moderateSentenceMax:
		return "moderate"
	default:
		return "complex"
	}
}

func classifyOpening(paragraph string) string {
	switch {
	case engagingOpening.MatchString(paragraph):
		return "engaging_opening"
	case dataOpening.MatchString(paragraph):
		return "data_driven"
	default:
		return "direct"
	}
}

func majorityOpening(openings map[string]int) string {
	best, bestCount := "direct", 0
	// Fixed precedence keeps ties deterministic.
	for _, style := range []string{"engaging_opening", "data_driven", "direct"} {
		if openings[style] > bestCount {
			best, bestCount = style, openings[style]
		}
	}
	return best
}

// classifyTone buckets the corpus by word-class densities:
// personal pronouns >2% → personal; formal connectives denser than casual
// words and >0.5% → formal; casual words >1% → casual; else neutral.
func classifyTone(text string) (tone string, usesExclamation bool) {
	words := strings.Fields(text)
	total := len(words)
	if total == 0 {
		return "neutral", false
	}

	personal := densityOf(words, personalWords)
	formal := densityOf(words, formalWords)
	casual := densityOf(words, casualWords)

	switch {
	case personal > personalDensityMin:
		tone = "personal"
	case formal > casual && formal > formalDensityMin:
		tone = "formal"
	case casual > casualDensityMin:
		tone = "casual"
	default:
		tone = "neutral"
	}
	return tone, strings.Contains(text, "!")
}

func densityOf(words []string, vocabulary []string) float64 {
	vocab := make(map[string]bool, len(vocabulary))
	for _, w := range vocabulary {
		vocab[w] = true
	}
	count := 0
	for _, w := range words {
		if vocab[strings.Trim(w, ".,!?;:\"'()")] {
			count++
		}
	}
	return float64(count) / float64(len(words))
}

// siteGuideline keyword-matches the site identity against broad vertical
// vocabularies and returns a style hint for that vertical.
func siteGuideline(site content.SiteInfo) string {
	identity := strings.ToLower(site.Name + " " + site.Tagline)
	switch {
	case matchesVocab(identity, businessVocab):
		return "Professional, results-oriented writing suited to a business audience"
	case matchesVocab(identity, creativeVocab):
		return "Expressive, visual writing suited to a creative audience"
	case matchesVocab(identity, technicalVocab):
		return "Precise, example-driven writing suited to a technical audience"
	}
	return ""
}

func matchesVocab(identity string, vocabulary []string) bool {
	for _, word := range vocabulary {
		if strings.Contains(identity, word) {
			return true
		}
	}
	return false
}
