package context

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/inkpress-ai/inkpress/internal/content"
)

const (
	defaultMaxRelated  = 5
	trendingWindow     = 30 * 24 * time.Hour
	gapWindow          = 60 * 24 * time.Hour
	patternWindow      = 90 * 24 * time.Hour
	gapMinPosts        = 3
	trendingPostLimit  = 3
	patternSampleLimit = 3
	focusKeywordLimit  = 5
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "how": true,
	"in": true, "is": true, "it": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "this": true, "to": true, "was": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"why": true, "will": true, "with": true,
}

// monthSeasons is the fixed month→season bucket map (northern hemisphere).
var monthSeasons = map[time.Month]string{
	time.December: "winter", time.January: "winter", time.February: "winter",
	time.March: "spring", time.April: "spring", time.May: "spring",
	time.June: "summer", time.July: "summer", time.August: "summer",
	time.September: "autumn", time.October: "autumn", time.November: "autumn",
}

// monthEvents maps each month to notable events worth covering.
var monthEvents = map[time.Month][]string{
	time.January:   {"New Year resolutions", "fresh starts"},
	time.February:  {"Valentine's Day"},
	time.March:     {"spring cleaning", "International Women's Day"},
	time.April:     {"Earth Day", "spring holidays"},
	time.May:       {"Mother's Day", "graduation season"},
	time.June:      {"Father's Day", "start of summer"},
	time.July:      {"summer vacations"},
	time.August:    {"back-to-school preparation"},
	time.September: {"back to school", "autumn planning"},
	time.October:   {"Halloween"},
	time.November:  {"Thanksgiving", "Black Friday"},
	time.December:  {"holiday season", "year in review"},
}

// seasonTopics maps each season to evergreen topic suggestions.
var seasonTopics = map[string][]string{
	"winter": {"year-end reviews", "planning ahead", "indoor activities"},
	"spring": {"renewal and growth", "outdoor projects", "spring trends"},
	"summer": {"travel and leisure", "summer productivity", "outdoor living"},
	"autumn": {"harvest themes", "preparation guides", "cozy content"},
}

// ContentProvider contributes related posts, trending signals, content
// gaps, SEO hints, and seasonal angles for the requested topic.
type ContentProvider struct {
	store content.Store
	now   func() time.Time
	cache *entryCache
}

// NewContentProvider creates a content context provider.
func NewContentProvider(store content.Store) *ContentProvider {
	return &ContentProvider{
		store: store,
		now:   time.Now,
		cache: newEntryCache(DefaultCacheTTL),
	}
}

// Key implements Provider.
func (p *ContentProvider) Key() string { return "content" }

// Name implements Provider.
func (p *ContentProvider) Name() string { return "Content Landscape" }

// Description implements Provider.
func (p *ContentProvider) Description() string {
	return "Related posts, trending content, content gaps, SEO and seasonal signals"
}

// Available implements Provider.
func (p *ContentProvider) Available(opts Options) bool { return true }

// Format implements Provider.
func (p *ContentProvider) Format(entry *Entry, format Format) string {
	return FormatEntry(p.Name(), entry, format)
}

// Context implements Provider.
func (p *ContentProvider) Context(ctx context.Context, opts Options) (*Entry, error) {
	if cached, ok := p.cache.get(opts); ok {
		return cached, nil
	}

	entry := NewEntry()
	p.addRelated(ctx, entry, opts)
	if !opts.Minimal {
		p.addTrending(ctx, entry)
		p.addGaps(ctx, entry)
		p.addPatterns(ctx, entry)
		p.addSEO(ctx, entry, opts)
	}
	p.addSeasonal(entry)

	p.cache.put(opts, entry)
	return entry, nil
}

// ExtractKeywords splits a topic string into search keywords, dropping
// stop words and anything shorter than 3 characters.
func ExtractKeywords(topic string, extra []string) []string {
	var keywords []string
	seen := make(map[string]bool)

	add := func(word string) {
		word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if len(word) < 3 || stopWords[word] || seen[word] {
			return
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	for _, word := range strings.Fields(topic) {
		add(word)
	}
	for _, word := range extra {
		add(word)
	}
	return keywords
}

func (p *ContentProvider) addRelated(ctx context.Context, entry *Entry, opts Options) {
	keywords := ExtractKeywords(opts.Topic, opts.Keywords)
	if len(keywords) == 0 {
		return
	}

	limit := opts.MaxRelated
	if limit <= 0 {
		limit = defaultMaxRelated
	}
	posts, err := p.store.Query(ctx, content.QueryOptions{
		Type:      "post",
		Statuses:  []string{content.StatusPublished},
		Search:    keywords,
		OrderBy:   content.OrderDate,
		Limit:     limit,
		ExcludeAI: true,
	})
	if err != nil || len(posts) == 0 {
		return
	}

	related := make([]string, len(posts))
	for i, post := range posts {
		s := fmt.Sprintf("%q", post.Title)
		if len(post.Categories) > 0 {
			s += " (" + post.Categories[0] + ")"
		}
		related[i] = s
	}
	entry.Set("related_posts", related)
}

func (p *ContentProvider) addTrending(ctx context.Context, entry *Entry) {
	since := p.now().Add(-trendingWindow)
	posts, err := p.store.Query(ctx, content.QueryOptions{
		Type:     "post",
		Statuses: []string{content.StatusPublished},
		After:    since,
		OrderBy:  content.OrderComments,
		Limit:    trendingPostLimit,
	})
	if err == nil && len(posts) > 0 {
		titles := make([]string, 0, len(posts))
		tagCounts := make(map[string]int)
		for _, post := range posts {
			if post.CommentCount > 0 {
				titles = append(titles, fmt.Sprintf("%q (%d comments)", post.Title, post.CommentCount))
			}
		}
		if len(titles) > 0 {
			entry.Set("trending_posts", titles)
		}

		// Most-used tags over the same window, counted across all recent posts.
		recent, err := p.store.Query(ctx, content.QueryOptions{
			Type:     "post",
			Statuses: []string{content.StatusPublished},
			After:    since,
		})
		if err == nil {
			for _, post := range recent {
				for _, tag := range post.Tags {
					tagCounts[tag]++
				}
			}
			if tags := topTerms(tagCounts, defaultMaxCategories); len(tags) > 0 {
				entry.Set("trending_tags", tags)
			}
		}
	}
}

func topTerms(counts map[string]int, limit int) []string {
	terms := make([]content.TermCount, 0, len(counts))
	for name, n := range counts {
		terms = append(terms, content.TermCount{Name: name, Count: n})
	}
	// Count desc, then name, matching the store's taxonomy ordering.
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Name < terms[j].Name
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.Name
	}
	return names
}

// addGaps finds categories with an established body of posts but nothing
// published recently.
func (p *ContentProvider) addGaps(ctx context.Context, entry *Entry) {
	cats, err := p.store.Categories(ctx)
	if err != nil {
		return
	}
	cutoff := p.now().Add(-gapWindow)

	var gaps []string
	for _, cat := range cats {
		if cat.Count < gapMinPosts {
			continue
		}
		recent, err := p.store.Query(ctx, content.QueryOptions{
			Type:     "post",
			Statuses: []string{content.StatusPublished},
			Category: cat.Name,
			After:    cutoff,
			Limit:    1,
		})
		if err == nil && len(recent) == 0 {
			gaps = append(gaps, fmt.Sprintf("%s (%d posts, none recent)", cat.Name, cat.Count))
		}
	}
	if len(gaps) > 0 {
		entry.Set("content_gaps", gaps)
	}
}

// addPatterns mines the best-commented recent posts for what works.
func (p *ContentProvider) addPatterns(ctx context.Context, entry *Entry) {
	posts, err := p.store.Query(ctx, content.QueryOptions{
		Type:     "post",
		Statuses: []string{content.StatusPublished},
		After:    p.now().Add(-patternWindow),
		OrderBy:  content.OrderComments,
		Limit:    patternSampleLimit,
	})
	if err != nil || len(posts) == 0 {
		return
	}

	titleStyles := make(map[string]bool)
	categories := make(map[string]bool)
	totalWords := 0
	for _, post := range posts {
		titleStyles[classifyTitle(post.Title)] = true
		for _, cat := range post.Categories {
			categories[cat] = true
		}
		totalWords += content.WordCount(content.HTMLToText(post.Content))
	}

	pattern := map[string]any{
		"title_styles":       setToList(titleStyles),
		"categories":         setToList(categories),
		"average_word_count": totalWords / len(posts),
	}
	entry.Set("successful_patterns", pattern)
}

func classifyTitle(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.HasPrefix(lower, "how to"):
		return "how_to"
	case strings.Contains(title, "?"):
		return "question"
	case len(title) > 0 && title[0] >= '0' && title[0] <= '9':
		return "listicle"
	default:
		return "statement"
	}
}

func setToList(set map[string]bool) []string {
	list := make([]string, 0, len(set))
	for item := range set {
		list = append(list, item)
	}
	sort.Strings(list)
	return list
}

func (p *ContentProvider) addSEO(ctx context.Context, entry *Entry, opts Options) {
	seo := make(map[string]any)

	// Focus keywords recently used by published posts.
	posts, err := p.store.Query(ctx, content.QueryOptions{
		Type:     "post",
		Statuses: []string{content.StatusPublished},
		OrderBy:  content.OrderDate,
		Limit:    focusKeywordLimit,
	})
	if err == nil {
		var focus []string
		for _, post := range posts {
			if kw := post.Meta[content.MetaFocusKeyword]; kw != "" {
				focus = append(focus, kw)
			}
		}
		if len(focus) > 0 {
			seo["recent_focus_keywords"] = strings.Join(focus, ", ")
		}
	}

	if opts.Topic != "" {
		suggestions := []string{
			opts.Topic,
			opts.Topic + " guide",
			"how to " + strings.ToLower(opts.Topic),
			"best " + strings.ToLower(opts.Topic) + " tips",
		}
		seo["keyword_suggestions"] = strings.Join(suggestions, ", ")
	}

	if len(seo) > 0 {
		entry.Set("seo_context", seo)
	}
}

func (p *ContentProvider) addSeasonal(entry *Entry) {
	now := p.now()
	month := now.Month()
	season := monthSeasons[month]

	seasonal := map[string]any{
		"season": season,
		"month":  month.String(),
	}

	events := append([]string{}, monthEvents[month]...)
	next := month%12 + 1
	for _, event := range monthEvents[time.Month(next)] {
		events = append(events, "upcoming: "+event)
	}
	if len(events) > 0 {
		seasonal["events"] = strings.Join(events, ", ")
	}
	if topics := seasonTopics[season]; len(topics) > 0 {
		seasonal["topic_ideas"] = strings.Join(topics, ", ")
	}

	entry.Set("seasonal_context", seasonal)
}
