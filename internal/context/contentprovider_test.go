package context

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/inkpress-ai/inkpress/internal/content"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		extra []string
		want  []string
	}{
		{"stop words dropped", "how to grow the best tomatoes", nil, []string{"grow", "best", "tomatoes"}},
		{"short words dropped", "go to an AI demo", nil, []string{"demo"}},
		{"punctuation trimmed", "winter gardening, indoors!", nil, []string{"winter", "gardening", "indoors"}},
		{"extras merged deduped", "winter tips", []string{"Winter", "pruning"}, []string{"winter", "tips", "pruning"}},
		{"empty", "", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.topic, tt.extra)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("keywords = %v, want %v", got, tt.want)
			}
		})
	}
}

func contentFixture(now time.Time) *content.MemoryStore {
	store := content.NewMemoryStore(content.SiteInfo{Name: "Garden Blog"})
	store.AddUser(content.User{ID: 1, DisplayName: "Alice"})

	// Matches topic keywords; recent and busy.
	store.AddPost(content.Post{
		ID: 1, Title: "Winter Gardening Checklist", Content: "<p>Protect beds before winter frost arrives.</p>",
		Status: content.StatusPublished, AuthorID: 1, Type: "post",
		Categories: []string{"gardening"}, Tags: []string{"winter", "checklist"},
		CommentCount: 12, PublishedAt: now.AddDate(0, 0, -10),
		Meta: map[string]string{content.MetaFocusKeyword: "winter gardening"},
	})
	store.AddPost(content.Post{
		ID: 2, Title: "How to Compost Kitchen Scraps", Content: "<p>Composting basics for beginners.</p>",
		Status: content.StatusPublished, AuthorID: 1, Type: "post",
		Categories: []string{"gardening"}, Tags: []string{"compost"},
		CommentCount: 3, PublishedAt: now.AddDate(0, 0, -20),
	})
	// An established but stale category.
	for i := 0; i < 3; i++ {
		store.AddPost(content.Post{
			ID: 10 + i, Title: "Old Recipe", Content: "<p>Cooking notes.</p>",
			Status: content.StatusPublished, AuthorID: 1, Type: "post",
			Categories:  []string{"recipes"},
			PublishedAt: now.AddDate(0, -6, 0),
		})
	}
	return store
}

func TestContentProviderRelatedPosts(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	p := NewContentProvider(contentFixture(now))
	p.now = func() time.Time { return now }

	entry, err := p.Context(context.Background(), Options{Topic: "winter gardening"})
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	v, ok := entry.Get("related_posts")
	if !ok {
		t.Fatal("related_posts missing")
	}
	related := v.([]string)
	joined := strings.Join(related, " | ")
	if !strings.Contains(joined, "Winter Gardening Checklist") {
		t.Errorf("related = %v", related)
	}
}

func TestContentProviderTrendingAndGaps(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	p := NewContentProvider(contentFixture(now))
	p.now = func() time.Time { return now }

	entry, err := p.Context(context.Background(), Options{Topic: "gardening"})
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	v, ok := entry.Get("trending_posts")
	if !ok {
		t.Fatal("trending_posts missing")
	}
	if joined := strings.Join(v.([]string), " "); !strings.Contains(joined, "12 comments") {
		t.Errorf("trending = %v", v)
	}

	gaps, ok := entry.Get("content_gaps")
	if !ok {
		t.Fatal("content_gaps missing")
	}
	if joined := strings.Join(gaps.([]string), " "); !strings.Contains(joined, "recipes") {
		t.Errorf("gaps = %v", gaps)
	}
}

func TestContentProviderSeasonal(t *testing.T) {
	store := content.NewMemoryStore(content.SiteInfo{Name: "Empty Blog"})
	p := NewContentProvider(store)
	p.now = func() time.Time {
		return time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	}

	entry, err := p.Context(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	v, ok := entry.Get("seasonal_context")
	if !ok {
		t.Fatal("seasonal_context missing")
	}
	seasonal := v.(map[string]any)
	if seasonal["season"] != "winter" {
		t.Errorf("season = %v, want winter", seasonal["season"])
	}
	if seasonal["month"] != "December" {
		t.Errorf("month = %v, want December", seasonal["month"])
	}
	events, _ := seasonal["events"].(string)
	if !strings.Contains(events, "holiday season") {
		t.Errorf("events = %q", events)
	}
	// January events appear as upcoming.
	if !strings.Contains(events, "upcoming: New Year resolutions") {
		t.Errorf("upcoming events missing: %q", events)
	}
}

func TestContentProviderSEO(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	p := NewContentProvider(contentFixture(now))
	p.now = func() time.Time { return now }

	entry, err := p.Context(context.Background(), Options{Topic: "Raised Beds"})
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	v, ok := entry.Get("seo_context")
	if !ok {
		t.Fatal("seo_context missing")
	}
	seo := v.(map[string]any)
	if kw, _ := seo["recent_focus_keywords"].(string); !strings.Contains(kw, "winter gardening") {
		t.Errorf("recent_focus_keywords = %q", kw)
	}
	if sug, _ := seo["keyword_suggestions"].(string); !strings.Contains(sug, "how to raised beds") {
		t.Errorf("keyword_suggestions = %q", sug)
	}
}

func TestContentProviderMinimalSkipsExtended(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	p := NewContentProvider(contentFixture(now))
	p.now = func() time.Time { return now }

	entry, err := p.Context(context.Background(), Options{Topic: "gardening", Minimal: true})
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	for _, key := range []string{"trending_posts", "content_gaps", "successful_patterns", "seo_context"} {
		if _, ok := entry.Get(key); ok {
			t.Errorf("minimal mode should skip %s", key)
		}
	}
	if _, ok := entry.Get("seasonal_context"); !ok {
		t.Error("seasonal context should survive minimal mode")
	}
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"How to Prune Roses", "how_to"},
		{"Why Do Gardens Fail?", "question"},
		{"7 Tips for New Gardeners", "listicle"},
		{"The State of Urban Gardening", "statement"},
	}
	for _, tt := range tests {
		if got := classifyTitle(tt.in); got != tt.want {
			t.Errorf("classifyTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
