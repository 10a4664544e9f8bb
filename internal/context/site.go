package context

import (
	"context"
	"fmt"

	"github.com/inkpress-ai/inkpress/internal/content"
)

// Default caps for site lookups.
const (
	defaultMaxCategories = 5
	defaultMaxTags       = 10
	defaultMaxRecent     = 3
	recentExcerptWords   = 30
)

// SiteProvider contributes site metadata, taxonomy popularity, recent
// content, and aggregate statistics.
type SiteProvider struct {
	store content.Store
	cache *entryCache
}

// NewSiteProvider creates a site context provider over the content store.
func NewSiteProvider(store content.Store) *SiteProvider {
	return &SiteProvider{
		store: store,
		cache: newEntryCache(DefaultCacheTTL),
	}
}

// Key implements Provider.
func (p *SiteProvider) Key() string { return "site" }

// Name implements Provider.
func (p *SiteProvider) Name() string { return "Site Context" }

// Description implements Provider.
func (p *SiteProvider) Description() string {
	return "Site metadata, popular taxonomy terms, recent posts, and content statistics"
}

// Available implements Provider. Site context has no preconditions.
func (p *SiteProvider) Available(opts Options) bool { return true }

// Format implements Provider.
func (p *SiteProvider) Format(entry *Entry, format Format) string {
	return FormatEntry(p.Name(), entry, format)
}

// Context implements Provider.
func (p *SiteProvider) Context(ctx context.Context, opts Options) (*Entry, error) {
	if cached, ok := p.cache.get(opts); ok {
		return cached, nil
	}

	site, err := p.store.Site(ctx)
	if err != nil {
		return nil, fmt.Errorf("site info: %w", err)
	}

	entry := NewEntry()
	entry.Set("site_name", site.Name)
	if site.Tagline != "" {
		entry.Set("tagline", site.Tagline)
	}
	if site.Locale != "" {
		entry.Set("language", site.Locale)
	}
	if site.Timezone != "" {
		entry.Set("timezone", site.Timezone)
	}

	if !opts.Minimal {
		p.addTaxonomy(ctx, entry, opts)
		p.addRecentPosts(ctx, entry, opts)
		p.addStats(ctx, entry)
		if site.Theme != "" {
			entry.Set("active_theme", site.Theme)
		}
		p.addContentSettings(entry, site)
	}

	p.cache.put(opts, entry)
	return entry, nil
}

func (p *SiteProvider) addTaxonomy(ctx context.Context, entry *Entry, opts Options) {
	maxCats := opts.MaxCategories
	if maxCats <= 0 {
		maxCats = defaultMaxCategories
	}
	if cats, err := p.store.Categories(ctx); err == nil && len(cats) > 0 {
		if len(cats) > maxCats {
			cats = cats[:maxCats]
		}
		entry.Set("popular_categories", termNames(cats))
	}

	maxTags := opts.MaxTags
	if maxTags <= 0 {
		maxTags = defaultMaxTags
	}
	if tags, err := p.store.Tags(ctx); err == nil && len(tags) > 0 {
		if len(tags) > maxTags {
			tags = tags[:maxTags]
		}
		entry.Set("popular_tags", termNames(tags))
	}
}

func termNames(terms []content.TermCount) []string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.Name
	}
	return names
}

func (p *SiteProvider) addRecentPosts(ctx context.Context, entry *Entry, opts Options) {
	limit := opts.MaxRecentPosts
	if limit <= 0 {
		limit = defaultMaxRecent
	}
	posts, err := p.store.Query(ctx, content.QueryOptions{
		Type:     "post",
		Statuses: []string{content.StatusPublished},
		OrderBy:  content.OrderDate,
		Limit:    limit,
	})
	if err != nil || len(posts) == 0 {
		return
	}

	excerpts := make([]string, len(posts))
	for i, post := range posts {
		excerpts[i] = fmt.Sprintf("%q: %s", post.Title, content.PlainExcerpt(post, recentExcerptWords))
	}
	entry.Set("recent_posts", excerpts)
}

func (p *SiteProvider) addStats(ctx context.Context, entry *Entry) {
	stats, err := p.store.Stats(ctx)
	if err != nil {
		return
	}
	entry.Set("content_stats", map[string]any{
		"total_posts":    stats.Posts,
		"total_pages":    stats.Pages,
		"total_comments": stats.Comments,
		"total_authors":  stats.Authors,
	})
}

func (p *SiteProvider) addContentSettings(entry *Entry, site content.SiteInfo) {
	settings := make(map[string]any)
	if site.DateFormat != "" {
		settings["date_format"] = site.DateFormat
	}
	if site.TimeFormat != "" {
		settings["time_format"] = site.TimeFormat
	}
	if site.DefaultCategory != "" {
		settings["default_category"] = site.DefaultCategory
	}
	settings["comments_open"] = site.CommentsOpen
	entry.Set("content_settings", settings)
}
