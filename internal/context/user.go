package context

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/inkpress-ai/inkpress/internal/content"
	"github.com/inkpress-ai/inkpress/internal/prefs"
)

const (
	bioMaxWords        = 50
	userRecentPosts    = 5
	userTopCategories  = 3
)

// UserProvider contributes the acting author's profile, writing
// statistics, recent posts, and stored style preferences.
type UserProvider struct {
	store content.Store
	prefs *prefs.Engine
	cache *entryCache
}

// NewUserProvider creates a user context provider. The preferences engine
// is optional; without it stored style fields are omitted.
func NewUserProvider(store content.Store, engine *prefs.Engine) *UserProvider {
	return &UserProvider{
		store: store,
		prefs: engine,
		cache: newEntryCache(DefaultCacheTTL),
	}
}

// Key implements Provider.
func (p *UserProvider) Key() string { return "user" }

// Name implements Provider.
func (p *UserProvider) Name() string { return "Author Context" }

// Description implements Provider.
func (p *UserProvider) Description() string {
	return "Author profile, writing statistics, and stored preferences"
}

// Available implements Provider. Requires an authenticated user.
func (p *UserProvider) Available(opts Options) bool { return opts.UserID != 0 }

// Format implements Provider.
func (p *UserProvider) Format(entry *Entry, format Format) string {
	return FormatEntry(p.Name(), entry, format)
}

// Context implements Provider.
func (p *UserProvider) Context(ctx context.Context, opts Options) (*Entry, error) {
	if cached, ok := p.cache.get(opts); ok {
		return cached, nil
	}

	user, err := p.store.User(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", opts.UserID, err)
	}

	entry := NewEntry()
	entry.Set("display_name", user.DisplayName)
	if user.Email != "" {
		entry.Set("email", user.Email)
	}
	if len(user.Roles) > 0 {
		entry.Set("roles", user.Roles)
	}
	p.addProfile(entry, user)

	if !opts.Minimal {
		p.addWritingStats(ctx, entry, user)
		p.addRecentPosts(ctx, entry, opts.UserID)
		p.addContentPreferences(entry, user)
		p.addTopCategories(ctx, entry, opts.UserID)
	}
	p.addStylePreferences(entry, opts.UserID)

	p.cache.put(opts, entry)
	return entry, nil
}

func (p *UserProvider) addProfile(entry *Entry, user content.User) {
	if user.FirstName != "" {
		entry.Set("first_name", user.FirstName)
	}
	if user.LastName != "" {
		entry.Set("last_name", user.LastName)
	}
	if user.Bio != "" {
		entry.Set("bio", content.TrimWords(user.Bio, bioMaxWords))
	}
	if user.Website != "" {
		entry.Set("website", user.Website)
	}
}

func (p *UserProvider) addWritingStats(ctx context.Context, entry *Entry, user content.User) {
	published := []string{content.StatusPublished}
	posts, err := p.store.Query(ctx, content.QueryOptions{AuthorID: user.ID, Type: "post", Statuses: published})
	if err != nil {
		return
	}
	pages, _ := p.store.Query(ctx, content.QueryOptions{AuthorID: user.ID, Type: "page", Statuses: published})

	aiGenerated := 0
	for _, post := range posts {
		if post.AIGenerated() {
			aiGenerated++
		}
	}

	months := monthsSince(user.RegisteredAt)
	perMonth := 0.0
	if months > 0 {
		perMonth = float64(len(posts)) / float64(months)
	}

	entry.Set("writing_stats", map[string]any{
		"total_posts":     len(posts),
		"total_pages":     len(pages),
		"months_active":   months,
		"posts_per_month": perMonth,
		"ai_generated":    aiGenerated,
	})
}

func monthsSince(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	now := time.Now()
	months := (now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
	if months < 0 {
		return 0
	}
	return months
}

func (p *UserProvider) addRecentPosts(ctx context.Context, entry *Entry, userID int) {
	posts, err := p.store.Query(ctx, content.QueryOptions{
		AuthorID: userID,
		Type:     "post",
		Statuses: []string{content.StatusPublished},
		OrderBy:  content.OrderDate,
		Limit:    userRecentPosts,
	})
	if err != nil || len(posts) == 0 {
		return
	}

	summaries := make([]string, len(posts))
	for i, post := range posts {
		words := content.WordCount(content.HTMLToText(post.Content))
		summary := fmt.Sprintf("%q (%d words", post.Title, words)
		if len(post.Categories) > 0 {
			summary += ", " + post.Categories[0]
		}
		summary += ", " + post.PublishedAt.Format("2006-01-02") + ")"
		summaries[i] = summary
	}
	entry.Set("recent_posts", summaries)
}

func (p *UserProvider) addContentPreferences(entry *Entry, user content.User) {
	preferences := make(map[string]any)
	if user.DefaultFormat != "" {
		preferences["default_format"] = user.DefaultFormat
	}
	preferences["rich_editing"] = user.RichEditing
	if user.AdminColor != "" {
		preferences["admin_color"] = user.AdminColor
	}
	entry.Set("content_preferences", preferences)
}

func (p *UserProvider) addTopCategories(ctx context.Context, entry *Entry, userID int) {
	posts, err := p.store.Query(ctx, content.QueryOptions{
		AuthorID: userID,
		Type:     "post",
		Statuses: []string{content.StatusPublished},
	})
	if err != nil || len(posts) == 0 {
		return
	}

	counts := make(map[string]int)
	for _, post := range posts {
		for _, cat := range post.Categories {
			counts[cat]++
		}
	}
	if len(counts) == 0 {
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > userTopCategories {
		names = names[:userTopCategories]
	}
	entry.Set("top_categories", names)
}

func (p *UserProvider) addStylePreferences(entry *Entry, userID int) {
	if p.prefs == nil {
		return
	}
	tree := p.prefs.Get(prefs.ScopeUser, userID)
	style, ok := tree["writing_style"].(map[string]any)
	if !ok || len(style) == 0 {
		return
	}
	entry.Set("style_preferences", style)
}
