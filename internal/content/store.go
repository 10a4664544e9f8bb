package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store is the read-only query surface the context providers depend on.
// Implementations wrap whatever CMS backs the site; MemoryStore is the
// in-process reference used by tests and the CLI demo mode.
type Store interface {
	// Site returns site-wide metadata.
	Site(ctx context.Context) (SiteInfo, error)

	// User returns the author profile for the given id.
	User(ctx context.Context, id int) (User, error)

	// Query returns posts matching the options, ordered and limited.
	Query(ctx context.Context, opts QueryOptions) ([]Post, error)

	// Categories returns category usage counts, highest first.
	Categories(ctx context.Context) ([]TermCount, error)

	// Tags returns tag usage counts, highest first.
	Tags(ctx context.Context) ([]TermCount, error)

	// Stats returns aggregate content statistics.
	Stats(ctx context.Context) (Stats, error)
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	site  SiteInfo
	users map[int]User
	posts []Post
}

// NewMemoryStore creates an empty in-memory content store.
func NewMemoryStore(site SiteInfo) *MemoryStore {
	return &MemoryStore{
		site:  site,
		users: make(map[int]User),
	}
}

// AddUser registers an author profile.
func (s *MemoryStore) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddPost appends a post record.
func (s *MemoryStore) AddPost(p Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Type == "" {
		p.Type = "post"
	}
	s.posts = append(s.posts, p)
}

// Site implements Store.
func (s *MemoryStore) Site(ctx context.Context) (SiteInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site, nil
}

// User implements Store.
func (s *MemoryStore) User(ctx context.Context, id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("user %d not found", id)
	}
	return u, nil
}

// Query implements Store.
func (s *MemoryStore) Query(ctx context.Context, opts QueryOptions) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Post
	for _, p := range s.posts {
		if !matches(p, opts) {
			continue
		}
		out = append(out, p)
	}

	switch opts.OrderBy {
	case OrderComments:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CommentCount > out[j].CommentCount
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		})
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func matches(p Post, opts QueryOptions) bool {
	if opts.AuthorID != 0 && p.AuthorID != opts.AuthorID {
		return false
	}
	if opts.Type != "" && p.Type != opts.Type {
		return false
	}
	if len(opts.Statuses) > 0 && !containsString(opts.Statuses, p.Status) {
		return false
	}
	if opts.Category != "" && !containsString(p.Categories, opts.Category) {
		return false
	}
	if opts.Tag != "" && !containsString(p.Tags, opts.Tag) {
		return false
	}
	if !opts.After.IsZero() && p.PublishedAt.Before(opts.After) {
		return false
	}
	if !opts.Before.IsZero() && p.PublishedAt.After(opts.Before) {
		return false
	}
	if opts.ExcludeAI && p.AIGenerated() {
		return false
	}
	if len(opts.Search) > 0 && !matchesSearch(p, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(p Post, keywords []string) bool {
	haystack := strings.ToLower(p.Title + " " + p.Content)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// Categories implements Store.
func (s *MemoryStore) Categories(ctx context.Context) ([]TermCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return termCounts(s.posts, func(p Post) []string { return p.Categories }), nil
}

// Tags implements Store.
func (s *MemoryStore) Tags(ctx context.Context) ([]TermCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return termCounts(s.posts, func(p Post) []string { return p.Tags }), nil
}

func termCounts(posts []Post, terms func(Post) []string) []TermCount {
	counts := make(map[string]int)
	for _, p := range posts {
		if p.Status != StatusPublished {
			continue
		}
		for _, t := range terms(p) {
			counts[t]++
		}
	}

	out := make([]TermCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TermCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Stats implements Store.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	authors := make(map[int]bool)
	for _, p := range s.posts {
		if p.Status != StatusPublished {
			continue
		}
		switch p.Type {
		case "page":
			st.Pages++
		default:
			st.Posts++
		}
		st.Comments += p.CommentCount
		authors[p.AuthorID] = true
	}
	st.Authors = len(authors)
	return st, nil
}
