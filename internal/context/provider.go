// Package context gathers the contextual signals fed into prompt
// generation: site metadata, author profile, writing-style inference,
// related content, and conversation history. Each dimension is a Provider;
// the Manager merges provider output into a priority-ordered Bundle and
// renders it to text.
package context

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Provider produces one dimension of contextual data.
type Provider interface {
	// Key is the unique registry key, e.g. "site".
	Key() string

	// Name is the human-readable section name, e.g. "Site Context".
	Name() string

	// Description explains what the provider contributes.
	Description() string

	// Available reports whether the provider can produce data for the
	// given options (e.g. user-scoped providers need a user id).
	Available(opts Options) bool

	// Context computes the provider's entry. Implementations cache by
	// options within their TTL window.
	Context(ctx context.Context, opts Options) (*Entry, error)

	// Format renders the entry in the given format.
	Format(entry *Entry, format Format) string
}

// Options carries the per-request knobs providers read.
type Options struct {
	// UserID identifies the acting author; 0 means unauthenticated.
	UserID int `json:"userId,omitempty"`

	// Topic is the subject the caller wants content about.
	Topic string `json:"topic,omitempty"`

	// Keywords are additional search terms.
	Keywords []string `json:"keywords,omitempty"`

	// Mode is the generation mode (e.g. "draft", "outline", "revision").
	Mode string `json:"mode,omitempty"`

	// Minimal suppresses expensive extended lookups.
	Minimal bool `json:"minimal,omitempty"`

	// Provider-specific maxima. Zero means the provider default.
	MaxCategories  int `json:"maxCategories,omitempty"`
	MaxTags        int `json:"maxTags,omitempty"`
	MaxRecentPosts int `json:"maxRecentPosts,omitempty"`
	MaxRelated     int `json:"maxRelated,omitempty"`
	MaxSessions    int `json:"maxSessions,omitempty"`

	// IncludeProviders, when non-empty, restricts gathering to the listed
	// provider keys. ExcludeProviders drops keys. Both override stored
	// provider preferences.
	IncludeProviders []string `json:"includeProviders,omitempty"`
	ExcludeProviders []string `json:"excludeProviders,omitempty"`
}

// hash returns a stable cache key for the options. Struct field order is
// fixed, so JSON encoding is deterministic.
func (o Options) hash() string {
	data, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(data)
}

// Entry is one provider's bag of key/value facts. Keys keep insertion
// order so rendered sections are deterministic. Values are scalars,
// lists of scalars, or nested string-keyed maps (bounded depth).
type Entry struct {
	keys   []string
	values map[string]any
}

// NewEntry creates an empty entry.
func NewEntry() *Entry {
	return &Entry{values: make(map[string]any)}
}

// Set adds or replaces a value, preserving first-insertion order.
func (e *Entry) Set(key string, value any) {
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key.
func (e *Entry) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (e *Entry) Keys() []string {
	return e.keys
}

// Len returns the number of keys.
func (e *Entry) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Default provider cache windows.
const (
	DefaultCacheTTL      = 5 * time.Minute
	ConversationCacheTTL = time.Minute
)

const entryCacheSize = 64

// entryCache is a TTL cache of computed entries keyed by options.
type entryCache struct {
	lru *expirable.LRU[string, *Entry]
}

func newEntryCache(ttl time.Duration) *entryCache {
	return &entryCache{lru: expirable.NewLRU[string, *Entry](entryCacheSize, nil, ttl)}
}

func (c *entryCache) get(opts Options) (*Entry, bool) {
	return c.lru.Get(opts.hash())
}

func (c *entryCache) put(opts Options, entry *Entry) {
	c.lru.Add(opts.hash(), entry)
}
