// Package content defines the read-only content store the context engine
// draws from: posts, authors, taxonomy counts, and site metadata.
package content

import "time"

// Post statuses used by the store.
const (
	StatusPublished = "publish"
	StatusDraft     = "draft"
	StatusScheduled = "future"
)

// MetaAIGenerated marks posts produced by the assistant.
const MetaAIGenerated = "ai_generated"

// MetaFocusKeyword is the SEO focus keyword meta field.
const MetaFocusKeyword = "focus_keyword"

// Post is a post-like record from the content store.
type Post struct {
	ID           int               `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"` // raw HTML body
	Excerpt      string            `json:"excerpt,omitempty"`
	Type         string            `json:"type"` // "post" or "page"
	Status       string            `json:"status"`
	AuthorID     int               `json:"authorId"`
	Categories   []string          `json:"categories,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	CommentCount int               `json:"commentCount"`
	PublishedAt  time.Time         `json:"publishedAt"`
	Meta         map[string]string `json:"meta,omitempty"`
}

// AIGenerated reports whether the post carries the assistant marker.
func (p Post) AIGenerated() bool {
	return p.Meta[MetaAIGenerated] == "1"
}

// SiteInfo describes the site the content store belongs to.
type SiteInfo struct {
	Name            string `json:"name"`
	Tagline         string `json:"tagline,omitempty"`
	URL             string `json:"url,omitempty"`
	Locale          string `json:"locale,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	Theme           string `json:"theme,omitempty"`
	DateFormat      string `json:"dateFormat,omitempty"`
	TimeFormat      string `json:"timeFormat,omitempty"`
	DefaultCategory string `json:"defaultCategory,omitempty"`
	CommentsOpen    bool   `json:"commentsOpen"`
}

// User is an author profile record.
type User struct {
	ID            int       `json:"id"`
	DisplayName   string    `json:"displayName"`
	Email         string    `json:"email,omitempty"`
	Roles         []string  `json:"roles,omitempty"`
	FirstName     string    `json:"firstName,omitempty"`
	LastName      string    `json:"lastName,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Website       string    `json:"website,omitempty"`
	RegisteredAt  time.Time `json:"registeredAt"`
	RichEditing   bool      `json:"richEditing"`
	AdminColor    string    `json:"adminColor,omitempty"`
	DefaultFormat string    `json:"defaultFormat,omitempty"`
}

// TermCount pairs a taxonomy term with its usage count.
type TermCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats aggregates content counts across the site.
type Stats struct {
	Posts    int `json:"posts"`
	Pages    int `json:"pages"`
	Comments int `json:"comments"`
	Authors  int `json:"authors"`
}

// Order controls result ordering for queries.
type Order string

const (
	// OrderDate sorts newest first.
	OrderDate Order = "date"
	// OrderComments sorts by comment count descending.
	OrderComments Order = "comments"
)

// QueryOptions filters a post query. Zero values mean "no filter".
type QueryOptions struct {
	AuthorID  int
	Type      string
	Statuses  []string
	Category  string
	Tag       string
	After     time.Time
	Before    time.Time
	Search    []string // keywords matched against title and body (OR)
	OrderBy   Order
	Limit     int
	ExcludeAI bool // drop assistant-generated posts
}
