package context

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/inkpress-ai/inkpress/internal/content"
	"github.com/inkpress-ai/inkpress/internal/session"
)

const (
	recentMessageLimit  = 5
	messageTrimWords    = 20
	defaultMaxSessions  = 3
	patternSessionLimit = 10
)

var revisionPattern = regexp.MustCompile(`(?i)\b(revise|rewrite|change|instead|update|shorter|longer|redo|again)\b`)

// ConversationProvider contributes the current chat session, recent
// session summaries, and cross-session usage patterns.
type ConversationProvider struct {
	sessions session.Store
	cache    *entryCache
}

// NewConversationProvider creates a conversation context provider over the
// chat history store.
func NewConversationProvider(store session.Store) *ConversationProvider {
	return &ConversationProvider{
		sessions: store,
		cache:    newEntryCache(ConversationCacheTTL),
	}
}

// Key implements Provider.
func (p *ConversationProvider) Key() string { return "conversation" }

// Name implements Provider.
func (p *ConversationProvider) Name() string { return "Conversation Context" }

// Description implements Provider.
func (p *ConversationProvider) Description() string {
	return "Current session, recent session summaries, and usage patterns"
}

// Available implements Provider. Requires an authenticated user and a
// history store.
func (p *ConversationProvider) Available(opts Options) bool {
	return opts.UserID != 0 && p.sessions != nil
}

// Format implements Provider.
func (p *ConversationProvider) Format(entry *Entry, format Format) string {
	return FormatEntry(p.Name(), entry, format)
}

// Context implements Provider.
func (p *ConversationProvider) Context(ctx context.Context, opts Options) (*Entry, error) {
	if cached, ok := p.cache.get(opts); ok {
		return cached, nil
	}

	entry := NewEntry()

	active, err := p.sessions.Active(opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("active session for user %d: %w", opts.UserID, err)
	}
	if active != nil {
		p.addCurrentSession(entry, active)
	}

	if !opts.Minimal {
		p.addRecentSessions(entry, opts, active)
		p.addPatterns(entry, opts.UserID)
	}

	p.cache.put(opts, entry)
	return entry, nil
}

func (p *ConversationProvider) addCurrentSession(entry *Entry, sess *session.Session) {
	entry.Set("session_id", sess.ID)
	entry.Set("session_started", sess.CreatedAt.Format("2006-01-02 15:04"))
	entry.Set("message_count", len(sess.Messages))

	msgs := sess.Messages
	if len(msgs) > recentMessageLimit {
		msgs = msgs[len(msgs)-recentMessageLimit:]
	}
	if len(msgs) > 0 {
		recent := make([]string, len(msgs))
		for i, m := range msgs {
			recent[i] = m.Role + ": " + content.TrimWords(m.Content, messageTrimWords)
		}
		entry.Set("recent_messages", recent)
	}

	entry.Set("session_analysis", analyzeMessages(sess.Messages))
}

// analyzeMessages summarizes one session's message list.
func analyzeMessages(msgs []session.Message) map[string]any {
	var users, assistants, revisions, generated int
	modes := make(map[string]int)
	for _, m := range msgs {
		switch m.Role {
		case session.RoleUser:
			users++
			if revisionPattern.MatchString(m.Content) {
				revisions++
			}
			if m.Mode != "" {
				modes[m.Mode]++
			}
		case session.RoleAssistant:
			assistants++
		}
		if m.ContentGenerated {
			generated++
		}
	}

	analysis := map[string]any{
		"user_messages":      users,
		"assistant_messages": assistants,
		"revision_requests":  revisions,
		"content_generated":  generated,
	}
	if len(modes) > 0 {
		analysis["modes_used"] = strings.Join(rankModes(modes), ", ")
	}
	return analysis
}

func rankModes(modes map[string]int) []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if modes[names[i]] != modes[names[j]] {
			return modes[names[i]] > modes[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func (p *ConversationProvider) addRecentSessions(entry *Entry, opts Options, active *session.Session) {
	limit := opts.MaxSessions
	if limit <= 0 {
		limit = defaultMaxSessions
	}
	sessions, err := p.sessions.List(opts.UserID, limit+1)
	if err != nil {
		return
	}

	var summaries []string
	for _, sess := range sessions {
		if active != nil && sess.ID == active.ID {
			continue
		}
		if len(summaries) >= limit {
			break
		}
		summary := fmt.Sprintf("%s (%d messages)", sess.CreatedAt.Format("2006-01-02"), sess.MessageCount)
		if titles := generatedTitles(sess.Messages); len(titles) > 0 {
			summary += ", generated: " + strings.Join(titles, "; ")
		} else if topic := initialTopic(sess.Messages); topic != "" {
			summary += ", topic: " + topic
		}
		summaries = append(summaries, summary)
	}
	if len(summaries) > 0 {
		entry.Set("recent_sessions", summaries)
	}
}

func generatedTitles(msgs []session.Message) []string {
	var titles []string
	for _, m := range msgs {
		if m.GeneratedTitle != "" {
			titles = append(titles, m.GeneratedTitle)
		}
	}
	return titles
}

func initialTopic(msgs []session.Message) string {
	for _, m := range msgs {
		if m.Role == session.RoleUser {
			return content.TrimWords(m.Content, 10)
		}
	}
	return ""
}

// addPatterns aggregates behavior across the user's session history.
func (p *ConversationProvider) addPatterns(entry *Entry, userID int) {
	sessions, err := p.sessions.List(userID, 0)
	if err != nil || len(sessions) == 0 {
		return
	}

	recent := sessions
	if len(recent) > patternSessionLimit {
		recent = recent[:patternSessionLimit]
	}

	var (
		recentMessages int
		totalGenerated int
		totalRevisions int
		userMessages   int
		userWords      int
		modes          = make(map[string]int)
	)
	for _, sess := range recent {
		recentMessages += len(sess.Messages)
	}
	for _, sess := range sessions {
		for _, m := range sess.Messages {
			if m.ContentGenerated {
				totalGenerated++
			}
			if m.Role != session.RoleUser {
				continue
			}
			userMessages++
			userWords += content.WordCount(m.Content)
			if revisionPattern.MatchString(m.Content) {
				totalRevisions++
			}
			if m.Mode != "" {
				modes[m.Mode]++
			}
		}
	}

	patterns := map[string]any{
		"total_sessions":    len(sessions),
		"avg_messages":      float64(recentMessages) / float64(len(recent)),
		"content_generated": totalGenerated,
	}
	if ranked := rankModes(modes); len(ranked) > 0 {
		patterns["preferred_modes"] = strings.Join(ranked, ", ")
	}
	entry.Set("usage_patterns", patterns)

	if userMessages > 0 {
		style := map[string]any{
			"avg_message_words": float64(userWords) / float64(userMessages),
			"uses_revisions":    totalRevisions > 0,
			"revision_rate":     float64(totalRevisions) / float64(userMessages),
		}
		entry.Set("communication_style", style)
	}
}
