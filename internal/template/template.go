// Package template is the prompt template library: a registry of
// parameterized prompt skeletons with variable placeholders, conditional
// blocks, applicability conditions, and scored best-match selection.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTemplateNotFound is returned when a key is not registered.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrNoMatchingTemplate is returned when no template scores above
	// zero for the given criteria.
	ErrNoMatchingTemplate = errors.New("template: no matching template")
)

// DefaultKey is the fallback template used when selection fails and the
// caller asked for a fallback.
const DefaultKey = "default"

// Condition is one applicability test evaluated against selection criteria.
type Condition struct {
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"` // equals, not_equals, in, not_in, contains, not_contains
	Value    any    `yaml:"value"`
}

// Template is an immutable prompt skeleton. Content may contain {{var}}
// placeholders and {{#if var}}...{{/if}} / {{#unless var}}...{{/unless}}
// blocks.
type Template struct {
	Key          string            `yaml:"key"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Category     string            `yaml:"category"`
	ContentTypes []string          `yaml:"content_types"`
	Styles       []string          `yaml:"styles"`
	Variables    map[string]string `yaml:"variables"`
	Priority     int               `yaml:"priority"` // lower = preferred
	Conditions   []Condition       `yaml:"conditions"`
	Content      string            `yaml:"content"`
}

// DefaultVars supplies the ambient variables merged under caller variables
// at compile time (site name/url, current date/time, user display name).
type DefaultVars func() map[string]any

// Library is the template registry.
type Library struct {
	mu        sync.RWMutex
	templates map[string]*Template
	defaults  DefaultVars
	now       func() time.Time
}

// Option configures the library.
type Option func(*Library)

// WithDefaultVars sets the ambient variable supplier.
func WithDefaultVars(fn DefaultVars) Option {
	return func(l *Library) { l.defaults = fn }
}

// WithoutBuiltins skips registration of the shipped template set. Mainly
// for tests that want an empty registry.
func WithoutBuiltins() Option {
	return func(l *Library) { l.templates = map[string]*Template{} }
}

// NewLibrary creates a library pre-registered with the built-in templates.
func NewLibrary(opts ...Option) (*Library, error) {
	l := &Library{
		templates: nil,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.templates == nil {
		l.templates = make(map[string]*Template)
		if err := l.registerBuiltins(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register validates and adds a template. Field defaults are merged in:
// category "general", priority 10, empty variables and conditions. An
// existing key is replaced.
func (l *Library) Register(t Template) error {
	if strings.TrimSpace(t.Key) == "" {
		return fmt.Errorf("template: register: empty key")
	}
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("template: register %q: empty content", t.Key)
	}
	if t.Category == "" {
		t.Category = "general"
	}
	if t.Priority == 0 {
		t.Priority = 10
	}
	if t.Variables == nil {
		t.Variables = map[string]string{}
	}
	if t.Name == "" {
		t.Name = t.Key
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[t.Key] = &t
	return nil
}

// Get returns the template registered under key.
func (l *Library) Get(key string) (*Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[key]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", key, ErrTemplateNotFound)
	}
	return t, nil
}

// List returns all templates, optionally filtered by category, sorted by
// priority then key.
func (l *Library) List(category string) []*Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Template, 0, len(l.templates))
	for _, t := range l.templates {
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Key < out[j].Key
	})
	return out
}
