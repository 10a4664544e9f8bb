package context

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkpress-ai/inkpress/internal/log"
	"github.com/inkpress-ai/inkpress/internal/prefs"
	"github.com/inkpress-ai/inkpress/internal/template"
)

// ErrInvalidProvider is returned for a registration that violates the
// provider contract.
var ErrInvalidProvider = errors.New("context: invalid provider")

// Default registration priorities. Lower numbers gather and render first.
const (
	PrioritySite         = 5
	PriorityUser         = 10
	PriorityWritingStyle = 15
	PriorityContent      = 20
	PriorityConversation = 25

	// DefaultPriority applies when a registration does not specify one.
	DefaultPriority = 10
)

// defaultGatherTimeout bounds each provider's gather; a slow provider is
// skipped rather than stalling the request.
const defaultGatherTimeout = 5 * time.Second

// Hook mutates a gathered bundle before it is cached and returned.
type Hook func(bundle *Bundle, opts Options)

// BundleEntry pairs a provider key with its gathered entry.
type BundleEntry struct {
	Key   string
	Entry *Entry
}

// Bundle is the merged, priority-ordered output of all providers for one
// request.
type Bundle struct {
	entries []BundleEntry
}

// Keys returns the provider keys in priority order.
func (b *Bundle) Keys() []string {
	keys := make([]string, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the entry for a provider key.
func (b *Bundle) Get(key string) (*Entry, bool) {
	for _, e := range b.entries {
		if e.Key == key {
			return e.Entry, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Entries returns the ordered entries.
func (b *Bundle) Entries() []BundleEntry {
	return b.entries
}

// Remove drops a provider's entry from the bundle. Intended for hooks.
func (b *Bundle) Remove(key string) {
	for i, e := range b.entries {
		if e.Key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

type registration struct {
	key      string
	provider Provider
	priority int
	enabled  bool
	seq      int // registration order, tie-breaker for equal priority
}

// Manager owns the provider registry and orchestrates gathering.
type Manager struct {
	mu       sync.RWMutex
	registry map[string]*registration
	ordered  []*registration
	hooks    []Hook
	prefs    *prefs.Engine
	library  *template.Library
	seq      int

	cacheMu sync.Mutex
	cache   map[string]*Bundle

	timeout    time.Duration
	sequential bool
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithPrefs wires the preferences engine used for per-user provider
// enablement.
func WithPrefs(engine *prefs.Engine) ManagerOption {
	return func(m *Manager) { m.prefs = engine }
}

// WithGatherTimeout overrides the per-provider gather timeout.
func WithGatherTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithSequentialGather disables parallel gathering. Mainly for tests that
// need deterministic interleaving.
func WithSequentialGather() ManagerOption {
	return func(m *Manager) { m.sequential = true }
}

// NewManager creates an empty context manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: make(map[string]*registration),
		cache:    make(map[string]*Bundle),
		timeout:  defaultGatherTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds or replaces a provider under key with the given priority.
// The registry re-sorts ascending by priority; equal priorities keep
// registration order.
func (m *Manager) Register(key string, p Provider, priority int) error {
	if p == nil {
		return ErrInvalidProvider
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidProvider
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reg, exists := m.registry[key]
	if !exists {
		m.seq++
		reg = &registration{key: key, seq: m.seq}
		m.registry[key] = reg
	}
	reg.provider = p
	reg.priority = priority
	reg.enabled = true
	m.resort()
	m.invalidate()
	return nil
}

// Unregister removes a provider.
func (m *Manager) Unregister(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registry, key)
	m.resort()
	m.invalidate()
}

// SetEnabled toggles a provider without removing it.
func (m *Manager) SetEnabled(key string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reg, ok := m.registry[key]; ok {
		reg.enabled = enabled
		m.invalidate()
	}
}

// Providers returns the registered providers in priority order.
func (m *Manager) Providers() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Provider, len(m.ordered))
	for i, reg := range m.ordered {
		out[i] = reg.provider
	}
	return out
}

// AddHook registers a bundle mutation hook, run after gathering in
// registration order.
func (m *Manager) AddHook(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, h)
}

// resort rebuilds the ordered slice. Caller holds the lock.
func (m *Manager) resort() {
	m.ordered = m.ordered[:0]
	for _, reg := range m.registry {
		m.ordered = append(m.ordered, reg)
	}
	sort.SliceStable(m.ordered, func(i, j int) bool {
		if m.ordered[i].priority != m.ordered[j].priority {
			return m.ordered[i].priority < m.ordered[j].priority
		}
		return m.ordered[i].seq < m.ordered[j].seq
	})
}

// invalidate clears the bundle cache. Caller holds the registry lock (or
// is otherwise serialized).
func (m *Manager) invalidate() {
	m.cacheMu.Lock()
	m.cache = make(map[string]*Bundle)
	m.cacheMu.Unlock()
}

// InvalidateCache drops all cached bundles. Call between logical requests
// when reusing a manager.
func (m *Manager) InvalidateCache() {
	m.invalidate()
}

// Gather collects entries from every enabled, available, and included
// provider, in priority order. Provider failures are logged and skipped;
// gathering never fails wholesale because one provider errored.
func (m *Manager) Gather(ctx context.Context, opts Options, useCache bool) *Bundle {
	cacheKey := opts.hash()
	if useCache {
		m.cacheMu.Lock()
		cached, ok := m.cache[cacheKey]
		m.cacheMu.Unlock()
		if ok {
			return cached
		}
	}

	regs := m.eligible(opts)
	results := make([]*Entry, len(regs))

	if m.sequential {
		for i, reg := range regs {
			results[i] = m.gatherOne(ctx, reg, opts)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, reg := range regs {
			g.Go(func() error {
				results[i] = m.gatherOne(gctx, reg, opts)
				return nil
			})
		}
		_ = g.Wait()
	}

	// Assemble in priority order regardless of completion order.
	bundle := &Bundle{}
	for i, reg := range regs {
		if results[i].Len() > 0 {
			bundle.entries = append(bundle.entries, BundleEntry{Key: reg.key, Entry: results[i]})
		}
	}

	m.mu.RLock()
	hooks := m.hooks
	m.mu.RUnlock()
	for _, hook := range hooks {
		hook(bundle, opts)
	}

	if useCache {
		m.cacheMu.Lock()
		m.cache[cacheKey] = bundle
		m.cacheMu.Unlock()
	}
	return bundle
}

// eligible applies enablement, include/exclude, preference, and
// availability rules, returning providers in priority order.
func (m *Manager) eligible(opts Options) []*registration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var regs []*registration
	for _, reg := range m.ordered {
		if !reg.enabled {
			continue
		}
		if !m.included(reg.key, opts) {
			continue
		}
		if !reg.provider.Available(opts) {
			continue
		}
		regs = append(regs, reg)
	}
	return regs
}

// included applies the caller's include/exclude lists; when neither names
// the key, the user's stored provider preference decides (default true).
func (m *Manager) included(key string, opts Options) bool {
	for _, excluded := range opts.ExcludeProviders {
		if excluded == key {
			return false
		}
	}
	if len(opts.IncludeProviders) > 0 {
		for _, included := range opts.IncludeProviders {
			if included == key {
				return true
			}
		}
		return false
	}
	if m.prefs != nil && opts.UserID != 0 {
		return m.prefs.ProviderEnabled(opts.UserID, key)
	}
	return true
}

// gatherOne runs a single provider with timeout and panic isolation.
// It always returns a non-nil entry; failures yield an empty one.
func (m *Manager) gatherOne(ctx context.Context, reg *registration, opts Options) (entry *Entry) {
	entry = NewEntry()

	defer func() {
		if r := recover(); r != nil {
			log.Logger().Error("context provider panicked",
				zap.String("provider", reg.key),
				zap.Any("panic", r))
			entry = NewEntry()
		}
	}()

	gctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan struct{})
	var (
		result *Entry
		err    error
	)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				err = &panicError{value: r}
			}
		}()
		result, err = reg.provider.Context(gctx, opts)
	}()

	select {
	case <-done:
	case <-gctx.Done():
		log.Logger().Warn("context provider timed out",
			zap.String("provider", reg.key),
			zap.Duration("timeout", m.timeout))
		return entry
	}

	if err != nil {
		log.Logger().Warn("context provider failed",
			zap.String("provider", reg.key),
			zap.Error(err))
		return entry
	}
	if result != nil {
		entry = result
	}
	return entry
}

type panicError struct{ value any }

func (e *panicError) Error() string {
	return "provider panic"
}

// BuildString renders a bundle to text, joining each provider's formatted
// section. Markdown sections are separated by horizontal rules.
func (m *Manager) BuildString(bundle *Bundle, format Format) string {
	if bundle.Len() == 0 {
		return ""
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	separator := "\n\n"
	if format == FormatMarkdown {
		separator = "\n\n---\n\n"
	}

	var sections []string
	for _, be := range bundle.entries {
		reg, ok := m.registry[be.Key]
		if !ok {
			continue
		}
		if formatted := reg.provider.Format(be.Entry, format); formatted != "" {
			sections = append(sections, formatted)
		}
	}
	return strings.Join(sections, separator)
}

// RegisterDefaults registers the five standard providers with their
// conventional priorities. Providers passed as nil are skipped.
func (m *Manager) RegisterDefaults(site, user, style, contentProv, conversation Provider) error {
	defaults := []struct {
		p        Provider
		priority int
	}{
		{site, PrioritySite},
		{user, PriorityUser},
		{style, PriorityWritingStyle},
		{contentProv, PriorityContent},
		{conversation, PriorityConversation},
	}
	for _, d := range defaults {
		if d.p == nil {
			continue
		}
		if err := m.Register(d.p.Key(), d.p, d.priority); err != nil {
			return err
		}
	}
	return nil
}
