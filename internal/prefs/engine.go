package prefs

import (
	"errors"
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/inkpress-ai/inkpress/internal/log"
)

// ErrPermissionDenied is returned when a site-scope write is attempted
// without site-admin capability.
var ErrPermissionDenied = errors.New("prefs: permission denied")

// Scope selects the user or site preference namespace.
type Scope string

const (
	// ScopeUser is the per-account namespace, keyed by user id.
	ScopeUser Scope = "user"
	// ScopeSite is the site-wide singleton namespace.
	ScopeSite Scope = "site"
)

const cacheSize = 128

// Engine validates, persists, and serves preference trees for both scopes.
type Engine struct {
	store      Store
	userSchema Schema
	siteSchema Schema
	siteAdmin  func(userID int) bool
	cache      *expirable.LRU[string, map[string]any]
}

// Option configures the engine.
type Option func(*Engine)

// WithUserSchema overrides the built-in user schema.
func WithUserSchema(s Schema) Option {
	return func(e *Engine) { e.userSchema = s }
}

// WithSiteSchema overrides the built-in site schema.
func WithSiteSchema(s Schema) Option {
	return func(e *Engine) { e.siteSchema = s }
}

// WithSiteAdmin sets the capability check gating site-scope writes.
// Without it every site write is denied.
func WithSiteAdmin(check func(userID int) bool) Option {
	return func(e *Engine) { e.siteAdmin = check }
}

// NewEngine creates a preferences engine over the given settings store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		userSchema: DefaultUserSchema(),
		siteSchema: DefaultSiteSchema(),
		siteAdmin:  func(int) bool { return false },
		cache:      expirable.NewLRU[string, map[string]any](cacheSize, nil, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) schema(scope Scope) Schema {
	if scope == ScopeSite {
		return e.siteSchema
	}
	return e.userSchema
}

func storageKey(scope Scope, userID int) string {
	if scope == ScopeSite {
		return "site:prefs"
	}
	return fmt.Sprintf("user:%d:prefs", userID)
}

// Get returns the full preference tree for a scope: stored overrides
// deep-merged over schema defaults. userID is ignored for the site scope.
func (e *Engine) Get(scope Scope, userID int) map[string]any {
	key := storageKey(scope, userID)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	tree := e.schema(scope).Defaults()
	if stored, ok := e.store.Get(key); ok {
		tree = Merge(tree, e.schema(scope).Validate(stored))
	}
	e.cache.Add(key, tree)
	return tree
}

// Save validates and persists a preference tree. Only the validated subset
// is written; it is merged over any previously stored overrides so partial
// updates do not clobber earlier ones. Site-scope saves require the actor
// to pass the site-admin check.
func (e *Engine) Save(scope Scope, userID int, raw map[string]any) error {
	if scope == ScopeSite && !e.siteAdmin(userID) {
		return fmt.Errorf("save site preferences for user %d: %w", userID, ErrPermissionDenied)
	}

	clean := e.schema(scope).Validate(raw)
	key := storageKey(scope, userID)

	if stored, ok := e.store.Get(key); ok {
		clean = Merge(e.schema(scope).Validate(stored), clean)
	}
	if err := e.store.Set(key, clean); err != nil {
		return fmt.Errorf("persist preferences %s: %w", key, err)
	}

	e.cache.Remove(key)
	log.Logger().Debug("preferences saved",
		zap.String("scope", string(scope)),
		zap.Int("user", userID),
		zap.Int("sections", len(clean)))
	return nil
}

// ValueAt reads a single preference by dot-notation path, falling back to
// def when the path does not resolve.
func (e *Engine) ValueAt(scope Scope, userID int, path string, def any) any {
	return Value(e.Get(scope, userID), path, def)
}

// SetValue writes a single preference by dot-notation path. The write goes
// through the same validation as Save.
func (e *Engine) SetValue(scope Scope, userID int, path string, value any) error {
	tree, err := SetPath(path, value)
	if err != nil {
		return err
	}
	return e.Save(scope, userID, tree)
}

// Reset deletes stored overrides for a scope, reverting to defaults.
// Site-scope resets require site-admin capability, same as Save.
func (e *Engine) Reset(scope Scope, userID int) error {
	if scope == ScopeSite && !e.siteAdmin(userID) {
		return fmt.Errorf("reset site preferences for user %d: %w", userID, ErrPermissionDenied)
	}
	key := storageKey(scope, userID)
	if err := e.store.Delete(key); err != nil {
		return fmt.Errorf("reset preferences %s: %w", key, err)
	}
	e.cache.Remove(key)
	return nil
}

// ProviderEnabled reports whether the user has the named context provider
// enabled. Unknown providers default to enabled.
func (e *Engine) ProviderEnabled(userID int, providerKey string) bool {
	v := e.ValueAt(ScopeUser, userID, "context_providers."+providerKey, true)
	enabled, ok := v.(bool)
	if !ok {
		return true
	}
	return enabled
}
