package context

import (
	"context"
	"fmt"

	"github.com/inkpress-ai/inkpress/internal/template"
)

// WithLibrary wires the template library used by GeneratePrompt.
func WithLibrary(lib *template.Library) ManagerOption {
	return func(m *Manager) { m.library = lib }
}

// GeneratePrompt looks up a template by key, gathers context for the
// options, and compiles the template with the gathered context injected as
// the "context" variable (plus a "has_context" flag). Template lookup
// failures propagate; context gathering is fail-soft as usual.
func (m *Manager) GeneratePrompt(ctx context.Context, templateKey string, vars map[string]any, opts Options) (string, error) {
	if m.library == nil {
		return "", fmt.Errorf("generate prompt %q: no template library configured", templateKey)
	}
	t, err := m.library.Get(templateKey)
	if err != nil {
		return "", err
	}

	bundle := m.Gather(ctx, opts, true)
	contextString := m.BuildString(bundle, FormatStructured)

	merged := make(map[string]any, len(vars)+2)
	for k, v := range vars {
		merged[k] = v
	}
	merged["context"] = contextString
	merged["has_context"] = contextString != ""

	return m.library.Compile(t, merged), nil
}
