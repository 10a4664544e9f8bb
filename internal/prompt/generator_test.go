package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	appctx "github.com/inkpress-ai/inkpress/internal/context"
	"github.com/inkpress-ai/inkpress/internal/template"
)

// stubProvider serves a fixed entry for facade tests.
type stubProvider struct {
	key   string
	name  string
	entry *appctx.Entry
}

func (s *stubProvider) Key() string  { return s.key }
func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Description() string { return "stub" }

func (s *stubProvider) Available(opts appctx.Options) bool { return true }

func (s *stubProvider) Context(ctx context.Context, opts appctx.Options) (*appctx.Entry, error) {
	return s.entry, nil
}

func (s *stubProvider) Format(entry *appctx.Entry, format appctx.Format) string {
	return appctx.FormatEntry(s.name, entry, format)
}

func testGenerator(t *testing.T, opts ...GeneratorOption) *Generator {
	t.Helper()

	entry := appctx.NewEntry()
	entry.Set("site_name", "Acme Blog")
	manager := appctx.NewManager()
	if err := manager.Register("site", &stubProvider{key: "site", name: "Site Context", entry: entry}, 5); err != nil {
		t.Fatalf("Register: %v", err)
	}

	library, err := template.NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return NewGenerator(manager, library, opts...)
}

func TestGenerateDraftWithContext(t *testing.T) {
	g := testGenerator(t)

	text, err := g.Generate(context.Background(), Request{
		Topic: "winter gardening",
		Mode:  ModeDraft,
		Tone:  "casual",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(text, "winter gardening") {
		t.Errorf("topic missing from prompt: %q", text)
	}
	if !strings.Contains(text, "SITE CONTEXT:\n- Site Name: Acme Blog") {
		t.Errorf("context section missing: %q", text)
	}
	if strings.Contains(text, "{{") || strings.Contains(text, "}}") {
		t.Errorf("unresolved template syntax: %q", text)
	}
}

func TestGenerateOutlineMode(t *testing.T) {
	g := testGenerator(t)

	text, err := g.Generate(context.Background(), Request{
		Topic:     "cats",
		Mode:      ModeOutline,
		Variables: map[string]any{"is_outline": "1"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(text, "outline") {
		t.Errorf("outline template not selected: %q", text)
	}
	if !strings.Contains(text, "cats") {
		t.Errorf("topic missing: %q", text)
	}
	if strings.Contains(text, "{{") || strings.Contains(text, "}}") {
		t.Errorf("unresolved template syntax: %q", text)
	}
}

func TestGenerateExplicitTemplate(t *testing.T) {
	g := testGenerator(t)

	text, err := g.Generate(context.Background(), Request{
		Topic:       "coffee",
		TemplateKey: "blog-post-technical",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "coffee") {
		t.Errorf("topic missing: %q", text)
	}

	_, err = g.Generate(context.Background(), Request{
		Topic:       "coffee",
		TemplateKey: "no-such-template",
	})
	if !errors.Is(err, template.ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestGenerateFallsBackToDefault(t *testing.T) {
	manager := appctx.NewManager()
	library, err := template.NewLibrary(template.WithoutBuiltins())
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	// Both candidates score zero for a draft request: the conditional one
	// misses its condition and neither carries a priority bonus.
	for _, tpl := range []template.Template{
		{Key: "strict", Content: "strict prompt", Priority: 20, Conditions: []template.Condition{
			{Field: "mode", Operator: "equals", Value: "outline"},
		}},
		{Key: template.DefaultKey, Content: "fallback prompt about {{topic}}", Priority: 20},
	} {
		if err := library.Register(tpl); err != nil {
			t.Fatalf("Register(%s): %v", tpl.Key, err)
		}
	}

	g := NewGenerator(manager, library)
	text, err := g.Generate(context.Background(), Request{Topic: "tea", Mode: ModeDraft})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "fallback prompt about tea" {
		t.Errorf("fallback output = %q", text)
	}

	strictGen := NewGenerator(manager, library, WithoutFallback())
	_, err = strictGen.Generate(context.Background(), Request{Topic: "tea", Mode: ModeDraft})
	if !errors.Is(err, template.ErrNoMatchingTemplate) {
		t.Errorf("err = %v, want ErrNoMatchingTemplate", err)
	}
}

func TestGenerateNoContext(t *testing.T) {
	manager := appctx.NewManager()
	library, err := template.NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	g := NewGenerator(manager, library)

	text, err := g.Generate(context.Background(), Request{Topic: "tea", Mode: ModeDraft})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// has_context is false, so the context block is omitted entirely.
	if strings.Contains(text, "Background") {
		t.Errorf("context block rendered without context: %q", text)
	}
}
