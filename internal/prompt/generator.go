// Package prompt composes gathered context, a selected template, and
// caller variables into the final prompt text handed to the model client.
package prompt

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	appctx "github.com/inkpress-ai/inkpress/internal/context"
	"github.com/inkpress-ai/inkpress/internal/log"
	"github.com/inkpress-ai/inkpress/internal/template"
)

// Generation modes understood by template selection.
const (
	ModeDraft    = "draft"
	ModeOutline  = "outline"
	ModeRevision = "revision"
	ModeSEO      = "seo"
)

// Request describes one prompt-generation call.
type Request struct {
	// Topic is the subject to write about.
	Topic string

	// Instructions carries free-form instructions (revision requests,
	// extra guidance).
	Instructions string

	// Mode selects the kind of output: draft, outline, revision, seo.
	Mode string

	// TemplateKey forces a specific template. When empty the best match
	// is selected from Mode/Tone/ContentType.
	TemplateKey string

	// Tone and ContentType feed template selection.
	Tone        string
	ContentType string

	// Variables are merged into template compilation, overriding the
	// derived ones.
	Variables map[string]any

	// Context tunes gathering. Topic, Keywords, Mode, and UserID are
	// filled from the request when unset.
	Context appctx.Options
}

// Generator is the prompt-generation facade.
type Generator struct {
	manager *appctx.Manager
	library *template.Library

	// fallback selects whether an unmatched template criteria falls back
	// to the default template instead of failing.
	fallback bool
}

// NewGenerator creates a facade over the context manager and template
// library. Selection failures fall back to the default template; use
// WithoutFallback to propagate them instead.
func NewGenerator(manager *appctx.Manager, library *template.Library, opts ...GeneratorOption) *Generator {
	g := &Generator{
		manager:  manager,
		library:  library,
		fallback: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratorOption configures the facade.
type GeneratorOption func(*Generator)

// WithoutFallback makes Generate return ErrNoMatchingTemplate instead of
// falling back to the default template.
func WithoutFallback() GeneratorOption {
	return func(g *Generator) { g.fallback = false }
}

// Generate resolves a template, gathers context, and compiles the final
// prompt text. It does not call the model API.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	t, err := g.resolveTemplate(req)
	if err != nil {
		return "", err
	}

	opts := req.Context
	if opts.Topic == "" {
		opts.Topic = req.Topic
	}
	if opts.Mode == "" {
		opts.Mode = req.Mode
	}

	bundle := g.manager.Gather(ctx, opts, true)
	contextString := g.manager.BuildString(bundle, appctx.FormatStructured)

	vars := map[string]any{
		"topic":        req.Topic,
		"instructions": req.Instructions,
		"mode":         req.Mode,
		"context":      contextString,
		"has_context":  contextString != "",
	}
	if len(opts.Keywords) > 0 {
		vars["keywords"] = strings.Join(opts.Keywords, ", ")
	}
	for k, v := range req.Variables {
		vars[k] = v
	}

	text := g.library.Compile(t, vars)
	log.Logger().Debug("prompt generated",
		zap.String("template", t.Key),
		zap.String("mode", req.Mode),
		zap.Int("providers", bundle.Len()),
		zap.Int("length", len(text)))
	return text, nil
}

// resolveTemplate picks a template by explicit key or best-match scoring.
func (g *Generator) resolveTemplate(req Request) (*template.Template, error) {
	if req.TemplateKey != "" {
		return g.library.Get(req.TemplateKey)
	}

	criteria := template.Criteria{
		Category:    categoryForMode(req.Mode),
		ContentType: req.ContentType,
		Style:       req.Tone,
		Fields: map[string]any{
			"tone": req.Tone,
			"mode": req.Mode,
		},
	}
	if fk, ok := req.Variables["focus_keyword"]; ok {
		criteria.Fields["focus_keyword"] = fk
	}

	t, err := g.library.FindBest(criteria)
	if err == nil {
		return t, nil
	}
	if g.fallback && errors.Is(err, template.ErrNoMatchingTemplate) {
		log.Logger().Debug("no matching template, using default",
			zap.String("mode", req.Mode),
			zap.String("tone", req.Tone))
		return g.library.Get(template.DefaultKey)
	}
	return nil, err
}

func categoryForMode(mode string) string {
	switch mode {
	case ModeOutline:
		return "outline"
	case ModeRevision:
		return "revision"
	case "", ModeDraft, ModeSEO:
		return "blog_post"
	}
	return "general"
}
