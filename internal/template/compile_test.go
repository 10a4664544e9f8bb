package template

import (
	"strings"
	"testing"
	"time"
)

func compileOne(t *testing.T, content string, vars map[string]any) string {
	t.Helper()
	l := emptyLibrary(t)
	if err := l.Register(Template{Key: "t", Content: content}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tpl, _ := l.Get("t")
	return l.Compile(tpl, vars)
}

func TestCompileSubstitutesVariables(t *testing.T) {
	got := compileOne(t, "Write about {{topic}} for {{audience}}.", map[string]any{
		"topic":    "cats",
		"audience": "beginners",
	})
	if got != "Write about cats for beginners." {
		t.Errorf("compiled = %q", got)
	}
}

func TestCompileStripsUnresolved(t *testing.T) {
	got := compileOne(t, "Write about {{topic}}{{missing}}.", map[string]any{"topic": "cats"})
	if got != "Write about cats." {
		t.Errorf("compiled = %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("leftover placeholder in %q", got)
	}
}

func TestCompileConditionals(t *testing.T) {
	content := "{{#if flag}}yes{{/if}}{{#unless flag}}no{{/unless}}"

	tests := []struct {
		name string
		flag any
		want string
	}{
		{"true", true, "yes"},
		{"false", false, "no"},
		{"absent", nil, "no"},
		{"empty string", "", "no"},
		{"zero string", "0", "no"},
		{"one string", "1", "yes"},
		{"non-empty", "x", "yes"},
		{"zero int", 0, "no"},
		{"nonzero int", 7, "yes"},
		{"empty list", []string{}, "no"},
		{"list", []string{"a"}, "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]any{}
			if tt.flag != nil {
				vars["flag"] = tt.flag
			}
			if got := compileOne(t, content, vars); got != tt.want {
				t.Errorf("compiled = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileNestedConditionals(t *testing.T) {
	content := "{{#if outer}}A{{#if inner}}B{{/if}}C{{/if}}"

	tests := []struct {
		name         string
		outer, inner bool
		want         string
	}{
		{"both", true, true, "ABC"},
		{"outer only", true, false, "AC"},
		{"neither", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compileOne(t, content, map[string]any{
				"outer": tt.outer,
				"inner": tt.inner,
			})
			if got != tt.want {
				t.Errorf("compiled = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileUnterminatedTagIsLiteral(t *testing.T) {
	got := compileOne(t, "before {{broken", nil)
	if got != "before {{broken" {
		t.Errorf("compiled = %q", got)
	}
}

func TestCompileStrayCloserSwallowed(t *testing.T) {
	got := compileOne(t, "a{{/if}}b", nil)
	if got != "ab" {
		t.Errorf("compiled = %q, want ab", got)
	}
}

func TestCompileAmbientDates(t *testing.T) {
	l := emptyLibrary(t)
	l.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	if err := l.Register(Template{Key: "t", Content: "Today is {{current_date}} at {{current_time}}."}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tpl, _ := l.Get("t")

	got := l.Compile(tpl, nil)
	if got != "Today is March 14, 2026 at 09:30." {
		t.Errorf("compiled = %q", got)
	}
}

func TestCompileCallerVarsOverrideDefaults(t *testing.T) {
	l, err := NewLibrary(
		WithoutBuiltins(),
		WithDefaultVars(func() map[string]any {
			return map[string]any{"site_name": "Default Site"}
		}),
	)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	if err := l.Register(Template{Key: "t", Content: "{{site_name}}"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tpl, _ := l.Get("t")

	if got := l.Compile(tpl, nil); got != "Default Site" {
		t.Errorf("default var = %q", got)
	}
	if got := l.Compile(tpl, map[string]any{"site_name": "Override"}); got != "Override" {
		t.Errorf("override = %q", got)
	}
}

func TestCompileDeterministic(t *testing.T) {
	l := emptyLibrary(t)
	l.now = func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	content := "{{a}} {{#if b}}{{b}}{{/if}} {{c}}"
	if err := l.Register(Template{Key: "t", Content: content}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tpl, _ := l.Get("t")
	vars := map[string]any{"a": "1", "b": "2", "c": "3"}

	first := l.Compile(tpl, vars)
	for i := 0; i < 50; i++ {
		if got := l.Compile(tpl, vars); got != first {
			t.Fatalf("output drifted: %q vs %q", got, first)
		}
	}
}

func TestCompileOutlineBuiltin(t *testing.T) {
	l, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	tpl, err := l.Get("outline")
	if err != nil {
		t.Fatalf("Get outline: %v", err)
	}

	got := l.Compile(tpl, map[string]any{
		"topic":      "cats",
		"is_outline": "1",
	})

	if !strings.Contains(got, "outline for a blog post about cats") {
		t.Errorf("topic not substituted: %q", got)
	}
	if !strings.Contains(got, "outline only") {
		t.Errorf("is_outline block missing: %q", got)
	}
	// No section_count given, the unless branch supplies the range.
	if !strings.Contains(got, "4-6") {
		t.Errorf("section fallback missing: %q", got)
	}
	if strings.Contains(got, "{{") || strings.Contains(got, "}}") {
		t.Errorf("unresolved syntax left in output: %q", got)
	}
}
