package template

import (
	"errors"
	"testing"
)

func TestScoreWeights(t *testing.T) {
	base := &Template{Key: "t", Priority: 20} // zero priority bonus

	tests := []struct {
		name     string
		template *Template
		criteria Criteria
		want     int
	}{
		{
			"category match",
			&Template{Key: "t", Category: "blog", Priority: 20},
			Criteria{Category: "blog"},
			10,
		},
		{
			"content type match",
			&Template{Key: "t", ContentTypes: []string{"post"}, Priority: 20},
			Criteria{ContentType: "post"},
			8,
		},
		{
			"style match",
			&Template{Key: "t", Styles: []string{"casual"}, Priority: 20},
			Criteria{Style: "casual"},
			6,
		},
		{
			"condition met",
			&Template{Key: "t", Priority: 20, Conditions: []Condition{
				{Field: "mode", Operator: "equals", Value: "outline"},
			}},
			Criteria{Fields: map[string]any{"mode": "outline"}},
			3,
		},
		{
			"condition missed floors at zero",
			&Template{Key: "t", Priority: 20, Conditions: []Condition{
				{Field: "mode", Operator: "equals", Value: "outline"},
			}},
			Criteria{Fields: map[string]any{"mode": "draft"}},
			0,
		},
		{
			"priority bonus",
			&Template{Key: "t", Category: "blog", Priority: 10},
			Criteria{Category: "blog"},
			15,
		},
		{
			"no signals",
			base,
			Criteria{},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreTemplate(tt.template, tt.criteria); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindBest(t *testing.T) {
	l := emptyLibrary(t)
	for _, tpl := range []Template{
		{Key: "casual", Content: "x", Category: "blog", Styles: []string{"casual"}, Priority: 10},
		{Key: "pro", Content: "x", Category: "blog", Styles: []string{"professional"}, Priority: 8},
		{Key: "outline", Content: "x", Category: "outline", Priority: 10, Conditions: []Condition{
			{Field: "mode", Operator: "equals", Value: "outline"},
		}},
	} {
		if err := l.Register(tpl); err != nil {
			t.Fatalf("Register(%s): %v", tpl.Key, err)
		}
	}

	got, err := l.FindBest(Criteria{Category: "blog", Style: "casual"})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}
	if got.Key != "casual" {
		t.Errorf("best = %s, want casual", got.Key)
	}

	got, err = l.FindBest(Criteria{
		Category: "outline",
		Fields:   map[string]any{"mode": "outline"},
	})
	if err != nil {
		t.Fatalf("FindBest outline: %v", err)
	}
	if got.Key != "outline" {
		t.Errorf("best = %s, want outline", got.Key)
	}
}

func TestFindBestNoMatch(t *testing.T) {
	l := emptyLibrary(t)
	if err := l.Register(Template{Key: "t", Content: "x", Category: "blog", Priority: 20}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := l.FindBest(Criteria{Category: "something-else"})
	if !errors.Is(err, ErrNoMatchingTemplate) {
		t.Errorf("err = %v, want ErrNoMatchingTemplate", err)
	}
}

func TestFindBestTieBreak(t *testing.T) {
	l := emptyLibrary(t)
	// Same score except priority, which also feeds the score, so pin
	// priorities equal and break the tie on key.
	for _, key := range []string{"bbb", "aaa"} {
		if err := l.Register(Template{Key: key, Content: "x", Category: "blog", Priority: 10}); err != nil {
			t.Fatalf("Register(%s): %v", key, err)
		}
	}

	got, err := l.FindBest(Criteria{Category: "blog"})
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}
	if got.Key != "aaa" {
		t.Errorf("tie-break chose %s, want aaa", got.Key)
	}
}

func TestConditionOperators(t *testing.T) {
	criteria := Criteria{Fields: map[string]any{
		"tone":    "casual",
		"keyword": "winter gardening",
	}}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals hit", Condition{Field: "tone", Operator: "equals", Value: "casual"}, true},
		{"equals miss", Condition{Field: "tone", Operator: "equals", Value: "formal"}, false},
		{"not_equals", Condition{Field: "tone", Operator: "not_equals", Value: "formal"}, true},
		{"not_equals absent field", Condition{Field: "missing", Operator: "not_equals", Value: "x"}, true},
		{"in hit", Condition{Field: "tone", Operator: "in", Value: []any{"casual", "friendly"}}, true},
		{"in miss", Condition{Field: "tone", Operator: "in", Value: []any{"formal"}}, false},
		{"not_in", Condition{Field: "tone", Operator: "not_in", Value: []any{"formal"}}, true},
		{"contains", Condition{Field: "keyword", Operator: "contains", Value: "garden"}, true},
		{"not_contains", Condition{Field: "keyword", Operator: "not_contains", Value: "summer"}, true},
		{"unknown operator", Condition{Field: "tone", Operator: "matches", Value: "casual"}, false},
		{"equals absent field", Condition{Field: "missing", Operator: "equals", Value: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.matches(criteria); got != tt.want {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}
