package template

import (
	"fmt"
	"strings"
)

// Scoring weights for best-match selection.
const (
	categoryScore    = 10
	contentTypeScore = 8
	styleScore       = 6
	conditionMet     = 3
	conditionMissed  = -2
	priorityCeiling  = 20
)

// Criteria describes the request a template is being selected for.
// Fields carries arbitrary condition inputs (e.g. "tone", "mode").
type Criteria struct {
	Category    string
	ContentType string
	Style       string
	Fields      map[string]any
}

// field resolves a condition field from Fields, falling back to the named
// criteria members.
func (c Criteria) field(name string) (any, bool) {
	if v, ok := c.Fields[name]; ok {
		return v, true
	}
	switch name {
	case "category":
		return c.Category, c.Category != ""
	case "content_type":
		return c.ContentType, c.ContentType != ""
	case "style":
		return c.Style, c.Style != ""
	}
	return nil, false
}

// FindBest scores every registered template against the criteria and
// returns the highest scorer. Scores floor at zero; when every template
// scores zero, ErrNoMatchingTemplate is returned.
func (l *Library) FindBest(criteria Criteria) (*Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		best      *Template
		bestScore int
	)
	for _, t := range l.templates {
		score := scoreTemplate(t, criteria)
		if score > bestScore {
			best, bestScore = t, score
			continue
		}
		// Deterministic tie-break: lower priority number, then key.
		if score == bestScore && best != nil && score > 0 {
			if t.Priority < best.Priority || (t.Priority == best.Priority && t.Key < best.Key) {
				best = t
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("criteria %+v: %w", criteria, ErrNoMatchingTemplate)
	}
	return best, nil
}

func scoreTemplate(t *Template, criteria Criteria) int {
	score := 0
	if criteria.Category != "" && t.Category == criteria.Category {
		score += categoryScore
	}
	if criteria.ContentType != "" && containsFold(t.ContentTypes, criteria.ContentType) {
		score += contentTypeScore
	}
	if criteria.Style != "" && containsFold(t.Styles, criteria.Style) {
		score += styleScore
	}
	for _, cond := range t.Conditions {
		if cond.matches(criteria) {
			score += conditionMet
		} else {
			score += conditionMissed
		}
	}
	score += (priorityCeiling - t.Priority) / 2
	if score < 0 {
		score = 0
	}
	return score
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// matches evaluates one condition against the criteria.
func (c Condition) matches(criteria Criteria) bool {
	actual, present := criteria.field(c.Field)
	actualStr := ""
	if present {
		actualStr = fmt.Sprintf("%v", actual)
	}

	switch c.Operator {
	case "equals":
		return present && actualStr == fmt.Sprintf("%v", c.Value)
	case "not_equals":
		return !present || actualStr != fmt.Sprintf("%v", c.Value)
	case "in":
		return present && valueList(c.Value)[actualStr]
	case "not_in":
		return !present || !valueList(c.Value)[actualStr]
	case "contains":
		return present && strings.Contains(actualStr, fmt.Sprintf("%v", c.Value))
	case "not_contains":
		return !present || !strings.Contains(actualStr, fmt.Sprintf("%v", c.Value))
	}
	return false
}

// valueList normalizes a condition value to a set of strings.
func valueList(value any) map[string]bool {
	set := make(map[string]bool)
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			set[s] = true
		}
	case []any:
		for _, item := range v {
			set[fmt.Sprintf("%v", item)] = true
		}
	default:
		set[fmt.Sprintf("%v", v)] = true
	}
	return set
}
