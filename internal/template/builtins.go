package template

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// registerBuiltins loads the shipped template set from the embedded
// filesystem.
func (l *Library) registerBuiltins() error {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("read builtin templates: %w", err)
	}
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read builtin template %s: %w", entry.Name(), err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parse builtin template %s: %w", entry.Name(), err)
		}
		if err := l.Register(t); err != nil {
			return err
		}
	}
	return nil
}
