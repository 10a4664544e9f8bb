package template

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inkpress-ai/inkpress/internal/log"
)

// LoadDir registers every template file found under dir (recursively,
// *.yaml and *.yml). This is the extension hook for site-specific
// templates beyond the shipped set. Returns the number registered.
// Invalid files are logged and skipped.
func (l *Library) LoadDir(dir string) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.{yaml,yml}"))
	if err != nil {
		return 0, fmt.Errorf("scan template dir %s: %w", dir, err)
	}

	loaded := 0
	for _, path := range matches {
		t, err := loadFile(path)
		if err != nil {
			log.Logger().Warn("skipping template file",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		if err := l.Register(t); err != nil {
			log.Logger().Warn("skipping template file",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded, nil
}

func loadFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, err
	}
	return t, nil
}
