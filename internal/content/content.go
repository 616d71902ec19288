// Package content loads the static portfolio content from its YAML file.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duckola/adolfo-portfolio/internal/domain"
)

// Load reads and parses the portfolio content file.
func Load(path string) (*domain.Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	var p domain.Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing content file %s: %w", path, err)
	}
	if p.Profile.Name == "" {
		return nil, fmt.Errorf("content file %s: profile.name is required", path)
	}
	return &p, nil
}

// Default returns a minimal placeholder portfolio, used when no content file
// is available so the server can still come up.
func Default() *domain.Portfolio {
	return &domain.Portfolio{
		Profile: domain.Profile{
			Name:    "Portfolio",
			Tagline: "Content file not configured",
		},
	}
}
