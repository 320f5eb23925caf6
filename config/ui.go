package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UIConfig parameterizes the results page. One template is rendered for every
// layout, with these values injected, instead of keeping per-variant copies of
// the page.
type UIConfig struct {
	Layout string  `yaml:"layout"`
	Theme  UITheme `yaml:"theme"`
}

type UITheme struct {
	Accent     string `yaml:"accent"`
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
}

func DefaultUI() UIConfig {
	return UIConfig{
		Layout: "split",
		Theme: UITheme{
			Accent:     "#2563eb",
			Background: "#ffffff",
			Text:       "#1f2937",
		},
	}
}

// LoadUI reads the UI configuration from a YAML file. An empty path returns
// the defaults.
func LoadUI(path string) (UIConfig, error) {
	cfg := DefaultUI()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read UI config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse UI config: %w", err)
	}

	if cfg.Layout != "split" && cfg.Layout != "stacked" {
		return cfg, fmt.Errorf("unknown layout %q", cfg.Layout)
	}
	return cfg, nil
}
