package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var _ ConfigProvider = (*YAMLProvider)(nil)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig reads the file over the defaults and validates the result.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfg := Default()

	data, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", y.filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", y.filename, err)
	}

	return cfg, nil
}

// Load returns the defaults when filename is empty and the file contents
// merged over them otherwise.
func Load(filename string) (*ConfigData, error) {
	if filename == "" {
		return Default(), nil
	}
	return NewYAMLProvider(filename).LoadConfig()
}

func normalizeBandKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
