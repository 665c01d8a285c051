// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig parses YAML configuration and applies default values.
// Relative paths are left untouched; LoadConfigFile resolves them.
//
// Example:
//
//	cfg, err := config.LoadConfig(yamlString)
//	if err != nil {
//	    return err
//	}
//	// cfg now has defaults applied and is ready for validation
func LoadConfig(configYAML string) (*Config, error) {
	cfg, err := parseConfig(configYAML)
	if err != nil {
		return nil, err
	}

	setDefaults(cfg)

	return cfg, nil
}

// LoadConfigFile reads the configuration file at path, applies defaults and
// resolves the site paths against the file's directory.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg.ResolvePaths(filepath.Dir(abs))

	return cfg, nil
}

// ResolvePaths makes Source and Destination absolute relative to baseDir.
// Includes stays relative to Source.
func (c *Config) ResolvePaths(baseDir string) {
	c.Site.Source = resolveAgainst(baseDir, c.Site.Source)
	c.Site.Destination = resolveAgainst(baseDir, c.Site.Destination)
	if c.Metrics.Textfile != "" {
		c.Metrics.Textfile = resolveAgainst(baseDir, c.Metrics.Textfile)
	}
}

func resolveAgainst(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// parseConfig parses YAML configuration into a Config struct without
// applying defaults, except for the log level whose zero value is valid.
func parseConfig(configYAML string) (*Config, error) {
	if configYAML == "" {
		return nil, fmt.Errorf("config YAML is empty")
	}

	cfg := Config{Logging: LoggingConfig{Verbose: DefaultVerbose}}
	if err := yaml.Unmarshal([]byte(configYAML), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &cfg, nil
}
