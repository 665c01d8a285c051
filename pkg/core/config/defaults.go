package config

import "directory-tag/pkg/directory"

// Default values for configuration fields.
const (
	// DefaultSource is the site source relative to the configuration file.
	DefaultSource = "."

	// DefaultDestination is the output directory relative to the configuration file.
	DefaultDestination = "_site"

	// DefaultIncludes is the include directory relative to the source.
	DefaultIncludes = "_includes"

	// DefaultVerbose is the default log level (1 = INFO).
	DefaultVerbose = 1

	// DefaultEngine is the template engine name.
	DefaultEngine = "gonja"

	// DefaultWorkers is the number of pages rendered concurrently.
	DefaultWorkers = 4

	// DefaultExcludePattern matches the directory tag's own default.
	DefaultExcludePattern = directory.DefaultExcludePattern
)

// setDefaults applies default values to unset configuration fields.
// Verbose level 0 is valid (WARNING), so it is never defaulted; LoadConfig
// presets it before parsing instead.
func setDefaults(cfg *Config) {
	if cfg.Site.Source == "" {
		cfg.Site.Source = DefaultSource
	}
	if cfg.Site.Destination == "" {
		cfg.Site.Destination = DefaultDestination
	}
	if cfg.Site.Includes == "" {
		cfg.Site.Includes = DefaultIncludes
	}

	if cfg.Render.Engine == "" {
		cfg.Render.Engine = DefaultEngine
	}
	if cfg.Render.Workers == 0 {
		cfg.Render.Workers = DefaultWorkers
	}
}
