package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/dlclark/regexp2"
)

// ValidateStructure performs structural validation on the configuration:
// required fields, value ranges and compilable patterns. It does not touch
// the filesystem.
func ValidateStructure(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateSiteConfig(&cfg.Site); err != nil {
		return fmt.Errorf("site: %w", err)
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if err := validateRenderConfig(&cfg.Render); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	for i := range cfg.PostProcessors {
		if err := validatePostProcessor(&cfg.PostProcessors[i]); err != nil {
			return fmt.Errorf("post_processors[%d]: %w", i, err)
		}
	}

	return nil
}

func validateSiteConfig(sc *SiteConfig) error {
	if sc.Source == "" {
		return fmt.Errorf("source cannot be empty")
	}
	if sc.Destination == "" {
		return fmt.Errorf("destination cannot be empty")
	}
	if filepath.Clean(sc.Source) == filepath.Clean(sc.Destination) {
		return fmt.Errorf("source and destination cannot be the same directory (%s)", sc.Source)
	}
	if !filepath.IsLocal(filepath.FromSlash(sc.Includes)) {
		return fmt.Errorf("includes must be a relative path inside the source, got %q", sc.Includes)
	}

	return nil
}

// validateLoggingConfig validates the logging configuration.
func validateLoggingConfig(lc *LoggingConfig) error {
	if lc.Verbose < 0 || lc.Verbose > 2 {
		return fmt.Errorf("verbose must be 0 (WARNING), 1 (INFO), or 2 (DEBUG), got %d", lc.Verbose)
	}

	return nil
}

func validateRenderConfig(rc *RenderConfig) error {
	if rc.Engine != DefaultEngine {
		return fmt.Errorf("engine must be %q, got %q", DefaultEngine, rc.Engine)
	}

	if rc.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", rc.Workers)
	}

	// Same options the directory tag compiles exclude patterns with.
	if pattern := rc.GetDefaultExclude(); pattern != "" {
		if _, err := regexp2.Compile(pattern, regexp2.IgnoreCase|regexp2.IgnorePatternWhitespace); err != nil {
			return fmt.Errorf("default_exclude %q: %w", pattern, err)
		}
	}

	for i, page := range rc.Pages {
		if !filepath.IsLocal(filepath.FromSlash(page)) {
			return fmt.Errorf("pages[%d] must be a relative path inside the source, got %q", i, page)
		}
	}

	return nil
}

func validatePostProcessor(pc *PostProcessorConfig) error {
	switch pc.Type {
	case "regex_replace":
		pattern, ok := pc.Params["pattern"]
		if !ok {
			return fmt.Errorf("regex_replace requires 'pattern' parameter")
		}
		if _, ok := pc.Params["replace"]; !ok {
			return fmt.Errorf("regex_replace requires 'replace' parameter")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	case "trim_trailing_whitespace":
	case "":
		return fmt.Errorf("type cannot be empty")
	default:
		return fmt.Errorf("unknown type %q", pc.Type)
	}

	return nil
}
