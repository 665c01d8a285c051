// Copyright 2025 Philipp Hossner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides data models for the dirtag configuration file.
//
// The file is YAML. Relative paths in it are resolved against the directory
// that contains the file.
package config

// Config is the root configuration structure.
type Config struct {
	// Site locates the source and output trees.
	Site SiteConfig `yaml:"site"`

	// Logging configures logging behavior.
	Logging LoggingConfig `yaml:"logging"`

	// Render configures page rendering and directory tag defaults.
	Render RenderConfig `yaml:"render"`

	// PostProcessors are applied, in order, to every rendered page.
	//
	// Example:
	//   post_processors:
	//     - type: trim_trailing_whitespace
	//     - type: regex_replace
	//       params:
	//         pattern: "^\\s+<li>"
	//         replace: "<li>"
	PostProcessors []PostProcessorConfig `yaml:"post_processors"`

	// Metrics configures Prometheus metrics export.
	Metrics MetricsConfig `yaml:"metrics"`
}

// SiteConfig locates the site on disk.
type SiteConfig struct {
	// Source is the root every directory tag path is resolved against.
	// Default: "."
	Source string `yaml:"source"`

	// Destination receives rendered pages, mirroring their source paths.
	// Default: "_site"
	Destination string `yaml:"destination"`

	// Includes is the directory, relative to Source, that {% include %}
	// and {% extends %} references are resolved in.
	// Default: "_includes"
	Includes string `yaml:"includes"`

	// Vars are exposed to templates as members of `site`, e.g.
	// {% directory path: site.posts_dir %}.
	Vars map[string]interface{} `yaml:"vars"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Verbose controls log level: 0=WARNING, 1=INFO, 2=DEBUG
	// Default: 1
	Verbose int `yaml:"verbose"`
}

// RenderConfig configures rendering.
type RenderConfig struct {
	// Engine selects the template engine. Only "gonja" is supported.
	// Default: "gonja"
	Engine string `yaml:"engine"`

	// Workers bounds the number of pages rendered concurrently.
	// Default: 4
	Workers int `yaml:"workers"`

	// DefaultExclude is the exclude pattern of directory tags that do not set
	// one. An explicit empty string lists everything.
	// Default: "\.html$"
	DefaultExclude *string `yaml:"default_exclude"`

	// Pages lists the pages, relative to the source, rendered when none are
	// named on the command line.
	Pages []string `yaml:"pages"`
}

// PostProcessorConfig configures one post-processor.
type PostProcessorConfig struct {
	// Type is "regex_replace" or "trim_trailing_whitespace".
	Type string `yaml:"type"`

	// Params holds type-specific settings.
	Params map[string]string `yaml:"params"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives all metrics in Prometheus text format
	// after a run, for node_exporter's textfile collector.
	Textfile string `yaml:"textfile"`
}

// GetDefaultExclude returns the configured default exclude pattern.
func (r *RenderConfig) GetDefaultExclude() string {
	if r.DefaultExclude == nil {
		return DefaultExcludePattern
	}
	return *r.DefaultExclude
}
