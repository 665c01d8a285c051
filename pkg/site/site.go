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


// Package site renders the pages of a site source tree into its destination
// tree.
//
// A page is any template below the source root. Rendering a page runs it
// through the templating engine with the site bound to `site`, so its
// {% directory %} blocks list directories relative to the source root, and
// writes the output to the same relative path below the destination.
package site

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"directory-tag/pkg/core/config"
)

// Site is a source tree on disk together with its output location and the
// variables exposed to templates.
type Site struct {
	source      string
	destination string
	includes    string
	vars        map[string]interface{}
}

// New validates the configured source directory and builds a Site.
// Relative paths are made absolute against the working directory.
func New(cfg config.SiteConfig) (*Site, error) {
	source, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source %q: %w", cfg.Source, err)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", source)
	}

	destination, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination %q: %w", cfg.Destination, err)
	}
	if destination == source {
		return nil, fmt.Errorf("destination must differ from source %s", source)
	}

	return &Site{
		source:      source,
		destination: destination,
		includes:    filepath.Join(source, filepath.FromSlash(cfg.Includes)),
		vars:        maps.Clone(cfg.Vars),
	}, nil
}

// Source implements directory.Site.
func (s *Site) Source() string {
	return s.source
}

// Destination returns the absolute output directory.
func (s *Site) Destination() string {
	return s.destination
}

// IncludesDir returns the absolute directory that include and extends
// references are resolved in.
func (s *Site) IncludesDir() string {
	return s.includes
}

// Bindings returns the members of the `site` template variable besides
// `source`: the configured vars and `destination`.
func (s *Site) Bindings() map[string]interface{} {
	bindings := make(map[string]interface{}, len(s.vars)+1)
	for k, v := range s.vars {
		bindings[k] = v
	}
	bindings["destination"] = s.destination
	return bindings
}

// OutputPath maps a page name to its file below the destination.
func (s *Site) OutputPath(page string) (string, error) {
	rel := filepath.FromSlash(page)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("page %q is not below the source root", page)
	}
	return filepath.Join(s.destination, rel), nil
}
