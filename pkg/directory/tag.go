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

package directory

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Recorder receives observations about tag renders.
type Recorder interface {
	// RecordListing is called after a directory was listed and its entries resolved.
	RecordListing(entries int, duration time.Duration)

	// RecordError is called with the kind of every failed render.
	RecordError(kind string)
}

type noopRecorder struct{}

func (noopRecorder) RecordListing(int, time.Duration) {}
func (noopRecorder) RecordError(string)               {}

// Option configures a Tag.
type Option func(*Tag)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tag) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithRecorder sets the recorder notified about listings and errors.
func WithRecorder(recorder Recorder) Option {
	return func(t *Tag) {
		if recorder != nil {
			t.recorder = recorder
		}
	}
}

// WithDefaultExclude replaces the exclude pattern used when the markup does
// not set one.
func WithDefaultExclude(pattern string) Option {
	return func(t *Tag) {
		if _, ok := t.config.Attributes[AttrExclude]; !ok {
			t.config.ExcludePattern = pattern
		}
	}
}

// Tag is a parsed `directory` tag invocation. It is immutable and may be
// rendered any number of times.
type Tag struct {
	config   TagConfig
	logger   *slog.Logger
	recorder Recorder
}

// NewTag parses the tag markup. Parsing never fails; invalid values surface
// when the tag renders.
func NewTag(markup string, opts ...Option) *Tag {
	return NewTagFromConfig(ParseTagConfig(markup), opts...)
}

// NewTagFromConfig builds a Tag from an already parsed configuration.
// Template engines parse markup once at compile time and apply per-render
// options through this constructor.
func NewTagFromConfig(config TagConfig, opts ...Option) *Tag {
	t := &Tag{
		config:   config,
		logger:   slog.Default(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "directory-tag")
	return t
}

// Config returns the parsed configuration.
func (t *Tag) Config() TagConfig {
	return t.config
}

// Entries lists the tag's directory and returns the iterations the body
// would be rendered with.
func (t *Tag) Entries(scope Scope, site Site) ([]Iteration, error) {
	iterations, err := t.entries(scope, site)
	if err != nil {
		t.recorder.RecordError(errorKind(err))
		return nil, err
	}
	return iterations, nil
}

// Render lists the tag's directory and renders body once per entry.
func (t *Tag) Render(scope Scope, site Site, body Body) (string, error) {
	iterations, err := t.Entries(scope, site)
	if err != nil {
		return "", err
	}

	out, err := RenderBlock(iterations, body, scope)
	if err != nil {
		t.recorder.RecordError(errorKind(err))
		return "", err
	}

	return out, nil
}

func (t *Tag) entries(scope Scope, site Site) ([]Iteration, error) {
	if site == nil {
		return nil, fmt.Errorf("directory tag requires a site")
	}

	start := time.Now()

	root, dir, err := resolve(t.config, scope, site.Source())
	if err != nil {
		return nil, err
	}

	exclude, err := CompileExclude(t.config.ExcludePattern)
	if err != nil {
		return nil, err
	}

	paths, err := List(dir, exclude, t.config.SortDescending)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entry, err := newEntry(root, path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	duration := time.Since(start)
	t.recorder.RecordListing(len(entries), duration)
	t.logger.Debug("Listed directory",
		"dir", dir,
		"entries", len(entries),
		"reverse", t.config.SortDescending,
		"exclude", t.config.ExcludePattern,
		"duration_ms", duration.Milliseconds())

	return BuildIterations(entries), nil
}

// newEntry resolves the metadata of the entry at path below root. A dangling
// symlink is kept as a file; only a name without a date needs its target.
func newEntry(root, path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Entry{}, NewListError(path, err)
		}
		if _, lerr := os.Lstat(path); lerr != nil {
			return Entry{}, NewListError(path, err)
		}
		info = nil
	}

	md, err := ExtractInfo(path, info)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		AbsolutePath: path,
		Name:         filepath.Base(path),
		URL:          urlFor(root, path),
		IsDir:        info != nil && info.IsDir(),
		Date:         md.Date,
		Slug:         md.Slug,
		Ext:          md.Ext,
		Title:        Titleize(md.Slug),
	}, nil
}

// urlFor strips root from path and returns a site-absolute URL.
func urlFor(root, path string) string {
	url := filepath.ToSlash(strings.TrimPrefix(path, root))
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url
}
