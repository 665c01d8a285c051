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


package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"directory-tag/pkg/directory"
	"directory-tag/pkg/metrics"
	"directory-tag/pkg/templating"
)

// PageVariable is the template variable describing the page being rendered.
const PageVariable = "page"

// Options configures a Renderer.
type Options struct {
	// Workers bounds the number of pages rendered concurrently. Values below
	// one render sequentially.
	Workers int

	// DefaultExclude is the exclude pattern of directory tags that do not set
	// one. An empty pattern lists everything; pass
	// directory.DefaultExcludePattern for the tag's own default.
	DefaultExclude string

	// PostProcessors are applied to every rendered page.
	PostProcessors []templating.PostProcessor

	// Metrics, when set, records directory listings and page renders.
	Metrics *metrics.Metrics

	Logger *slog.Logger
}

// PageResult describes one written page.
type PageResult struct {
	Name     string
	Output   string
	Bytes    int
	Duration time.Duration
}

// Renderer renders a fixed set of pages of a site.
type Renderer struct {
	site    *Site
	engine  *templating.TemplateEngine
	workers int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRenderer compiles pages, keyed by slash-separated name relative to the
// source root. Syntax errors are returned as *templating.CompilationError.
func NewRenderer(s *Site, pages map[string]string, opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dirOpts := []directory.Option{directory.WithDefaultExclude(opts.DefaultExclude)}
	if opts.Metrics != nil {
		dirOpts = append(dirOpts, directory.WithRecorder(opts.Metrics))
	}

	engine, err := templating.New(templating.EngineTypeGonja, pages, nil, nil,
		templating.WithSite(s),
		templating.WithLoader(templating.NewSourceLoader(s.IncludesDir(), nil)),
		templating.WithPostProcessors(opts.PostProcessors...),
		templating.WithDirectoryOptions(dirOpts...),
		templating.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		site:    s,
		engine:  engine,
		workers: max(opts.Workers, 1),
		metrics: opts.Metrics,
		logger:  logger.With("component", "site-renderer"),
	}, nil
}

// Pages returns the page names in render order.
func (r *Renderer) Pages() []string {
	names := r.engine.TemplateNames()
	slices.Sort(names)
	return names
}

// RenderPage renders one page and returns its output without writing it.
func (r *Renderer) RenderPage(name string) (string, error) {
	return r.engine.Render(name, map[string]interface{}{
		PageVariable: pageBinding(name),
	})
}

// Build renders every page and writes it below the destination. Pages are
// rendered concurrently; the first failure cancels the pages not yet started
// and is returned. Results are ordered by page name.
func (r *Renderer) Build(ctx context.Context) ([]PageResult, error) {
	names := r.Pages()
	results := make([]PageResult, len(names))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			result, err := r.buildPage(name)
			if err != nil {
				return err
			}

			// Safe to write directly - each goroutine has unique index
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.MarkRunFinished(time.Now())
	}
	r.logger.Info("Site built",
		"pages", len(results),
		"destination", r.site.Destination())

	return results, nil
}

func (r *Renderer) buildPage(name string) (PageResult, error) {
	start := time.Now()

	result, err := r.writePage(name)
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordPage(duration.Seconds(), err == nil)
	}
	if err != nil {
		r.logger.Error("Page failed", "page", name, "error", err)
		return PageResult{}, err
	}

	result.Duration = duration
	r.logger.Debug("Page written",
		"page", name,
		"output", result.Output,
		"bytes", result.Bytes,
		"duration_ms", duration.Milliseconds())

	return result, nil
}

func (r *Renderer) writePage(name string) (PageResult, error) {
	output, err := r.RenderPage(name)
	if err != nil {
		return PageResult{}, err
	}

	path, err := r.site.OutputPath(name)
	if err != nil {
		return PageResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return PageResult{}, fmt.Errorf("failed to create output directory for %s: %w", name, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(output)); err != nil {
		return PageResult{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return PageResult{
		Name:   name,
		Output: path,
		Bytes:  len(output),
	}, nil
}

// pageBinding is the value of the `page` template variable.
func pageBinding(name string) map[string]interface{} {
	return map[string]interface{}{
		"path": name,
		"url":  "/" + name,
		"dir":  "/" + pathDir(name),
	}
}

func pathDir(name string) string {
	dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(name)))
	if dir == "." {
		return ""
	}
	return dir + "/"
}
