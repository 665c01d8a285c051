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


package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"directory-tag/pkg/directory"
)

var _ directory.Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus metrics of one dirtag run.
//
// IMPORTANT: Create one instance per run with its own registry.
// Metrics implements directory.Recorder and is passed to every directory tag
// through templating.WithDirectoryOptions(directory.WithRecorder(m)).
type Metrics struct {
	// Directory tag metrics
	DirectoryListings prometheus.Counter
	DirectoryEntries  prometheus.Histogram
	DirectoryDuration prometheus.Histogram
	DirectoryErrors   *prometheus.CounterVec

	// Page metrics
	PagesRendered prometheus.Counter
	PageErrors    prometheus.Counter
	PageDuration  prometheus.Histogram

	// Run metrics
	LastRunTimestamp prometheus.Gauge
}

// New creates all metrics and registers them with the provided registry.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	m := metrics.New(registry)
//	engine, err := templating.New(templating.EngineTypeGonja, pages, nil, nil,
//	    templating.WithDirectoryOptions(directory.WithRecorder(m)))
func New(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		DirectoryListings: NewCounter(
			registry,
			"dirtag_directory_listings_total",
			"Total number of directories listed by directory tags",
		),
		DirectoryEntries: NewHistogramWithBuckets(
			registry,
			"dirtag_directory_entries",
			"Number of entries produced by a single directory listing",
			EntryBuckets(),
		),
		DirectoryDuration: NewHistogramWithBuckets(
			registry,
			"dirtag_directory_listing_duration_seconds",
			"Time spent resolving, listing and reading metadata for a directory",
			DurationBuckets(),
		),
		DirectoryErrors: NewCounterVec(
			registry,
			"dirtag_directory_errors_total",
			"Total number of failed directory tag renders by kind",
			[]string{"kind"},
		),

		PagesRendered: NewCounter(
			registry,
			"dirtag_pages_rendered_total",
			"Total number of pages rendered",
		),
		PageErrors: NewCounter(
			registry,
			"dirtag_page_errors_total",
			"Total number of pages that failed to render or write",
		),
		PageDuration: NewHistogramWithBuckets(
			registry,
			"dirtag_page_render_duration_seconds",
			"Time spent rendering and writing a page",
			DurationBuckets(),
		),

		LastRunTimestamp: NewGauge(
			registry,
			"dirtag_last_run_timestamp_seconds",
			"Unix time the last render run finished",
		),
	}
}

// RecordListing records a successful directory listing.
func (m *Metrics) RecordListing(entries int, duration time.Duration) {
	m.DirectoryListings.Inc()
	m.DirectoryEntries.Observe(float64(entries))
	m.DirectoryDuration.Observe(duration.Seconds())
}

// RecordError records a failed directory tag render.
//
// Parameters:
//   - kind: One of path_escape, pattern_compile, list, nested_render, other
func (m *Metrics) RecordError(kind string) {
	m.DirectoryErrors.WithLabelValues(kind).Inc()
}

// RecordPage records a rendered page.
//
// Parameters:
//   - durationSeconds: Time spent on the page (use time.Since(start).Seconds())
//   - success: Whether the page was rendered and written
func (m *Metrics) RecordPage(durationSeconds float64, success bool) {
	m.PagesRendered.Inc()
	m.PageDuration.Observe(durationSeconds)
	if !success {
		m.PageErrors.Inc()
	}
}

// MarkRunFinished sets the last run timestamp.
func (m *Metrics) MarkRunFinished(at time.Time) {
	m.LastRunTimestamp.Set(float64(at.Unix()))
}
