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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IMPORTANT: All functions in this file accept a prometheus.Registerer parameter.
// NEVER use global prometheus.DefaultRegisterer or prometheus.DefaultGatherer.
//
// Every CLI run builds its own registry, so nothing leaks between runs in
// tests and the textfile export only contains the run's own series.

// NewCounter creates and registers a counter metric.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	pages := metrics.NewCounter(registry, "dirtag_pages_rendered_total", "Pages rendered")
//	pages.Inc()
func NewCounter(registry prometheus.Registerer, name, help string) prometheus.Counter {
	return promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
}

// NewHistogramWithBuckets creates and registers a histogram with custom buckets.
//
// For duration metrics use DurationBuckets, for entry counts EntryBuckets.
func NewHistogramWithBuckets(registry prometheus.Registerer, name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	})
}

// NewGauge creates and registers a gauge metric.
func NewGauge(registry prometheus.Registerer, name, help string) prometheus.Gauge {
	return promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}

// NewCounterVec creates and registers a counter vector with labels.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	errors := metrics.NewCounterVec(
//	    registry,
//	    "dirtag_directory_errors_total",
//	    "Failed directory renders by kind",
//	    []string{"kind"},
//	)
//	errors.WithLabelValues("path_escape").Inc()
func NewCounterVec(registry prometheus.Registerer, name, help string, labels []string) *prometheus.CounterVec {
	return promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// DurationBuckets returns histogram buckets suitable for duration metrics in seconds.
//
// Directory listings are local filesystem reads, so the range starts at 1ms.
//
// Buckets: [0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0]
func DurationBuckets() []float64 {
	return []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}
}

// EntryBuckets returns histogram buckets for the number of entries a single
// directory listing produced.
func EntryBuckets() []float64 {
	return prometheus.ExponentialBuckets(1, 4, 6)
}
