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
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.RecordPage(0.05, true)
	m.RecordError("list")

	path := filepath.Join(t.TempDir(), "collector", "dirtag.prom")
	require.NoError(t, WriteTextfile(registry, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# TYPE dirtag_pages_rendered_total counter")
	assert.Contains(t, text, "dirtag_pages_rendered_total 1")
	assert.Contains(t, text, `dirtag_directory_errors_total{kind="list"} 1`)
	assert.Contains(t, text, "dirtag_page_render_duration_seconds_count 1")
}

func TestWriteTextfile_Overwrites(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := NewCounter(registry, "runs_total", "Runs")
	path := filepath.Join(t.TempDir(), "runs.prom")

	counter.Inc()
	require.NoError(t, WriteTextfile(registry, path))
	counter.Inc()
	require.NoError(t, WriteTextfile(registry, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "runs_total 2")
	assert.NotContains(t, string(data), "runs_total 1")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	err := WriteTextfile(prometheus.NewRegistry(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is empty")
}
