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

package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexReplaceProcessor_Process(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		replace  string
		input    string
		expected string
	}{
		{
			name:    "normalize list indentation",
			pattern: `^\s+<li>`,
			replace: "  <li>",
			input: `<ul>
        <li>a</li>
    <li>b</li>
</ul>`,
			expected: `<ul>
  <li>a</li>
  <li>b</li>
</ul>`,
		},
		{
			name:     "capture groups",
			pattern:  `href="/posts/(\d+)-`,
			replace:  `href="/archive/$1/`,
			input:    `<a href="/posts/2020-hello.html">`,
			expected: `<a href="/archive/2020/hello.html">`,
		},
		{
			name:     "anchors apply per line",
			pattern:  `^#`,
			replace:  "##",
			input:    "# a\ntext # b\n# c",
			expected: "## a\ntext # b\n## c",
		},
		{
			name:     "crlf line endings are kept",
			pattern:  `x$`,
			replace:  "y",
			input:    "ax\r\nbx\r\n",
			expected: "ay\r\nby\r\n",
		},
		{
			name:     "empty lines preserved",
			pattern:  "^[ ]+",
			replace:  "",
			input:    "  a\n\n  b",
			expected: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, err := NewRegexReplaceProcessor(tt.pattern, tt.replace)
			require.NoError(t, err)

			result, err := processor.Process(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRegexReplaceProcessor_InvalidPattern(t *testing.T) {
	_, err := NewRegexReplaceProcessor("[invalid(", "replacement")
	assert.ErrorContains(t, err, "invalid regex pattern")
}

func TestRegexReplaceProcessor_EmptyInput(t *testing.T) {
	processor, err := NewRegexReplaceProcessor("^[ ]+", "  ")
	require.NoError(t, err)

	result, err := processor.Process("")
	require.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestNewPostProcessor(t *testing.T) {
	tests := []struct {
		name    string
		config  PostProcessorConfig
		input   string
		want    string
		wantErr string
	}{
		{
			name: "regex replace",
			config: PostProcessorConfig{
				Type:   PostProcessorTypeRegexReplace,
				Params: map[string]string{"pattern": "^[ ]+", "replace": "  "},
			},
			input: "    indented",
			want:  "  indented",
		},
		{
			name:   "trim trailing whitespace",
			config: PostProcessorConfig{Type: PostProcessorTypeTrimTrailingWhitespace},
			input:  "a  \n\tb\t\n  ",
			want:   "a\n\tb\n",
		},
		{
			name: "missing pattern",
			config: PostProcessorConfig{
				Type:   PostProcessorTypeRegexReplace,
				Params: map[string]string{"replace": "  "},
			},
			wantErr: "requires 'pattern' parameter",
		},
		{
			name: "missing replace",
			config: PostProcessorConfig{
				Type:   PostProcessorTypeRegexReplace,
				Params: map[string]string{"pattern": "^[ ]+"},
			},
			wantErr: "requires 'replace' parameter",
		},
		{
			name:    "unknown type",
			config:  PostProcessorConfig{Type: "unknown_type"},
			wantErr: "unknown post-processor type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, err := NewPostProcessor(tt.config)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := processor.Process(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPostProcessors_ReportsIndex(t *testing.T) {
	_, err := NewPostProcessors([]PostProcessorConfig{
		{Type: PostProcessorTypeTrimTrailingWhitespace},
		{Type: PostProcessorTypeRegexReplace, Params: map[string]string{"pattern": "(", "replace": ""}},
	})

	assert.ErrorContains(t, err, "post-processor 1")
}

func TestTemplateEngine_PostProcessorsRunInOrder(t *testing.T) {
	first, err := NewRegexReplaceProcessor("^[ ]+", "  ")
	require.NoError(t, err)
	second, err := NewRegexReplaceProcessor("line", "row")
	require.NoError(t, err)

	engine, err := New(EngineTypeGonja, map[string]string{
		"test": "  line1\n    line2\n      line3",
	}, nil, nil, WithPostProcessors(first, second))
	require.NoError(t, err)

	output, err := engine.Render("test", nil)
	require.NoError(t, err)
	assert.Equal(t, "  row1\n  row2\n  row3", output)
}

func TestTemplateEngine_NoPostProcessors(t *testing.T) {
	engine, err := New(EngineTypeGonja, map[string]string{"test": "  content with spaces  "}, nil, nil)
	require.NoError(t, err)

	output, err := engine.Render("test", nil)
	require.NoError(t, err)
	assert.Equal(t, "  content with spaces  ", output)
}
