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
	"fmt"
	"regexp"
	"strings"
)

// RegexReplaceProcessor applies a regex replacement to every line of a page
// independently, so ^ and $ anchor at line boundaries.
//
//	processor, err := NewRegexReplaceProcessor(`^\s+<li>`, "<li>")
type RegexReplaceProcessor struct {
	pattern *regexp.Regexp
	replace string
}

// NewRegexReplaceProcessor compiles pattern. The replacement may reference
// capture groups as $1 or ${name}.
func NewRegexReplaceProcessor(pattern, replace string) (*RegexReplaceProcessor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	return &RegexReplaceProcessor{
		pattern: re,
		replace: replace,
	}, nil
}

// Process implements PostProcessor. Line endings are preserved.
func (p *RegexReplaceProcessor) Process(input string) (string, error) {
	if input == "" {
		return input, nil
	}

	lines := strings.Split(input, "\n")
	for i, line := range lines {
		cr := strings.HasSuffix(line, "\r")
		line = p.pattern.ReplaceAllString(strings.TrimSuffix(line, "\r"), p.replace)
		if cr {
			line += "\r"
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n"), nil
}
