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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// ExcludeMatcher rejects listing entries by name.
type ExcludeMatcher struct {
	pattern string
	re      *regexp2.Regexp
}

// CompileExclude compiles an exclude expression in extended mode (unescaped
// whitespace and #-comments are ignored) and case-insensitively. An empty
// pattern excludes nothing.
func CompileExclude(pattern string) (*ExcludeMatcher, error) {
	if pattern == "" {
		return &ExcludeMatcher{}, nil
	}

	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase|regexp2.IgnorePatternWhitespace)
	if err != nil {
		return nil, NewPatternCompileError(pattern, err)
	}

	return &ExcludeMatcher{pattern: pattern, re: re}, nil
}

// Pattern returns the source expression.
func (m *ExcludeMatcher) Pattern() string {
	return m.pattern
}

// Match reports whether name is excluded.
func (m *ExcludeMatcher) Match(name string) (bool, error) {
	if m == nil || m.re == nil {
		return false, nil
	}
	return m.re.MatchString(name)
}

// List returns the absolute paths of the immediate children of dir that
// survive the exclude filter, ordered by byte-wise comparison of their names.
// Hidden entries (leading dot) are never listed.
func List(dir string, exclude *ExcludeMatcher, descending bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewListError(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		excluded, err := exclude.Match(name)
		if err != nil {
			return nil, NewPatternCompileError(exclude.Pattern(), err)
		}
		if excluded {
			continue
		}

		names = append(names, name)
	}

	slices.SortFunc(names, func(a, b string) int {
		if descending {
			return strings.Compare(b, a)
		}
		return strings.Compare(a, b)
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	return paths, nil
}
