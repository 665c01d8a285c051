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
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"

	"directory-tag/pkg/directory"
)

// DefaultStrftimeLayout is used by the strftime filter when no layout is given.
const DefaultStrftimeLayout = "%Y-%m-%d"

// DefaultFilters returns the filters every TemplateEngine registers. Custom
// filters passed to New override them by name.
func DefaultFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"strftime":   Strftime,
		"titleize":   Titleize,
		"glob_match": GlobMatch,
		"filesize":   FileSize,
	}
}

// Strftime formats a date with a C strftime layout.
//
// Usage in templates:
//
//	{{ file.date | strftime }}              → 2020-01-01
//	{{ file.date | strftime("%d %b %Y") }}  → 01 Jan 2020
//
// The input may be a time.Time or an RFC 3339 string.
func Strftime(in interface{}, args ...interface{}) (interface{}, error) {
	var t time.Time
	switch v := in.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil, fmt.Errorf("strftime: input is nil")
		}
		t = *v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("strftime: %w", err)
		}
		t = parsed
	default:
		return nil, fmt.Errorf("strftime: input must be a date, got %T", in)
	}

	layout := DefaultStrftimeLayout
	if len(args) > 0 {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("strftime: layout must be a string, got %T", args[0])
		}
		layout = s
	}

	return strftime.Format(layout, t), nil
}

// Titleize turns a hyphenated slug into capitalized words.
//
//	{{ "hello-world" | titleize }}  → Hello World
func Titleize(in interface{}, _ ...interface{}) (interface{}, error) {
	str, ok := in.(string)
	if !ok {
		return nil, fmt.Errorf("titleize: input must be a string, got %T", in)
	}
	return directory.Titleize(str), nil
}

// GlobMatch filters a list of strings by glob pattern.
//
// Usage in templates:
//
//	{% for name in names | glob_match("*.md") %}{{ name }};{% endfor %}
//
// Non-string items are skipped. The pattern supports * and ? wildcards and
// character classes.
func GlobMatch(in interface{}, args ...interface{}) (interface{}, error) {
	var list []interface{}
	switch v := in.(type) {
	case []interface{}:
		list = v
	case []string:
		list = make([]interface{}, len(v))
		for i, s := range v {
			list[i] = s
		}
	default:
		return nil, fmt.Errorf("glob_match: input must be a list, got %T", in)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("glob_match: pattern argument required")
	}
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("glob_match: pattern must be a string, got %T", args[0])
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("glob_match: invalid pattern %q: %w", pattern, err)
	}

	result := []interface{}{}
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			continue
		}
		if matched, _ := filepath.Match(pattern, str); matched {
			result = append(result, str)
		}
	}

	return result, nil
}

// FileSize renders a byte count in human-readable form. Strings are treated
// as file paths and stat'ed.
//
//	{{ file.path | filesize }}  → 4.1 kB
//	{{ 2048 | filesize }}       → 2.0 kB
func FileSize(in interface{}, _ ...interface{}) (interface{}, error) {
	var size int64
	switch v := in.(type) {
	case string:
		info, err := os.Stat(v)
		if err != nil {
			return nil, fmt.Errorf("filesize: %w", err)
		}
		size = info.Size()
	case int:
		size = int64(v)
	case int64:
		size = v
	case uint64:
		return humanize.Bytes(v), nil
	case float64:
		size = int64(v)
	default:
		return nil, fmt.Errorf("filesize: input must be a path or a number, got %T", in)
	}

	if size < 0 {
		return nil, fmt.Errorf("filesize: negative size %d", size)
	}
	return humanize.Bytes(uint64(size)), nil
}
