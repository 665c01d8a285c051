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
	"regexp"
	"strings"
)

// Recognized attribute keys.
const (
	AttrPath    = "path"
	AttrReverse = "reverse"
	AttrExclude = "exclude"
)

const (
	// DefaultPath is listed when no path attribute is given.
	DefaultPath = "."

	// DefaultExcludePattern skips rendered HTML output that lives next to sources.
	DefaultExcludePattern = `\.html$`
)

// attributePattern matches `key: value` pairs. Values are either quoted
// strings or runs of characters without whitespace, commas or pipes.
var attributePattern = regexp.MustCompile(`(\w[\w-]*)\s*:\s*("[^"]*"|'[^']*'|(?:[^\s,|'"]|"[^"]*"|'[^']*')+)`)

// Attribute is a single parsed tag attribute.
type Attribute struct {
	// Value is the attribute text with surrounding quotes removed.
	Value string

	// Quoted is set when the value was written as a string literal.
	Quoted bool

	// Flag is set for bare words given without a value (e.g. `reverse`).
	Flag bool
}

// TagConfig is the immutable configuration of one tag invocation.
type TagConfig struct {
	// PathExpression is a variable name or a literal path relative to the source root.
	PathExpression string

	// PathLiteral disables variable lookup for quoted paths.
	PathLiteral bool

	// ExcludePattern is compiled case-insensitively with extended syntax at render time.
	ExcludePattern string

	// SortDescending is set when the reverse directive is present, whatever its value.
	SortDescending bool

	// Attributes holds every parsed attribute, including unrecognized ones.
	Attributes map[string]Attribute
}

// ParseTagConfig extracts the tag configuration from the markup that follows
// the tag name. Later keys overwrite earlier ones. Values are not validated
// here; a malformed exclude pattern only fails when the tag renders.
func ParseTagConfig(markup string) TagConfig {
	attrs := make(map[string]Attribute)

	var rest strings.Builder
	last := 0
	for _, m := range attributePattern.FindAllStringSubmatchIndex(markup, -1) {
		rest.WriteString(markup[last:m[0]])
		rest.WriteByte(' ')
		last = m[1]

		key := markup[m[2]:m[3]]
		value, quoted := unquote(markup[m[4]:m[5]])
		attrs[key] = Attribute{Value: value, Quoted: quoted}
	}
	rest.WriteString(markup[last:])

	for _, word := range strings.FieldsFunc(rest.String(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	}) {
		if _, exists := attrs[word]; !exists {
			attrs[word] = Attribute{Flag: true}
		}
	}

	cfg := TagConfig{
		PathExpression: DefaultPath,
		ExcludePattern: DefaultExcludePattern,
		Attributes:     attrs,
	}

	if path, ok := attrs[AttrPath]; ok && !path.Flag {
		cfg.PathExpression = path.Value
		cfg.PathLiteral = path.Quoted
	}
	if exclude, ok := attrs[AttrExclude]; ok && !exclude.Flag {
		cfg.ExcludePattern = exclude.Value
	}
	_, cfg.SortDescending = attrs[AttrReverse]

	return cfg
}

// Attribute returns the raw value of an attribute and whether it was present.
func (c TagConfig) Attribute(key string) (string, bool) {
	attr, ok := c.Attributes[key]
	return attr.Value, ok
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}
