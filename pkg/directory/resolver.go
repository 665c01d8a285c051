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
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
)

// variableNamePattern limits variable lookups to dotted identifiers, so
// literal paths such as "../posts" or "a/b" are never looked up.
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_]\w*(\.[A-Za-z_]\w*)*$`)

// Lookup is the result of resolving a variable reference in a scope.
type Lookup struct {
	value interface{}
	found bool
}

// Found returns a Lookup holding value.
func Found(value interface{}) Lookup {
	return Lookup{value: value, found: true}
}

// NotFound is the Lookup for unbound references.
var NotFound = Lookup{}

// Get returns the value and whether the reference was bound.
func (l Lookup) Get() (interface{}, bool) {
	return l.value, l.found
}

// LookupVariable resolves a dotted reference like `site.posts_dir` in scope.
// The first segment is looked up in the scope, the remaining segments
// descend through maps and struct fields.
func LookupVariable(scope Scope, reference string) Lookup {
	if scope == nil || !variableNamePattern.MatchString(reference) {
		return NotFound
	}

	segments := strings.Split(reference, ".")
	current, ok := scope.Lookup(segments[0])
	if !ok {
		return NotFound
	}

	for _, segment := range segments[1:] {
		current, ok = attribute(current, segment)
		if !ok {
			return NotFound
		}
	}

	if current == nil {
		return NotFound
	}
	return Found(current)
}

// attribute reads a named member of a map or struct value.
func attribute(value interface{}, name string) (interface{}, bool) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Struct:
		field := v.FieldByNameFunc(func(fieldName string) bool {
			return strings.EqualFold(fieldName, strings.ReplaceAll(name, "_", ""))
		})
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true
	default:
		return nil, false
	}
}

// ResolvePath computes the canonical directory a tag lists.
//
// A path expression naming a bound variable is replaced by the variable's
// value, anything else is taken literally. The result is joined onto
// sourceRoot, made absolute and stripped of `..` and symlinks. A directory
// that does not lie within the canonical source root yields a
// *PathEscapeError.
func ResolvePath(cfg TagConfig, scope Scope, sourceRoot string) (string, error) {
	_, listed, err := resolve(cfg, scope, sourceRoot)
	return listed, err
}

// resolve returns the canonical source root together with the listed directory.
func resolve(cfg TagConfig, scope Scope, sourceRoot string) (string, string, error) {
	path := cfg.PathExpression
	if !cfg.PathLiteral {
		if value, ok := LookupVariable(scope, path).Get(); ok {
			path = fmt.Sprint(value)
		}
	}
	if path == "" {
		path = DefaultPath
	}

	root, err := canonicalPath(sourceRoot)
	if err != nil {
		return "", "", NewListError(sourceRoot, err)
	}

	listed, err := canonicalPath(filepath.Join(root, path))
	if err != nil {
		return "", "", NewListError(path, err)
	}

	if !within(root, listed) {
		return "", "", NewPathEscapeError(listed, root)
	}

	return root, listed, nil
}

// canonicalPath returns the absolute, symlink-free form of path. Components
// that do not exist yet are appended to the resolved existing ancestor.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var missing []string
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{resolved}, missing...)...), nil
}

// within reports whether path equals root or lies below it.
func within(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
