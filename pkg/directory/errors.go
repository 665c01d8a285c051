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
)

// PathEscapeError is returned when the listed directory resolves outside the
// site source root. The render is aborted without output.
type PathEscapeError struct {
	// Path is the canonical directory that was requested.
	Path string

	// SourceRoot is the canonical source root it had to stay within.
	SourceRoot string
}

// Error implements the error interface.
func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("listed directory '%s' cannot be outside of the source root '%s'", e.Path, e.SourceRoot)
}

// PatternCompileError is returned when the exclude expression is not a valid
// regular expression.
type PatternCompileError struct {
	// Pattern is the offending expression.
	Pattern string

	// Cause is the underlying compile error.
	Cause error
}

// Error implements the error interface.
func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *PatternCompileError) Unwrap() error {
	return e.Cause
}

// ListError wraps filesystem failures while enumerating a directory or
// reading entry metadata.
type ListError struct {
	// Path is the directory or entry being read.
	Path string

	// Cause is the underlying I/O error.
	Cause error
}

// Error implements the error interface.
func (e *ListError) Error() string {
	return fmt.Sprintf("failed to read '%s': %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *ListError) Unwrap() error {
	return e.Cause
}

// NestedRenderError wraps a failure raised while rendering the tag body for
// one entry. Entries after it are not rendered.
type NestedRenderError struct {
	// Index is the 0-based position of the failing entry.
	Index int

	// Name is the basename of the failing entry.
	Name string

	// Cause is the error returned by the body.
	Cause error
}

// Error implements the error interface.
func (e *NestedRenderError) Error() string {
	return fmt.Sprintf("failed to render entry %d (%s): %v", e.Index, e.Name, e.Cause)
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *NestedRenderError) Unwrap() error {
	return e.Cause
}

// NewPathEscapeError creates a PathEscapeError.
func NewPathEscapeError(path, sourceRoot string) *PathEscapeError {
	return &PathEscapeError{
		Path:       path,
		SourceRoot: sourceRoot,
	}
}

// NewPatternCompileError creates a PatternCompileError.
func NewPatternCompileError(pattern string, cause error) *PatternCompileError {
	return &PatternCompileError{
		Pattern: pattern,
		Cause:   cause,
	}
}

// NewListError creates a ListError.
func NewListError(path string, cause error) *ListError {
	return &ListError{
		Path:  path,
		Cause: cause,
	}
}

// NewNestedRenderError creates a NestedRenderError.
func NewNestedRenderError(index int, name string, cause error) *NestedRenderError {
	return &NestedRenderError{
		Index: index,
		Name:  name,
		Cause: cause,
	}
}

// errorKind classifies an error for metrics labels.
func errorKind(err error) string {
	var (
		escapeErr  *PathEscapeError
		patternErr *PatternCompileError
		listErr    *ListError
		nestedErr  *NestedRenderError
	)
	switch {
	case errors.As(err, &nestedErr):
		return "nested_render"
	case errors.As(err, &escapeErr):
		return "path_escape"
	case errors.As(err, &patternErr):
		return "pattern_compile"
	case errors.As(err, &listErr):
		return "list"
	default:
		return "other"
	}
}
