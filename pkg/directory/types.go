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

// Package directory implements the iteration engine behind the `directory`
// template block tag.
//
// For every file in a directory below the site source root the tag resolves
// the file's identity (date, slug, title, URL), builds a loop state that
// describes its position in the listing, and renders the tag body once with
// both bound into a fresh scope frame:
//
//	{% directory path: "posts" reverse exclude: "\.draft$" %}
//	  {{ forloop.index }}. {{ file.title }} ({{ file.url }})
//	{% enddirectory %}
//
// The package has no dependency on a concrete template engine. Engines plug in
// through the Scope, Frame and Body interfaces (see pkg/templating for the
// gonja adapter).
package directory

import "time"

// Binding names installed into the scope for every iteration.
const (
	// FileBinding is the scope name of the per-entry file record.
	FileBinding = "file"

	// LoopBinding is the scope name of the per-entry loop state.
	LoopBinding = "forloop"

	// LoopName is the value of forloop.name for this tag.
	LoopName = "directory"
)

// Site exposes the source root of the site being rendered.
type Site interface {
	// Source returns the absolute path of the site's source tree.
	Source() string
}

// StaticSite is a Site with a fixed source root.
type StaticSite string

// Source implements Site.
func (s StaticSite) Source() string {
	return string(s)
}

// Entry is one child of a listed directory, annotated with derived metadata.
type Entry struct {
	// AbsolutePath is the canonical path of the entry on disk.
	AbsolutePath string

	// Name is the basename.
	Name string

	// URL is AbsolutePath with the source root stripped. It always starts
	// with "/" and uses forward slashes.
	URL string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// Date comes from the filename when it follows the YYYY-MM-DD-slug.ext
	// convention, otherwise from the filesystem.
	Date time.Time

	// Slug is the basename with date prefix and extension removed.
	Slug string

	// Ext is the extension including the leading dot, or empty.
	Ext string

	// Title is the titlecased slug.
	Title string
}

// Binding returns the map exposed to templates as `file`.
func (e Entry) Binding() map[string]interface{} {
	return map[string]interface{}{
		"date":  e.Date,
		"name":  e.Name,
		"slug":  e.Slug,
		"url":   e.URL,
		"isdir": e.IsDir,
		"title": e.Title,
		"ext":   e.Ext,
		"path":  e.AbsolutePath,
	}
}

// LoopState describes an entry's position within its listing.
type LoopState struct {
	Name    string
	Length  int
	Index   int
	Index0  int
	Rindex  int
	Rindex0 int
	First   bool
	Last    bool
}

// Binding returns the map exposed to templates as `forloop`.
func (l LoopState) Binding() map[string]interface{} {
	return map[string]interface{}{
		"name":    l.Name,
		"length":  l.Length,
		"index":   l.Index,
		"index0":  l.Index0,
		"rindex":  l.Rindex,
		"rindex0": l.Rindex0,
		"first":   l.First,
		"last":    l.Last,
	}
}

// Iteration pairs an entry with its loop state.
type Iteration struct {
	Entry Entry
	Loop  LoopState
}
