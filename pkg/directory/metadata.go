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
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// structuredFilename matches `[category/]YYYY-MM-DD-slug.ext`.
var structuredFilename = regexp.MustCompile(`^(.+/)*(\d+-\d+-\d+)-(.*)(\.[^.]+)$`)

const filenameDateLayout = "2006-1-2"

// Metadata is the identity derived for a single file.
type Metadata struct {
	Date time.Time
	Slug string
	Ext  string

	// Structured is set when the name followed the date-prefixed convention.
	Structured bool
}

// extractor derives metadata from a path and its info, which may be nil. The
// boolean result is false when the strategy does not apply and the next one
// should be tried.
type extractor func(path string, info fs.FileInfo) (Metadata, bool, error)

// extractors are tried in order. The last one always applies.
var extractors = []extractor{
	fromStructuredFilename,
	fromFilesystem,
}

// Extract derives the date, slug and extension of the file at path.
//
// Names following the YYYY-MM-DD-slug.ext convention take date and slug from
// the name. Everything else gets the filesystem creation time and the
// basename without extension. A date token that is not a calendar date
// counts as a non-match.
func Extract(path string) (Metadata, error) {
	return ExtractInfo(path, nil)
}

// ExtractInfo is Extract for a file whose info is already known. A nil info
// is stat'ed only when the name carries no date.
func ExtractInfo(path string, info fs.FileInfo) (Metadata, error) {
	for _, extract := range extractors {
		md, ok, err := extract(path, info)
		if err != nil {
			return Metadata{}, err
		}
		if ok {
			return md, nil
		}
	}
	return Metadata{}, NewListError(path, os.ErrInvalid)
}

func fromStructuredFilename(path string, _ fs.FileInfo) (Metadata, bool, error) {
	m := structuredFilename.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return Metadata{}, false, nil
	}

	date, err := time.ParseInLocation(filenameDateLayout, m[2], time.Local)
	if err != nil {
		return Metadata{}, false, nil
	}

	return Metadata{
		Date:       date,
		Slug:       m[3],
		Ext:        m[4],
		Structured: true,
	}, true, nil
}

func fromFilesystem(path string, info fs.FileInfo) (Metadata, bool, error) {
	if info == nil {
		var err error
		if info, err = os.Stat(path); err != nil {
			return Metadata{}, false, NewListError(path, err)
		}
	}

	name := filepath.Base(path)
	ext := extname(name)

	return Metadata{
		Date: creationTime(path, info),
		Slug: strings.TrimSuffix(name, ext),
		Ext:  ext,
	}, true, nil
}

// extname returns the extension of name. Dotfiles without a further dot
// have none.
func extname(name string) string {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return ""
	}
	return ext
}

// Titleize turns a slug into a title: hyphens separate words and every word
// is capitalized.
func Titleize(slug string) string {
	caser := cases.Title(language.Und)
	words := strings.Split(slug, "-")
	for i, word := range words {
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}
