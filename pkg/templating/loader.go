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
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikolalohinski/gonja/v2/loaders"
)

// SourceLoader resolves template references against in-memory templates
// first and then against files below a source root. Names are flat strings
// for in-memory templates and slash-separated paths relative to the root for
// files; a leading '/' is allowed and ignored.
//
// References that would leave the root ("../layout.html") are rejected.
type SourceLoader struct {
	root      string
	templates map[string]string
}

// NewSourceLoader creates a loader. An empty root disables file lookups.
func NewSourceLoader(root string, templates map[string]string) *SourceLoader {
	return &SourceLoader{
		root:      root,
		templates: maps.Clone(templates),
	}
}

// With returns a copy of the loader with an additional in-memory template.
func (l *SourceLoader) With(name, content string) *SourceLoader {
	return l.WithTemplates(map[string]string{name: content})
}

// WithTemplates returns a copy of the loader with additional in-memory templates.
func (l *SourceLoader) WithTemplates(templates map[string]string) *SourceLoader {
	merged := make(map[string]string, len(l.templates)+len(templates))
	maps.Copy(merged, l.templates)
	maps.Copy(merged, templates)
	return &SourceLoader{root: l.root, templates: merged}
}

// Root returns the directory files are loaded from.
func (l *SourceLoader) Root() string {
	return l.root
}

// Read returns the template content for path.
func (l *SourceLoader) Read(path string) (io.Reader, error) {
	if content, exists := l.templates[path]; exists {
		return strings.NewReader(content), nil
	}

	file, err := l.file(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("template not found: %s: %w", path, err)
	}
	return bytes.NewReader(data), nil
}

// Resolve checks that path names a template and returns it unchanged.
func (l *SourceLoader) Resolve(path string) (string, error) {
	if _, exists := l.templates[path]; exists {
		return path, nil
	}

	file, err := l.file(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(file); err != nil {
		return "", fmt.Errorf("template not found: %s", path)
	}
	return path, nil
}

// Inherit returns the loader itself. References are always resolved from
// the root, never relative to the including template.
func (l *SourceLoader) Inherit(_ string) (loaders.Loader, error) {
	return l, nil
}

// file maps a template reference to a file below the root.
func (l *SourceLoader) file(path string) (string, error) {
	if l.root == "" {
		return "", fmt.Errorf("template not found: %s", path)
	}

	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("template reference %q is outside %s", path, l.root)
	}
	return filepath.Join(l.root, rel), nil
}
