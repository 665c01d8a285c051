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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSourceTree creates a temporary source root containing the given files.
// Names ending in "/" create directories. The returned root is canonical.
func newSourceTree(t *testing.T, names ...string) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
	}

	return root
}

func TestLookupVariable(t *testing.T) {
	type siteInfo struct {
		PostsDir string
	}

	scope := NewMapScope(map[string]interface{}{
		"dir":  "posts",
		"page": map[string]interface{}{"folder": "notes"},
		"site": &siteInfo{PostsDir: "_posts"},
		"nil":  nil,
	})

	tests := []struct {
		name      string
		reference string
		want      interface{}
		wantFound bool
	}{
		{name: "top level", reference: "dir", want: "posts", wantFound: true},
		{name: "map member", reference: "page.folder", want: "notes", wantFound: true},
		{name: "struct field by snake case", reference: "site.posts_dir", want: "_posts", wantFound: true},
		{name: "unbound", reference: "missing"},
		{name: "unbound member", reference: "page.missing"},
		{name: "nil value", reference: "nil"},
		{name: "relative path is never looked up", reference: "../dir"},
		{name: "dot", reference: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := LookupVariable(scope, tt.reference).Get()

			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.want, value)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	root := newSourceTree(t, "posts/", "posts/2020/", "notes/")
	scope := NewMapScope(map[string]interface{}{
		"folder": "notes",
	})

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "default is source root", markup: "", want: root},
		{name: "literal path", markup: "path: posts", want: filepath.Join(root, "posts")},
		{name: "nested literal path", markup: `path: "posts/2020"`, want: filepath.Join(root, "posts", "2020")},
		{name: "variable path", markup: "path: folder", want: filepath.Join(root, "notes")},
		{name: "dot-dot inside root", markup: `path: "posts/2020/.."`, want: filepath.Join(root, "posts")},
		{name: "absolute path is anchored to root", markup: `path: "/posts"`, want: filepath.Join(root, "posts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(ParseTagConfig(tt.markup), scope, root)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_QuotedPathSkipsLookup(t *testing.T) {
	root := newSourceTree(t, "folder/", "notes/")
	scope := NewMapScope(map[string]interface{}{"folder": "notes"})

	got, err := ResolvePath(ParseTagConfig(`path: "folder"`), scope, root)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "folder"), got)
}

func TestResolvePath_Containment(t *testing.T) {
	parent, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	root := filepath.Join(parent, "site")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "site-secrets"), 0o755))
	require.NoError(t, os.Symlink(parent, filepath.Join(root, "escape")))

	tests := []struct {
		name   string
		markup string
		scope  map[string]interface{}
	}{
		{name: "dot-dot", markup: `path: "../../etc"`},
		{name: "parent", markup: `path: ".."`},
		{name: "sibling sharing the root prefix", markup: `path: "../site-secrets"`},
		{name: "symlink out of root", markup: `path: "escape"`},
		{name: "variable pointing outside", markup: "path: target", scope: map[string]interface{}{"target": "../.."}},
		{name: "missing directory outside", markup: `path: "../nowhere/deeper"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(ParseTagConfig(tt.markup), NewMapScope(tt.scope), root)

			assert.Empty(t, got)
			var escapeErr *PathEscapeError
			require.ErrorAs(t, err, &escapeErr)
			assert.Equal(t, root, escapeErr.SourceRoot)
		})
	}
}

func TestResolvePath_MissingDirectoryInsideRoot(t *testing.T) {
	root := newSourceTree(t)

	got, err := ResolvePath(ParseTagConfig("path: missing"), NewMapScope(nil), root)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "missing"), got)
}

func TestWithin(t *testing.T) {
	assert.True(t, within("/srv/site", "/srv/site"))
	assert.True(t, within("/srv/site", "/srv/site/posts"))
	assert.False(t, within("/srv/site", "/srv/site2"))
	assert.False(t, within("/srv/site", "/srv"))
	assert.True(t, within("/", "/etc"))
}
