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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iterationsFor(names ...string) []Iteration {
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name, URL: "/" + name}
	}
	return BuildIterations(entries)
}

// echoBody renders "<index>:<name>;" from the current bindings.
var echoBody = BodyFunc(func(frame Frame) (string, error) {
	file, ok := frame.Lookup(FileBinding)
	if !ok {
		return "", errors.New("file not bound")
	}
	loop, ok := frame.Lookup(LoopBinding)
	if !ok {
		return "", errors.New("forloop not bound")
	}
	return fmt.Sprintf("%v:%v;", loop.(map[string]interface{})["index"], file.(map[string]interface{})["name"]), nil
})

func TestRenderBlock_ConcatenatesInOrder(t *testing.T) {
	scope := NewMapScope(nil)

	out, err := RenderBlock(iterationsFor("a.md", "b.md", "c.md"), echoBody, scope)

	require.NoError(t, err)
	assert.Equal(t, "1:a.md;2:b.md;3:c.md;", out)
}

func TestRenderBlock_ScopeCleanup(t *testing.T) {
	scope := NewMapScope(map[string]interface{}{"title": "Archive"})

	var depths []int
	var seenNames []interface{}
	body := BodyFunc(func(frame Frame) (string, error) {
		depths = append(depths, scope.Depth())
		file, _ := frame.Lookup(FileBinding)
		seenNames = append(seenNames, file.(map[string]interface{})["name"])

		title, ok := frame.Lookup("title")
		assert.True(t, ok, "outer bindings stay visible")
		assert.Equal(t, "Archive", title)
		return "", nil
	})

	_, err := RenderBlock(iterationsFor("a", "b", "c"), body, scope)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 2}, depths, "one frame per iteration, never stacked")
	assert.Equal(t, []interface{}{"a", "b", "c"}, seenNames)

	_, ok := scope.Lookup(FileBinding)
	assert.False(t, ok)
	_, ok = scope.Lookup(LoopBinding)
	assert.False(t, ok)
	assert.Equal(t, 1, scope.Depth())
}

func TestRenderBlock_RestoresShadowedBindings(t *testing.T) {
	scope := NewMapScope(map[string]interface{}{
		FileBinding: "outer file",
		LoopBinding: "outer loop",
	})

	_, err := RenderBlock(iterationsFor("a"), echoBody, scope)
	require.NoError(t, err)

	file, _ := scope.Lookup(FileBinding)
	loop, _ := scope.Lookup(LoopBinding)
	assert.Equal(t, "outer file", file)
	assert.Equal(t, "outer loop", loop)
}

func TestRenderBlock_ErrorUnwindsAndStops(t *testing.T) {
	scope := NewMapScope(nil)
	boom := errors.New("boom")

	calls := 0
	body := BodyFunc(func(frame Frame) (string, error) {
		calls++
		if calls == 2 {
			return "partial", boom
		}
		return "ok", nil
	})

	out, err := RenderBlock(iterationsFor("a", "b", "c"), body, scope)

	assert.Empty(t, out)
	assert.Equal(t, 2, calls)
	require.ErrorIs(t, err, boom)

	var nestedErr *NestedRenderError
	require.ErrorAs(t, err, &nestedErr)
	assert.Equal(t, 1, nestedErr.Index)
	assert.Equal(t, "b", nestedErr.Name)

	assert.Equal(t, 1, scope.Depth())
	_, ok := scope.Lookup(FileBinding)
	assert.False(t, ok)
}

func TestRenderBlock_Empty(t *testing.T) {
	scope := &countingScope{MapScope: NewMapScope(nil)}

	out, err := RenderBlock(nil, echoBody, scope)

	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Zero(t, scope.pushes)
}

type countingScope struct {
	*MapScope
	pushes int
}

func (s *countingScope) Push() Frame {
	s.pushes++
	return s.MapScope.Push()
}
