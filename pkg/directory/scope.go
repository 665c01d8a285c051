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

// Scope is the variable environment of the host template engine at the
// point where the tag renders.
type Scope interface {
	// Lookup resolves a top-level name. The second result is false when the
	// name is unbound.
	Lookup(name string) (interface{}, bool)

	// Push opens a child frame. Bindings set on the frame shadow the scope
	// and disappear when the frame is popped.
	Push() Frame
}

// Frame is a scope frame opened for the duration of one iteration.
type Frame interface {
	Scope

	// Set binds name in this frame only.
	Set(name string, value interface{})

	// Pop closes the frame. The frame must not be used afterwards.
	Pop()
}

// Body renders the nested content of the tag against a frame.
type Body interface {
	Render(frame Frame) (string, error)
}

// BodyFunc adapts a function to the Body interface.
type BodyFunc func(frame Frame) (string, error)

// Render implements Body.
func (f BodyFunc) Render(frame Frame) (string, error) {
	return f(frame)
}

// MapScope is a Scope backed by a stack of maps. The bottom map holds the
// bindings the scope was created with.
type MapScope struct {
	frames []map[string]interface{}
}

// NewMapScope creates a MapScope with the given root bindings.
func NewMapScope(vars map[string]interface{}) *MapScope {
	root := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		root[k] = v
	}
	return &MapScope{frames: []map[string]interface{}{root}}
}

// Lookup searches the frames from innermost to outermost.
func (s *MapScope) Lookup(name string) (interface{}, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Push implements Scope.
func (s *MapScope) Push() Frame {
	s.frames = append(s.frames, map[string]interface{}{})
	return &mapFrame{scope: s, depth: len(s.frames)}
}

// Depth returns the number of open frames, including the root.
func (s *MapScope) Depth() int {
	return len(s.frames)
}

type mapFrame struct {
	scope *MapScope
	depth int
}

func (f *mapFrame) Lookup(name string) (interface{}, bool) {
	return f.scope.Lookup(name)
}

func (f *mapFrame) Push() Frame {
	return f.scope.Push()
}

func (f *mapFrame) Set(name string, value interface{}) {
	f.scope.frames[f.depth-1][name] = value
}

// Pop drops this frame and any frame opened above it.
func (f *mapFrame) Pop() {
	if len(f.scope.frames) >= f.depth {
		f.scope.frames = f.scope.frames[:f.depth-1]
	}
}
