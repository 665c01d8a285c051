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

import "strings"

// RenderBlock renders body once per iteration, in order, and concatenates the
// results.
//
// Each iteration runs in its own frame holding the `file` and `forloop`
// bindings. The frame is popped before the body's error is examined, so no
// binding outlives its iteration on any path. The first failing iteration
// stops the loop with a *NestedRenderError. An empty iteration list renders
// to "" without opening a frame.
func RenderBlock(iterations []Iteration, body Body, scope Scope) (string, error) {
	var out strings.Builder

	for _, it := range iterations {
		rendered, err := renderIteration(it, body, scope)
		if err != nil {
			return "", NewNestedRenderError(it.Loop.Index0, it.Entry.Name, err)
		}
		out.WriteString(rendered)
	}

	return out.String(), nil
}

func renderIteration(it Iteration, body Body, scope Scope) (string, error) {
	frame := scope.Push()
	frame.Set(FileBinding, it.Entry.Binding())
	frame.Set(LoopBinding, it.Loop.Binding())

	rendered, err := body.Render(frame)

	frame.Pop()

	return rendered, err
}
