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

// NewLoopState computes the loop state of the entry at 0-based position
// index in a listing of length entries.
func NewLoopState(index, length int) LoopState {
	return LoopState{
		Name:    LoopName,
		Length:  length,
		Index:   index + 1,
		Index0:  index,
		Rindex:  length - index,
		Rindex0: length - index - 1,
		First:   index == 0,
		Last:    index == length-1,
	}
}

// BuildIterations pairs every entry with its loop state, preserving order.
func BuildIterations(entries []Entry) []Iteration {
	iterations := make([]Iteration, len(entries))
	for i, entry := range entries {
		iterations[i] = Iteration{
			Entry: entry,
			Loop:  NewLoopState(i, len(entries)),
		}
	}
	return iterations
}
