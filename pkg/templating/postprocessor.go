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
	"fmt"
)

// PostProcessor transforms a rendered page before it is returned. Processors
// run in configuration order, each receiving the previous one's output.
type PostProcessor interface {
	Process(input string) (string, error)
}

// PostProcessorType identifies the type of post-processor.
type PostProcessorType string

const (
	// PostProcessorTypeRegexReplace applies a line-wise regex find/replace.
	PostProcessorTypeRegexReplace PostProcessorType = "regex_replace"

	// PostProcessorTypeTrimTrailingWhitespace strips spaces and tabs at line ends.
	// Directory blocks indented for readability tend to leave them behind.
	PostProcessorTypeTrimTrailingWhitespace PostProcessorType = "trim_trailing_whitespace"
)

// PostProcessorConfig is the configuration of one post-processor.
type PostProcessorConfig struct {
	Type PostProcessorType `yaml:"type" json:"type"`

	// Params holds type-specific settings. regex_replace requires
	// "pattern" and "replace"; trim_trailing_whitespace takes none.
	Params map[string]string `yaml:"params" json:"params"`
}

// NewPostProcessor creates a post-processor from configuration.
func NewPostProcessor(config PostProcessorConfig) (PostProcessor, error) {
	switch config.Type {
	case PostProcessorTypeRegexReplace:
		pattern, ok := config.Params["pattern"]
		if !ok {
			return nil, fmt.Errorf("regex_replace processor requires 'pattern' parameter")
		}

		replace, ok := config.Params["replace"]
		if !ok {
			return nil, fmt.Errorf("regex_replace processor requires 'replace' parameter")
		}

		return NewRegexReplaceProcessor(pattern, replace)

	case PostProcessorTypeTrimTrailingWhitespace:
		return NewRegexReplaceProcessor(`[ \t]+$`, "")

	default:
		return nil, fmt.Errorf("unknown post-processor type: %s", config.Type)
	}
}

// NewPostProcessors creates processors for every configuration in order.
func NewPostProcessors(configs []PostProcessorConfig) ([]PostProcessor, error) {
	processors := make([]PostProcessor, 0, len(configs))
	for i, cfg := range configs {
		processor, err := NewPostProcessor(cfg)
		if err != nil {
			return nil, fmt.Errorf("post-processor %d: %w", i, err)
		}
		processors = append(processors, processor)
	}
	return processors, nil
}
