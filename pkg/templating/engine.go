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
	"log/slog"

	"github.com/nikolalohinski/gonja/v2/builtins"
	"github.com/nikolalohinski/gonja/v2/config"
	"github.com/nikolalohinski/gonja/v2/exec"

	"directory-tag/pkg/directory"
)

// FilterFunc is a custom filter function that can be registered with the template engine.
// It receives the input value and optional arguments, and returns the filtered value or an error.
//
// Example:
//
//	func uppercase(in interface{}, args ...interface{}) (interface{}, error) {
//	    str, ok := in.(string)
//	    if !ok {
//	        return nil, fmt.Errorf("uppercase: expected string, got %T", in)
//	    }
//	    return strings.ToUpper(str), nil
//	}
type FilterFunc func(in interface{}, args ...interface{}) (interface{}, error)

// GlobalFunc is a custom global function that can be called from templates.
type GlobalFunc func(args ...interface{}) (interface{}, error)

// Option configures a TemplateEngine.
type Option func(*TemplateEngine)

// WithSite makes site available to every render as the `site` variable. The
// directory tag lists paths relative to its source root.
func WithSite(site directory.Site) Option {
	return func(e *TemplateEngine) {
		e.site = site
	}
}

// WithLoader replaces the loader used to resolve {% include %} and
// {% extends %} references. By default only the engine's own templates can be
// referenced.
func WithLoader(loader *SourceLoader) Option {
	return func(e *TemplateEngine) {
		e.loader = loader
	}
}

// WithPostProcessors sets processors applied, in order, to every rendered output.
func WithPostProcessors(processors ...PostProcessor) Option {
	return func(e *TemplateEngine) {
		e.postProcessors = append(e.postProcessors, processors...)
	}
}

// WithDirectoryOptions passes options to every directory tag render.
func WithDirectoryOptions(opts ...directory.Option) Option {
	return func(e *TemplateEngine) {
		e.directoryOptions = append(e.directoryOptions, opts...)
	}
}

// WithLogger sets the logger for engine and directory tag debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *TemplateEngine) {
		e.logger = logger
	}
}

// TemplateEngine compiles templates once and renders them on demand.
// Compiled templates are read-only, so Render may be called concurrently.
type TemplateEngine struct {
	engineType EngineType

	rawTemplates      map[string]string
	compiledTemplates map[string]*exec.Template

	site             directory.Site
	loader           *SourceLoader
	postProcessors   []PostProcessor
	directoryOptions []directory.Option
	logger           *slog.Logger
}

// New creates a TemplateEngine and compiles all templates. Custom filters and
// global functions may be nil.
//
// Example:
//
//	templates := map[string]string{
//	    "archive.html": `{% directory path: "posts" reverse %}{{ file.title }}{% enddirectory %}`,
//	}
//	engine, err := templating.New(templating.EngineTypeGonja, templates, nil, nil,
//	    templating.WithSite(directory.StaticSite("/srv/site")))
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(engineType EngineType, templates map[string]string, customFilters map[string]FilterFunc, customFunctions map[string]GlobalFunc, opts ...Option) (*TemplateEngine, error) {
	if engineType != EngineTypeGonja {
		return nil, NewUnsupportedEngineError(engineType)
	}

	engine := &TemplateEngine{
		engineType:        engineType,
		rawTemplates:      make(map[string]string, len(templates)),
		compiledTemplates: make(map[string]*exec.Template, len(templates)),
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.loader == nil {
		engine.loader = NewSourceLoader("", templates)
	} else {
		engine.loader = engine.loader.WithTemplates(templates)
	}
	engine.logger = engine.logger.With("component", "template-engine")

	// TrimBlocks removes the first newline after a block, LeftStripBlocks
	// strips spaces and tabs before it. Use {%+ to keep them on a block.
	cfg := &config.Config{
		BlockStartString:    "{%",
		BlockEndString:      "%}",
		VariableStartString: "{{",
		VariableEndString:   "}}",
		CommentStartString:  "{#",
		CommentEndString:    "#}",
		AutoEscape:          false,
		StrictUndefined:     false,
		TrimBlocks:          true,
		LeftStripBlocks:     true,
	}

	filters := builtins.Filters
	filterMap := make(map[string]exec.FilterFunction)
	for name, filter := range DefaultFilters() {
		filterMap[name] = wrapCustomFilter(filter)
	}
	for name, filter := range customFilters {
		filterMap[name] = wrapCustomFilter(filter)
	}
	filters = filters.Update(exec.NewFilterSet(filterMap))

	globalFunctions := builtins.GlobalFunctions
	if len(customFunctions) > 0 {
		functionMap := make(map[string]interface{})
		for name, customFunc := range customFunctions {
			functionMap[name] = wrapGlobalFunction(customFunc)
		}
		globalFunctions = globalFunctions.Update(exec.NewContext(functionMap))
	}

	environment := &exec.Environment{
		Filters:           filters,
		Tests:             builtins.Tests,
		ControlStructures: controlStructures,
		Methods:           builtins.Methods,
		Context:           globalFunctions,
	}

	for name, content := range templates {
		engine.rawTemplates[name] = content

		compiled, err := exec.NewTemplate(name, cfg, engine.loader, environment)
		if err != nil {
			return nil, NewCompilationError(name, content, err)
		}

		engine.compiledTemplates[name] = compiled
	}

	engine.logger.Debug("Compiled templates", "count", len(engine.compiledTemplates))

	return engine, nil
}

// Render executes the named template with the provided context, applies the
// post-processors and returns the output.
//
// The engine adds `site` (when configured and not already present) and the
// directory tag runtime to the context.
func (e *TemplateEngine) Render(templateName string, context map[string]interface{}) (string, error) {
	template, exists := e.compiledTemplates[templateName]
	if !exists {
		return "", NewTemplateNotFoundError(templateName, e.TemplateNames())
	}

	data := make(map[string]interface{}, len(context)+2)
	for k, v := range context {
		data[k] = v
	}
	if _, ok := data[SiteVariable]; !ok && e.site != nil {
		data[SiteVariable] = siteBinding(e.site)
	}
	data[runtimeVariable] = &directoryRuntime{
		options: append([]directory.Option{directory.WithLogger(e.logger)}, e.directoryOptions...),
	}

	output, err := template.ExecuteToString(exec.NewContext(data))
	if err != nil {
		return "", NewRenderError(templateName, err)
	}

	for _, processor := range e.postProcessors {
		output, err = processor.Process(output)
		if err != nil {
			return "", NewRenderError(templateName, fmt.Errorf("post-processing failed: %w", err))
		}
	}

	return output, nil
}

// EngineType returns the template engine type used by this instance.
func (e *TemplateEngine) EngineType() EngineType {
	return e.engineType
}

// TemplateNames returns a list of all available template names.
func (e *TemplateEngine) TemplateNames() []string {
	names := make([]string, 0, len(e.rawTemplates))
	for name := range e.rawTemplates {
		names = append(names, name)
	}
	return names
}

// HasTemplate returns true if a template with the given name exists.
func (e *TemplateEngine) HasTemplate(templateName string) bool {
	_, exists := e.compiledTemplates[templateName]
	return exists
}

// GetRawTemplate returns the original (uncompiled) template string for the given name.
func (e *TemplateEngine) GetRawTemplate(templateName string) (string, error) {
	template, exists := e.rawTemplates[templateName]
	if !exists {
		return "", NewTemplateNotFoundError(templateName, e.TemplateNames())
	}
	return template, nil
}

// TemplateCount returns the number of templates in this engine.
func (e *TemplateEngine) TemplateCount() int {
	return len(e.compiledTemplates)
}

// String returns a string representation of the engine for debugging.
func (e *TemplateEngine) String() string {
	return fmt.Sprintf("TemplateEngine{type=%s, templates=%d}", e.engineType, e.TemplateCount())
}

// wrapCustomFilter wraps a FilterFunc into Gonja's FilterFunction signature.
func wrapCustomFilter(customFilter FilterFunc) exec.FilterFunction {
	return func(e *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
		var args []interface{}
		if params != nil {
			for _, arg := range params.Args {
				args = append(args, arg.Interface())
			}
		}

		result, err := customFilter(in.Interface(), args...)
		if err != nil {
			return exec.AsValue(err)
		}

		return exec.AsValue(result)
	}
}

// wrapGlobalFunction wraps a GlobalFunc into a function callable from Gonja templates.
func wrapGlobalFunction(customFunc GlobalFunc) func(_ *exec.Evaluator, params *exec.VarArgs) *exec.Value {
	return func(_ *exec.Evaluator, params *exec.VarArgs) *exec.Value {
		var args []interface{}
		if params != nil {
			for _, arg := range params.Args {
				args = append(args, arg.Interface())
			}
		}

		result, err := customFunc(args...)
		if err != nil {
			return exec.AsValue(exec.ErrInvalidCall(err))
		}

		return exec.AsValue(result)
	}
}
