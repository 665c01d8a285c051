package templating

import (
	"fmt"
	"slices"
	"strings"
)

// snippetLength bounds the template excerpt kept in a CompilationError.
const snippetLength = 200

// CompilationError is returned by New when a template does not parse, for
// example because a {% directory %} block is never closed.
type CompilationError struct {
	TemplateName string

	// TemplateSnippet holds the start of the template source.
	TemplateSnippet string

	Cause error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile template '%s': %v", e.TemplateName, e.Cause)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// RenderError is returned by Render when a compiled template fails, including
// every failure raised by a directory tag inside it.
type RenderError struct {
	TemplateName string
	Cause        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render template '%s': %v", e.TemplateName, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// TemplateNotFoundError is returned for a template name the engine does not know.
type TemplateNotFoundError struct {
	TemplateName       string
	AvailableTemplates []string
}

func (e *TemplateNotFoundError) Error() string {
	if len(e.AvailableTemplates) == 0 {
		return fmt.Sprintf("template '%s' not found", e.TemplateName)
	}
	available := slices.Sorted(slices.Values(e.AvailableTemplates))
	return fmt.Sprintf("template '%s' not found (available: %s)", e.TemplateName, strings.Join(available, ", "))
}

// UnsupportedEngineError is returned for an unknown EngineType.
type UnsupportedEngineError struct {
	EngineType EngineType
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("unsupported template engine type: %s", e.EngineType)
}

// NewCompilationError keeps the first snippetLength bytes of the template.
func NewCompilationError(templateName, templateContent string, cause error) *CompilationError {
	snippet := templateContent
	if len(snippet) > snippetLength {
		snippet = snippet[:snippetLength] + "..."
	}

	return &CompilationError{
		TemplateName:    templateName,
		TemplateSnippet: snippet,
		Cause:           cause,
	}
}

func NewRenderError(templateName string, cause error) *RenderError {
	return &RenderError{
		TemplateName: templateName,
		Cause:        cause,
	}
}

func NewTemplateNotFoundError(templateName string, availableTemplates []string) *TemplateNotFoundError {
	return &TemplateNotFoundError{
		TemplateName:       templateName,
		AvailableTemplates: availableTemplates,
	}
}

func NewUnsupportedEngineError(engineType EngineType) *UnsupportedEngineError {
	return &UnsupportedEngineError{
		EngineType: engineType,
	}
}
