package templating

// validationTemplateName is used in errors reported by ValidateTemplate.
const validationTemplateName = "template"

// ValidateTemplate checks template syntax without executing it. The
// template is compiled with the same filters and control structures as
// TemplateEngine, so {% directory %} blocks and custom filters are accepted,
// and includes resolve through loader when one is given.
//
// Example:
//
//	if err := templating.ValidateTemplate(page, templating.EngineTypeGonja, nil); err != nil {
//	    log.Printf("Invalid template: %v", err)
//	}
func ValidateTemplate(templateStr string, engineType EngineType, loader *SourceLoader) error {
	if engineType != EngineTypeGonja {
		return NewUnsupportedEngineError(engineType)
	}

	var opts []Option
	if loader != nil {
		opts = append(opts, WithLoader(loader.With(validationTemplateName, templateStr)))
	}

	_, err := New(engineType, map[string]string{validationTemplateName: templateStr}, nil, nil, opts...)
	return err
}
