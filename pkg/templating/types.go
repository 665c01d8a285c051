// Package templating renders pages with the gonja (Jinja2) engine extended by
// the {% directory %} block tag.
//
// Templates are compiled once by New; syntax errors, including malformed
// directory blocks, surface at that point. Rendering lists directories below
// the configured site on every call, so pages always reflect the current
// source tree.
package templating

// EngineType represents the template engine to use for rendering.
type EngineType int

const (
	// EngineTypeGonja uses the Gonja template engine (Jinja2-like syntax).
	EngineTypeGonja EngineType = iota
)

// String returns the string representation of the engine type.
func (e EngineType) String() string {
	switch e {
	case EngineTypeGonja:
		return "gonja"
	default:
		return "unknown"
	}
}

// ParseEngineType maps a configuration value to an EngineType.
func ParseEngineType(name string) (EngineType, bool) {
	switch name {
	case "", "gonja", "jinja2":
		return EngineTypeGonja, true
	default:
		return -1, false
	}
}
