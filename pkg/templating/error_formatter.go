package templating

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"directory-tag/pkg/directory"
)

// errorLocation is a position inside a template.
type errorLocation struct {
	Line   int
	Column int
}

// report is a render failure broken down for display.
type report struct {
	Location *errorLocation
	Problem  string
	Hints    []string
}

var (
	// gonja positions: "Line=3 Col=7".
	lineColPattern = regexp.MustCompile(`Line=(\d+)\s+Col=(\d+)`)

	// gonja positions without a column: "at line 3".
	linePattern = regexp.MustCompile(`at line (\d+)`)

	undefinedVarPattern  = regexp.MustCompile(`undefined variable '([^']+)'`)
	unknownFilterPattern = regexp.MustCompile(`filter '([^']+)' (?:not found|does not exist)`)
	typeMismatchPattern  = regexp.MustCompile(`expected (\w+), got (\w+)`)
)

// FormatRenderError turns a render error into a multi-line report with the
// failing template line and hints. Errors raised by the directory tag are
// recognized by type; everything else is matched on gonja's messages.
func FormatRenderError(err error, templateName, templateContent string) string {
	if err == nil {
		return ""
	}

	r := analyze(err)

	var b strings.Builder
	fmt.Fprintf(&b, "Template Rendering Error: %s\n", templateName)
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	if r.Location != nil {
		fmt.Fprintf(&b, "Location: Line %d, Column %d\n", r.Location.Line, r.Location.Column)
	}
	fmt.Fprintf(&b, "Problem:  %s\n", r.Problem)

	if r.Location != nil && templateContent != "" {
		if snippet := templateSnippet(templateContent, r.Location.Line, r.Location.Column); snippet != "" {
			b.WriteString("\nTemplate Context:\n")
			b.WriteString(snippet)
		}
	}

	if len(r.Hints) > 0 {
		b.WriteString("\nHint: ")
		b.WriteString(strings.Join(r.Hints, "\n      "))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatRenderErrorShort returns the report on a single line for logs.
func FormatRenderErrorShort(err error, templateName string) string {
	if err == nil {
		return ""
	}

	r := analyze(err)

	parts := []string{"Template: " + templateName}
	if r.Location != nil {
		parts = append(parts, fmt.Sprintf("Line %d Col %d", r.Location.Line, r.Location.Column))
	}
	parts = append(parts, truncate(r.Problem, 60))

	return strings.Join(parts, " | ")
}

func analyze(err error) report {
	msg := err.Error()
	r := report{Location: locate(msg)}

	var (
		nestedErr  *directory.NestedRenderError
		escapeErr  *directory.PathEscapeError
		patternErr *directory.PatternCompileError
		listErr    *directory.ListError
	)

	switch {
	case errors.As(err, &escapeErr):
		r.Problem = fmt.Sprintf("Directory path '%s' is outside the site source", escapeErr.Path)
		r.Hints = []string{
			"The path attribute is resolved relative to the site source root",
			fmt.Sprintf("(%s) and must stay inside it.", escapeErr.SourceRoot),
		}
	case errors.As(err, &patternErr):
		r.Problem = fmt.Sprintf("Invalid exclude pattern '%s'", patternErr.Pattern)
		r.Hints = []string{
			"Exclude patterns are case-insensitive regular expressions with extended syntax;",
			`whitespace is ignored, so escape literal spaces as '\ '. Quote the pattern in the tag.`,
		}
	case errors.As(err, &nestedErr):
		r.Problem = fmt.Sprintf("Directory block failed on entry %d (%s): %s",
			nestedErr.Index+1, nestedErr.Name, innermostProblem(nestedErr.Cause))
		r.Hints = []string{
			"Inside the block each entry is bound to 'file' and loop state to 'forloop'.",
		}
	case errors.As(err, &listErr):
		r.Problem = fmt.Sprintf("Cannot read '%s'", listErr.Path)
		r.Hints = []string{
			"Check that the directory exists below the site source and is readable.",
		}
	default:
		r.Problem = innermostProblem(err)
		r.Hints = genericHints(msg)
	}

	return r
}

// innermostProblem describes the most specific gonja failure in err.
func innermostProblem(err error) string {
	msg := err.Error()

	if m := undefinedVarPattern.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("Undefined variable '%s'", m[1])
	}
	if m := unknownFilterPattern.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("Unknown filter '%s'", m[1])
	}
	if m := typeMismatchPattern.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("Type mismatch: expected %s, got %s", m[1], m[2])
	}
	if strings.Contains(msg, "directory tag: context variable") {
		return "The site source root is not available to the directory tag"
	}

	return truncate(msg, 100)
}

func genericHints(msg string) []string {
	switch {
	case strings.Contains(msg, "context variable '"+SiteVariable+"'"):
		return []string{
			"Render through an engine configured with a site, or pass 'site'",
			"with a 'source' entry in the render context.",
		}
	case undefinedVarPattern.MatchString(msg):
		return []string{
			"Check that the variable is defined in the rendering context.",
			"Directory entries are only visible as 'file' inside the block.",
		}
	case unknownFilterPattern.MatchString(msg):
		return []string{
			"Available custom filters: strftime, titleize, glob_match, filesize.",
		}
	case typeMismatchPattern.MatchString(msg):
		return []string{
			"The template expects a different data type than what was provided.",
		}
	}
	return []string{
		"Check your template syntax and the data passed to the template.",
		"See Jinja2 template documentation for syntax help.",
	}
}

func locate(msg string) *errorLocation {
	if m := lineColPattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		return &errorLocation{Line: line, Column: col}
	}
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &errorLocation{Line: line}
	}
	return nil
}

// templateSnippet prints the line and a caret under the column.
func templateSnippet(content string, line, column int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	text := lines[line-1]
	prefix := fmt.Sprintf("%d | ", line)

	var b strings.Builder
	b.WriteString(prefix + text + "\n")
	if column > 0 && column <= len(text)+1 {
		b.WriteString(strings.Repeat(" ", len(prefix)+column-1))
		b.WriteString("^\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
