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
	"io"
	"strings"

	"github.com/nikolalohinski/gonja/v2/builtins"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/nikolalohinski/gonja/v2/nodes"
	"github.com/nikolalohinski/gonja/v2/parser"
	"github.com/nikolalohinski/gonja/v2/tokens"

	"directory-tag/pkg/directory"
)

const (
	// SiteVariable is the context key the directory tag reads its site from.
	SiteVariable = "site"

	// DirectoryTagName opens the block, DirectoryEndTagName closes it.
	DirectoryTagName    = "directory"
	DirectoryEndTagName = "enddirectory"

	runtimeVariable = "__directory_runtime"
)

// controlStructures is the builtin set extended with the directory tag.
// Parsers are stateless, so one registration serves every engine.
var controlStructures = builtins.ControlStructures.Update(exec.NewControlStructureSet(
	map[string]parser.ControlStructureParser{
		DirectoryTagName: directoryParser,
	},
))

// directoryRuntime carries per-engine tag options into a render.
type directoryRuntime struct {
	options []directory.Option
}

// SiteBinder is implemented by sites that expose more than their source
// root to templates.
type SiteBinder interface {
	directory.Site
	Bindings() map[string]interface{}
}

// siteBinding converts a site into the value bound to `site`.
func siteBinding(site directory.Site) map[string]interface{} {
	binding := map[string]interface{}{}
	if binder, ok := site.(SiteBinder); ok {
		for k, v := range binder.Bindings() {
			binding[k] = v
		}
	}
	binding["source"] = site.Source()
	return binding
}

// siteFrom extracts the site from a render context value.
func siteFrom(value interface{}) (directory.Site, error) {
	switch v := unwrapValue(value).(type) {
	case directory.Site:
		return v, nil
	case map[string]interface{}:
		if source, ok := v["source"].(string); ok && source != "" {
			return directory.StaticSite(source), nil
		}
	case map[string]string:
		if source, ok := v["source"]; ok && source != "" {
			return directory.StaticSite(source), nil
		}
	case string:
		if v != "" {
			return directory.StaticSite(v), nil
		}
	}
	return nil, fmt.Errorf("directory tag: context variable '%s' does not provide a source root", SiteVariable)
}

func unwrapValue(value interface{}) interface{} {
	if v, ok := value.(*exec.Value); ok {
		return v.Interface()
	}
	return value
}

// DirectoryControlStructure is the compiled form of a
// {% directory ... %}...{% enddirectory %} block.
//
// String arguments reach the tag verbatim, without escape processing, so a
// pattern takes a single backslash: exclude: "\.draft$". The doubled form
// "\\.draft$" matches a literal backslash.
type DirectoryControlStructure struct {
	location *tokens.Token
	config   directory.TagConfig
	wrapper  *nodes.Wrapper
}

// Position implements nodes.ControlStructure.
func (d *DirectoryControlStructure) Position() *tokens.Token { return d.location }

func (d *DirectoryControlStructure) String() string {
	t := d.Position()
	return fmt.Sprintf("DirectoryControlStructure(Line=%d Col=%d)", t.Line, t.Col)
}

// Config returns the tag configuration parsed at compile time.
func (d *DirectoryControlStructure) Config() directory.TagConfig {
	return d.config
}

// Execute lists the directory and renders the wrapped body once per entry.
func (d *DirectoryControlStructure) Execute(r *exec.Renderer, _ *nodes.ControlStructureBlock) error {
	ctx := r.Environment.Context

	siteValue, ok := ctx.Get(SiteVariable)
	if !ok {
		return fmt.Errorf("directory tag: context variable '%s' is not set", SiteVariable)
	}
	site, err := siteFrom(siteValue)
	if err != nil {
		return err
	}

	var opts []directory.Option
	if value, ok := ctx.Get(runtimeVariable); ok {
		if runtime, ok := unwrapValue(value).(*directoryRuntime); ok {
			opts = runtime.options
		}
	}

	tag := directory.NewTagFromConfig(d.config, opts...)
	out, err := tag.Render(&gonjaScope{renderer: r}, site, &gonjaBody{wrapper: d.wrapper})
	if err != nil {
		return err
	}

	_, err = io.WriteString(r.Output, out)
	return err
}

func directoryParser(p *parser.Parser, args *parser.Parser) (nodes.ControlStructure, error) {
	controlStructure := &DirectoryControlStructure{
		location: p.Current(),
		config:   directory.ParseTagConfig(markupFromArgs(args)),
	}

	wrapper, endargs, err := p.WrapUntil(DirectoryEndTagName)
	if err != nil {
		return nil, err
	}
	controlStructure.wrapper = wrapper

	if !endargs.End() {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}

	return controlStructure, nil
}

// markupFromArgs rebuilds the tag markup from the argument tokens. String
// literals are re-quoted so the tag parser can tell them from variable names.
func markupFromArgs(args *parser.Parser) string {
	var sb strings.Builder
	var prev *tokens.Token
	prevEnd := 0

	for !args.End() {
		tok := args.Current()
		if tok == nil {
			break
		}

		raw := tok.Val
		if tok.Type == tokens.String {
			quote := `"`
			if strings.Contains(tok.Val, `"`) {
				quote = `'`
			}
			raw = quote + tok.Val + quote
		}

		if prev != nil && (tok.Pos > prevEnd || prev.Type == tokens.String) {
			sb.WriteByte(' ')
		}
		sb.WriteString(raw)

		prev = tok
		prevEnd = tok.Pos + len(raw)
		args.Consume()
	}

	return sb.String()
}

// gonjaScope exposes a renderer's context as a directory.Scope.
type gonjaScope struct {
	renderer *exec.Renderer
}

func (s *gonjaScope) Lookup(name string) (interface{}, bool) {
	value, ok := s.renderer.Environment.Context.Get(name)
	if !ok {
		return nil, false
	}
	return unwrapValue(value), true
}

// Push inherits the renderer. The child writes into its own buffer so a
// failed iteration never reaches the parent output.
func (s *gonjaScope) Push() directory.Frame {
	sub := s.renderer.Inherit()
	frame := &gonjaFrame{}
	sub.Output = &frame.output
	frame.renderer = sub
	return frame
}

type gonjaFrame struct {
	renderer *exec.Renderer
	output   strings.Builder
}

func (f *gonjaFrame) Lookup(name string) (interface{}, bool) {
	return (&gonjaScope{renderer: f.renderer}).Lookup(name)
}

func (f *gonjaFrame) Push() directory.Frame {
	return (&gonjaScope{renderer: f.renderer}).Push()
}

func (f *gonjaFrame) Set(name string, value interface{}) {
	f.renderer.Environment.Context.Set(name, value)
}

// Pop drops the inherited context. The parent context was never written to.
func (f *gonjaFrame) Pop() {
	f.renderer = nil
}

// gonjaBody executes the wrapped block against a frame.
type gonjaBody struct {
	wrapper *nodes.Wrapper
}

func (b *gonjaBody) Render(frame directory.Frame) (string, error) {
	f, ok := frame.(*gonjaFrame)
	if !ok || f.renderer == nil {
		return "", fmt.Errorf("directory tag: body rendered against a foreign frame")
	}

	if err := f.renderer.ExecuteWrapper(b.wrapper); err != nil {
		return "", err
	}
	return f.output.String(), nil
}
