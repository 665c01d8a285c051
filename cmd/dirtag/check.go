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


package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"directory-tag/pkg/templating"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [page...]",
		Short: "Check page templates for syntax errors",
		Long: `Compile pages without rendering them.

Malformed {% directory %} blocks, unknown filters and unclosed tags are
reported per page. Pages are selected like in render.

Example usage:
  dirtag check
  dirtag check index.html blog/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, args)
		},
	}
}

func runCheck(cmd *cobra.Command, root *rootOptions, args []string) error {
	env, err := root.setup(cmd)
	if err != nil {
		return err
	}

	names, err := env.pageNames(args)
	if err != nil {
		return err
	}

	pages, err := env.site.LoadPages(names)
	if err != nil {
		return err
	}

	engineType, ok := templating.ParseEngineType(env.cfg.Render.Engine)
	if !ok {
		return fmt.Errorf("unsupported template engine: %s", env.cfg.Render.Engine)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	w := cmd.OutOrStdout()

	loader := templating.NewSourceLoader(env.site.IncludesDir(), pages)
	failed := 0
	for _, name := range slices.Sorted(maps.Keys(pages)) {
		page := pages[name]
		if err := templating.ValidateTemplate(page, engineType, loader); err != nil {
			failed++
			red.Fprint(w, "FAIL ")
			fmt.Fprintf(w, "%s\n", name)
			fmt.Fprintln(cmd.ErrOrStderr(), templating.FormatRenderError(err, name, page))
			continue
		}
		green.Fprint(w, "ok   ")
		fmt.Fprintf(w, "%s\n", name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed to compile", failed, len(pages))
	}
	return nil
}
