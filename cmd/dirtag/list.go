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
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ncruces/go-strftime"
	"github.com/spf13/cobra"

	"directory-tag/pkg/directory"
	"directory-tag/pkg/templating"
)

// listDateLayout formats entry dates in list output.
const listDateLayout = "%Y-%m-%d"

type listOptions struct {
	path    string
	reverse bool
	exclude string
}

func newListCommand(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the entries a directory tag would iterate over",
		Long: `Show the entries and loop state a directory tag would produce.

The flags mirror the tag attributes; --path may name a site variable such as
site.posts_dir.

Example usage:
  # Same as {% directory path: "posts" reverse %}
  dirtag list --path posts --reverse

  # List everything, including .html files
  dirtag list --path posts --exclude ""`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", directory.DefaultPath, "Directory relative to the source, or a variable holding it")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "Sort entries in descending order")
	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "Exclude pattern (default from config)")

	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	env, err := root.setup(cmd)
	if err != nil {
		return err
	}

	tagCfg := directory.TagConfig{
		PathExpression: opts.path,
		SortDescending: opts.reverse,
		Attributes: map[string]directory.Attribute{
			directory.AttrPath: {Value: opts.path},
		},
	}
	if cmd.Flags().Changed("exclude") {
		tagCfg.ExcludePattern = opts.exclude
		tagCfg.Attributes[directory.AttrExclude] = directory.Attribute{Value: opts.exclude}
	}

	tag := directory.NewTagFromConfig(tagCfg,
		directory.WithDefaultExclude(env.cfg.Render.GetDefaultExclude()),
		directory.WithLogger(env.logger))

	bindings := env.site.Bindings()
	bindings["source"] = env.site.Source()
	scope := directory.NewMapScope(map[string]interface{}{
		templating.SiteVariable: bindings,
	})

	iterations, err := tag.Entries(scope, env.site)
	if err != nil {
		return err
	}

	printIterations(cmd.OutOrStdout(), iterations)
	return nil
}

func printIterations(w io.Writer, iterations []directory.Iteration) {
	cyan := color.New(color.FgCyan)
	blue := color.New(color.FgBlue, color.Bold)
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	for _, it := range iterations {
		entry := it.Entry

		cyan.Fprintf(w, "%3d/%-3d ", it.Loop.Index, it.Loop.Length)
		yellow.Fprintf(w, "%s  ", strftime.Format(listDateLayout, entry.Date))

		if entry.IsDir {
			blue.Fprintf(w, "%-40s", entry.URL+"/")
			fmt.Fprintf(w, " %8s", "-")
		} else {
			fmt.Fprintf(w, "%-40s", entry.URL)
			fmt.Fprintf(w, " %8s", entrySize(entry.AbsolutePath))
		}

		faint.Fprintf(w, "  %s\n", entry.Title)
	}

	fmt.Fprintf(w, "%d entries\n", len(iterations))
}

func entrySize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}
