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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"directory-tag/pkg/metrics"
	"directory-tag/pkg/site"
	"directory-tag/pkg/templating"
)

type renderOptions struct {
	stdout      bool
	metricsFile string
	workers     int
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [page...]",
		Short: "Render pages into the destination directory",
		Long: `Render pages into the destination directory.

Pages are named relative to the site source. Without arguments the pages
listed in render.pages are rendered, or every .html file below the source
outside of directories starting with "_" or ".".

Each page is written to the same relative path below the destination. Files
are replaced atomically and the destination is locked for the duration of
the run.

Example usage:
  # Render every page
  dirtag render

  # Render one page to stdout
  dirtag render --stdout blog/index.html

  # Export metrics for the node_exporter textfile collector
  dirtag render --metrics-file /var/lib/node_exporter/dirtag.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print rendered pages instead of writing them")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit (default from config)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of pages rendered concurrently (default from config)")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions, args []string) (err error) {
	env, err := root.setup(cmd)
	if err != nil {
		return err
	}

	names, err := env.pageNames(args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		env.logger.Warn("No pages to render", "source", env.site.Source())
		return nil
	}

	pages, err := env.site.LoadPages(names)
	if err != nil {
		return err
	}

	processors, err := env.postProcessors()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = env.cfg.Metrics.Textfile
	}
	if metricsFile != "" {
		defer func() {
			if writeErr := metrics.WriteTextfile(registry, metricsFile); writeErr != nil {
				err = errors.Join(err, writeErr)
			}
		}()
	}

	workers := opts.workers
	if workers <= 0 {
		workers = env.cfg.Render.Workers
	}

	renderer, err := site.NewRenderer(env.site, pages, site.Options{
		Workers:        workers,
		DefaultExclude: env.cfg.Render.GetDefaultExclude(),
		PostProcessors: processors,
		Metrics:        m,
		Logger:         env.logger,
	})
	if err != nil {
		return reportTemplateError(cmd.ErrOrStderr(), err, pages)
	}

	if opts.stdout {
		for _, name := range renderer.Pages() {
			output, err := renderer.RenderPage(name)
			if err != nil {
				return reportTemplateError(cmd.ErrOrStderr(), err, pages)
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
		}
		return nil
	}

	lock, err := site.NewDestinationLock(env.site)
	if err != nil {
		return err
	}
	if err := lock.Lock(cmd.Context()); err != nil {
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			env.logger.Warn("Failed to release destination lock", "error", unlockErr)
		}
	}()

	results, err := renderer.Build(cmd.Context())
	if err != nil {
		return reportTemplateError(cmd.ErrOrStderr(), err, pages)
	}

	printResults(cmd.OutOrStdout(), results)
	return nil
}

func printResults(w io.Writer, results []site.PageResult) {
	green := color.New(color.FgGreen)

	var total uint64
	for _, result := range results {
		green.Fprint(w, "  wrote ")
		fmt.Fprintf(w, "%s (%s, %s)\n", result.Name, humanize.Bytes(uint64(result.Bytes)), result.Duration.Round(time.Microsecond))
		total += uint64(result.Bytes)
	}
	fmt.Fprintf(w, "%d pages, %s\n", len(results), humanize.Bytes(total))
}

// reportTemplateError prints a detailed report for template failures and
// returns a short error for cobra to print.
func reportTemplateError(w io.Writer, err error, pages map[string]string) error {
	var (
		compErr   *templating.CompilationError
		renderErr *templating.RenderError
		name      string
	)
	switch {
	case errors.As(err, &compErr):
		name = compErr.TemplateName
	case errors.As(err, &renderErr):
		name = renderErr.TemplateName
	default:
		return err
	}

	fmt.Fprintln(w, templating.FormatRenderError(err, name, pages[name]))
	return errors.New(templating.FormatRenderErrorShort(err, name))
}
