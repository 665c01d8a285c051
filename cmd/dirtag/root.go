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
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"directory-tag/pkg/core/config"
	"directory-tag/pkg/core/logging"
	"directory-tag/pkg/site"
	"directory-tag/pkg/templating"
)

const (
	// DefaultConfigFile is used when neither --config nor DIRTAG_CONFIG is set.
	DefaultConfigFile = "dirtag.yaml"

	// ConfigEnvVar names the configuration file when --config is not given.
	ConfigEnvVar = "DIRTAG_CONFIG"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configFile string
	verbose    int
	noColor    bool
}

// environment is everything a subcommand needs after flags were parsed.
type environment struct {
	cfg    *config.Config
	site   *site.Site
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dirtag",
		Short: "Render site pages that list directories with the directory tag",
		Long: `dirtag renders Jinja2 (gonja) pages whose {% directory %} blocks iterate
over the files of a directory below the site source.

  {% directory path: "posts" reverse exclude: "\.draft$" %}
    <a href="{{ file.url }}">{{ forloop.index }}. {{ file.title }}</a>
  {% enddirectory %}

Configuration is loaded from:
1. The --config flag (highest priority)
2. The DIRTAG_CONFIG environment variable
3. dirtag.yaml in the working directory (defaults when missing)`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"Path to the configuration file (env: "+ConfigEnvVar+")")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", -1,
		"Log level: 0=WARNING, 1=INFO, 2=DEBUG (default from config)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false,
		"Disable colored output")

	cmd.AddCommand(newRenderCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))

	return cmd
}

// configPath applies the flag > environment > default order.
func (o *rootOptions) configPath() (path string, explicit bool) {
	if o.configFile != "" {
		return o.configFile, true
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env, true
	}
	return DefaultConfigFile, false
}

// loadConfig reads and validates the configuration. A missing default file
// yields the defaults with paths relative to the working directory.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path, explicit := o.configPath()

	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		cfg, err = config.LoadConfig("{}")
		if err != nil {
			return nil, err
		}
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.ResolvePaths(wd)
	}

	if o.verbose >= 0 {
		cfg.Logging.Verbose = o.verbose
	}

	if err := config.ValidateStructure(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setup loads the configuration, configures logging and opens the site.
func (o *rootOptions) setup(cmd *cobra.Command) (*environment, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := logging.NewLoggerTo(cmd.ErrOrStderr(), logging.LevelFromVerbose(cfg.Logging.Verbose)).
		With("run_id", runID)
	slog.SetDefault(logger)

	s, err := site.New(cfg.Site)
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded",
		"command", cmd.Name(),
		"source", s.Source(),
		"destination", s.Destination(),
		"workers", cfg.Render.Workers)

	return &environment{
		cfg:    cfg,
		site:   s,
		logger: logger,
	}, nil
}

// postProcessors converts the configured post-processors.
func (e *environment) postProcessors() ([]templating.PostProcessor, error) {
	configs := make([]templating.PostProcessorConfig, len(e.cfg.PostProcessors))
	for i, pc := range e.cfg.PostProcessors {
		configs[i] = templating.PostProcessorConfig{
			Type:   templating.PostProcessorType(pc.Type),
			Params: pc.Params,
		}
	}
	return templating.NewPostProcessors(configs)
}

// pageNames returns the pages named on the command line, the configured
// pages, or every page found in the source, in that order.
func (e *environment) pageNames(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(e.cfg.Render.Pages) > 0 {
		return e.cfg.Render.Pages, nil
	}
	return e.site.DiscoverPages()
}
