package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{Logging: LoggingConfig{Verbose: 1}}
	setDefaults(cfg)
	return cfg
}

func TestValidateStructure_Valid(t *testing.T) {
	require.NoError(t, ValidateStructure(validConfig()))
}

func TestValidateStructure_Nil(t *testing.T) {
	assert.ErrorContains(t, ValidateStructure(nil), "config is nil")
}

func TestValidateStructure_Errors(t *testing.T) {
	badPattern := "([a-z"

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "empty source",
			mutate:  func(cfg *Config) { cfg.Site.Source = "" },
			wantErr: "site: source cannot be empty",
		},
		{
			name:    "empty destination",
			mutate:  func(cfg *Config) { cfg.Site.Destination = "" },
			wantErr: "site: destination cannot be empty",
		},
		{
			name: "destination equals source",
			mutate: func(cfg *Config) {
				cfg.Site.Source = "/srv/site"
				cfg.Site.Destination = "/srv/site/"
			},
			wantErr: "cannot be the same directory",
		},
		{
			name:    "includes outside source",
			mutate:  func(cfg *Config) { cfg.Site.Includes = "../partials" },
			wantErr: "site: includes must be a relative path",
		},
		{
			name:    "verbose too high",
			mutate:  func(cfg *Config) { cfg.Logging.Verbose = 3 },
			wantErr: "logging: verbose must be 0",
		},
		{
			name:    "verbose negative",
			mutate:  func(cfg *Config) { cfg.Logging.Verbose = -1 },
			wantErr: "logging: verbose must be 0",
		},
		{
			name:    "unknown engine",
			mutate:  func(cfg *Config) { cfg.Render.Engine = "liquid" },
			wantErr: `render: engine must be "gonja"`,
		},
		{
			name:    "no workers",
			mutate:  func(cfg *Config) { cfg.Render.Workers = -2 },
			wantErr: "render: workers must be at least 1",
		},
		{
			name:    "invalid default exclude",
			mutate:  func(cfg *Config) { cfg.Render.DefaultExclude = &badPattern },
			wantErr: "render: default_exclude",
		},
		{
			name:    "absolute page",
			mutate:  func(cfg *Config) { cfg.Render.Pages = []string{"index.html", "/etc/passwd"} },
			wantErr: "render: pages[1]",
		},
		{
			name: "post-processor without pattern",
			mutate: func(cfg *Config) {
				cfg.PostProcessors = []PostProcessorConfig{{Type: "regex_replace", Params: map[string]string{"replace": ""}}}
			},
			wantErr: "post_processors[0]: regex_replace requires 'pattern'",
		},
		{
			name: "post-processor without replace",
			mutate: func(cfg *Config) {
				cfg.PostProcessors = []PostProcessorConfig{{Type: "regex_replace", Params: map[string]string{"pattern": "x"}}}
			},
			wantErr: "requires 'replace'",
		},
		{
			name: "post-processor with invalid pattern",
			mutate: func(cfg *Config) {
				cfg.PostProcessors = []PostProcessorConfig{
					{Type: "trim_trailing_whitespace"},
					{Type: "regex_replace", Params: map[string]string{"pattern": "(", "replace": ""}},
				}
			},
			wantErr: "post_processors[1]: invalid pattern",
		},
		{
			name:    "post-processor without type",
			mutate:  func(cfg *Config) { cfg.PostProcessors = []PostProcessorConfig{{}} },
			wantErr: "type cannot be empty",
		},
		{
			name:    "unknown post-processor",
			mutate:  func(cfg *Config) { cfg.PostProcessors = []PostProcessorConfig{{Type: "minify"}} },
			wantErr: `unknown type "minify"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.ErrorContains(t, ValidateStructure(cfg), tt.wantErr)
		})
	}
}

func TestValidateStructure_EmptyDefaultExcludeIsValid(t *testing.T) {
	cfg := validConfig()
	empty := ""
	cfg.Render.DefaultExclude = &empty

	assert.NoError(t, ValidateStructure(cfg))
}
