package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	setDefaults(cfg)

	assert.Equal(t, DefaultSource, cfg.Site.Source)
	assert.Equal(t, DefaultDestination, cfg.Site.Destination)
	assert.Equal(t, DefaultIncludes, cfg.Site.Includes)
	assert.Equal(t, DefaultEngine, cfg.Render.Engine)
	assert.Equal(t, DefaultWorkers, cfg.Render.Workers)
	assert.Equal(t, 0, cfg.Logging.Verbose, "verbose is never defaulted here")
	assert.Nil(t, cfg.Render.DefaultExclude)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Site:   SiteConfig{Source: "src", Destination: "out", Includes: "partials"},
		Render: RenderConfig{Engine: "gonja", Workers: 9},
	}

	setDefaults(cfg)

	assert.Equal(t, "src", cfg.Site.Source)
	assert.Equal(t, "out", cfg.Site.Destination)
	assert.Equal(t, "partials", cfg.Site.Includes)
	assert.Equal(t, 9, cfg.Render.Workers)
}

func TestRenderConfig_GetDefaultExclude(t *testing.T) {
	empty := ""
	custom := `\.draft$`

	tests := []struct {
		name    string
		exclude *string
		want    string
	}{
		{name: "unset", exclude: nil, want: `\.html$`},
		{name: "explicit empty lists everything", exclude: &empty, want: ""},
		{name: "custom", exclude: &custom, want: `\.draft$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := RenderConfig{DefaultExclude: tt.exclude}
			assert.Equal(t, tt.want, rc.GetDefaultExclude())
		})
	}
}
