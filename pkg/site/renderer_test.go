package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory-tag/pkg/directory"
	"directory-tag/pkg/metrics"
	"directory-tag/pkg/templating"
)

var blogTree = map[string]string{
	"posts/2020-01-01-first-post.md":  "one",
	"posts/2020-02-01-second-post.md": "two",
	"posts/index.html":                "listing",
	"_includes/nav.html":              "<nav>{{ site.title }}</nav>",
}

func newTestRenderer(t *testing.T, s *Site, pages map[string]string, opts Options) *Renderer {
	t.Helper()
	if opts.DefaultExclude == "" {
		opts.DefaultExclude = directory.DefaultExcludePattern
	}
	r, err := NewRenderer(s, pages, opts)
	require.NoError(t, err)
	return r
}

func readOutput(t *testing.T, s *Site, page string) string {
	t.Helper()
	path, err := s.OutputPath(page)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRenderer_RenderPage(t *testing.T) {
	s := newTestSite(t, blogTree)
	r := newTestRenderer(t, s, map[string]string{
		"index.html": `{% directory path: site.posts_dir %}{{ forloop.index }}:{{ file.title }}@{{ file.url }};{% enddirectory %}`,
	}, Options{})

	output, err := r.RenderPage("index.html")
	require.NoError(t, err)

	assert.Equal(t, "1:First Post@/posts/2020-01-01-first-post.md;2:Second Post@/posts/2020-02-01-second-post.md;", output)
}

func TestRenderer_PageVariable(t *testing.T) {
	s := newTestSite(t, nil)
	r := newTestRenderer(t, s, map[string]string{
		"blog/index.html": `{{ page.path }}|{{ page.url }}|{{ page.dir }}`,
		"index.html":      `{{ page.dir }}`,
	}, Options{})

	output, err := r.RenderPage("blog/index.html")
	require.NoError(t, err)
	assert.Equal(t, "blog/index.html|/blog/index.html|/blog/", output)

	output, err = r.RenderPage("index.html")
	require.NoError(t, err)
	assert.Equal(t, "/", output)
}

func TestRenderer_Includes(t *testing.T) {
	s := newTestSite(t, blogTree)
	r := newTestRenderer(t, s, map[string]string{
		"index.html": `{% include "nav.html" %}`,
	}, Options{})

	output, err := r.RenderPage("index.html")
	require.NoError(t, err)
	assert.Equal(t, "<nav>Notes</nav>", output)
}

func TestRenderer_Build(t *testing.T) {
	s := newTestSite(t, blogTree)
	r := newTestRenderer(t, s, map[string]string{
		"index.html":       `{% directory path: "posts" reverse %}{{ file.slug }};{% enddirectory %}`,
		"posts/index.html": `{% directory path: "posts" exclude: "second|html" %}{{ file.name }}{% enddirectory %}`,
	}, Options{Workers: 2})

	results, err := r.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "index.html", results[0].Name)
	assert.Equal(t, "posts/index.html", results[1].Name)
	assert.Equal(t, filepath.Join(s.Destination(), "posts", "index.html"), results[1].Output)

	assert.Equal(t, "second-post;first-post;", readOutput(t, s, "index.html"))
	assert.Equal(t, "2020-01-01-first-post.md", readOutput(t, s, "posts/index.html"))
	assert.Equal(t, len("second-post;first-post;"), results[0].Bytes)
}

func TestRenderer_Build_Overwrites(t *testing.T) {
	s := newTestSite(t, blogTree)
	pages := map[string]string{"index.html": `{% directory path: "posts" %}x{% enddirectory %}`}

	_, err := newTestRenderer(t, s, pages, Options{}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "xx", readOutput(t, s, "index.html"))

	writeTree(t, s.Source(), map[string]string{"posts/2020-03-01-third.md": "three"})

	_, err = newTestRenderer(t, s, pages, Options{}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "xxx", readOutput(t, s, "index.html"))
}

func TestRenderer_Build_ManyPages(t *testing.T) {
	s := newTestSite(t, blogTree)
	pages := make(map[string]string)
	for i := range 20 {
		pages[fmt.Sprintf("page-%02d.html", i)] = `{% directory path: "posts" %}{{ forloop.rindex }}{% enddirectory %}`
	}

	results, err := newTestRenderer(t, s, pages, Options{Workers: 4}).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 20)

	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("page-%02d.html", i), result.Name)
		assert.Equal(t, "21", readOutput(t, s, result.Name))
	}
}

func TestRenderer_Build_Error(t *testing.T) {
	s := newTestSite(t, blogTree)
	r := newTestRenderer(t, s, map[string]string{
		"escape.html": `{% directory path: "../.." %}{{ file.name }}{% enddirectory %}`,
	}, Options{})

	_, err := r.Build(context.Background())
	require.Error(t, err)

	var renderErr *templating.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "escape.html", renderErr.TemplateName)
	assert.Contains(t, err.Error(), "cannot be outside of the source root")

	_, statErr := os.Stat(filepath.Join(s.Destination(), "escape.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderer_Build_Cancelled(t *testing.T) {
	s := newTestSite(t, blogTree)
	r := newTestRenderer(t, s, map[string]string{"index.html": "static"}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderer_CompilationError(t *testing.T) {
	s := newTestSite(t, nil)

	_, err := NewRenderer(s, map[string]string{
		"broken.html": `{% directory path: "posts" %}never closed`,
	}, Options{})
	require.Error(t, err)

	var compErr *templating.CompilationError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "broken.html", compErr.TemplateName)
}

func TestRenderer_DefaultExclude(t *testing.T) {
	s := newTestSite(t, blogTree)
	page := map[string]string{"index.html": `{% directory path: "posts" %}{{ file.ext }};{% enddirectory %}`}

	tests := []struct {
		name    string
		exclude string
		want    string
	}{
		{name: "html excluded", exclude: directory.DefaultExcludePattern, want: ".md;.md;"},
		{name: "markdown excluded", exclude: `\.md$`, want: ".html;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, s, page, Options{DefaultExclude: tt.exclude})
			output, err := r.RenderPage("index.html")
			require.NoError(t, err)
			assert.Equal(t, tt.want, output)
		})
	}
}

func TestRenderer_PostProcessors(t *testing.T) {
	s := newTestSite(t, blogTree)
	processors, err := templating.NewPostProcessors([]templating.PostProcessorConfig{
		{Type: templating.PostProcessorTypeTrimTrailingWhitespace},
	})
	require.NoError(t, err)

	r := newTestRenderer(t, s, map[string]string{
		"index.html": "{% directory path: \"posts\" %}{{ file.slug }}   \n{% enddirectory %}",
	}, Options{PostProcessors: processors})

	output, err := r.RenderPage("index.html")
	require.NoError(t, err)
	assert.Equal(t, "first-post\nsecond-post\n", output)
}

func TestRenderer_Metrics(t *testing.T) {
	s := newTestSite(t, blogTree)
	m := metrics.New(prometheus.NewRegistry())

	r := newTestRenderer(t, s, map[string]string{
		"a.html": `{% directory path: "posts" %}{% enddirectory %}`,
		"b.html": `{% directory path: "posts" %}{% enddirectory %}{% directory path: "." %}{% enddirectory %}`,
	}, Options{Metrics: m})

	_, err := r.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DirectoryListings))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesRendered))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PageErrors))
	assert.Greater(t, testutil.ToFloat64(m.LastRunTimestamp), 0.0)
}
