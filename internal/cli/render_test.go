package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/histochart/pkg/cache"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/observability"
	"github.com/matzehuels/histochart/pkg/render"
)

func testCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.SetOutput(&out)
	return c, &out
}

func runCLI(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	got, err := parseFormats("")
	require.NoError(t, err)
	require.Equal(t, []render.Format{render.FormatSVG}, got)

	got, err = parseFormats("svg, PNG,json")
	require.NoError(t, err)
	require.Equal(t, []render.Format{render.FormatSVG, render.FormatPNG, render.FormatJSON}, got)

	_, err = parseFormats("svg,gif")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = parseFormats("svg,svg")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/values.txt", "data/values"},
		{"", "", defaultOutputBase},
		{"", "-", defaultOutputBase},
		{"out/chart.svg", "values.txt", "out/chart"},
		{"out/chart.PNG.bak", "values.txt", "out/chart.PNG.bak"},
		{"out/chart", "values.txt", "out/chart"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestLoadDatasetDemo(t *testing.T) {
	a, err := loadDataset("", 9, 20)
	require.NoError(t, err)
	b, err := loadDataset("", 9, 20)
	require.NoError(t, err)
	require.Len(t, a.Values, 20)
	require.Equal(t, a.Values, b.Values)
	require.NotNil(t, a.Domain)
}

func TestRenderSVGAndJSON(t *testing.T) {
	c, _ := testCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "values.txt")
	require.NoError(t, os.WriteFile(input, []byte("10 20 30 40 50\n# comment\n55 60"), 0o644))

	base := filepath.Join(dir, "out", "chart")
	err := runCLI(t, c, "render", input, "-f", "svg,json", "-o", base, "--domain", "0,100", "--id", "lat", "--members")
	require.NoError(t, err)

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" width="500" height="500" id="lat"`))
	require.Contains(t, string(svg), "<animate ")

	raw, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	var doc struct {
		Domain [2]float64 `json:"domain"`
		Bars   []struct {
			Count   int       `json:"count"`
			Members []float64 `json:"members"`
		} `json:"bars"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, [2]float64{0, 100}, doc.Domain)
	require.Len(t, doc.Bars, 10)
	require.Equal(t, []float64{50, 55}, doc.Bars[5].Members)
}

func TestRenderToStdout(t *testing.T) {
	c, out := testCLI(t)
	require.NoError(t, runCLI(t, c, "render", "--seed", "4", "--static", "-o", "-"))
	require.True(t, strings.HasPrefix(out.String(), "<svg "))
	require.NotContains(t, out.String(), "<animate")

	err := runCLI(t, c, "render", "--seed", "4", "-f", "svg,json", "-o", "-")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRenderRejectsBadInput(t *testing.T) {
	c, _ := testCLI(t)
	err := runCLI(t, c, "render", filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	err = runCLI(t, c, "render", "--seed", "1", "--width", "0", "-o", "-")
	require.True(t, errors.Is(err, errors.ErrCodeConfiguration))

	err = runCLI(t, c, "render", "--seed", "1", "--ease", "wobble", "-o", "-")
	require.True(t, errors.Is(err, errors.ErrCodeConfiguration))
}

func TestRenderUsesConfigFile(t *testing.T) {
	c, out := testCLI(t)
	path := writeConfig(t, "[chart]\nwidth = 320\nheight = 240\n")
	require.NoError(t, runCLI(t, c, "--config", path, "render", "--seed", "2", "--height", "300", "-o", "-"))
	require.True(t, strings.HasPrefix(out.String(), `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="300"`))
}

type cacheStub struct {
	data map[string][]byte
}

func (s *cacheStub) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := s.data[key]
	return d, ok, nil
}

func (s *cacheStub) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	s.data[key] = data
	return nil
}

func (s *cacheStub) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *cacheStub) Close() error { return nil }

func TestRenderFormatUsesCache(t *testing.T) {
	c, _ := testCLI(t)
	props, err := defaultConfig().Chart.props()
	require.NoError(t, err)
	props.Data = []float64{1, 2, 3}

	opts := &renderOpts{static: true}
	chart, err := c.mountChart(props, opts)
	require.NoError(t, err)
	svg, err := chart.SVG()
	require.NoError(t, err)

	store := &cacheStub{data: map[string][]byte{
		cache.ArtifactKey(svg, string(render.FormatPNG), 2): []byte("cached png"),
	}}
	data, err := c.renderFormat(context.Background(), chart, render.FormatPNG, 2, opts, store)
	require.NoError(t, err)
	require.Equal(t, "cached png", string(data))
}

func TestRenderExampleDatasets(t *testing.T) {
	c, out := testCLI(t)
	require.NoError(t, runCLI(t, c, "--config", "../../examples/config.toml", "render", "../../examples/scores.json", "-f", "json", "-o", "-"))

	var doc struct {
		Width  float64    `json:"width"`
		Domain [2]float64 `json:"domain"`
		Bars   []any      `json:"bars"`
		Ease   string     `json:"ease"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, 640.0, doc.Width)
	require.Equal(t, [2]float64{0, 100}, doc.Domain)
	require.Len(t, doc.Bars, 20)
	require.Equal(t, "cubic-in-out", doc.Ease)

	dir := t.TempDir()
	require.NoError(t, runCLI(t, c, "render", "../../examples/latency.txt", "-o", filepath.Join(dir, "latency.svg")))
	_, err := os.Stat(filepath.Join(dir, "latency.svg"))
	require.NoError(t, err)
}
