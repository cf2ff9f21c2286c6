package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/histochart/pkg/cache"
	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/chart/layout"
	"github.com/matzehuels/histochart/pkg/dataset"
	"github.com/matzehuels/histochart/pkg/demo"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/observability"
	"github.com/matzehuels/histochart/pkg/render"
	"github.com/matzehuels/histochart/pkg/tween"
)

// defaultOutputBase names outputs of charts that have no input file.
const defaultOutputBase = "histogram"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart   chartFlags
	output  string  // output file, base path for several formats, or - for stdout
	formats string  // comma-separated output formats
	scale   float64 // PNG scale factor
	members bool    // include bin members in JSON
	static  bool    // omit recorded transitions from SVG
	noCache bool    // always run the converter
	id      string  // id of the <svg> element
	seed    uint64  // seed for demo data when no input is given
	samples int     // number of demo values
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	d := defaultConfig().Chart

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a histogram to SVG, PNG, PDF or JSON",
		Long: `Render a histogram of the values in file.

The file holds a JSON array, a JSON object {"data": [...], "domain": [min, max]},
or plain numbers separated by whitespace, commas or semicolons. Use - to read
stdin. Without a file, random demo data is rendered.

SVG output carries the chart's entry transition as SMIL animation unless
--static is given. PNG and PDF need rsvg-convert (librsvg).`,
		Example: `  histochart render values.txt
  histochart render values.json -f svg,png -o out/latency
  seq 1 100 | histochart render - --ticks 20 -o - > chart.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.chart.apply(cmd.Flags().Changed, &cfg.Chart); err != nil {
				return err
			}
			if cmd.Flags().Changed("scale") {
				cfg.Chart.Scale = opts.scale
			}
			formats, err := parseFormats(opts.formats)
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, cfg.Chart, formats, &opts)
		},
	}

	opts.chart.register(cmd.Flags(), d)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", d.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.members, "members", false, "include bin members in JSON output")
	cmd.Flags().BoolVar(&opts.static, "static", false, "omit transitions from SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always run the converter for PNG and PDF")
	cmd.Flags().StringVar(&opts.id, "id", "", "id of the <svg> element (default: random)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for demo data (default: random)")
	cmd.Flags().IntVar(&opts.samples, "samples", demo.Samples, "number of demo values")

	return cmd
}

// loadConfig loads the config file and warns about keys it does not know.
func (c *CLI) loadConfig() (Config, error) {
	cfg, unknown, err := loadConfig(c.configPath)
	if err != nil {
		return cfg, err
	}
	for _, k := range unknown {
		c.Logger.Warn("unknown config key", "key", k)
	}
	return cfg, nil
}

// parseFormats parses the --format flag. It defaults to SVG and rejects
// duplicates.
func parseFormats(s string) ([]render.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	seen := map[render.Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %s given twice", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// loadDataset reads input, or generates demo data when input is empty.
func loadDataset(input string, seed uint64, samples int) (*dataset.Dataset, error) {
	if input != "" {
		return dataset.Import(input)
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	gen := demo.NewGenerator(rng, samples, demo.Max)
	d := gen.Domain()
	return &dataset.Dataset{Values: gen.Next(), Domain: &d}, nil
}

func (c *CLI) runRender(ctx context.Context, input string, cfg ChartConfig, formats []render.Format, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	ds, err := loadDataset(input, opts.seed, opts.samples)
	if err != nil {
		return err
	}
	if input == "" {
		c.Logger.Infof("Rendering %d random values", len(ds.Values))
	} else {
		c.Logger.Infof("Rendering %s (%d values)", input, len(ds.Values))
	}

	props, err := cfg.props()
	if err != nil {
		return err
	}
	props.Data = ds.Values
	if props.Domain == nil {
		props.Domain = ds.Domain
	}

	chart, err := c.mountChart(props, opts)
	if err != nil {
		return err
	}
	res := chart.Layout()
	c.Logger.Debugf("Layout: %d bins, bar width %.2f, %d values outside %s",
		len(res.Bins), res.BarWidth, res.Outside, res.X.Domain())
	if res.Outside > 0 {
		c.Logger.Warnf("%d values fall outside the domain %s", res.Outside, res.X.Domain())
	}

	if opts.output == "-" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
	}

	store := newCache(opts.noCache)
	defer store.Close()

	base := basePath(opts.output, input)
	for _, f := range formats {
		data, err := c.renderFormat(ctx, chart, f, cfg.Scale, opts, store)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		path := opts.output
		if path == "" || len(formats) > 1 {
			path = base + f.Ext()
		}
		if err := c.writeOutput(path, data); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d bins", len(res.Bins)))
	return nil
}

// mountChart mounts a chart for props. Transitions are recorded as SMIL
// keyframes unless the output is static.
func (c *CLI) mountChart(props histogram.Props, opts *renderOpts) (*histogram.Chart, error) {
	chartOpts := []histogram.Option{histogram.WithLogger(c.Logger)}
	if !opts.static {
		chartOpts = append(chartOpts, histogram.WithAnimator(tween.NewRecorder()))
	}
	if opts.id != "" {
		chartOpts = append(chartOpts, histogram.WithID(opts.id))
	}
	chart := histogram.New(props, chartOpts...)
	if err := chart.Mount(); err != nil {
		return nil, err
	}
	return chart, nil
}

// renderFormat serializes chart as f. PNG and PDF conversions are cached
// by the SVG they were made from.
func (c *CLI) renderFormat(ctx context.Context, chart *histogram.Chart, f render.Format, scale float64, opts *renderOpts, store cache.Cache) (data []byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(f), len(chart.Props().Data))
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, string(f), len(data), time.Since(start), err)
	}()

	if f == render.FormatJSON {
		jsonOpts := []layout.JSONOption{
			layout.WithJSONEase(chart.Props().Ease.Name),
			layout.WithJSONIndent(),
		}
		if opts.members {
			jsonOpts = append(jsonOpts, layout.WithJSONMembers())
		}
		return layout.RenderJSON(chart.Layout(), jsonOpts...)
	}

	svg, err := chart.SVG()
	if err != nil {
		return nil, err
	}
	if f == render.FormatSVG {
		return svg, nil
	}

	key := cache.ArtifactKey(svg, string(f), scale)
	if cached, ok, _ := store.Get(ctx, key); ok {
		c.Logger.Debugf("Using cached %s", f)
		return cached, nil
	}

	sp := newSpinner(ctx, os.Stderr, fmt.Sprintf("Converting to %s", strings.ToUpper(string(f))))
	sp.Start()
	data, err = render.Convert(ctx, svg, f, scale)
	sp.Stop()
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		c.Logger.Debug("cache write failed", "err", err)
	}
	return data, nil
}

// basePath derives the base output path. Without an output it strips the
// input's extension; known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return defaultOutputBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) writeOutput(path string, data []byte) error {
	out, err := openOutput(path, c.out)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "-" {
		printFile(os.Stderr, path)
	}
	return nil
}

// openOutput opens path for writing; - writes to stdout.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
