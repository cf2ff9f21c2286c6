package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/histochart/internal/server"
	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/demo"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/session"
	"github.com/matzehuels/histochart/pkg/tween"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the layout of config.toml. Command-line flags override it.
//
//	[chart]
//	width = 640
//	height = 400
//	padding = 4
//	ticks = 20
//	domain = [0, 100]
//	duration = "400ms"
//	ease = "cubic-in-out"
//
//	[serve]
//	addr = ":8080"
//	samples = 200
type Config struct {
	Chart ChartConfig `toml:"chart"`
	Serve ServeConfig `toml:"serve"`
}

// ChartConfig holds chart settings shared by every command.
type ChartConfig struct {
	Width    float64   `toml:"width"`
	Height   float64   `toml:"height"`
	Padding  float64   `toml:"padding"`
	Ticks    int       `toml:"ticks"`
	Domain   []float64 `toml:"domain"`
	Duration Duration  `toml:"duration"`
	Ease     string    `toml:"ease"`
	Scale    float64   `toml:"scale"`
}

// ServeConfig holds demo server settings.
type ServeConfig struct {
	Addr       string   `toml:"addr"`
	Samples    int      `toml:"samples"`
	Max        int      `toml:"max"`
	Seed       uint64   `toml:"seed"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func defaultConfig() Config {
	return Config{
		Chart: ChartConfig{
			Width:    demo.Width,
			Height:   demo.Height,
			Padding:  histogram.DefaultPadding,
			Ticks:    histogram.DefaultTickCount,
			Duration: Duration(histogram.DefaultTransitionDuration),
			Ease:     tween.CubicOut.Name,
			Scale:    2,
		},
		Serve: ServeConfig{
			Addr:       server.DefaultConfig().Addr,
			Samples:    demo.Samples,
			Max:        demo.Max,
			SessionTTL: Duration(session.DefaultTTL),
		},
	}
}

// loadConfig reads path over the defaults. An empty path reads the default
// config file if it exists. Keys the config does not know are returned so
// the caller can warn about them.
func loadConfig(path string) (Config, []string, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil, nil
		}
		return cfg, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse config %s", path)
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, nil
}

// props builds chart props from the config.
func (c ChartConfig) props() (histogram.Props, error) {
	ease, err := tween.ParseEase(c.Ease)
	if err != nil {
		return histogram.Props{}, err
	}
	p := histogram.DefaultProps()
	p.Width, p.Height = c.Width, c.Height
	p.Padding = c.Padding
	p.TickCount = c.Ticks
	p.TransitionDuration = time.Duration(c.Duration)
	p.Ease = ease

	switch len(c.Domain) {
	case 0:
	case 2:
		p.Domain = &scale.Domain{Min: c.Domain[0], Max: c.Domain[1]}
	default:
		return histogram.Props{}, errors.Configuration("domain needs two values, got %d", len(c.Domain))
	}
	return p, nil
}

// serverConfig builds the demo server config.
func (c Config) serverConfig() (server.Config, error) {
	ease, err := tween.ParseEase(c.Chart.Ease)
	if err != nil {
		return server.Config{}, err
	}
	cfg := server.DefaultConfig()
	cfg.Addr = c.Serve.Addr
	cfg.Samples = c.Serve.Samples
	cfg.Max = c.Serve.Max
	cfg.Seed = c.Serve.Seed
	cfg.SessionTTL = time.Duration(c.Serve.SessionTTL)
	cfg.TransitionDuration = time.Duration(c.Chart.Duration)
	cfg.Ease = ease
	return cfg, nil
}

// parseDomain parses "min,max" or "min:max".
func parseDomain(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ':' })
	if len(parts) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "domain %q: want min,max", s)
	}
	out := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "domain %q", s)
		}
		out[i] = v
	}
	return out, nil
}

// chartFlags are the chart flags shared by render, serve and play.
type chartFlags struct {
	width, height float64
	padding       float64
	ticks         int
	domain        string
	duration      time.Duration
	ease          string
}

type flagSet interface {
	Float64Var(p *float64, name string, value float64, usage string)
	IntVar(p *int, name string, value int, usage string)
	StringVar(p *string, name string, value string, usage string)
	DurationVar(p *time.Duration, name string, value time.Duration, usage string)
}

func (f *chartFlags) register(fs flagSet, d ChartConfig) {
	fs.Float64Var(&f.width, "width", d.Width, "chart width")
	fs.Float64Var(&f.height, "height", d.Height, "chart height")
	fs.Float64Var(&f.padding, "padding", d.Padding, "gap between bars")
	fs.IntVar(&f.ticks, "ticks", d.Ticks, "x-axis tick count, which also sets the bin count")
	fs.StringVar(&f.domain, "domain", "", "x domain as min,max (default: from the data)")
	fs.DurationVar(&f.duration, "duration", time.Duration(d.Duration), "bar transition duration")
	fs.StringVar(&f.ease, "ease", d.Ease, "transition easing: "+strings.Join(tween.EaseNames(), ", "))
}

// apply overrides cfg with every flag the user set.
func (f *chartFlags) apply(changed func(string) bool, cfg *ChartConfig) error {
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("padding") {
		cfg.Padding = f.padding
	}
	if changed("ticks") {
		cfg.Ticks = f.ticks
	}
	if changed("duration") {
		cfg.Duration = Duration(f.duration)
	}
	if changed("ease") {
		cfg.Ease = f.ease
	}
	if changed("domain") {
		d, err := parseDomain(f.domain)
		if err != nil {
			return err
		}
		cfg.Domain = d
	}
	return nil
}
