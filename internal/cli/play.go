package cli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/demo"
	"github.com/matzehuels/histochart/pkg/tween"
)

// frameInterval paces the terminal animation.
const frameInterval = time.Second / 60

const (
	defaultPlayRows = 16
	barColumns      = 3
)

// blocks are the partial cells of a bar top, one to seven eighths high.
var blocks = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇"}

type playOpts struct {
	chart   chartFlags
	seed    uint64
	samples int
}

// playCommand creates the play command, the terminal version of the demo.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts
	d := defaultConfig().Chart

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate the histogram demo in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.chart.apply(cmd.Flags().Changed, &cfg.Chart); err != nil {
				return err
			}
			props, err := cfg.Chart.props()
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if opts.seed != 0 {
				rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
			}
			gen := demo.NewGenerator(rng, opts.samples, demo.Max)
			if props.Domain == nil {
				dom := gen.Domain()
				props.Domain = &dom
			}

			m, err := newPlayModel(props, gen, histogram.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if pm, ok := final.(playModel); ok && pm.err != nil {
				return pm.err
			}
			return nil
		},
	}

	opts.chart.register(cmd.Flags(), d)
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible datasets (default: random)")
	cmd.Flags().IntVar(&opts.samples, "samples", demo.Samples, "values per dataset")

	return cmd
}

// =============================================================================
// playModel - animated histogram
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// playModel drives a chart with a tween engine advanced on every frame and
// draws its bars with block characters.
type playModel struct {
	chart  *histogram.Chart
	engine *tween.Engine
	gen    *demo.Generator
	rows   int
	last   time.Time
	rounds int
	err    error
}

func newPlayModel(props histogram.Props, gen *demo.Generator, opts ...histogram.Option) (playModel, error) {
	engine := tween.NewEngine()
	props.Data = gen.Next()
	chart := histogram.New(props, append(opts, histogram.WithAnimator(engine))...)
	if err := chart.Mount(); err != nil {
		return playModel{}, err
	}
	return playModel{chart: chart, engine: engine, gen: gen, rows: defaultPlayRows, rounds: 1}, nil
}

func (m playModel) Init() tea.Cmd {
	return nextFrame()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "n", "enter":
			p := m.chart.Props()
			p.Data = m.gen.Next()
			if err := m.chart.Update(p); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.rounds++
		}
	case tea.WindowSizeMsg:
		m.rows = max(4, min(msg.Height-6, 32))
	case frameMsg:
		t := time.Time(msg)
		if !m.last.IsZero() {
			m.engine.Advance(t.Sub(m.last))
		}
		m.last = t
		return m, nextFrame()
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Histogram"))
	b.WriteString("\n\n")

	res := m.chart.Layout()
	bars := m.chart.BarNodes()
	heights := make([]float64, len(bars))
	for i, n := range bars {
		heights[i] = n.Float("height")
	}
	for _, line := range barRows(heights, res.ChartHeight(), m.rows, barColumns) {
		b.WriteString(StyleBar.Render(line))
		b.WriteString("\n")
	}

	d := res.X.Domain()
	width := len(heights)*(barColumns+1) - 1
	lo, hi := res.X.TickFormat(res.Options.TickCount)(d.Min), res.X.TickFormat(res.Options.TickCount)(d.Max)
	pad := max(1, width-len(lo)-len(hi))
	b.WriteString(StyleDim.Render(lo + strings.Repeat(" ", pad) + hi))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%s values · %s bins · dataset #%d",
		StyleNumber.Render(fmt.Sprint(len(m.chart.Props().Data))),
		StyleNumber.Render(fmt.Sprint(len(res.Bins))),
		m.rounds)
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space/n new data  q quit"))
	return b.String()
}

// barRows draws bars of the given heights, scaled so that full fills rows
// lines, as text lines from top to bottom. Each bar is width cells wide
// and bars are separated by one blank cell.
func barRows(heights []float64, full float64, rows, width int) []string {
	if rows <= 0 {
		return nil
	}
	eighths := make([]int, len(heights))
	for i, h := range heights {
		if full > 0 && h > 0 {
			eighths[i] = int(math.Round(h / full * float64(rows*8)))
		}
	}

	lines := make([]string, 0, rows)
	for r := rows - 1; r >= 0; r-- {
		var line strings.Builder
		for i, e := range eighths {
			if i > 0 {
				line.WriteByte(' ')
			}
			cell := " "
			switch level := e - r*8; {
			case level >= 8:
				cell = "█"
			case level > 0:
				cell = blocks[level-1]
			}
			line.WriteString(strings.Repeat(cell, width))
		}
		lines = append(lines, line.String())
	}
	return lines
}
