package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/histochart/internal/server"
)

type serveOpts struct {
	chart      chartFlags
	addr       string
	samples    int
	max        int
	seed       uint64
	sessionTTL time.Duration
}

// serveCommand creates the serve command that runs the web demo.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	d := defaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive histogram demo",
		Long: `Serve a page showing a histogram of random data with a button that
generates new data. Each visitor gets their own chart; bar transitions play
in the browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.chart.apply(cmd.Flags().Changed, &cfg.Chart); err != nil {
				return err
			}
			opts.apply(cmd.Flags().Changed, &cfg.Serve)

			srvCfg, err := cfg.serverConfig()
			if err != nil {
				return err
			}
			printInfo(os.Stderr, "Serving demo at %s", StyleNumber.Render("http://"+srvCfg.Addr))
			printDetail(os.Stderr, "%d values in [0, %d) per dataset · ctrl+c to stop", srvCfg.Samples, srvCfg.Max)
			return server.New(srvCfg, c.Logger).Run(cmd.Context())
		},
	}

	opts.chart.register(cmd.Flags(), d.Chart)
	cmd.Flags().StringVar(&opts.addr, "addr", d.Serve.Addr, "listen address")
	cmd.Flags().IntVar(&opts.samples, "samples", d.Serve.Samples, "values per dataset")
	cmd.Flags().IntVar(&opts.max, "max", d.Serve.Max, "exclusive upper bound of generated values")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible datasets (default: random)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", time.Duration(d.Serve.SessionTTL), "idle session lifetime")

	return cmd
}

func (o *serveOpts) apply(changed func(string) bool, cfg *ServeConfig) {
	if changed("addr") {
		cfg.Addr = o.addr
	}
	if changed("samples") {
		cfg.Samples = o.samples
	}
	if changed("max") {
		cfg.Max = o.max
	}
	if changed("seed") {
		cfg.Seed = o.seed
	}
	if changed("session-ttl") {
		cfg.SessionTTL = Duration(o.sessionTTL)
	}
}
