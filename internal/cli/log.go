package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/histochart/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that filters
// messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered histogram.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports chart, render and HTTP events as debug logs, so
// --verbose traces every layout pass.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.ChartHooks  = (*logHooks)(nil)
	_ observability.RenderHooks = (*logHooks)(nil)
	_ observability.HTTPHooks   = (*logHooks)(nil)
)

func (h *logHooks) OnLayout(id string, bins int, adjusted bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "chart", id, "adjusted", adjusted, "err", err)
		return
	}
	h.logger.Debug("layout", "chart", id, "bins", bins, "adjusted", adjusted, "took", d)
}

func (h *logHooks) OnStateChange(id, from, to string) {
	h.logger.Debug("state", "chart", id, "from", from, "to", to)
}

func (h *logHooks) OnTransition(id string, entered, updated, exited int) {
	h.logger.Debug("transition", "chart", id, "enter", entered, "update", updated, "exit", exited)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, values int) {
	h.logger.Debug("render start", "format", format, "values", values)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "format", format, "bytes", bytes, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}
