package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/histochart/pkg/buildinfo"
	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/demo"
	"github.com/matzehuels/histochart/pkg/scene/text"
	"github.com/matzehuels/histochart/pkg/session"
	"github.com/matzehuels/histochart/pkg/tween"
)

// cookieName is the session cookie.
const cookieName = "histochart_session"

// Config configures the demo server.
type Config struct {
	Addr string

	// Samples and Max shape the generated datasets: Samples integers in
	// [0, Max).
	Samples int
	Max     int

	TransitionDuration time.Duration
	Ease               tween.Ease

	// Seed makes every session's datasets reproducible. Zero seeds from
	// the runtime.
	Seed uint64

	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the demo defaults.
func DefaultConfig() Config {
	return Config{
		Addr:               "localhost:8080",
		Samples:            demo.Samples,
		Max:                demo.Max,
		TransitionDuration: histogram.DefaultTransitionDuration,
		Ease:               tween.CubicOut,
		SessionTTL:         session.DefaultTTL,
		SweepInterval:      time.Minute,
		ShutdownTimeout:    5 * time.Second,
	}
}

// Server serves the demo.
type Server struct {
	cfg      Config
	logger   *log.Logger
	metrics  text.Metrics
	sessions *session.Store[*demoChart]
	router   chi.Router
	created  atomic.Uint64
}

// New creates a server. A nil logger discards output.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	def := DefaultConfig()
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if cfg.Ease.Name == "" {
		cfg.Ease = def.Ease
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		metrics:  text.NewGoRegular(),
		sessions: session.NewStore[*demoChart](cfg.SessionTTL),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/chart.svg", s.handleSVG)
	r.Get("/chart.json", s.handleJSON)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Expired sessions are swept in the background meanwhile.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Serving histogram demo", "addr", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return s.sweep(gctx) })
	return g.Wait()
}

func (s *Server) sweep(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context) {
	n, err := s.sessions.Cleanup(ctx)
	if err != nil {
		return
	}
	if n > 0 {
		s.logger.Debug("swept sessions", "expired", n, "live", s.sessions.Len())
	}
}

// visitor returns the caller's chart, starting a session when the request
// carries no live one.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) (*demoChart, error) {
	if c, err := r.Cookie(cookieName); err == nil {
		if sess, err := s.sessions.Get(r.Context(), c.Value); err == nil {
			return sess.Value, nil
		}
	}

	d, err := newDemoChart(s.cfg, s.rng(), s.metrics, s.logger)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Create(r.Context(), d)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("new session", "id", sess.ID, "chart", d.chart.ID())
	return d, nil
}

func (s *Server) rng() *rand.Rand {
	n := s.created.Add(1)
	if s.cfg.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(s.cfg.Seed, n))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	d, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := d.snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := renderPage(w, snap, buildinfo.Version); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	d, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := d.regenerate(); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	d, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := d.snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(snap.SVG)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	d, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := d.layoutJSON()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type health struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{
		Status:   "ok",
		Build:    buildinfo.Current(),
		Sessions: s.sessions.Len(),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()), "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
