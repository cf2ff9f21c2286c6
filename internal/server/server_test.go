package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/histochart/pkg/observability"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 7
	return cfg
}

func do(t *testing.T, h http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("response set no %s cookie", cookieName)
	return nil
}

func TestIndexStartsSession(t *testing.T) {
	s := New(testConfig(), nil)
	rec := do(t, s.Handler(), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Contains(t, body, "Generate new data")
	require.Contains(t, body, `<svg xmlns="http://www.w3.org/2000/svg" width="500" height="500"`)
	require.Contains(t, body, `class="bar"`)
	require.Contains(t, body, "50 values in 10 bins")
	require.NotEmpty(t, sessionCookie(t, rec).Value)
	require.Equal(t, 1, s.sessions.Len())
}

func TestSessionIsReused(t *testing.T) {
	s := New(testConfig(), nil)
	first := do(t, s.Handler(), http.MethodGet, "/chart.svg")
	cookie := sessionCookie(t, first)

	second := do(t, s.Handler(), http.MethodGet, "/chart.svg", cookie)
	require.Empty(t, second.Result().Cookies())
	require.Equal(t, first.Body.String(), second.Body.String())
	require.Equal(t, 1, s.sessions.Len())
}

func TestGenerateReplacesData(t *testing.T) {
	s := New(testConfig(), nil)
	first := do(t, s.Handler(), http.MethodGet, "/chart.svg")
	require.Equal(t, "image/svg+xml", first.Header().Get("Content-Type"))
	cookie := sessionCookie(t, first)

	gen := do(t, s.Handler(), http.MethodPost, "/generate", cookie)
	require.Equal(t, http.StatusSeeOther, gen.Code)
	require.Equal(t, "/", gen.Header().Get("Location"))

	next := do(t, s.Handler(), http.MethodGet, "/chart.svg", cookie)
	require.NotEqual(t, first.Body.String(), next.Body.String())
	require.Contains(t, next.Body.String(), "<animate ")

	page := do(t, s.Handler(), http.MethodGet, "/", cookie)
	require.Contains(t, page.Body.String(), "dataset #2")
}

func TestGenerateKeepsOnlyLatestKeyframes(t *testing.T) {
	s := New(testConfig(), nil)
	cookie := sessionCookie(t, do(t, s.Handler(), http.MethodGet, "/"))
	for range 3 {
		do(t, s.Handler(), http.MethodPost, "/generate", cookie)
	}
	svg := do(t, s.Handler(), http.MethodGet, "/chart.svg", cookie).Body.String()

	bars := 0
	for _, el := range strings.Split(svg, "<rect")[1:] {
		if !strings.Contains(el, `class="bar"`) {
			continue
		}
		bars++
		require.LessOrEqual(t, strings.Count(el, `attributeName="height"`), 1)
	}
	require.Equal(t, 10, bars)
}

func TestLayoutJSON(t *testing.T) {
	s := New(testConfig(), nil)
	rec := do(t, s.Handler(), http.MethodGet, "/chart.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Adjusted bool              `json:"adjusted"`
		Ease     string            `json:"ease"`
		Bars     []json.RawMessage `json:"bars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.True(t, doc.Adjusted)
	require.Equal(t, "cubic-out", doc.Ease)
	require.Len(t, doc.Bars, 10)
}

func TestHealth(t *testing.T) {
	s := New(testConfig(), nil)
	do(t, s.Handler(), http.MethodGet, "/")

	rec := do(t, s.Handler(), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var h health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "ok", h.Status)
	require.Equal(t, 1, h.Sessions)
	require.NotEmpty(t, h.Build.Version)
}

func TestUnknownRoute(t *testing.T) {
	s := New(testConfig(), nil)
	require.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/nope").Code)
	require.Equal(t, http.StatusMethodNotAllowed, do(t, s.Handler(), http.MethodGet, "/generate").Code)
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = time.Millisecond
	s := New(cfg, nil)
	do(t, s.Handler(), http.MethodGet, "/")
	require.Equal(t, 1, s.sessions.Len())

	time.Sleep(5 * time.Millisecond)
	s.sweepOnce(context.Background())
	require.Equal(t, 0, s.sessions.Len())
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses map[string]int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses[method+" "+path] = status
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{statuses: map[string]int{}}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := New(testConfig(), nil)
	cookie := sessionCookie(t, do(t, s.Handler(), http.MethodGet, "/"))
	do(t, s.Handler(), http.MethodPost, "/generate", cookie)

	require.Equal(t, map[string]int{
		"GET /":          http.StatusOK,
		"POST /generate": http.StatusSeeOther,
	}, hooks.statuses)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(testConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
