package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/histochart/pkg/observability"
)

// observe reports every request to the HTTP hooks and logs it at debug
// level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
			s.logger.Debug("http", "method", r.Method, "path", r.URL.Path,
				"status", status, "bytes", ww.BytesWritten(),
				"duration", elapsed.Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
