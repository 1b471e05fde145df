package routes

import (
	"net/http"
	"strconv"
	"time"

	"blog-server/metrics"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestMiddleware tags each request with an id, then logs and counts it once
// the handler returns.
func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		w.Header().Set(RequestIdHeader, requestId)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		elapsed := time.Since(start)
		metrics.HttpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		log.Info("request",
			"id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}
