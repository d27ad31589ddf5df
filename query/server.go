// Package query serves the render API over HTTP.
package query

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"timeless/database"
	"timeless/services"
)

// maxBodyBytes caps request bodies, inline tables included.
const maxBodyBytes = 16 << 20

// DB is the database surface the handlers use. *pgxpool.Pool satisfies it.
type DB interface {
	database.Querier
	database.Beginner
	Ping(ctx context.Context) error
}

// Server holds the dependencies of the HTTP handlers. DB and Suggester are
// optional; requests needing them fail with 503 when they are nil.
type Server struct {
	DB        DB
	Suggester services.Suggester
	// Schema is the database schema described to the suggester.
	Schema string
	Log    *logrus.Logger
}

// Routes returns the handler serving every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /render", s.HandleRender)
	mux.HandleFunc("POST /generate-query", s.HandleGenerateQuery)
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	return s.withRequestID(mux)
}

// HandleHealth reports whether the database answers. A server without a
// database is healthy.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			logger(r.Context()).WithError(err).Warn("database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, apiError{Code: "unavailable", Message: "database unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loggerKey struct{}

func logger(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID tags each request with an X-Request-Id, reusing the
// caller's when present, and logs its completion.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		entry := log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		ctx := context.WithValue(r.Context(), loggerKey{}, logrus.FieldLogger(entry))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		entry.WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request served")
	})
}
