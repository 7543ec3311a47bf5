package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oomph-ac/verdict/match"
	"github.com/oomph-ac/verdict/metrics"
)

// Config contains the dependencies of the HTTP router.
type Config struct {
	// Registry holds the matches the router operates on (required).
	Registry *match.Registry
	// Log is used to log requests at debug level. Nil discards everything.
	Log *slog.Logger
	// CORSOrigins is an optional list of allowed CORS origins. CORS is disabled when empty.
	CORSOrigins []string
}

type handlers struct {
	registry *match.Registry
	log      *slog.Logger
}

// NewRouter constructs the HTTP router. It starts no goroutines and opens no listeners, so it can be
// served directly by httptest.
func NewRouter(cfg Config) *chi.Mux {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handlers{registry: cfg.Registry, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}

	r.Route("/matches/{match}", func(r chi.Router) {
		r.Delete("/", h.handleRemoveMatch)

		r.Post("/snapshots", h.handleSnapshot)
		r.Post("/hits", h.handleHit)
		r.Post("/movements", h.handleMovement)
		r.Get("/stream", h.handleStream)

		r.Put("/players/{player}/movement", h.handleSetPlayerState)
		r.Get("/players/{player}/movement", h.handleGetPlayerState)
		r.Delete("/players/{player}", h.handleRemovePlayer)

		r.Put("/obstacles", h.handleSetObstacles)
		r.Delete("/obstacles", h.handleClearObstacles)
	})
	r.Handle("/metrics", metrics.Handler())
	return r
}

// requestLogger logs every request at debug level.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
