// Package server exposes the current dataset over a read-only JSON API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/loadlog"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

const requestTimeout = 30 * time.Second

// DatasetSource yields the currently published dataset, nil before the
// first load.
type DatasetSource interface {
	Current() *trend.Dataset
}

// LoadHistory is implemented by sources that keep a record of load attempts.
type LoadHistory interface {
	History() []loadlog.Entry
}

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ChartSize      int
	NewWindow      time.Duration
}

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    *chi.Mux
	data      DatasetSource
	logger    *log.Logger
	chartSize int
	newWindow time.Duration
	now       func() time.Time
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, data DatasetSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.WithPrefix("http")
	}
	if cfg.ChartSize <= 0 {
		cfg.ChartSize = 10
	}
	if cfg.NewWindow <= 0 {
		cfg.NewWindow = filter.NewWindow
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		data:      data,
		logger:    logger,
		chartSize: cfg.ChartSize,
		newWindow: cfg.NewWindow,
		now:       time.Now,
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.withLogging)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/loads", s.handleLoads)

		r.Route("/v1", func(r chi.Router) {
			r.Use(s.requireDataset)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", s.handleRecords)
				r.Get("/{id}", s.handleRecord)
			})
			r.Get("/vocabulary", s.handleVocabulary)
			r.Get("/chart", s.handleChart)
			r.Get("/insights", s.handleInsights)
			r.Get("/export.csv", s.handleExport)
		})
	})

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
	}
	return s
}

// Handler returns the routed handler (for tests and embedding).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// requireDataset answers 503 until the first load has been published.
func (s *Server) requireDataset(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.data.Current() == nil {
			respondWithError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
			return
		}
		next.ServeHTTP(w, r)
	})
}
