// Package api serves the packer over HTTP.
//
// # Routes
//
//	GET    /healthz                             liveness and build info
//	POST   /v1/pack                             pack items, store the layout
//	GET    /v1/layouts                          recent layouts (?limit=)
//	GET    /v1/layouts/{id}                     one stored layout
//	DELETE /v1/layouts/{id}                     remove a stored layout
//	GET    /v1/layouts/{id}/render/{format}     render a stored layout
//
// Errors are JSON objects with the code and message of the underlying
// pkg/errors value; the status comes from [errors.HTTPStatus].
//
// Routing uses github.com/go-chi/chi/v5. Every handler runs through the
// HTTP hooks in pkg/observability.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/store"
)

// Limits applied when Config leaves them zero.
const (
	DefaultMaxItems     = 10000
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 60 * time.Second
	DefaultMaxColumns   = 512
	DefaultMaxRowBound  = 100000
	DefaultMaxScale     = 8.0
)

// Config wires a Server to its dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults are merged under every request's options.
	Defaults pipeline.Options

	MaxItems     int
	MaxBodyBytes int64
	Timeout      time.Duration

	// Request option limits: columns and row_bound of POST /v1/pack, and
	// the scale query of render requests.
	MaxColumns  int
	MaxRowBound int
	MaxScale    float64
}

// Server handles API requests.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options

	maxItems     int
	maxBodyBytes int64
	timeout      time.Duration
	maxColumns   int
	maxRowBound  int
	maxScale     float64
}

// New creates a server. A nil Runner gets an uncached runner, a nil Store
// an in-memory store.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxColumns <= 0 {
		cfg.MaxColumns = DefaultMaxColumns
	}
	if cfg.MaxRowBound <= 0 {
		cfg.MaxRowBound = DefaultMaxRowBound
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = DefaultMaxScale
	}
	return &Server{
		runner:       cfg.Runner,
		store:        cfg.Store,
		logger:       cfg.Logger.WithPrefix("api"),
		defaults:     cfg.Defaults,
		maxItems:     cfg.MaxItems,
		maxBodyBytes: cfg.MaxBodyBytes,
		timeout:      cfg.Timeout,
		maxColumns:   cfg.MaxColumns,
		maxRowBound:  cfg.MaxRowBound,
		maxScale:     cfg.MaxScale,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(s.timeout))

	s.route(r, http.MethodGet, "/healthz", s.handleHealth)

	s.route(r, http.MethodPost, "/v1/pack", s.handlePack)
	s.route(r, http.MethodGet, "/v1/layouts", s.handleListLayouts)
	s.route(r, http.MethodGet, "/v1/layouts/{id}", s.handleGetLayout)
	s.route(r, http.MethodDelete, "/v1/layouts/{id}", s.handleDeleteLayout)
	s.route(r, http.MethodGet, "/v1/layouts/{id}/render/{format}", s.handleRender)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundError(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// route registers h and wraps it with request hooks and logging.
func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, s.instrument(method, pattern, h))
}
