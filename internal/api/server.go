// Package api implements the typegrid admin HTTP API.
//
// The API exposes the metamodel for editing and the rendered diagram for
// display. Mutations write through the configured model store; diagram
// endpoints run the shared pipeline runner, so repeated requests against an
// unchanged model are served from cache.
//
// # Endpoints
//
//	GET    /healthz                 liveness probe with build info
//	GET    /api/model               fetch the current model
//	PUT    /api/model               replace the model wholesale
//	POST   /api/types               add a card type
//	PUT    /api/types/{key}         update a card type
//	DELETE /api/types/{key}         remove a card type (cascades relations)
//	POST   /api/relations           add a relation type
//	PUT    /api/relations/{key}     update a relation type
//	DELETE /api/relations/{key}     remove a relation type
//	GET    /api/diagram.svg         rendered diagram
//	GET    /api/diagram.json        model + geometry document
//	GET    /api/diagram.dot         relation graph in DOT
//	GET    /api/overview.svg        Graphviz-rendered relation overview
//
// Errors are JSON payloads carrying a machine-readable code:
//
//	{"error": {"code": "TYPE_NOT_FOUND", "message": "no card type server"}}
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/pipeline"
)

// DefaultModelName is the store entry served when no model is selected via
// the ?model query parameter.
const DefaultModelName = "default"

// maxBodyBytes caps mutation request bodies. Models are small; anything
// larger is a client bug.
const maxBodyBytes = 10 << 20 // 10 MB

// Config holds server configuration.
type Config struct {
	// Address is the server listen address (e.g., ":8080")
	Address string

	// Timeouts
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration

	// Connection limits
	MaxHeaderBytes int
}

// DefaultConfig returns a production-ready server configuration.
func DefaultConfig() Config {
	return Config{
		Address:           ":8080",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Server serves the admin API over a model store and a pipeline runner.
type Server struct {
	store  model.Store
	runner *pipeline.Runner
	logger *log.Logger
	style  string

	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithStyle sets the default visual style for diagram endpoints.
func WithStyle(style string) Option {
	return func(s *Server) { s.style = style }
}

// NewServer creates an admin API server. The runner may be nil, in which
// case an uncached runner is used; the logger may be nil for log.Default().
func NewServer(store model.Store, runner *pipeline.Runner, logger *log.Logger, cfg Config, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		store:  store,
		runner: runner,
		logger: logger,
		style:  pipeline.DefaultStyle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Router(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	return s
}

// Router builds the chi route tree. Exposed for tests and for embedding the
// API under another mux.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/model", s.handleGetModel)
		r.Put("/model", s.handlePutModel)

		r.Post("/types", s.handleCreateType)
		r.Put("/types/{key}", s.handleUpdateType)
		r.Delete("/types/{key}", s.handleDeleteType)

		r.Post("/relations", s.handleCreateRelation)
		r.Put("/relations/{key}", s.handleUpdateRelation)
		r.Delete("/relations/{key}", s.handleDeleteRelation)

		r.Get("/diagram.svg", s.handleDiagramSVG)
		r.Get("/diagram.json", s.handleDiagramJSON)
		r.Get("/diagram.dot", s.handleDiagramDOT)
		r.Get("/overview.svg", s.handleOverviewSVG)
	})

	return r
}

// Start listens on the configured address and serves until the context is
// cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info("listening", "addr", listener.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close immediately closes the server.
func (s *Server) Close() error {
	return s.httpServer.Close()
}

// Addr returns the server's network address once listening.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// modelName returns the store entry a request addresses.
func modelName(r *http.Request) string {
	if name := r.URL.Query().Get("model"); name != "" {
		return name
	}
	return DefaultModelName
}
