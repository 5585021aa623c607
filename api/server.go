// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jewel-pricing/core/pricing"
)

// CatalogSource supplies process/material lookups for id references
type CatalogSource interface {
	Snapshot(ctx context.Context) (*pricing.StaticCatalog, error)
}

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	logger  *zap.Logger
}

// Options configures a Server
type Options struct {
	Version string

	// Settings apply to requests that carry none. nil means engine defaults.
	Settings *pricing.AdminSettings

	// Catalog resolves references when a task request has no lookup lists
	Catalog CatalogSource

	Logger *zap.Logger

	// RequestTimeout bounds each request; zero disables the timeout
	RequestTimeout time.Duration
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		handler: NewHandler(opts.Version, opts.Settings, opts.Catalog, logger),
		router:  chi.NewRouter(),
		logger:  logger,
	}

	s.router.Use(requestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(opts.RequestTimeout))
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	h := s.handler

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, ErrorResponse{
			RequestID: RequestIDFrom(r.Context()),
			Error:     ErrorDetail{Code: "NOT_FOUND", Message: "no route for " + r.Method + " " + r.URL.Path},
		}, http.StatusNotFound)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, ErrorResponse{
			RequestID: RequestIDFrom(r.Context()),
			Error:     ErrorDetail{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed on " + r.URL.Path},
		}, http.StatusMethodNotAllowed)
	})

	s.router.Route("/price", func(r chi.Router) {
		r.Post("/task", h.handleTask)
		r.Post("/process", h.handleProcess)
		r.Post("/material", h.handleMaterial)
		r.Post("/retail", h.handleRetail)
		r.Post("/wholesale", h.handleWholesale)
	})
	s.router.Get("/rates/{skill}", h.handleRate)
	s.router.Get("/settings", h.handleSettings)

	s.router.Get("/health", h.handleHealth)
	s.router.Get("/version", h.handleVersion)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server bound to addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type ctxKey struct{}

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// requestID accepts a caller-supplied id or assigns a uuid
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFrom returns the id assigned by the request id middleware
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
