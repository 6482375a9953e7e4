package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"refwatch/app"
	"refwatch/internal"
)

// Server exposes the results of the last completed analysis run over HTTP.
// It is strictly read-only: runs are produced by the service before serving
// begins or swapped in whole via SetResult, never mutated in place.
type Server struct {
	router *chi.Mux
	log    *internal.Logger

	mu     sync.RWMutex
	result *app.RunResult
}

// NewServer creates a server, optionally seeded with an initial run result
func NewServer(result *app.RunResult) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    internal.DefaultLogger.WithPrefix("api"),
		result: result,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/referees", s.handleListReferees)
	s.router.Get("/api/referees/{id}", s.handleGetReferee)
	s.router.Get("/api/baseline", s.handleBaseline)
	s.router.Get("/api/manifest", s.handleManifest)
	s.router.Get("/api/report", s.handleReport)
}

// SetResult atomically swaps the run the server serves
func (s *Server) SetResult(result *app.RunResult) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

func (s *Server) currentResult() *app.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the given port
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
