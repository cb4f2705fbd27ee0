// Package server provides the HTTP service: routing, the auth gate, the
// request pipeline for prompt and response creation, and error
// translation.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/auth"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/config"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/db"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
)

// Generator is the boundary to the external text-generation service.
// *openai.Client satisfies it; tests substitute mocks.
type Generator interface {
	Generate(ctx context.Context, req openai.GenerationRequest) (string, error)
}

// Service wires the stores, token service, and generation client behind
// the HTTP routes.
type Service struct {
	cfg       *config.Config
	store     *db.Store
	users     *db.UserStore
	prompts   *db.PromptStore
	responses *db.ResponseStore
	tokens    *auth.TokenService
	generator Generator

	router     chi.Router
	httpServer *http.Server
}

// New creates a Service and mounts its routes.
func New(cfg *config.Config, store *db.Store, tokens *auth.TokenService, generator Generator) *Service {
	s := &Service{
		cfg:       cfg,
		store:     store,
		users:     db.NewUserStore(store),
		prompts:   db.NewPromptStore(store),
		responses: db.NewResponseStore(store),
		tokens:    tokens,
		generator: generator,
		router:    chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Service) setupRoutes() {
	r := s.router

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/prompts", s.handleCreatePrompt)
		r.Get("/prompts/{id}", s.handleGetPrompt)
		r.Post("/responses", s.handleCreateResponse)
		r.Get("/responses/{id}", s.handleGetResponse)
	})
}

// Router returns the HTTP handler, primarily for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until Shutdown is called or the listener
// fails.
func (s *Service) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
