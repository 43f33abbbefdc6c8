package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/chat"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/extract"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/llm"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/revenue"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// Config holds server configuration.
type Config struct {
	Port        int
	DataDir     string        // directory for SQLite DB and rule files
	AllowAll    bool          // allow all CORS origins (dev mode)
	ChatTimeout time.Duration // per-turn LLM deadline for the chat pipeline
}

// Server is the rule engine API server.
type Server struct {
	cfg         Config
	db          *db.DB
	rules       *rulestore.Store
	auditStore  *audit.Store
	llmProvider llm.Provider
	llmModel    string
	router      chi.Router
	httpServer  *http.Server
}

// New creates a server with all dependencies and registers every feature
// package's routes.
func New(cfg Config, database *db.DB, rules *rulestore.Store, provider llm.Provider, model string) *Server {
	s := &Server{
		cfg:         cfg,
		db:          database,
		rules:       rules,
		auditStore:  audit.NewStore(database),
		llmProvider: provider,
		llmModel:    model,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	extract.RegisterRoutes(r, extract.NewService(s.llmProvider, s.llmModel), s.rules, s.auditStore)
	chat.RegisterRoutes(r, chat.NewService(s.llmProvider, s.llmModel, s.cfg.ChatTimeout), s.rules, s.auditStore)
	revenue.RegisterRoutes(r, s.rules, s.auditStore)
	audit.RegisterRoutes(r, s.auditStore)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("pamrules server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
