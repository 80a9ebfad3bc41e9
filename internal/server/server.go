package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ashaai/asha-server/internal/chat"
	"github.com/ashaai/asha-server/internal/session"
	"github.com/ashaai/asha-server/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Timeout  time.Duration // per-request time limit
	AllowAll bool          // allow all CORS origins (dev mode)
}

// Server exposes the assistant over HTTP and WebSocket.
type Server struct {
	cfg        Config
	engine     *chat.Engine
	sessions   session.Store
	store      vectordb.VectorStore
	log        zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies wired.
func New(cfg Config, engine *chat.Engine, sessions session.Store, store vectordb.VectorStore, log zerolog.Logger) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		engine:   engine,
		sessions: sessions,
		store:    store,
		log:      log,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Timeout))

		r.Get("/health", s.handleHealth)
		r.Post("/asha-smart-query", s.handleSmartQuery)
		r.Post("/generate-title", s.handleGenerateTitle)
		r.Get("/chat-history", s.handleChatHistory)
		r.Post("/reset-history", s.handleResetHistory)
	})

	// The websocket connection outlives any per-request deadline; each
	// query gets its own timeout inside the engine.
	r.Get("/ws/chat", s.handleWebSocket)

	return r
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * s.cfg.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("asha server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
