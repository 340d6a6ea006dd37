package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/database"
	"github.com/kozaktomas/pose-coach/internal/feed"
	"github.com/kozaktomas/pose-coach/internal/session"
	"github.com/kozaktomas/pose-coach/internal/web/handlers"
	"github.com/kozaktomas/pose-coach/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config      *config.Config
	router      *chi.Mux
	httpServer  *http.Server
	state       *session.State
	leaderboard database.LeaderboardWriter
	frames      *feed.Loop
}

// NewServer creates a new web server. frames is nil when no camera is configured.
func NewServer(cfg *config.Config, port int, host string, state *session.State, leaderboard database.LeaderboardWriter, frames *feed.Loop) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:      cfg,
		router:      r,
		state:       state,
		leaderboard: leaderboard,
		frames:      frames,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute, // streaming handlers clear their own deadline
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) frameWaiter() handlers.FrameWaiter {
	if s.frames == nil {
		return nil
	}
	return s.frames
}
