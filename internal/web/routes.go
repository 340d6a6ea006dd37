package web

import (
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/pose-coach/internal/web/handlers"
	"github.com/kozaktomas/pose-coach/internal/web/static"
)

// requestTimeout bounds non-streaming API requests.
const requestTimeout = 30 * time.Second

func (s *Server) setupRoutes() {
	sessionHandler := handlers.NewSessionHandler(s.state, s.config.Landmark.MinVisibility, s.config.Landmark.Mirror)
	leaderboardHandler := handlers.NewLeaderboardHandler(s.leaderboard, s.state)
	configHandler := handlers.NewConfigHandler(s.config)
	videoHandler := handlers.NewVideoHandler(s.frameWaiter())

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Streams run until the client disconnects.
		r.Get("/session/events", sessionHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))

			r.Get("/config", configHandler.Get)

			// Reference poses
			r.Get("/poses", handlers.ListPoses)
			r.Get("/poses/{id}", handlers.GetPose)

			// Session
			r.Get("/session", sessionHandler.Get)
			r.Post("/session/pose", sessionHandler.SelectPose)
			r.Get("/session/scoring-effect", sessionHandler.ScoringEffect)
			r.Post("/session/score", sessionHandler.UpdateScore)
			r.Post("/session/advance", sessionHandler.Advance)
			r.Post("/session/shuffle", sessionHandler.Shuffle)
			r.Post("/session/reset", sessionHandler.Reset)
			r.Post("/session/frame", sessionHandler.Frame)

			// Leaderboard
			r.Get("/leaderboard", leaderboardHandler.List)
			r.Post("/leaderboard", leaderboardHandler.Save)
		})
	})

	s.router.Get("/video_feed", videoHandler.Feed)

	// Serve the embedded page
	s.router.Get("/*", s.serveStatic)
}

// contentTypes maps static file extensions to their content type.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

// serveStatic serves the embedded front-end, falling back to index.html for
// unknown paths so client-side routes like /leaderboard load the page.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if !static.HasDist() {
		http.NotFound(w, r)
		return
	}

	fs := static.GetFileSystem()
	p := r.URL.Path
	if p == "/" {
		p = "/index.html"
	}

	f, err := fs.Open(p)
	if err == nil {
		defer f.Close()
		if stat, err := f.Stat(); err == nil && !stat.IsDir() {
			contentType, ok := contentTypes[strings.ToLower(path.Ext(p))]
			if !ok {
				contentType = "application/octet-stream"
			}
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			_, _ = io.Copy(w, f)
			return
		}
	}

	index, err := fs.Open("/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer index.Close()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, index)
}
