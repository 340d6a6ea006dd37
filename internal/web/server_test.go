package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/database/mock"
	"github.com/kozaktomas/pose-coach/internal/session"
)

func newTestServer(t *testing.T) (*Server, *session.State) {
	t.Helper()
	cfg := &config.Config{
		Landmark: config.LandmarkConfig{MinVisibility: 0.5},
		Session:  config.SessionConfig{RoundInterval: 5 * time.Second},
	}
	state := session.New(nil)
	return NewServer(cfg, 0, "127.0.0.1", state, mock.NewMockLeaderboard(), nil), state
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/config", "", http.StatusOK},
		{http.MethodGet, "/api/v1/poses", "", http.StatusOK},
		{http.MethodGet, "/api/v1/poses/2", "", http.StatusOK},
		{http.MethodGet, "/api/v1/session", "", http.StatusOK},
		{http.MethodPost, "/api/v1/session/pose", `{"poseValue": 1}`, http.StatusOK},
		{http.MethodPost, "/api/v1/session/pose", `{"poseValue": 7}`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/session/scoring-effect", "", http.StatusOK},
		{http.MethodPost, "/api/v1/session/score", `{"scoringEffect": 2}`, http.StatusOK},
		{http.MethodPost, "/api/v1/session/advance", "", http.StatusOK},
		{http.MethodPost, "/api/v1/session/shuffle", "", http.StatusOK},
		{http.MethodPost, "/api/v1/session/frame", `{"angles": {"left_knee": 90}}`, http.StatusOK},
		{http.MethodPost, "/api/v1/leaderboard", `{"username": "ana"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/leaderboard", "", http.StatusOK},
		{http.MethodPost, "/api/v1/session/reset", "", http.StatusOK},
		{http.MethodGet, "/video_feed", "", http.StatusServiceUnavailable},
		{http.MethodDelete, "/api/v1/session", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			recorder := serve(s, tc.method, tc.path, tc.body)
			if recorder.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tc.wantStatus, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestRoutes_ScoreFlow(t *testing.T) {
	s, state := newTestServer(t)

	for _, grade := range []string{"3", "4", "1"} {
		serve(s, http.MethodPost, "/api/v1/session/score", `{"scoringEffect": `+grade+`}`)
	}

	var resp map[string]any
	recorder := serve(s, http.MethodGet, "/api/v1/session", "")
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if resp["score"] != float64(30) || state.Score() != 30 {
		t.Errorf("score = %v, want 30", resp["score"])
	}
}

func TestServeStatic(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "<title>Pose Coach</title>"},
		{"/leaderboard", "text/html; charset=utf-8", "<title>Pose Coach</title>"},
		{"/app.js", "application/javascript; charset=utf-8", "EventSource"},
		{"/style.css", "text/css; charset=utf-8", ".grade"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			recorder := serve(s, http.MethodGet, tc.path, "")
			if recorder.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", recorder.Code)
			}
			if ct := recorder.Header().Get("Content-Type"); ct != tc.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tc.contentType)
			}
			if !strings.Contains(recorder.Body.String(), tc.contains) {
				t.Errorf("body does not contain %q", tc.contains)
			}
		})
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	recorder = serve(s, http.MethodGet, "/api/v1/health", "")
	if recorder.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}
