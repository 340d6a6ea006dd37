package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/session"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Landmark: config.LandmarkConfig{MinVisibility: 0.5},
		Session:  config.SessionConfig{RoundInterval: 5 * time.Second},
	}
}

// testState creates a session with a deterministic routine
func testState() *session.State {
	return session.New(rand.New(rand.NewPCG(7, 11)))
}

// jsonRequest creates a request with a JSON body
func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorded response into v
func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", recorder.Body.String(), err)
	}
}
