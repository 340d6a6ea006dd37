package handlers

import (
	"net/http"

	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/database"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse describes how the server scores frames
type ConfigResponse struct {
	CameraEnabled         bool    `json:"camera_enabled"`
	Mirror                bool    `json:"mirror"`
	MinVisibility         float64 `json:"min_visibility"`
	RoundIntervalMs       int64   `json:"round_interval_ms"`
	AutoRounds            bool    `json:"auto_rounds"`
	LeaderboardPersistent bool    `json:"leaderboard_persistent"`
}

// Get returns the active configuration without connection details
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		CameraEnabled:         h.config.Camera.Enabled(),
		Mirror:                h.config.Landmark.Mirror,
		MinVisibility:         h.config.Landmark.MinVisibility,
		RoundIntervalMs:       h.config.Session.RoundInterval.Milliseconds(),
		AutoRounds:            h.config.Session.AutoRounds,
		LeaderboardPersistent: database.IsInitialized(),
	})
}
