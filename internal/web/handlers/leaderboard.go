package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/kozaktomas/pose-coach/internal/database"
	"github.com/kozaktomas/pose-coach/internal/session"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	board database.LeaderboardWriter
	state *session.State
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(board database.LeaderboardWriter, state *session.State) *LeaderboardHandler {
	return &LeaderboardHandler{
		board: board,
		state: state,
	}
}

// List returns the top entries, ?limit=N
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := database.DefaultLeaderboardLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.board.Top(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []database.LeaderboardEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

// SaveRequest names the player whose session is saved
type SaveRequest struct {
	Username string `json:"username"`
	Reset    bool   `json:"reset"` // start a fresh session after saving
}

// SaveResponse is the saved entry plus the player's best result so far
type SaveResponse struct {
	Entry    database.LeaderboardEntry  `json:"entry"`
	Personal *database.LeaderboardEntry `json:"personal_best,omitempty"`
}

// Save stores the current session score and best streak under the player's name
func (h *LeaderboardHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.state.Snapshot()
	entry, err := database.NewEntry(req.Username, snap.Score, snap.BestStreak, snap.Rounds)
	if errors.Is(err, database.ErrInvalidPlayerName) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.board.Save(r.Context(), entry); err != nil {
		log.Printf("Failed to save leaderboard entry for %s: %v", sanitizeForLog(entry.PlayerName), err)
		respondError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	resp := SaveResponse{Entry: *entry}
	if best, err := h.board.BestFor(r.Context(), entry.PlayerName); err != nil {
		log.Printf("Failed to load personal best: %v", err)
	} else {
		resp.Personal = best
	}

	if req.Reset {
		h.state.Reset()
	}

	respondJSON(w, http.StatusCreated, resp)
}
