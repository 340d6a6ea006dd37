package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kozaktomas/pose-coach/internal/constants"
	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/kozaktomas/pose-coach/internal/session"
)

// SessionHandler exposes the scoring session
type SessionHandler struct {
	state         *session.State
	minVisibility float64
	mirror        bool
}

// NewSessionHandler creates a new session handler. minVisibility and mirror apply
// to skeletons posted to the frame endpoint.
func NewSessionHandler(state *session.State, minVisibility float64, mirror bool) *SessionHandler {
	return &SessionHandler{
		state:         state,
		minVisibility: minVisibility,
		mirror:        mirror,
	}
}

// SelectPoseRequest selects the active target pose
type SelectPoseRequest struct {
	PoseValue *float64 `json:"poseValue"`
}

type statusResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	CurrentPose pose.ID `json:"current_pose"`
}

// SelectPose sets the active target pose. A missing value selects pose 0.
func (h *SessionHandler) SelectPose(w http.ResponseWriter, r *http.Request) {
	var req SelectPoseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	value := 0.0
	if req.PoseValue != nil {
		value = *req.PoseValue
	}
	if value < 0 || value > float64(pose.PoseCount-1) {
		respondJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid pose value"})
		return
	}

	id := pose.ID(int(value))
	if err := h.state.SelectPose(id); err != nil {
		respondJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "success", CurrentPose: id})
}

// ScoringEffect returns the most recent grade (0 before the first graded frame).
func (h *SessionHandler) ScoringEffect(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]pose.Grade{"scoringEffect": h.state.LastGrade()})
}

// UpdateScoreRequest reports a grade to the accumulator
type UpdateScoreRequest struct {
	ScoringEffect *int `json:"scoringEffect"`
}

// UpdateScore applies the reward or penalty of the reported grade. A missing
// grade counts as Poor; unknown grades leave the score unchanged.
func (h *SessionHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req UpdateScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	grade := pose.Poor
	if req.ScoringEffect != nil {
		grade = pose.Grade(*req.ScoringEffect)
	}

	respondJSON(w, http.StatusOK, h.state.Report(grade))
}

// Get returns a snapshot of the session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.state.Snapshot())
}

// Advance completes a round: the last grade is reported and the routine moves on.
// With ?report=false the routine moves on without touching the score.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if report, err := strconv.ParseBool(r.URL.Query().Get("report")); err == nil && !report {
		routine := h.state.Advance()
		respondJSON(w, http.StatusOK, map[string]any{"next_pose": routine[0], "routine": routine})
		return
	}
	respondJSON(w, http.StatusOK, h.state.CompleteRound())
}

// Shuffle replaces the routine with random poses
func (h *SessionHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	routine := h.state.ShuffleRoutine()
	respondJSON(w, http.StatusOK, map[string]any{"next_pose": routine[0], "routine": routine})
}

// Reset clears the score for a new player
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.state.Reset())
}

// FrameRequest carries either precomputed joint angles or raw landmarks
type FrameRequest struct {
	Angles    pose.JointAngleSet `json:"angles,omitempty"`
	Landmarks pose.Skeleton      `json:"landmarks,omitempty"`
}

// Frame grades one posted frame against the active pose
func (h *SessionHandler) Frame(w http.ResponseWriter, r *http.Request) {
	var req FrameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	angles, err := h.frameAngles(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.state.ScoreFrame(angles))
}

func (h *SessionHandler) frameAngles(req FrameRequest) (pose.JointAngleSet, error) {
	switch {
	case len(req.Landmarks) > 0:
		skeleton := req.Landmarks
		if h.mirror {
			skeleton = skeleton.Mirrored()
		}
		return skeleton.Angles(h.minVisibility), nil
	case len(req.Angles) > 0:
		angles := make(pose.JointAngleSet, len(req.Angles))
		for joint, a := range req.Angles {
			if !joint.Valid() {
				return nil, errors.New("unknown joint " + sanitizeForLog(string(joint)))
			}
			if a < 0 || a > 180 {
				return nil, errors.New("angle out of range for " + string(joint))
			}
			angles[joint] = a
		}
		return angles, nil
	default:
		return nil, errors.New("angles or landmarks are required")
	}
}

// Events streams frame results and score changes as server-sent events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	eventCh := h.state.Events.AddListener()
	defer h.state.Events.RemoveListener(eventCh)

	sendSSEEvent(w, flusher, "status", h.state.Snapshot())

	keepAlive := time.NewTicker(constants.SSEKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				log.Printf("SSE write failed: %v", err)
				return
			}
			flusher.Flush()
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event)
		}
	}
}
