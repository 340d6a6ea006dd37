package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/kozaktomas/pose-coach/internal/session"
)

func TestSessionHandler_SelectPose(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPose   pose.ID
		wantResult string
	}{
		{"valid", `{"poseValue": 2}`, http.StatusOK, pose.Warrior1, "success"},
		{"upper bound", `{"poseValue": 3}`, http.StatusOK, pose.Warrior2, "success"},
		{"fraction truncates", `{"poseValue": 1.7}`, http.StatusOK, pose.Tree, "success"},
		{"missing defaults to zero", `{}`, http.StatusOK, pose.DownwardDog, "success"},
		{"too large", `{"poseValue": 4}`, http.StatusBadRequest, pose.Warrior2, "error"},
		{"negative", `{"poseValue": -1}`, http.StatusBadRequest, pose.Warrior2, "error"},
		{"not a number", `{"poseValue": "two"}`, http.StatusBadRequest, pose.Warrior2, "error"},
		{"malformed", `{"poseValue":`, http.StatusBadRequest, pose.Warrior2, "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := testState()
			_ = state.SelectPose(pose.Warrior2)
			h := NewSessionHandler(state, 0.5, false)

			recorder := httptest.NewRecorder()
			h.SelectPose(recorder, jsonRequest(http.MethodPost, "/api/v1/session/pose", tc.body))

			if recorder.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, recorder.Code, recorder.Body.String())
			}

			var resp map[string]any
			decodeBody(t, recorder, &resp)
			if resp["status"] != tc.wantResult {
				t.Errorf("status = %v, want %s", resp["status"], tc.wantResult)
			}
			if tc.wantResult == "error" {
				if msg, _ := resp["message"].(string); msg == "" {
					t.Error("expected an error message")
				}
			} else if resp["current_pose"] != float64(tc.wantPose) {
				t.Errorf("current_pose = %v, want %d", resp["current_pose"], tc.wantPose)
			}
			if state.CurrentPose() != tc.wantPose {
				t.Errorf("session pose = %v, want %v", state.CurrentPose(), tc.wantPose)
			}
		})
	}
}

func TestSessionHandler_ScoringEffect(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, false)

	recorder := httptest.NewRecorder()
	h.ScoringEffect(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/session/scoring-effect", nil))

	var resp map[string]int
	decodeBody(t, recorder, &resp)
	if resp["scoringEffect"] != 0 {
		t.Errorf("scoringEffect = %d before any frame, want 0", resp["scoringEffect"])
	}

	tree, _ := pose.Lookup(pose.Tree)
	_ = state.SelectPose(pose.Tree)
	state.ScoreFrame(pose.JointAngleSet(tree))

	recorder = httptest.NewRecorder()
	h.ScoringEffect(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/session/scoring-effect", nil))
	decodeBody(t, recorder, &resp)
	if resp["scoringEffect"] != int(pose.Perfect) {
		t.Errorf("scoringEffect = %d, want %d", resp["scoringEffect"], pose.Perfect)
	}
}

func TestSessionHandler_UpdateScore(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, false)

	steps := []struct {
		body      string
		wantScore int
		wantGrade int
	}{
		{`{"scoringEffect": 3}`, 30, 3},
		{`{"scoringEffect": 4}`, 80, 4},
		{`{}`, 30, 1},
		{``, -20, 1},
		{`{"scoringEffect": 2}`, -10, 2},
		{`{"scoringEffect": 9}`, -10, 9},
	}

	for i, step := range steps {
		recorder := httptest.NewRecorder()
		h.UpdateScore(recorder, jsonRequest(http.MethodPost, "/api/v1/session/score", step.body))

		if recorder.Code != http.StatusOK {
			t.Fatalf("step %d: status %d", i, recorder.Code)
		}
		var resp map[string]int
		decodeBody(t, recorder, &resp)
		if resp["score"] != step.wantScore || resp["scoringEffect"] != step.wantGrade {
			t.Errorf("step %d: got %v, want score %d grade %d", i, resp, step.wantScore, step.wantGrade)
		}
	}

	recorder := httptest.NewRecorder()
	h.UpdateScore(recorder, jsonRequest(http.MethodPost, "/api/v1/session/score", `{"scoringEffect": "great"}`))
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric grade, got %d", recorder.Code)
	}
}

func TestSessionHandler_GetAndReset(t *testing.T) {
	state := testState()
	state.Report(pose.Great)
	h := NewSessionHandler(state, 0.5, false)

	recorder := httptest.NewRecorder()
	h.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))

	var snap session.Snapshot
	decodeBody(t, recorder, &snap)
	if snap.Score != 30 || snap.Streak != 1 || len(snap.Routine) != session.RoutineLength {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	recorder = httptest.NewRecorder()
	h.Reset(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/session/reset", nil))
	decodeBody(t, recorder, &snap)
	if snap.Score != 0 || state.Score() != 0 {
		t.Errorf("reset left score %d", snap.Score)
	}
}

func TestSessionHandler_Advance(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, false)
	state.Report(pose.Okay)

	recorder := httptest.NewRecorder()
	h.Advance(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/session/advance", nil))

	var round session.RoundResult
	decodeBody(t, recorder, &round)
	if round.Round != 1 || round.Reported == nil || round.Reported.Grade != pose.Okay {
		t.Errorf("unexpected round %+v", round)
	}
	if round.Next != pose.Tree || state.CurrentPose() != pose.Tree {
		t.Errorf("next pose = %v, current %v", round.Next, state.CurrentPose())
	}
	if state.Score() != 2*session.OkayReward {
		t.Errorf("score = %d", state.Score())
	}

	recorder = httptest.NewRecorder()
	h.Advance(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/session/advance?report=false", nil))
	var moved struct {
		Next    pose.ID   `json:"next_pose"`
		Routine []pose.ID `json:"routine"`
	}
	decodeBody(t, recorder, &moved)
	if moved.Next != pose.Warrior1 || state.Score() != 2*session.OkayReward {
		t.Errorf("advance without report: %+v, score %d", moved, state.Score())
	}
}

func TestSessionHandler_Shuffle(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, false)

	recorder := httptest.NewRecorder()
	h.Shuffle(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/session/shuffle", nil))

	var resp struct {
		Next    pose.ID   `json:"next_pose"`
		Routine []pose.ID `json:"routine"`
	}
	decodeBody(t, recorder, &resp)
	if len(resp.Routine) != session.RoutineLength || resp.Next != resp.Routine[0] {
		t.Errorf("unexpected shuffle %+v", resp)
	}
	if state.CurrentPose() != resp.Next {
		t.Errorf("current pose %v, want %v", state.CurrentPose(), resp.Next)
	}
}

func TestSessionHandler_FrameAngles(t *testing.T) {
	state := testState()
	_ = state.SelectPose(pose.Warrior2)
	h := NewSessionHandler(state, 0.5, false)

	body := `{"angles": {"left_shoulder": 98, "left_elbow": 174, "right_shoulder": 93, "right_elbow": 174,
		"left_hip": 122, "left_knee": 177, "right_hip": 84, "right_knee": 92}}`
	recorder := httptest.NewRecorder()
	h.Frame(recorder, jsonRequest(http.MethodPost, "/api/v1/session/frame", body))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d: %s", recorder.Code, recorder.Body.String())
	}
	var result session.FrameResult
	decodeBody(t, recorder, &result)
	if result.Pose != pose.Warrior2 {
		t.Errorf("pose = %v, want %v", result.Pose, pose.Warrior2)
	}
	if !result.Grade.Valid() || result.Label != result.Grade.Label() {
		t.Errorf("unexpected result %+v", result)
	}
	if state.LastGrade() != result.Grade {
		t.Errorf("last grade %v, want %v", state.LastGrade(), result.Grade)
	}
}

func TestSessionHandler_FrameLandmarks(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, true)

	// Only the left knee is visible; mirroring scores it as the right knee.
	body := `{"landmarks": {
		"left_hip": {"x": 0.5, "y": 0.5, "visibility": 0.9},
		"left_knee": {"x": 0.5, "y": 0.7, "visibility": 0.9},
		"left_ankle": {"x": 0.7, "y": 0.7, "visibility": 0.9},
		"left_shoulder": {"x": 0.5, "y": 0.2, "visibility": 0.1}
	}}`
	recorder := httptest.NewRecorder()
	h.Frame(recorder, jsonRequest(http.MethodPost, "/api/v1/session/frame", body))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d: %s", recorder.Code, recorder.Body.String())
	}
	var result session.FrameResult
	decodeBody(t, recorder, &result)
	if len(result.Angles) != 1 {
		t.Fatalf("expected one measured joint, got %v", result.Angles)
	}
	if a, ok := result.Angles[pose.RightKnee]; !ok || a < 89.9 || a > 90.1 {
		t.Errorf("right knee = %v (present %t), want 90", a, ok)
	}
	// Downward dog wants a nearly straight right knee (163.6).
	if result.Grade != pose.Poor {
		t.Errorf("grade = %v, want %v", result.Grade, pose.Poor)
	}
}

func TestSessionHandler_FrameInvalid(t *testing.T) {
	h := NewSessionHandler(testState(), 0.5, false)

	for name, body := range map[string]string{
		"empty":          `{}`,
		"unknown joint":  `{"angles": {"left_wrist": 90}}`,
		"out of range":   `{"angles": {"left_knee": 200}}`,
		"negative angle": `{"angles": {"left_knee": -5}}`,
		"malformed":      `{"angles": `,
	} {
		recorder := httptest.NewRecorder()
		h.Frame(recorder, jsonRequest(http.MethodPost, "/api/v1/session/frame", body))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, recorder.Code)
		}
	}
}

func TestSessionHandler_Events(t *testing.T) {
	state := testState()
	h := NewSessionHandler(state, 0.5, false)

	server := httptest.NewServer(http.HandlerFunc(h.Events))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				return strings.TrimSpace(name)
			}
		}
	}

	if name := readEvent(); name != "status" {
		t.Fatalf("first event = %q, want status", name)
	}

	// The listener is registered before the status event is written.
	state.Report(pose.Great)
	if name := readEvent(); name != session.EventScore {
		t.Errorf("event = %q, want %q", name, session.EventScore)
	}
}
