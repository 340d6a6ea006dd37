// Package session holds the mutable state of one scoring session: the active
// target pose, the last grade, the running score and the upcoming pose routine.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kozaktomas/pose-coach/internal/pose"
)

// ErrInvalidPose is returned when selecting a pose outside the reference table.
var ErrInvalidPose = errors.New("invalid pose value")

// RoutineLength is the number of upcoming poses shown to the user.
const RoutineLength = 4

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	CurrentPose pose.ID    `json:"current_pose"`
	PoseName    string     `json:"pose_name"`
	LastGrade   pose.Grade `json:"last_grade"` // 0 until the first frame is graded
	Score       int        `json:"score"`
	Streak      int        `json:"streak"`
	BestStreak  int        `json:"best_streak"`
	Rounds      int        `json:"rounds"`
	Routine     []pose.ID  `json:"routine"`
	StartedAt   time.Time  `json:"started_at"`
}

// FrameResult is the outcome of grading one frame.
type FrameResult struct {
	Pose    pose.ID            `json:"pose"`
	Grade   pose.Grade         `json:"grade"`
	Label   string             `json:"label"`
	Angles  pose.JointAngleSet `json:"angles,omitempty"`
	Nearest *pose.Match        `json:"nearest,omitempty"` // closest reference pose, complete angle sets only
}

// ScoreReport is the outcome of reporting a grade to the accumulator.
type ScoreReport struct {
	Grade  pose.Grade `json:"scoringEffect"`
	Score  int        `json:"score"`
	Streak int        `json:"streak"`
}

// State is the session shared between the frame loop and API requests.
// All methods are safe for concurrent use.
type State struct {
	Events Broadcaster

	mu         sync.RWMutex
	target     pose.ID
	lastGrade  pose.Grade
	score      int
	streak     int
	bestStreak int
	rounds     int
	routine    []pose.ID
	startedAt  time.Time
	rng        *rand.Rand
	index      *pose.Index
}

// New creates a session starting on the first reference pose with the routine
// 0, 1, 2, 3. A nil rng uses a randomly seeded source.
func New(rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	routine := make([]pose.ID, RoutineLength)
	for i := range routine {
		routine[i] = pose.ID(i % pose.PoseCount)
	}
	return &State{
		target:    routine[0],
		routine:   routine,
		startedAt: time.Now(),
		rng:       rng,
	}
}

// WithIndex attaches a nearest-pose index; frame results then carry a hint about
// which reference pose the user is closest to. Call before the state is shared.
func (s *State) WithIndex(idx *pose.Index) *State {
	s.index = idx
	return s
}

// SelectPose makes id the active target pose.
func (s *State) SelectPose(id pose.ID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPose, id)
	}

	s.mu.Lock()
	s.target = id
	s.mu.Unlock()

	s.Events.Send(Event{Type: EventPose, Data: id})
	return nil
}

// CurrentPose returns the active target pose.
func (s *State) CurrentPose() pose.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// ScoreFrame grades angles against the target that is active while the frame is
// processed and records the grade as the last grade.
func (s *State) ScoreFrame(angles pose.JointAngleSet) FrameResult {
	s.mu.Lock()
	id := s.target
	grade := pose.Score(angles, id)
	s.lastGrade = grade
	s.mu.Unlock()

	result := FrameResult{Pose: id, Grade: grade, Label: grade.Label(), Angles: angles}
	if s.index != nil {
		if match, ok := s.index.Nearest(angles); ok {
			result.Nearest = &match
		}
	}
	s.Events.Send(Event{Type: EventFrame, Data: result})
	return result
}

// LastGrade returns the most recent grade, or 0 if nothing was graded yet.
func (s *State) LastGrade() pose.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGrade
}

// Report adds the reward or penalty for g to the running score. Grades outside
// 1-4 leave the session unchanged.
func (s *State) Report(g pose.Grade) ScoreReport {
	s.mu.Lock()
	report := s.reportLocked(g)
	s.mu.Unlock()

	s.Events.Send(Event{Type: EventScore, Data: report})
	return report
}

func (s *State) reportLocked(g pose.Grade) ScoreReport {
	s.score = Accumulate(s.score, g)
	if g.Valid() {
		s.lastGrade = g
		if g == pose.Poor {
			s.streak = 0
		} else {
			s.streak++
			s.bestStreak = max(s.bestStreak, s.streak)
		}
	}
	return ScoreReport{Grade: g, Score: s.score, Streak: s.streak}
}

// Score returns the running score.
func (s *State) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	routine := make([]pose.ID, len(s.routine))
	copy(routine, s.routine)
	return Snapshot{
		CurrentPose: s.target,
		PoseName:    s.target.String(),
		LastGrade:   s.lastGrade,
		Score:       s.score,
		Streak:      s.streak,
		BestStreak:  s.bestStreak,
		Rounds:      s.rounds,
		Routine:     routine,
		StartedAt:   s.startedAt,
	}
}

// Reset clears the score, streaks and grade for a new player. The routine and
// active pose are kept.
func (s *State) Reset() Snapshot {
	s.mu.Lock()
	s.score = 0
	s.streak = 0
	s.bestStreak = 0
	s.rounds = 0
	s.lastGrade = 0
	s.startedAt = time.Now()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.Events.Send(Event{Type: EventReset, Data: snap})
	return snap
}
