package session

import (
	"context"
	"log"
	"time"

	"github.com/kozaktomas/pose-coach/internal/pose"
)

// RoundResult is the outcome of completing one round of the routine.
type RoundResult struct {
	Round    int          `json:"round"`
	Reported *ScoreReport `json:"reported,omitempty"` // nil when no grade was seen during the round
	Next     pose.ID      `json:"next_pose"`
	Routine  []pose.ID    `json:"routine"`
}

func (s *State) randomPose() pose.ID {
	return pose.ID(s.rng.IntN(pose.PoseCount))
}

// CompleteRound reports the last grade (if any), drops the head of the routine,
// appends a random pose and selects the new head as the target.
func (s *State) CompleteRound() RoundResult {
	s.mu.Lock()
	var reported *ScoreReport
	if s.lastGrade.Valid() {
		report := s.reportLocked(s.lastGrade)
		reported = &report
	}

	routine := s.advanceLocked()
	s.rounds++
	result := RoundResult{Round: s.rounds, Reported: reported, Next: s.target, Routine: routine}
	s.mu.Unlock()

	if reported != nil {
		s.Events.Send(Event{Type: EventScore, Data: *reported})
	}
	s.Events.Send(Event{Type: EventRound, Data: result})
	return result
}

// Advance drops the head of the routine, appends a random pose and selects the
// new head without reporting a grade.
func (s *State) Advance() []pose.ID {
	s.mu.Lock()
	routine := s.advanceLocked()
	s.mu.Unlock()

	s.Events.Send(Event{Type: EventPose, Data: routine[0]})
	return routine
}

func (s *State) advanceLocked() []pose.ID {
	s.routine = append(s.routine[1:], s.randomPose())
	s.target = s.routine[0]

	routine := make([]pose.ID, len(s.routine))
	copy(routine, s.routine)
	return routine
}

// ShuffleRoutine replaces the routine with random poses and selects its head.
func (s *State) ShuffleRoutine() []pose.ID {
	s.mu.Lock()
	for i := range s.routine {
		s.routine[i] = s.randomPose()
	}
	s.target = s.routine[0]
	routine := make([]pose.ID, len(s.routine))
	copy(routine, s.routine)
	s.mu.Unlock()

	s.Events.Send(Event{Type: EventPose, Data: routine[0]})
	return routine
}

// RunRounds completes a round every interval until ctx is cancelled.
func (s *State) RunRounds(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := s.CompleteRound()
			if result.Reported != nil {
				log.Printf("Round %d: %s, score %d, next %s",
					result.Round, result.Reported.Grade, result.Reported.Score, result.Next)
			} else {
				log.Printf("Round %d: no grade, next %s", result.Round, result.Next)
			}
		}
	}
}
