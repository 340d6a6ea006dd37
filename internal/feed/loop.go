package feed

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/kozaktomas/pose-coach/internal/detector"
	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/kozaktomas/pose-coach/internal/session"
)

// Detector turns an encoded frame into a skeleton.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) (pose.Skeleton, error)
}

// Options tune how skeletons are turned into angles.
type Options struct {
	Interval      time.Duration // pause between frames
	MinVisibility float64
	Mirror        bool
}

// Stats counts what happened to the frames seen so far.
type Stats struct {
	Frames      int `json:"frames"`
	Scored      int `json:"scored"`
	NoDetection int `json:"no_detection"`
	Errors      int `json:"errors"`
}

// Loop processes one frame at a time: source, detector, angles, session.
type Loop struct {
	source   Source
	detector Detector
	state    *session.State
	opts     Options

	mu     sync.RWMutex
	latest []byte
	seq    uint64
	stats  Stats
	notify chan struct{}
}

// NewLoop creates a frame loop scoring into state.
func NewLoop(source Source, det Detector, state *session.State, opts Options) *Loop {
	return &Loop{
		source:   source,
		detector: det,
		state:    state,
		opts:     opts,
		notify:   make(chan struct{}),
	}
}

// Run processes frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("Frame loop started (interval %s, mirror %t)", l.opts.Interval, l.opts.Mirror)
	defer log.Println("Frame loop stopped")

	for {
		if _, err := l.Step(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Frame error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.opts.Interval):
		}
	}
}

// Step processes a single frame. The result is nil when nothing was detected.
func (l *Loop) Step(ctx context.Context) (*session.FrameResult, error) {
	frame, err := l.source.Next(ctx)
	if err != nil {
		l.count(func(s *Stats) { s.Errors++ })
		return nil, err
	}
	l.publish(frame)

	skeleton, err := l.detector.Detect(ctx, frame)
	if errors.Is(err, detector.ErrNoDetection) {
		l.count(func(s *Stats) { s.NoDetection++ })
		return nil, nil
	}
	if err != nil {
		l.count(func(s *Stats) { s.Errors++ })
		return nil, err
	}

	if l.opts.Mirror {
		skeleton = skeleton.Mirrored()
	}
	result := l.state.ScoreFrame(skeleton.Angles(l.opts.MinVisibility))
	l.count(func(s *Stats) { s.Scored++ })
	return &result, nil
}

func (l *Loop) count(fn func(*Stats)) {
	l.mu.Lock()
	fn(&l.stats)
	l.mu.Unlock()
}

// publish stores the frame as the latest one and wakes waiting viewers.
func (l *Loop) publish(frame []byte) {
	l.mu.Lock()
	l.latest = frame
	l.seq++
	l.stats.Frames++
	close(l.notify)
	l.notify = make(chan struct{})
	l.mu.Unlock()
}

// Latest returns the most recent frame and its sequence number.
func (l *Loop) Latest() ([]byte, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest, l.seq
}

// Wait blocks until a frame newer than seq is available or ctx is done.
func (l *Loop) Wait(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		l.mu.RLock()
		frame, cur, notify := l.latest, l.seq, l.notify
		l.mu.RUnlock()

		if cur > seq {
			return frame, cur, nil
		}

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-notify:
		}
	}
}

// Stats returns the frame counters.
func (l *Loop) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}
