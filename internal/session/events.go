package session

import (
	"sync"

	"github.com/kozaktomas/pose-coach/internal/constants"
)

// Event types published by a session.
const (
	EventFrame = "frame"
	EventPose  = "pose"
	EventScore = "score"
	EventRound = "round"
	EventReset = "reset"
)

// Event is a session change pushed to listeners.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Broadcaster fans events out to listeners. Slow listeners miss events rather
// than block the publisher.
type Broadcaster struct {
	listeners []chan Event
	mu        sync.RWMutex
}

// AddListener registers a new buffered listener channel.
func (b *Broadcaster) AddListener() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener unregisters and closes a listener channel.
func (b *Broadcaster) RemoveListener(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Send publishes an event to all listeners.
func (b *Broadcaster) Send(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
