// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Processing constants
const (
	// DefaultConcurrency is the default number of parallel detector requests in batch analysis
	DefaultConcurrency = 4

	// DefaultMaxFrameSize is the longest side, in pixels, of frames sent to the detector
	DefaultMaxFrameSize = 640

	// DefaultFrameInterval is the pause between two camera frames
	DefaultFrameInterval = 100 * time.Millisecond
)

// Session constants
const (
	// DefaultRoundInterval is how long each pose of the routine is held
	DefaultRoundInterval = 5 * time.Second

	// DefaultMinVisibility is the landmark visibility below which a joint is not measured
	DefaultMinVisibility = 0.5
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100

	// SSEKeepAlive is how often an idle event stream gets a comment line
	SSEKeepAlive = 15 * time.Second
)

// Request constants
const (
	// MaxRequestBodySize bounds JSON request bodies (1MB)
	MaxRequestBodySize = 1 << 20
)
