package session

import "github.com/kozaktomas/pose-coach/internal/pose"

// Score change applied for each reported grade.
const (
	PoorPenalty   = -50
	OkayReward    = 10
	GreatReward   = 30
	PerfectReward = 50
)

// Delta returns the score change for a grade. Values outside 1-4 change nothing.
func Delta(g pose.Grade) int {
	switch g {
	case pose.Poor:
		return PoorPenalty
	case pose.Okay:
		return OkayReward
	case pose.Great:
		return GreatReward
	case pose.Perfect:
		return PerfectReward
	default:
		return 0
	}
}

// Accumulate returns the running total after reporting g. The total has no floor or ceiling.
func Accumulate(total int, g pose.Grade) int {
	return total + Delta(g)
}
