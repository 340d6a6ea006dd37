package database

import (
	"time"
)

// LeaderboardEntry is one saved session result.
type LeaderboardEntry struct {
	ID             string    `json:"id"`
	PlayerName     string    `json:"username"`
	NormalizedName string    `json:"-"` // lowercase, no diacritics; used for lookups
	Score          int       `json:"score"`
	BestStreak     int       `json:"streak"`
	Rounds         int       `json:"rounds"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultLeaderboardLimit is used when Top is asked for a non-positive limit.
const DefaultLeaderboardLimit = 10

// MaxPlayerNameLength bounds player names, in runes.
const MaxPlayerNameLength = 64
