package database

import (
	"context"
)

// LeaderboardReader provides read access to saved session results.
type LeaderboardReader interface {
	// Top returns up to limit entries ordered by score, then best streak, then age.
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// BestFor returns the highest scoring entry for a player, or nil if none.
	BestFor(ctx context.Context, playerName string) (*LeaderboardEntry, error)
	// Count returns the number of saved entries.
	Count(ctx context.Context) (int, error)
}

// LeaderboardWriter provides write access to saved session results.
type LeaderboardWriter interface {
	LeaderboardReader
	// Save stores the entry. ID and CreatedAt are filled in when empty.
	Save(ctx context.Context, entry *LeaderboardEntry) error
}
