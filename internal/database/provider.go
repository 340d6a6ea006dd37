package database

import (
	"context"
	"fmt"
)

var (
	postgresLeaderboard func() LeaderboardWriter
	postgresInitialized bool
)

// RegisterPostgresBackend registers the PostgreSQL leaderboard constructor.
// This is called by the serve command to avoid import cycles.
func RegisterPostgresBackend(leaderboard func() LeaderboardWriter) {
	postgresLeaderboard = leaderboard
	postgresInitialized = true
}

// IsInitialized returns whether the PostgreSQL backend has been initialized.
func IsInitialized() bool {
	return postgresInitialized
}

// GetLeaderboard returns a LeaderboardWriter from the PostgreSQL backend
func GetLeaderboard(ctx context.Context) (LeaderboardWriter, error) {
	if !postgresInitialized {
		return nil, fmt.Errorf("PostgreSQL backend not initialized: DATABASE_URL is required")
	}
	if postgresLeaderboard == nil {
		return nil, fmt.Errorf("PostgreSQL leaderboard not registered")
	}
	return postgresLeaderboard(), nil
}
