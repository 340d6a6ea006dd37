package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/pose-coach/internal/database"
)

// LeaderboardRepository provides PostgreSQL-backed leaderboard storage
type LeaderboardRepository struct {
	pool *Pool
}

// NewLeaderboardRepository creates a new PostgreSQL leaderboard repository
func NewLeaderboardRepository(pool *Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

const leaderboardColumns = `id, player_name, normalized_name, score, best_streak, rounds, created_at`

// Save stores an entry in the database
func (r *LeaderboardRepository) Save(ctx context.Context, entry *database.LeaderboardEntry) error {
	database.PrepareEntry(entry)

	query := `
		INSERT INTO leaderboard (` + leaderboardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.PlayerName,
		entry.NormalizedName,
		entry.Score,
		entry.BestStreak,
		entry.Rounds,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save leaderboard entry: %w", err)
	}
	return nil
}

// Top returns the highest scoring entries
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]database.LeaderboardEntry, error) {
	query := `
		SELECT ` + leaderboardColumns + `
		FROM leaderboard
		ORDER BY score DESC, best_streak DESC, created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, database.NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []database.LeaderboardEntry
	for rows.Next() {
		var e database.LeaderboardEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// BestFor returns the best entry of a player, matched on the normalized name
func (r *LeaderboardRepository) BestFor(ctx context.Context, playerName string) (*database.LeaderboardEntry, error) {
	query := `
		SELECT ` + leaderboardColumns + `
		FROM leaderboard
		WHERE normalized_name = $1
		ORDER BY score DESC, best_streak DESC, created_at ASC
		LIMIT 1
	`
	var e database.LeaderboardEntry
	err := scanEntry(r.pool.QueryRow(ctx, query, database.NormalizePlayerName(playerName)), &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of saved entries
func (r *LeaderboardRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leaderboard").Scan(&count); err != nil {
		return 0, fmt.Errorf("count leaderboard: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner, e *database.LeaderboardEntry) error {
	err := row.Scan(
		&e.ID,
		&e.PlayerName,
		&e.NormalizedName,
		&e.Score,
		&e.BestStreak,
		&e.Rounds,
		&e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("scan leaderboard entry: %w", err)
	}
	return nil
}
