// Package mock provides in-memory implementations of database interfaces. The
// serve command uses them when no database is configured, and handler tests use
// them to inject errors.
package mock

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/kozaktomas/pose-coach/internal/database"
)

// MockLeaderboard is an in-memory implementation of database.LeaderboardWriter
type MockLeaderboard struct {
	mu      sync.RWMutex
	entries []database.LeaderboardEntry

	// Error injection
	SaveError  error
	TopError   error
	BestError  error
	CountError error
}

// NewMockLeaderboard creates a new empty leaderboard
func NewMockLeaderboard() *MockLeaderboard {
	return &MockLeaderboard{}
}

// Save stores a copy of the entry
func (m *MockLeaderboard) Save(ctx context.Context, entry *database.LeaderboardEntry) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	database.PrepareEntry(entry)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

// Top returns the highest scoring entries
func (m *MockLeaderboard) Top(ctx context.Context, limit int) ([]database.LeaderboardEntry, error) {
	if m.TopError != nil {
		return nil, m.TopError
	}
	m.mu.RLock()
	sorted := slices.Clone(m.entries)
	m.mu.RUnlock()

	slices.SortStableFunc(sorted, compareEntries)
	limit = database.NormalizeLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// BestFor returns the best entry of a player, matched on the normalized name
func (m *MockLeaderboard) BestFor(ctx context.Context, playerName string) (*database.LeaderboardEntry, error) {
	if m.BestError != nil {
		return nil, m.BestError
	}
	normalized := database.NormalizePlayerName(playerName)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *database.LeaderboardEntry
	for i := range m.entries {
		e := m.entries[i]
		if e.NormalizedName != normalized {
			continue
		}
		if best == nil || compareEntries(e, *best) < 0 {
			best = &e
		}
	}
	return best, nil
}

// Count returns the number of stored entries
func (m *MockLeaderboard) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// compareEntries orders by score, then best streak (both descending), then age.
func compareEntries(a, b database.LeaderboardEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.BestStreak, a.BestStreak); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
