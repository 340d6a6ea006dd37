package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidPlayerName is returned for empty or overly long player names.
var ErrInvalidPlayerName = errors.New("invalid player name")

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizePlayerName normalizes a name for comparison (lowercase, no diacritics, single spaces).
func NormalizePlayerName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), " ")
}

// NewEntry validates the player name and builds an entry with a fresh ID.
func NewEntry(playerName string, score, bestStreak, rounds int) (*LeaderboardEntry, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlayerName)
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidPlayerName, MaxPlayerNameLength)
	}

	return &LeaderboardEntry{
		ID:             uuid.New().String(),
		PlayerName:     name,
		NormalizedName: NormalizePlayerName(name),
		Score:          score,
		BestStreak:     bestStreak,
		Rounds:         rounds,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// PrepareEntry fills in the generated fields of an entry before it is stored.
func PrepareEntry(entry *LeaderboardEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.NormalizedName = NormalizePlayerName(entry.PlayerName)
}

// NormalizeLimit clamps a requested leaderboard size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return min(limit, 100)
}
