package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/pose-coach/internal/database"
)

var _ database.LeaderboardWriter = (*MockLeaderboard)(nil)

func TestMockLeaderboard_TopOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMockLeaderboard()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, e := range []database.LeaderboardEntry{
		{PlayerName: "late", Score: 100, BestStreak: 3},
		{PlayerName: "early", Score: 100, BestStreak: 3},
		{PlayerName: "streak", Score: 100, BestStreak: 5},
		{PlayerName: "top", Score: 200},
		{PlayerName: "low", Score: -50},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if e.PlayerName == "early" {
			e.CreatedAt = base.Add(-time.Hour)
		}
		if err := m.Save(ctx, &e); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if e.ID == "" {
			t.Error("Save() did not assign an ID")
		}
	}

	top, err := m.Top(ctx, 4)
	if err != nil {
		t.Fatalf("Top() error: %v", err)
	}
	want := []string{"top", "streak", "early", "late"}
	if len(top) != len(want) {
		t.Fatalf("Top() returned %d entries", len(top))
	}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Errorf("Top()[%d] = %q, want %q", i, top[i].PlayerName, name)
		}
	}

	count, _ := m.Count(ctx)
	if count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestMockLeaderboard_BestFor(t *testing.T) {
	ctx := context.Background()
	m := NewMockLeaderboard()
	for _, e := range []database.LeaderboardEntry{
		{PlayerName: "Jiří", Score: 40},
		{PlayerName: "jiri", Score: 90},
		{PlayerName: "Anna", Score: 500},
	} {
		if err := m.Save(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	best, err := m.BestFor(ctx, "  JIŘÍ ")
	if err != nil {
		t.Fatalf("BestFor() error: %v", err)
	}
	if best == nil || best.Score != 90 {
		t.Errorf("BestFor() = %+v, want score 90", best)
	}

	none, err := m.BestFor(ctx, "Bob")
	if err != nil || none != nil {
		t.Errorf("BestFor(Bob) = %+v, %v", none, err)
	}
}

func TestMockLeaderboard_ErrorInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMockLeaderboard()
	wantErr := errors.New("db down")
	m.SaveError = wantErr
	m.TopError = wantErr

	if err := m.Save(ctx, &database.LeaderboardEntry{PlayerName: "x"}); !errors.Is(err, wantErr) {
		t.Errorf("Save() error = %v", err)
	}
	if _, err := m.Top(ctx, 10); !errors.Is(err, wantErr) {
		t.Errorf("Top() error = %v", err)
	}
}
