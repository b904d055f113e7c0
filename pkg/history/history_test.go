package history

import (
	"context"
	"testing"
	"time"

	"github.com/repopulse/repopulse/pkg/stats"
)

func TestMemoryStore_RecordAndRecent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := NewSnapshot("o", "r", stats.RepoStats{Stars: 10}, 100)
	older.TakenAt = time.Now().Add(-time.Hour)
	newer := NewSnapshot("o", "r", stats.RepoStats{Stars: 20}, 200)
	other := NewSnapshot("o", "other", stats.RepoStats{Stars: 5}, 50)

	for _, snap := range []Snapshot{older, newer, other} {
		if err := s.Record(ctx, snap); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	snaps, err := s.Recent(ctx, "o", "r", 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps[0].Stats.Stars != 20 {
		t.Errorf("got first snapshot stars %d, want newest first", snaps[0].Stats.Stars)
	}
}

func TestMemoryStore_RecentLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		snap := NewSnapshot("o", "r", stats.RepoStats{Stars: i}, 0)
		if err := s.Record(ctx, snap); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	snaps, err := s.Recent(ctx, "o", "r", 3)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Errorf("got %d snapshots, want 3", len(snaps))
	}
}

func TestNewSnapshot(t *testing.T) {
	a := NewSnapshot("o", "r", stats.RepoStats{}, 0)
	b := NewSnapshot("o", "r", stats.RepoStats{}, 0)
	if a.ID == "" || a.ID == b.ID {
		t.Error("snapshots should get unique non-empty IDs")
	}
	if a.TakenAt.IsZero() {
		t.Error("snapshot should carry a timestamp")
	}
}
