// Package history archives statistics snapshots over time.
//
// Every fresh (non-cached) stats load can be recorded as a snapshot, giving
// server deployments a trail of star/fork counts for trend views. Two
// backends are provided: MongoDB for deployments and an in-memory store for
// tests and single runs.
package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/repopulse/repopulse/pkg/stats"
)

// Snapshot is one archived statistics observation.
type Snapshot struct {
	ID        string          `bson:"_id" json:"id"`
	Owner     string          `bson:"owner" json:"owner"`
	Repo      string          `bson:"repo" json:"repo"`
	Stats     stats.RepoStats `bson:"stats" json:"stats"`
	Downloads int64           `bson:"downloads" json:"downloads"`
	TakenAt   time.Time       `bson:"taken_at" json:"taken_at"`
}

// NewSnapshot builds a snapshot with a fresh ID and timestamp.
func NewSnapshot(owner, repo string, s stats.RepoStats, downloads int64) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Owner:     owner,
		Repo:      repo,
		Stats:     s,
		Downloads: downloads,
		TakenAt:   time.Now().UTC(),
	}
}

// Store persists snapshots.
type Store interface {
	// Record archives a snapshot.
	Record(ctx context.Context, snap Snapshot) error

	// Recent returns up to limit snapshots for owner/repo, newest first.
	Recent(ctx context.Context, owner, repo string, limit int) ([]Snapshot, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps snapshots in memory. Used in tests and when no archive
// backend is configured.
type MemoryStore struct {
	mu    sync.Mutex
	snaps []Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record archives a snapshot.
func (s *MemoryStore) Record(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return nil
}

// Recent returns up to limit snapshots for owner/repo, newest first.
func (s *MemoryStore) Recent(ctx context.Context, owner, repo string, limit int) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Snapshot
	for _, snap := range s.snaps {
		if snap.Owner == owner && snap.Repo == repo {
			matched = append(matched, snap)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TakenAt.After(matched[j].TakenAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
