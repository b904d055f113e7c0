package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStore_GetSet(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		data []byte
	}{
		{"simple", "key1", []byte(`{"stars":42}`)},
		{"namespaced", Key("stats", "owner", "repo"), []byte(`{"forks":7}`)},
		{"empty value", "key3", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(ctx, tt.key, tt.data, time.Hour); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, ok, err := s.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned miss for existing key")
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("Get() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileStore_Miss(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	_, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned hit for missing key")
	}
}

func TestFileStore_ExpiredEntryRemoved(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := s.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("Get() returned hit for expired key")
	}

	// The stale file must be deleted as a side effect of the miss.
	if _, err := os.Stat(s.path("key")); !os.IsNotExist(err) {
		t.Error("expired entry not removed from disk")
	}
}

func TestFileStore_ZeroTTLNeverExpires(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := s.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_, ok, err := s.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
}

func TestFileStore_CorruptEntryIsMiss(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := s.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := os.WriteFile(s.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupting entry failed: %v", err)
	}

	_, ok, err := s.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("Get() returned hit for corrupt entry")
	}
}

func TestFileStore_Delete(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := s.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "key"); ok {
		t.Error("Get() returned hit after Delete()")
	}

	// Deleting a missing key is not an error.
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileStore_Sweep(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	// A fresh entry and one backdated past the retention window. The old
	// entry has no TTL at all: sweep eviction is independent of TTL state.
	if err := s.Set(ctx, "fresh", []byte("new"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	writeBackdated(t, s, "old", 25*time.Hour)

	removed, err := s.Sweep(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep() removed %d entries, want 1", removed)
	}

	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry removed by sweep")
	}
	if _, err := os.Stat(s.path("old")); !os.IsNotExist(err) {
		t.Error("old entry survived sweep")
	}
}

func TestFileStore_SweepKeepsStaleButRecent(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	// Expired for Get purposes, but stored within the retention window.
	writeExpired(t, s, "stale", time.Hour)

	removed, err := s.Sweep(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Sweep() removed %d entries, want 0", removed)
	}
}

func TestKey(t *testing.T) {
	got := Key("stats", "charmbracelet", "lipgloss")
	want := "repopulse:stats:charmbracelet/lipgloss"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestNullStore(t *testing.T) {
	s := NewNullStore()
	ctx := context.Background()

	if err := s.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "key"); ok {
		t.Error("NullStore returned a hit")
	}
	if n, _ := s.Sweep(ctx, time.Hour); n != 0 {
		t.Error("NullStore sweep removed entries")
	}
}

func TestHash_Deterministic(t *testing.T) {
	if Hash([]byte("key")) != Hash([]byte("key")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different inputs should produce different hashes")
	}
}

// writeBackdated writes an entry whose stored-at timestamp is age in the past.
func writeBackdated(t *testing.T, s *FileStore, key string, age time.Duration) {
	t.Helper()
	entry := fileEntry{Data: []byte("old"), StoredAt: time.Now().Add(-age)}
	writeEntry(t, s, key, entry)
}

// writeExpired writes an entry stored now but already past its TTL.
func writeExpired(t *testing.T, s *FileStore, key string, age time.Duration) {
	t.Helper()
	now := time.Now()
	entry := fileEntry{Data: []byte("stale"), StoredAt: now, ExpiresAt: now.Add(-age)}
	writeEntry(t, s, key, entry)
}

func writeEntry(t *testing.T, s *FileStore, key string, entry fileEntry) {
	t.Helper()
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write entry: %v", err)
	}
}
