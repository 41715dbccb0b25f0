package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestNew(t *testing.T) {
	sess := New("abc", 800, 600, time.Hour)
	if !ValidID(sess.ID) {
		t.Errorf("ID %q is not a uuid", sess.ID)
	}
	if sess.TreeHash != "abc" || sess.Width != 800 || sess.Height != 600 {
		t.Errorf("session = %+v", sess)
	}
	if sess.IsExpired() {
		t.Error("new session should not be expired")
	}
	if New("abc", 0, 0, time.Hour).ID == sess.ID {
		t.Error("session ids should be unique")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"", false},
		{"../etc/passwd", false},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sess := New("hash", 150, 100, time.Hour)
			sess.Address = "#root#A"
			if err := store.Set(ctx, sess); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err := store.Get(ctx, sess.ID)
			if err != nil || got == nil {
				t.Fatalf("Get = %v, %v", got, err)
			}
			if got.Address != "#root#A" || got.TreeHash != "hash" || got.Width != 150 {
				t.Errorf("got %+v", got)
			}

			// Mutating the returned copy must not change the store.
			got.Address = ""
			again, _ := store.Get(ctx, sess.ID)
			if again.Address != "#root#A" {
				t.Error("store returned a shared session")
			}

			if err := store.Delete(ctx, sess.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if got, _ := store.Get(ctx, sess.ID); got != nil {
				t.Error("deleted session still present")
			}
		})
	}
}

func TestStoreMissing(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
			if err != nil || got != nil {
				t.Errorf("Get missing = %v, %v", got, err)
			}
			if err := store.Delete(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
				t.Errorf("Delete missing: %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			live := New("h", 1, 1, time.Hour)
			dead := New("h", 1, 1, -time.Minute)
			store.Set(ctx, live)
			store.Set(ctx, dead)

			n, err := store.Cleanup(ctx)
			if err != nil {
				t.Fatalf("Cleanup: %v", err)
			}
			if n != 1 {
				t.Errorf("removed = %d, want 1", n)
			}
			if got, _ := store.Get(ctx, live.ID); got == nil {
				t.Error("live session removed")
			}
			if got, _ := store.Get(ctx, dead.ID); got != nil {
				t.Error("expired session returned")
			}
		})
	}
}

func TestMemoryStoreGetDropsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Set(ctx, New("h", 1, 1, -time.Second))
	if store.Len() != 1 {
		t.Fatalf("Len = %d", store.Len())
	}
	for id := range store.sessions {
		store.Get(ctx, id)
	}
	if store.Len() != 0 {
		t.Errorf("expired session kept after Get, Len = %d", store.Len())
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), &Session{ID: "../escape"}); err == nil {
		t.Error("Set should reject non-uuid ids")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); !os.IsNotExist(err) {
		t.Error("file written outside the store directory")
	}
	if store.Path() != dir {
		t.Errorf("Path = %q, want %q", store.Path(), dir)
	}
}

func TestTouch(t *testing.T) {
	sess := New("h", 1, 1, -time.Minute)
	if !sess.IsExpired() {
		t.Fatal("session should start expired")
	}
	sess.Touch(time.Hour)
	if sess.IsExpired() {
		t.Error("Touch should extend the session")
	}
}

func TestStartCleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore()
	store.Set(ctx, New("h", 1, 1, -time.Second))
	StartCleanup(ctx, store, time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if store.Len() != 0 {
		t.Error("cleanup routine did not sweep expired session")
	}
}
