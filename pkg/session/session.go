// Package session provides storage for treemap viewer sessions.
//
// A session records what one viewer is looking at: the tree (by content
// hash), the viewport and the zoom address. It holds no live layout state,
// so sessions can be persisted and a view rebuilt from them at any time.
//
// Implementations:
//   - MemoryStore: in-process map, the default for `sizemap serve`
//   - FileStore: JSON files in a directory, survives server restarts
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(treeHash, 1280, 720, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session is the persisted state of one viewer.
type Session struct {
	ID        string    `json:"id"`
	TreeHash  string    `json:"tree_hash"`
	Address   string    `json:"address"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session lifetime by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// Default durations.
const (
	// DefaultTTL is the idle lifetime of a viewer session.
	DefaultTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = 5 * time.Minute
)

// New creates a session for the tree with the given hash.
func New(treeHash string, width, height float64, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		TreeHash:  treeHash,
		Width:     width,
		Height:    height,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// ValidID reports whether id has the form produced by [New].
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// StartCleanup sweeps expired sessions from store every interval until ctx
// is done.
func StartCleanup(ctx context.Context, store Store, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.Cleanup(ctx)
				if err != nil {
					logger.Warn("session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
}
