package otp

import (
	"context"
	"strings"
	"time"
)

// Entry is a pending one-time code. Only the hash of the code is kept.
type Entry struct {
	Hash      string    `json:"hash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the code can no longer be verified at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store keeps at most one pending entry per email. Put replaces any earlier entry.
type Store interface {
	Put(ctx context.Context, email string, entry Entry) error
	Get(ctx context.Context, email string) (Entry, bool, error)
	Delete(ctx context.Context, email string) error
	// Consume removes the entry only while it still holds hash, atomically.
	// Exactly one of several concurrent callers can get true for an entry.
	Consume(ctx context.Context, email, hash string) (bool, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
