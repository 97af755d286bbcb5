package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStoreParams configures the in-process store.
type MemoryStoreParams struct {
	// Retention keeps expired entries around so verify can still answer
	// "OTP expired" instead of "OTP not found".
	Retention     time.Duration
	SweepInterval time.Duration
	MaxEntries    int
	Now           func() time.Time
}

// MemoryStore is a bounded map of pending codes swept by a background janitor.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	retention  time.Duration
	maxEntries int
	now        func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore starts the janitor when SweepInterval is positive. Call Close to stop it.
func NewMemoryStore(params MemoryStoreParams) *MemoryStore {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	s := &MemoryStore{
		entries:    make(map[string]Entry),
		retention:  params.Retention,
		maxEntries: params.MaxEntries,
		now:        now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if params.SweepInterval > 0 {
		go s.janitor(params.SweepInterval)
	} else {
		close(s.done)
	}
	return s
}

func (s *MemoryStore) Put(_ context.Context, email string, entry Entry) error {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictLocked()
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[normalizeEmail(email)]
	return entry, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, normalizeEmail(email))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, email, hash string) (bool, error) {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || entry.Hash != hash {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// Len returns the number of entries held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops entries that expired more than Retention ago and returns how many went.
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if entry.ExpiresAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

// evictLocked makes room for one entry: expired entries go first, otherwise
// the entry closest to expiry is dropped.
func (s *MemoryStore) evictLocked() {
	now := s.now()
	removed := false
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed = true
		}
	}
	if removed {
		return
	}

	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range s.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.ExpiresAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
