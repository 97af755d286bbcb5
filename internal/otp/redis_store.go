package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/plantnet-backend/pkg/redis"
)

type keyValue interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)
	OTPKey(email string) string
}

// RedisStore keeps entries as JSON values that expire Retention after the code does.
type RedisStore struct {
	kv        keyValue
	retention time.Duration
	now       func() time.Time
}

func NewRedisStore(kv keyValue, retention time.Duration, now func() time.Time) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{kv: kv, retention: retention, now: now}
}

func (s *RedisStore) Put(ctx context.Context, email string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode otp entry: %w", err)
	}
	ttl := entry.ExpiresAt.Sub(s.now()) + s.retention
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.kv.Set(ctx, s.kv.OTPKey(normalizeEmail(email)), payload, ttl)
}

func (s *RedisStore) Get(ctx context.Context, email string) (Entry, bool, error) {
	entry, _, ok, err := s.load(ctx, s.kv.OTPKey(normalizeEmail(email)))
	return entry, ok, err
}

// Consume deletes the stored payload only if it is byte-for-byte the one
// that carried hash, so a code re-sent in between survives.
func (s *RedisStore) Consume(ctx context.Context, email, hash string) (bool, error) {
	key := s.kv.OTPKey(normalizeEmail(email))
	entry, raw, ok, err := s.load(ctx, key)
	if err != nil || !ok || entry.Hash != hash {
		return false, err
	}
	return s.kv.CompareAndDelete(ctx, key, raw)
}

func (s *RedisStore) load(ctx context.Context, key string) (Entry, string, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, redis.ErrNil) {
		return Entry{}, "", false, nil
	}
	if err != nil {
		return Entry{}, "", false, err
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, "", false, fmt.Errorf("decode otp entry: %w", err)
	}
	return entry, raw, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.kv.Del(ctx, s.kv.OTPKey(normalizeEmail(email)))
}
