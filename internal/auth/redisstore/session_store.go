// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package redisstore provides Redis-backed implementations of the auth
// session and reset-token stores. Both lean on Redis key expiry for their
// TTL semantics; nothing here polls or scans.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/emberforum/ember/internal/auth"
)

const sessionKeyPrefix = "sess:"

// Client is the subset of go-redis the stores use. Satisfied by
// *redis.Client; tests substitute a fake built on the redis.New*Result
// helpers.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionStore hands out auth.Session views backed by Redis keys.
type SessionStore struct {
	client Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. ttl <= 0 falls back to
// auth.SessionTTL.
func NewSessionStore(client Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = auth.SessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Session returns the per-request session view for the given opaque id.
func (s *SessionStore) Session(id string) *Session {
	return &Session{store: s, id: id}
}

// Session implements auth.Session on a single Redis key.
type Session struct {
	store *SessionStore
	id    string
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the authenticated user id, or ok=false when the key is
// absent or expired.
func (s *Session) UserID(ctx context.Context) (ulid.ULID, bool, error) {
	val, err := s.store.client.Get(ctx, sessionKeyPrefix+s.id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ulid.ULID{}, false, nil
		}
		return ulid.ULID{}, false, oops.Code("SESSION_READ_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	id, err := ulid.Parse(val)
	if err != nil {
		return ulid.ULID{}, false, oops.Code("SESSION_CORRUPT").
			With("operation", "parse user id").
			With("value", val).
			Wrap(err)
	}
	return id, true, nil
}

// SetUserID writes the user id, creating the backing key on first write and
// starting its TTL.
func (s *Session) SetUserID(ctx context.Context, id ulid.ULID) error {
	err := s.store.client.Set(ctx, sessionKeyPrefix+s.id, id.String(), s.store.ttl).Err()
	if err != nil {
		return oops.Code("SESSION_WRITE_FAILED").
			With("operation", "redis set").
			With("user_id", id.String()).
			Wrap(err)
	}
	return nil
}

// Destroy removes the backing key. Destroying an absent session is not an
// error.
func (s *Session) Destroy(ctx context.Context) error {
	if err := s.store.client.Del(ctx, sessionKeyPrefix+s.id).Err(); err != nil {
		return oops.Code("SESSION_DESTROY_FAILED").
			With("operation", "redis del").
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.Session = (*Session)(nil)
