// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

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

const resetKeyPrefix = "forgot-password:"

// TokenStore implements auth.TokenStore on Redis. Keys expire on their own;
// tokens are assumed unique at issuance, so Put overwrites blindly.
type TokenStore struct {
	client Client
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(client Client) *TokenStore {
	return &TokenStore{client: client}
}

// Put stores token -> userID with the given TTL.
func (t *TokenStore) Put(ctx context.Context, token string, userID ulid.ULID, ttl time.Duration) error {
	err := t.client.Set(ctx, resetKeyPrefix+token, userID.String(), ttl).Err()
	if err != nil {
		return oops.Code("RESET_TOKEN_STORE_FAILED").
			With("operation", "redis set").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// Get resolves a token; ok=false when absent or expired.
func (t *TokenStore) Get(ctx context.Context, token string) (ulid.ULID, bool, error) {
	val, err := t.client.Get(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ulid.ULID{}, false, nil
		}
		return ulid.ULID{}, false, oops.Code("RESET_TOKEN_READ_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	id, err := ulid.Parse(val)
	if err != nil {
		return ulid.ULID{}, false, oops.Code("RESET_TOKEN_CORRUPT").
			With("operation", "parse user id").
			With("value", val).
			Wrap(err)
	}
	return id, true, nil
}

// Delete removes a token so it cannot be used again.
func (t *TokenStore) Delete(ctx context.Context, token string) error {
	if err := t.client.Del(ctx, resetKeyPrefix+token).Err(); err != nil {
		return oops.Code("RESET_TOKEN_DELETE_FAILED").
			With("operation", "redis del").
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.TokenStore = (*TokenStore)(nil)
