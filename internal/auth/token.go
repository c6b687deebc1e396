// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Reset token configuration.
const (
	ResetTokenBytes = 32                  // 32 bytes = 64 hex chars
	ResetTokenTTL   = 3 * 24 * time.Hour // fixed at issuance
)

// GenerateResetToken creates a cryptographically random opaque token.
// Tokens are assumed unique at issuance; the store does not check for
// collisions.
func GenerateResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("RESET_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// TokenStore is a TTL-backed token -> user id mapping. Expiry is enforced by
// the store itself; the core never polls or scans it.
type TokenStore interface {
	// Put stores token -> userID for the given TTL, overwriting any
	// existing entry for the token.
	Put(ctx context.Context, token string, userID ulid.ULID, ttl time.Duration) error

	// Get resolves a token; ok=false when absent or expired.
	Get(ctx context.Context, token string) (userID ulid.ULID, ok bool, err error)

	// Delete removes a token so it cannot be used again.
	Delete(ctx context.Context, token string) error
}
