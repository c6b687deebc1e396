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

// Session configuration.
const (
	SessionIDBytes = 32                  // 32 bytes = 64 hex chars
	SessionTTL     = 7 * 24 * time.Hour // rolling expiry enforced by the store
)

// Session is the per-request view of one client's server-side session. The
// transport boundary binds it to a signed cookie; the core only reads and
// writes the authenticated user id through it.
//
// A session is created lazily: nothing is stored until the first SetUserID.
type Session interface {
	// UserID returns the authenticated user id, or ok=false for an
	// anonymous session.
	UserID(ctx context.Context) (id ulid.ULID, ok bool, err error)

	// SetUserID marks the session authenticated as the given user,
	// creating the backing record on first write. Idempotent; overwrites.
	SetUserID(ctx context.Context, id ulid.ULID) error

	// Destroy removes the backing record. The client-visible cookie is the
	// transport's responsibility and must be cleared regardless of the
	// outcome here.
	Destroy(ctx context.Context) error
}

// NewSessionID generates an opaque random session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_ID_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}
