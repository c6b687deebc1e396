// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforum/ember/internal/auth"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces PHC-format digest", func(t *testing.T) {
		hash, err := hasher.Hash("secret123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		hash, err := hasher.Hash("")
		require.ErrorIs(t, err, auth.ErrEmptyPassword)
		assert.Empty(t, hash)
	})

	t.Run("same password hashes to different digests", func(t *testing.T) {
		first, err := hasher.Hash("secret123")
		require.NoError(t, err)
		second, err := hasher.Hash("secret123")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, hasher.Verify("secret123", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, hasher.Verify("wrongpassword", hash))
	})

	t.Run("empty password fails", func(t *testing.T) {
		assert.False(t, hasher.Verify("", hash))
	})

	t.Run("malformed digests verify as false", func(t *testing.T) {
		malformed := []string{
			"",
			"not a hash",
			"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",   // wrong variant
			"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",  // wrong version
			"$argon2id$v=19$m=65536,t=1,p=300$c2FsdA$aGFzaA", // parallelism overflow
			"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",     // bad salt encoding
			"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",        // empty key
		}
		for _, digest := range malformed {
			assert.False(t, hasher.Verify("secret123", digest), "digest %q", digest)
		}
	})

	t.Run("tampered digest fails", func(t *testing.T) {
		tampered := hash[:len(hash)-2] + "xx"
		assert.False(t, hasher.Verify("secret123", tampered))
	})
}
