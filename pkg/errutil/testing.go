// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asOops unwraps err into an oops error, failing the test when it is not
// one.
func asOops(tb testing.TB, err error) oops.OopsError {
	tb.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(tb, ok, "expected oops error, got %T", err)
	return oopsErr
}

// AssertErrorCode asserts that err carries the given oops code.
func AssertErrorCode(tb testing.TB, err error, code string) {
	tb.Helper()
	assert.Equal(tb, code, asOops(tb, err).Code())
}

// RequireErrorCode is AssertErrorCode for tests that cannot meaningfully
// continue past a wrong code.
func RequireErrorCode(tb testing.TB, err error, code string) {
	tb.Helper()
	require.Equal(tb, code, asOops(tb, err).Code())
}

// AssertErrorContext asserts that err carries the context key with the
// given value.
func AssertErrorContext(tb testing.TB, err error, key string, value any) {
	tb.Helper()
	ctx := asOops(tb, err).Context()
	if assert.Contains(tb, ctx, key) {
		assert.Equal(tb, value, ctx[key])
	}
}
