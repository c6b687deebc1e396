// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emberforum/ember/internal/auth"
	"github.com/emberforum/ember/internal/auth/mocks"
	"github.com/emberforum/ember/pkg/errutil"
)

const testBaseURL = "http://forum.test"

type serviceMocks struct {
	users  *mocks.MockUserRepository
	tokens *mocks.MockTokenStore
	hasher *mocks.MockPasswordHasher
	mailer *mocks.MockNotifier
	sess   *mocks.MockSession
}

func newService(t *testing.T) (*auth.Service, serviceMocks) {
	t.Helper()
	m := serviceMocks{
		users:  mocks.NewMockUserRepository(t),
		tokens: mocks.NewMockTokenStore(t),
		hasher: mocks.NewMockPasswordHasher(t),
		mailer: mocks.NewMockNotifier(t),
		sess:   mocks.NewMockSession(t),
	}
	svc, err := auth.NewService(m.users, m.tokens, m.hasher, m.mailer, testBaseURL)
	require.NoError(t, err)
	return svc, m
}

func testUser(t *testing.T) *auth.User {
	t.Helper()
	user, err := auth.NewUser("alice", "alice@example.com", "$argon2id$v=19$m=65536,t=1,p=4$salt$hash")
	require.NoError(t, err)
	return user
}

func TestNewService_NilDependencies(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	tokens := mocks.NewMockTokenStore(t)
	hasher := mocks.NewMockPasswordHasher(t)
	mailer := mocks.NewMockNotifier(t)

	tests := []struct {
		name        string
		users       auth.UserRepository
		tokens      auth.TokenStore
		hasher      auth.PasswordHasher
		mailer      auth.Notifier
		expectError string
	}{
		{"nil user repository", nil, tokens, hasher, mailer, "user repository is required"},
		{"nil token store", users, nil, hasher, mailer, "token store is required"},
		{"nil password hasher", users, tokens, nil, mailer, "password hasher is required"},
		{"nil notifier", users, tokens, hasher, nil, "notifier is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.tokens, tt.hasher, tt.mailer, testBaseURL)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestNewServiceWithLogger_NilLogger(t *testing.T) {
	svc, err := auth.NewServiceWithLogger(
		mocks.NewMockUserRepository(t),
		mocks.NewMockTokenStore(t),
		mocks.NewMockPasswordHasher(t),
		mocks.NewMockNotifier(t),
		testBaseURL,
		nil,
	)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "logger")
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration creates session", func(t *testing.T) {
		svc, m := newService(t)

		m.hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		m.users.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		m.sess.On("SetUserID", ctx, mock.AnythingOfType("ulid.ULID")).Return(nil)

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.NoError(t, err)
		require.True(t, result.Ok())
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, "$argon2id$hashed", result.User.PasswordHash)
		assert.NotZero(t, result.User.ID)
	})

	t.Run("validation failure reports one field and touches nothing", func(t *testing.T) {
		svc, m := newService(t)

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "al",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.NoError(t, err)
		require.False(t, result.Ok())
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "username", result.Errors[0].Field)
		assert.Equal(t, "length must be at least 3", result.Errors[0].Message)
	})

	t.Run("duplicate email reports the email field", func(t *testing.T) {
		svc, m := newService(t)

		m.hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		m.users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(&auth.DuplicateError{Field: "email"})

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "email", result.Errors[0].Field)
		assert.Equal(t, "email already taken", result.Errors[0].Message)
	})

	t.Run("duplicate username reports the username field", func(t *testing.T) {
		svc, m := newService(t)

		m.hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		m.users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(&auth.DuplicateError{Field: "username"})

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "username", result.Errors[0].Field)
	})

	t.Run("persistence failure is fatal, not a field error", func(t *testing.T) {
		svc, m := newService(t)

		m.hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		m.users.On("Create", ctx, mock.AnythingOfType("*auth.User")).
			Return(errors.New("connection reset"))

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.Error(t, err)
		assert.Nil(t, result)
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
	})

	t.Run("session write failure is fatal", func(t *testing.T) {
		svc, m := newService(t)

		m.hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		m.users.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		m.sess.On("SetUserID", ctx, mock.AnythingOfType("ulid.ULID")).
			Return(errors.New("redis down"))

		result, err := svc.Register(ctx, auth.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}, m.sess)
		require.Error(t, err)
		assert.Nil(t, result)
		errutil.AssertErrorCode(t, err, "AUTH_SESSION_CREATE_FAILED")
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("login by username creates session", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.users.On("GetByUsername", ctx, "alice").Return(user, nil)
		m.hasher.On("Verify", "secret123", user.PasswordHash).Return(true)
		m.sess.On("SetUserID", ctx, user.ID).Return(nil)

		result, err := svc.Login(ctx, "alice", "secret123", m.sess)
		require.NoError(t, err)
		require.True(t, result.Ok())
		assert.Equal(t, user.ID, result.User.ID)
	})

	t.Run("input containing @ is looked up as email", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.users.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		m.hasher.On("Verify", "secret123", user.PasswordHash).Return(true)
		m.sess.On("SetUserID", ctx, user.ID).Return(nil)

		result, err := svc.Login(ctx, "alice@example.com", "secret123", m.sess)
		require.NoError(t, err)
		require.True(t, result.Ok())
	})

	t.Run("unknown user reports the identifier field", func(t *testing.T) {
		svc, m := newService(t)

		m.users.On("GetByUsername", ctx, "ghost").Return(nil, auth.ErrNotFound)

		result, err := svc.Login(ctx, "ghost", "secret123", m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "usernameOrEmail", result.Errors[0].Field)
		assert.Equal(t, `"ghost" does not exist`, result.Errors[0].Message)
	})

	t.Run("wrong password reports the password field", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.users.On("GetByUsername", ctx, "alice").Return(user, nil)
		m.hasher.On("Verify", "wrong", user.PasswordHash).Return(false)

		result, err := svc.Login(ctx, "alice", "wrong", m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "password", result.Errors[0].Field)
		assert.Equal(t, "incorrect password", result.Errors[0].Message)
	})

	t.Run("repository failure is fatal", func(t *testing.T) {
		svc, m := newService(t)

		m.users.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection reset"))

		result, err := svc.Login(ctx, "alice", "secret123", m.sess)
		require.Error(t, err)
		assert.Nil(t, result)
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous session resolves to nil", func(t *testing.T) {
		svc, m := newService(t)

		m.sess.On("UserID", ctx).Return(ulid.ULID{}, false, nil)

		user, err := svc.Me(ctx, m.sess)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("dangling session degrades to anonymous", func(t *testing.T) {
		svc, m := newService(t)
		id := ulid.Make()

		m.sess.On("UserID", ctx).Return(id, true, nil)
		m.users.On("GetByID", ctx, id).Return(nil, auth.ErrNotFound)

		user, err := svc.Me(ctx, m.sess)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("authenticated session resolves to its user", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.sess.On("UserID", ctx).Return(user.ID, true, nil)
		m.users.On("GetByID", ctx, user.ID).Return(user, nil)

		got, err := svc.Me(ctx, m.sess)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("repeated calls on an unchanged session agree", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.sess.On("UserID", ctx).Return(user.ID, true, nil).Twice()
		m.users.On("GetByID", ctx, user.ID).Return(user, nil).Twice()

		first, err := svc.Me(ctx, m.sess)
		require.NoError(t, err)
		second, err := svc.Me(ctx, m.sess)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("repository failure is surfaced", func(t *testing.T) {
		svc, m := newService(t)
		id := ulid.Make()

		m.sess.On("UserID", ctx).Return(id, true, nil)
		m.users.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))

		user, err := svc.Me(ctx, m.sess)
		require.Error(t, err)
		assert.Nil(t, user)
		errutil.AssertErrorCode(t, err, "AUTH_ME_FAILED")
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("successful destroy returns true", func(t *testing.T) {
		svc, m := newService(t)

		m.sess.On("Destroy", ctx).Return(nil)

		assert.True(t, svc.Logout(ctx, m.sess))
	})

	t.Run("failed destroy returns false", func(t *testing.T) {
		svc, m := newService(t)

		m.sess.On("Destroy", ctx).Return(errors.New("redis down"))

		assert.False(t, svc.Logout(ctx, m.sess))
	})
}

func TestService_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email returns ok without issuing a token", func(t *testing.T) {
		svc, m := newService(t)

		m.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, auth.ErrNotFound)

		ok, err := svc.ForgotPassword(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
		m.tokens.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email stores a three-day token and mails the link", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		var issued string
		m.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		m.tokens.On("Put", ctx, mock.AnythingOfType("string"), user.ID, 3*24*time.Hour).
			Run(func(args mock.Arguments) { issued = args.String(1) }).
			Return(nil)
		m.mailer.On("Send", ctx, user.Email, "Reset your Ember password", mock.AnythingOfType("string")).
			Return(nil)

		ok, err := svc.ForgotPassword(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, issued, 64) // 32 bytes hex-encoded

		sendCall := m.mailer.Calls[len(m.mailer.Calls)-1]
		body := sendCall.Arguments.String(3)
		assert.Contains(t, body, testBaseURL+"/change-password/"+issued)
	})

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		m.tokens.On("Put", ctx, mock.AnythingOfType("string"), user.ID, 3*24*time.Hour).Return(nil)
		m.mailer.On("Send", ctx, user.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(errors.New("smtp unreachable"))

		ok, err := svc.ForgotPassword(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("token store failure is fatal", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		m.tokens.On("Put", ctx, mock.AnythingOfType("string"), user.ID, 3*24*time.Hour).
			Return(errors.New("redis down"))

		ok, err := svc.ForgotPassword(ctx, user.Email)
		require.Error(t, err)
		assert.False(t, ok)
		errutil.AssertErrorCode(t, err, "AUTH_FORGOT_PASSWORD_FAILED")
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("short password reports the newPassword field", func(t *testing.T) {
		svc, m := newService(t)

		result, err := svc.ChangePassword(ctx, "sometoken", "ab", m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "newPassword", result.Errors[0].Field)
	})

	t.Run("absent token reports token expired", func(t *testing.T) {
		svc, m := newService(t)

		m.tokens.On("Get", ctx, "expired").Return(ulid.ULID{}, false, nil)

		result, err := svc.ChangePassword(ctx, "expired", "newsecret", m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "token", result.Errors[0].Field)
		assert.Equal(t, "token expired", result.Errors[0].Message)
		m.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("token for a deleted user reports a token error", func(t *testing.T) {
		svc, m := newService(t)
		id := ulid.Make()

		m.tokens.On("Get", ctx, "sometoken").Return(id, true, nil)
		m.users.On("GetByID", ctx, id).Return(nil, auth.ErrNotFound)

		result, err := svc.ChangePassword(ctx, "sometoken", "newsecret", m.sess)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "token", result.Errors[0].Field)
	})

	t.Run("success updates hash, consumes token, and logs in", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.tokens.On("Get", ctx, "sometoken").Return(user.ID, true, nil)
		m.users.On("GetByID", ctx, user.ID).Return(user, nil)
		m.hasher.On("Hash", "newsecret").Return("$argon2id$newhash", nil)
		m.users.On("UpdatePassword", ctx, user.ID, "$argon2id$newhash").Return(nil)
		m.tokens.On("Delete", ctx, "sometoken").Return(nil)
		m.sess.On("SetUserID", ctx, user.ID).Return(nil)

		result, err := svc.ChangePassword(ctx, "sometoken", "newsecret", m.sess)
		require.NoError(t, err)
		require.True(t, result.Ok())
		assert.Equal(t, "$argon2id$newhash", result.User.PasswordHash)
	})

	t.Run("undeletable token is fatal", func(t *testing.T) {
		svc, m := newService(t)
		user := testUser(t)

		m.tokens.On("Get", ctx, "sometoken").Return(user.ID, true, nil)
		m.users.On("GetByID", ctx, user.ID).Return(user, nil)
		m.hasher.On("Hash", "newsecret").Return("$argon2id$newhash", nil)
		m.users.On("UpdatePassword", ctx, user.ID, "$argon2id$newhash").Return(nil)
		m.tokens.On("Delete", ctx, "sometoken").Return(errors.New("redis down"))

		result, err := svc.ChangePassword(ctx, "sometoken", "newsecret", m.sess)
		require.Error(t, err)
		assert.Nil(t, result)
		errutil.AssertErrorCode(t, err, "AUTH_CHANGE_PASSWORD_FAILED")
	})
}
