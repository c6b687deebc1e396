// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/emberforum/ember/pkg/errutil"
)

// Service provides the authentication operations: register, login, logout,
// me, forgotPassword, and changePassword. Collaborators are injected; there
// is no ambient request state.
type Service struct {
	users   UserRepository
	tokens  TokenStore
	hasher  PasswordHasher
	mailer  Notifier
	baseURL string
	logger  *slog.Logger
}

// NewService creates a new Service. baseURL is the public origin used to
// build reset links, without a trailing slash.
func NewService(users UserRepository, tokens TokenStore, hasher PasswordHasher, mailer Notifier, baseURL string) (*Service, error) {
	switch {
	case users == nil:
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("user repository is required")
	case tokens == nil:
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("token store is required")
	case hasher == nil:
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	case mailer == nil:
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("notifier is required")
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  slog.Default(),
	}, nil
}

// NewServiceWithLogger creates a new Service with a custom logger.
func NewServiceWithLogger(users UserRepository, tokens TokenStore, hasher PasswordHasher, mailer Notifier, baseURL string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("logger is required")
	}
	svc, err := NewService(users, tokens, hasher, mailer, baseURL)
	if err != nil {
		return nil, err
	}
	svc.logger = logger
	return svc, nil
}

// Me resolves the session to its user. An anonymous session, and a session
// whose user id no longer resolves to a record, both return (nil, nil):
// a dangling session degrades silently to anonymous.
func (s *Service) Me(ctx context.Context, sess Session) (*User, error) {
	id, ok, err := sess.UserID(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_ME_FAILED").
			With("operation", "read session").
			Wrap(err)
	}
	if !ok {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("AUTH_ME_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	return user, nil
}

// Register creates a new account. Validation and duplicate-account failures
// come back as field errors inside the Result; any other persistence failure
// is fatal and never establishes a session.
func (s *Service) Register(ctx context.Context, input RegisterInput, sess Session) (*Result, error) {
	if fieldErrs := ValidateRegister(input); fieldErrs != nil {
		return &Result{Errors: fieldErrs}, nil
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(input.Username, input.Email, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "construct user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return fieldErr(dup.Field, dup.Field+" already taken"), nil
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "persist user").
			With("username", input.Username).
			Wrap(err)
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "set session user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)
	return &Result{User: user}, nil
}

// Login verifies credentials and binds the session to the user. Input
// containing '@' is treated as an email, anything else as a username; the
// existence check always precedes password verification.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string, sess Session) (*Result, error) {
	var user *User
	var err error
	if strings.Contains(usernameOrEmail, "@") {
		user, err = s.users.GetByEmail(ctx, usernameOrEmail)
	} else {
		user, err = s.users.GetByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fieldErr("usernameOrEmail", fmt.Sprintf("%q does not exist", usernameOrEmail)), nil
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user").
			Wrap(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return fieldErr("password", "incorrect password"), nil
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "set session user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	return &Result{User: user}, nil
}

// Logout destroys the session and reports whether the destroy succeeded.
// The client-visible cookie is cleared by the transport regardless of this
// return value.
func (s *Service) Logout(ctx context.Context, sess Session) bool {
	if err := sess.Destroy(ctx); err != nil {
		errutil.LogError(s.logger, "session destroy failed", err)
		return false
	}
	return true
}

// ForgotPassword issues a reset token and emails a reset link. It returns
// true for unknown addresses too, so callers cannot probe which emails have
// accounts. Notifier failures are logged, not surfaced.
func (s *Service) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return true, nil
		}
		return false, oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := GenerateResetToken()
	if err != nil {
		return false, oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "generate reset token").
			Wrap(err)
	}

	if err := s.tokens.Put(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return false, oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "store reset token").
			Wrap(err)
	}

	link := s.baseURL + "/change-password/" + token
	body := fmt.Sprintf(`<a href="%s">reset password</a>`, link)
	if err := s.mailer.Send(ctx, email, "Reset your Ember password", body); err != nil {
		errutil.LogError(s.logger, "reset email send failed", err)
	}

	return true, nil
}

// ChangePassword consumes a reset token and sets a new password. The token
// is single use: it is deleted before the call returns successfully. On
// success the user is logged in on the given session.
func (s *Service) ChangePassword(ctx context.Context, token, newPassword string, sess Session) (*Result, error) {
	if len(newPassword) < MinPasswordLength {
		return fieldErr("newPassword", "length must be at least 3"), nil
	}

	userID, ok, err := s.tokens.Get(ctx, token)
	if err != nil {
		return nil, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "resolve reset token").
			Wrap(err)
	}
	if !ok {
		return fieldErr("token", "token expired"), nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fieldErr("token", "user no longer exists"), nil
		}
		return nil, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	user.PasswordHash = hash

	// Fail closed: a token that cannot be deleted could authorize a second
	// password change, so the failure is surfaced rather than swallowed.
	if err := s.tokens.Delete(ctx, token); err != nil {
		return nil, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "consume reset token").
			Wrap(err)
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "set session user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	return &Result{User: user}, nil
}
