// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package mocks contains testify mocks for the auth package interfaces.
// Kept by hand; regenerate-by-hand when an interface changes.
package mocks

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/emberforum/ember/internal/auth"
)

// testingT is the subset of *testing.T the constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserRepository mocks auth.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository that asserts its
// expectations at test cleanup.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *auth.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	ret := m.Called(ctx, id)
	var user *auth.User
	if v := ret.Get(0); v != nil {
		user = v.(*auth.User)
	}
	return user, ret.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	ret := m.Called(ctx, username)
	var user *auth.User
	if v := ret.Get(0); v != nil {
		user = v.(*auth.User)
	}
	return user, ret.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	ret := m.Called(ctx, email)
	var user *auth.User
	if v := ret.Get(0); v != nil {
		user = v.(*auth.User)
	}
	return user, ret.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	ret := m.Called(ctx, id, passwordHash)
	return ret.Error(0)
}

var _ auth.UserRepository = (*MockUserRepository)(nil)

// MockTokenStore mocks auth.TokenStore.
type MockTokenStore struct {
	mock.Mock
}

// NewMockTokenStore creates a MockTokenStore that asserts its expectations
// at test cleanup.
func NewMockTokenStore(t testingT) *MockTokenStore {
	m := &MockTokenStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenStore) Put(ctx context.Context, token string, userID ulid.ULID, ttl time.Duration) error {
	ret := m.Called(ctx, token, userID, ttl)
	return ret.Error(0)
}

func (m *MockTokenStore) Get(ctx context.Context, token string) (ulid.ULID, bool, error) {
	ret := m.Called(ctx, token)
	var id ulid.ULID
	if v := ret.Get(0); v != nil {
		id = v.(ulid.ULID)
	}
	return id, ret.Bool(1), ret.Error(2)
}

func (m *MockTokenStore) Delete(ctx context.Context, token string) error {
	ret := m.Called(ctx, token)
	return ret.Error(0)
}

var _ auth.TokenStore = (*MockTokenStore)(nil)

// MockSession mocks auth.Session.
type MockSession struct {
	mock.Mock
}

// NewMockSession creates a MockSession that asserts its expectations at
// test cleanup.
func NewMockSession(t testingT) *MockSession {
	m := &MockSession{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSession) UserID(ctx context.Context) (ulid.ULID, bool, error) {
	ret := m.Called(ctx)
	var id ulid.ULID
	if v := ret.Get(0); v != nil {
		id = v.(ulid.ULID)
	}
	return id, ret.Bool(1), ret.Error(2)
}

func (m *MockSession) SetUserID(ctx context.Context, id ulid.ULID) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *MockSession) Destroy(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

var _ auth.Session = (*MockSession)(nil)

// MockPasswordHasher mocks auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations at test cleanup.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	ret := m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (m *MockPasswordHasher) Verify(password, hash string) bool {
	ret := m.Called(password, hash)
	return ret.Bool(0)
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// MockNotifier mocks auth.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier that asserts its expectations at
// test cleanup.
func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, bodyHTML string) error {
	ret := m.Called(ctx, to, subject, bodyHTML)
	return ret.Error(0)
}

var _ auth.Notifier = (*MockNotifier)(nil)
