// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package auth implements the Ember authentication core: account
// registration, credential verification, cookie-backed sessions, and the
// email password-reset flow.
//
// # Domain Types
//
// User is the account aggregate. Create one with NewUser so the password is
// always stored as an argon2id hash, never plaintext.
//
// # Collaborators
//
// The Service orchestrator composes four external boundaries, all injected
// as interfaces:
//   - UserRepository - keyed user records (PostgreSQL in production)
//   - Session - the per-request session bound to a signed cookie
//   - TokenStore - TTL-backed reset token store (Redis in production)
//   - Notifier - outbound reset-link email, best effort
//
// Validation and duplicate-account failures surface as []FieldError inside
// a Result envelope; everything else is a fatal error for the transport
// boundary to report.
package auth
