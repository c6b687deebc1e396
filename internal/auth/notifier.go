// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import "context"

// Notifier delivers the password-reset email. Callers treat it as fire and
// forget: a send failure is logged, never surfaced to the end user.
type Notifier interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}
