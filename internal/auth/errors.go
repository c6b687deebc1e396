// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// DuplicateError is returned by UserRepository.Create when a unique
// constraint is violated. Field names the violated column ("username" or
// "email") so callers can report the right input field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}
