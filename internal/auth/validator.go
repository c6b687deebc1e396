// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import "strings"

// Registration input constraints.
const (
	MinUsernameLength = 3
	MinPasswordLength = 3
)

// RegisterInput is the raw registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegister checks registration input shape. It is a pure function
// with fail-fast semantics: the first violated rule is returned and later
// rules are not evaluated, so at most one field is reported per call.
func ValidateRegister(input RegisterInput) []FieldError {
	if len(input.Username) < MinUsernameLength {
		return []FieldError{{
			Field:   "username",
			Message: "length must be at least 3",
		}}
	}
	// '@' is reserved so login can tell usernames apart from emails.
	if strings.Contains(input.Username, "@") {
		return []FieldError{{
			Field:   "username",
			Message: "cannot include an @",
		}}
	}
	if !strings.Contains(input.Email, "@") {
		return []FieldError{{
			Field:   "email",
			Message: "invalid email",
		}}
	}
	if len(input.Password) < MinPasswordLength {
		return []FieldError{{
			Field:   "password",
			Message: "length must be at least 3",
		}}
	}
	return nil
}
