// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

// FieldError attributes a validation or business-rule failure to one named
// input field for client-side display.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the envelope returned by register, login, and changePassword.
// Exactly one of User and Errors is populated: a successful call carries the
// user and no errors, a rejected call carries a non-empty error list and no
// user.
type Result struct {
	User   *User        `json:"user,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// fieldErr builds a single-error Result.
func fieldErr(field, message string) *Result {
	return &Result{Errors: []FieldError{{Field: field, Message: message}}}
}

// Ok reports whether the result carries a user.
func (r *Result) Ok() bool {
	return r != nil && r.User != nil && len(r.Errors) == 0
}
