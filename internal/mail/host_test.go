// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthHost(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"smtp.example.com:587", "smtp.example.com"},
		{"127.0.0.1:25", "127.0.0.1"},
		{"[::1]:25", "::1"},
		{"[2001:db8::25]:587", "2001:db8::25"},
		{"smtp.example.com", "smtp.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, authHost(tt.addr))
		})
	}
}
