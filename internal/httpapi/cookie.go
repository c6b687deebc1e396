// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieName is the session cookie issued by the API.
const CookieName = "ember_sid"

// cookieCodec signs and verifies session ids carried in the cookie. The
// cookie value is "<id>.<base64url hmac-sha256>"; anything that fails
// verification is treated as if no cookie were present.
type cookieCodec struct {
	secret []byte
}

func (c cookieCodec) sign(id string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return mac.Sum(nil)
}

func (c cookieCodec) encode(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(c.sign(id))
}

func (c cookieCodec) decode(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	id := value[:i]
	sig, err := base64.RawURLEncoding.DecodeString(value[i+1:])
	if err != nil {
		return "", false
	}
	if !hmac.Equal(sig, c.sign(id)) {
		return "", false
	}
	return id, true
}
