// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/emberforum/ember/internal/auth"
	"github.com/emberforum/ember/internal/auth/redisstore"
)

// requestSession adapts one HTTP request/response pair to auth.Session.
// The backing Redis session is created lazily on the first SetUserID, at
// which point the signed cookie is issued. Requests that never write stay
// cookie-free.
type requestSession struct {
	store  *redisstore.SessionStore
	codec  cookieCodec
	w      http.ResponseWriter
	secure bool
	ttl    time.Duration

	inner *redisstore.Session // nil until a valid cookie is seen or a write happens
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *requestSession {
	sess := &requestSession{
		store:  s.sessions,
		codec:  s.codec,
		w:      w,
		secure: s.secureCookies,
		ttl:    s.sessionTTL,
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if id, ok := sess.codec.decode(c.Value); ok {
			sess.inner = s.sessions.Session(id)
		}
	}
	return sess
}

// UserID reports the authenticated user. No cookie, a tampered cookie, or
// an expired backing key all read as anonymous.
func (s *requestSession) UserID(ctx context.Context) (ulid.ULID, bool, error) {
	if s.inner == nil {
		return ulid.ULID{}, false, nil
	}
	return s.inner.UserID(ctx)
}

// SetUserID writes the user id, minting a session id and issuing the
// signed cookie on first write.
func (s *requestSession) SetUserID(ctx context.Context, id ulid.ULID) error {
	if s.inner == nil {
		sid, err := auth.NewSessionID()
		if err != nil {
			return err
		}
		s.inner = s.store.Session(sid)
	}
	if err := s.inner.SetUserID(ctx, id); err != nil {
		return err
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    s.codec.encode(s.inner.ID()),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy clears the cookie unconditionally and removes the backing key if
// one exists.
func (s *requestSession) Destroy(ctx context.Context) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if s.inner == nil {
		return nil
	}
	return s.inner.Destroy(ctx)
}

// Compile-time interface check.
var _ auth.Session = (*requestSession)(nil)
