// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package httpapi exposes the auth core over a small JSON API. It owns
// everything HTTP-shaped: routing, request decoding, the signed session
// cookie, and status codes. The core service never sees a request.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/emberforum/ember/internal/auth"
	"github.com/emberforum/ember/internal/auth/redisstore"
	"github.com/emberforum/ember/internal/observability"
)

// Config carries the handler-layer settings the core does not care about.
type Config struct {
	Addr          string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
}

// Server serves the JSON auth API.
type Server struct {
	addr          string
	service       *auth.Service
	sessions      *redisstore.SessionStore
	codec         cookieCodec
	secureCookies bool
	sessionTTL    time.Duration
	metrics       *observability.Metrics
	logger        *slog.Logger

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the API server. metrics may be nil when observability
// is disabled.
func NewServer(cfg Config, service *auth.Service, sessions *redisstore.SessionStore, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("service is required")
	}
	if sessions == nil {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("session store is required")
	}
	if cfg.SessionSecret == "" {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("session secret is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = auth.SessionTTL
	}
	return &Server{
		addr:          cfg.Addr,
		service:       service,
		sessions:      sessions,
		codec:         cookieCodec{secret: []byte(cfg.SessionSecret)},
		secureCookies: cfg.SecureCookies,
		sessionTTL:    ttl,
		metrics:       metrics,
		logger:        logger,
	}, nil
}

// Handler returns the routed handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /api/change-password/{token}", s.handleChangePassword)
	return mux
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after it starts; the channel is closed
// when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown api server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
