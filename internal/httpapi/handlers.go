// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/emberforum/ember/internal/auth"
	"github.com/emberforum/ember/pkg/errutil"
)

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type okResponse struct {
	Ok bool `json:"ok"`
}

type meResponse struct {
	User *auth.User `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error is not recoverable
	json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, &auth.Result{
			Errors: []auth.FieldError{{Field: "body", Message: "invalid json"}},
		})
		return false
	}
	return true
}

// writeResult maps the core envelope to a status code: 200 when a user was
// attached, 422 when field errors were.
func writeResult(w http.ResponseWriter, result *auth.Result) {
	if result.Ok() {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, result)
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	errutil.LogError(s.logger, msg, err)
	writeJSON(w, http.StatusInternalServerError, &auth.Result{
		Errors: []auth.FieldError{{Field: "server", Message: "internal error"}},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	sess := s.sessionFor(w, r)
	result, err := s.service.Register(r.Context(), input, sess)
	if err != nil {
		s.recordRegistration("error")
		s.internalError(w, "register failed", err)
		return
	}
	if result.Ok() {
		s.recordRegistration("success")
	} else {
		s.recordRegistration("rejected")
	}
	writeResult(w, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := s.sessionFor(w, r)
	result, err := s.service.Login(r.Context(), req.UsernameOrEmail, req.Password, sess)
	if err != nil {
		s.recordLogin("error")
		s.internalError(w, "login failed", err)
		return
	}
	if result.Ok() {
		s.recordLogin("success")
	} else {
		s.recordLogin("rejected")
	}
	writeResult(w, result)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	user, err := s.service.Me(r.Context(), sess)
	if err != nil {
		s.internalError(w, "me lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	ok := s.service.Logout(r.Context(), sess)
	if ok {
		s.recordLogout("success")
	} else {
		s.recordLogout("error")
	}
	writeJSON(w, http.StatusOK, okResponse{Ok: ok})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ok, err := s.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		s.recordPasswordReset("request_error")
		s.internalError(w, "forgot password failed", err)
		return
	}
	s.recordPasswordReset("requested")
	writeJSON(w, http.StatusOK, okResponse{Ok: ok})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := s.sessionFor(w, r)
	result, err := s.service.ChangePassword(r.Context(), token, req.NewPassword, sess)
	if err != nil {
		s.recordPasswordReset("change_error")
		s.internalError(w, "change password failed", err)
		return
	}
	if result.Ok() {
		s.recordPasswordReset("changed")
	} else {
		s.recordPasswordReset("change_rejected")
	}
	writeResult(w, result)
}

func (s *Server) recordRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) recordLogout(outcome string) {
	if s.metrics != nil {
		s.metrics.LogoutsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) recordPasswordReset(stage string) {
	if s.metrics != nil {
		s.metrics.PasswordResetsTotal.WithLabelValues(stage).Inc()
	}
}
