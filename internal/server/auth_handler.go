package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"school-management/backend/internal/audit"
	authservice "school-management/backend/internal/auth/service"
	"school-management/backend/internal/devcode"
	"school-management/backend/internal/passwordreset"
	resetdomain "school-management/backend/internal/passwordreset/domain"
)

// AuthService is the auth service surface used by the HTTP handlers.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*authservice.LoginResult, error)
	ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (*resetdomain.PasswordReset, error)
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	auth  AuthService
	audit audit.AuditLogger
	// devCodes, when non-nil, captures reset codes for GET /dev/reset-code
	// instead of relying on email delivery. Never set in production.
	devCodes devcode.Store
}

// NewAuthHandler returns an AuthHandler. auditLogger and devCodes may be nil.
func NewAuthHandler(auth AuthService, auditLogger audit.AuditLogger, devCodes devcode.Store) *AuthHandler {
	return &AuthHandler{auth: auth, audit: auditLogger, devCodes: devCodes}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginStaff struct {
	ID       string `json:"id"`
	SchoolID string `json:"school_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt time.Time  `json:"expires_at"`
	Staff     loginStaff `json:"staff"`
}

// Login handles POST /v1/auth/login. Every authentication failure returns the
// same 401 body so account existence never leaks.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			h.logEvent(r.Context(), "", "", "auth.login", req.Email, `{"outcome":"denied"}`)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("server: login: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r.Context(), res.SchoolID, res.StaffID, "auth.login", req.Email, `{"outcome":"success"}`)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		TokenType: res.TokenType,
		ExpiresAt: res.ExpiresAt,
		Staff: loginStaff{
			ID:       res.StaffID,
			SchoolID: res.SchoolID,
			Email:    res.Email,
			Name:     res.Name,
			Role:     res.Role,
		},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /v1/auth/change-password (authenticated).
// Rejecting the current password returns 401; a policy violation returns 400
// with the reason.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	staffID, ok := GetStaffID(r.Context())
	if !ok || staffID == "" {
		writeError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.auth.ChangePassword(r.Context(), staffID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var policyErr *authservice.PasswordPolicyError
		switch {
		case errors.Is(err, authservice.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.As(err, &policyErr):
			writeError(w, http.StatusBadRequest, policyErr.Reason)
		default:
			log.Printf("server: change password: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	schoolID, _ := GetSchoolID(r.Context())
	h.logEvent(r.Context(), schoolID, staffID, "auth.change_password", "", `{"outcome":"success"}`)
	w.WriteHeader(http.StatusNoContent)
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

// RequestReset handles POST /v1/auth/reset/request. Always answers 202 so the
// response does not reveal whether the email is registered.
func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.auth.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		log.Printf("server: reset request for %s: %v", req.Email, err)
	}
	if rec != nil && h.devCodes != nil {
		h.devCodes.Put(r.Context(), rec.Email, rec.Code, rec.ExpiresAt)
	}
	h.logEvent(r.Context(), "", "", "auth.reset_request", req.Email,
		fmt.Sprintf(`{"known_account":%t}`, rec != nil))
	w.WriteHeader(http.StatusAccepted)
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"verification_code"`
	NewPassword string `json:"new_password"`
}

// ConfirmReset handles POST /v1/auth/reset/confirm. Invalid, expired, and
// already-used codes all collapse into the same 400 body; the distinction is
// kept in the server log only.
func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.auth.ConfirmPasswordReset(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		var policyErr *authservice.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			writeError(w, http.StatusBadRequest, policyErr.Reason)
		case errors.Is(err, passwordreset.ErrCodeExpired),
			errors.Is(err, passwordreset.ErrInvalidCode),
			errors.Is(err, authservice.ErrInvalidCredentials):
			log.Printf("server: reset confirm for %s rejected: %v", req.Email, err)
			h.logEvent(r.Context(), "", "", "auth.reset_confirm", req.Email, `{"outcome":"denied"}`)
			writeError(w, http.StatusBadRequest, "invalid or expired code")
		default:
			log.Printf("server: reset confirm: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r.Context(), "", "", "auth.reset_confirm", req.Email, `{"outcome":"success"}`)
	w.WriteHeader(http.StatusNoContent)
}

// DevResetCode handles GET /dev/reset-code?email=... Registered only when dev
// reset mode is enabled.
func (h *AuthHandler) DevResetCode(w http.ResponseWriter, r *http.Request) {
	if h.devCodes == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}
	code, ok := h.devCodes.Get(r.Context(), email)
	if !ok {
		writeError(w, http.StatusNotFound, "no active reset code for email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "code": code})
}

func (h *AuthHandler) logEvent(ctx context.Context, schoolID, staffID, action, resource, metadata string) {
	if h.audit == nil {
		return
	}
	h.audit.LogEvent(ctx, schoolID, staffID, action, resource, metadata)
}
