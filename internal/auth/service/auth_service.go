package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"school-management/backend/internal/notify"
	resetdomain "school-management/backend/internal/passwordreset/domain"
	"school-management/backend/internal/security"
	staffdomain "school-management/backend/internal/staff/domain"
)

// ErrInvalidCredentials covers every authentication failure: unknown email,
// wrong password, or a disabled account. Callers must not distinguish which
// factor failed, so account existence never leaks.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordPolicyError reports why a candidate password was rejected.
type PasswordPolicyError struct{ Reason string }

func (e *PasswordPolicyError) Error() string { return e.Reason }

const notifyTimeout = 10 * time.Second

// LoginResult holds the minted session token plus the denormalized staff
// fields returned to the client.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	StaffID   string
	SchoolID  string
	Email     string
	Name      string
	Role      string
}

// StaffRepo is the minimal staff repository needed by the auth service.
type StaffRepo interface {
	GetByID(ctx context.Context, id string) (*staffdomain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*staffdomain.Staff, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// ResetLedger is the password reset ledger interface needed by the auth service.
type ResetLedger interface {
	Request(ctx context.Context, email string) (*resetdomain.PasswordReset, error)
	Consume(ctx context.Context, email, code string) error
}

// AuthService implements login, password change, and the two-step password
// reset flow. It holds no mutable state; every operation is scoped to one
// request.
type AuthService struct {
	staffRepo StaffRepo
	ledger    ResetLedger
	hasher    *security.Hasher
	tokens    *security.TokenProvider
	notifier  notify.Notifier
}

// NewAuthService returns an AuthService with the given dependencies.
// notifier may be nil; then reset codes are not delivered (dev mode).
func NewAuthService(
	staffRepo StaffRepo,
	ledger ResetLedger,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	notifier notify.Notifier,
) *AuthService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AuthService{
		staffRepo: staffRepo,
		ledger:    ledger,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
	}
}

// Login authenticates with email/password and, on success, mints a session
// token carrying {staff id, school id, role} plus the staff fields the client
// denormalizes. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	st, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if st == nil || st.Status != staffdomain.StaffStatusActive || st.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(st.PasswordHash, []byte(password)) {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(st.ID, st.SchoolID, string(st.Role))
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		StaffID:   st.ID,
		SchoolID:  st.SchoolID,
		Email:     st.Email,
		Name:      st.Name,
		Role:      string(st.Role),
	}, nil
}

// ChangePassword verifies currentPassword against the stored hash before
// persisting the hash of newPassword. A wrong current password returns
// ErrInvalidCredentials and leaves the stored hash unchanged.
func (s *AuthService) ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	st, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if st == nil || !s.hasher.Verify(st.PasswordHash, []byte(currentPassword)) {
		return ErrInvalidCredentials
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	return s.staffRepo.UpdatePasswordHash(ctx, st.ID, hashed)
}

// RequestPasswordReset issues a reset code for email and dispatches it via
// the notifier. When email is unknown no code is issued and (nil, nil) is
// returned; callers acknowledge identically either way so requests never
// reveal whether an account exists. Delivery is fire-and-forget: a send
// failure is logged and does not undo the issued record.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*resetdomain.PasswordReset, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	st, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	rec, err := s.ledger.Request(ctx, email)
	if err != nil {
		return nil, err
	}
	go func(email, code string) {
		sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.SendResetCode(sendCtx, email, code); err != nil {
			log.Printf("auth: reset code delivery to %s failed: %v", email, err)
		}
	}(email, rec.Code)
	return rec, nil
}

// ConfirmPasswordReset consumes the (email, code) pair and, on success,
// overwrites the staff password hash with the hash of newPassword. Ledger
// outcomes (passwordreset.ErrInvalidCode, passwordreset.ErrCodeExpired) pass
// through for internal diagnostics; the HTTP boundary collapses them.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.ledger.Consume(ctx, email, code); err != nil {
		return err
	}
	st, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if st == nil {
		// The code was valid but the account is gone; nothing to rewrite.
		return ErrInvalidCredentials
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	return s.staffRepo.UpdatePasswordHash(ctx, st.ID, hashed)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email looks like an address worth storing.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return &PasswordPolicyError{Reason: "password must be at least 8 characters"}
	}
	return nil
}
