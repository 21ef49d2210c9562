// Package passwordreset issues and consumes short-lived 6-digit verification
// codes proving control of an email address. Each code is single-use and
// self-expires; records are kept as an audit trail and never deleted here.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"school-management/backend/internal/passwordreset/domain"
	"school-management/backend/internal/passwordreset/repository"
)

// Sentinel errors for consume outcomes. Both map to the same rejection at the
// HTTP boundary; they stay distinct for internal diagnostics.
var (
	ErrInvalidCode = errors.New("invalid verification code")
	ErrCodeExpired = errors.New("verification code expired")
)

// Ledger issues and consumes password reset codes against a record store.
// Multiple outstanding codes per email are permitted; each is independently
// consumable until its own expiry or consumption.
type Ledger struct {
	repo repository.Repository
	ttl  time.Duration
	now  func() time.Time
}

// NewLedger returns a Ledger writing to repo. ttl is the code expiry window;
// repository.DefaultCodeTTL is used when ttl is not positive.
func NewLedger(repo repository.Repository, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = repository.DefaultCodeTTL
	}
	return &Ledger{
		repo: repo,
		ttl:  ttl,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the ledger's clock. For tests.
func (l *Ledger) WithNow(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Request creates and persists a fresh reset record for email with a newly
// generated code, unused, expiring after the ledger TTL. Earlier outstanding
// records for the same email are left untouched.
func (l *Ledger) Request(ctx context.Context, email string) (*domain.PasswordReset, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	now := l.now()
	rec := &domain.PasswordReset{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		Used:      false,
		ExpiresAt: now.Add(l.ttl),
		CreatedAt: now,
	}
	if err := l.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create reset record: %w", err)
	}
	return rec, nil
}

// Consume looks up the most recent unused record for (email, code) and marks
// it used. Returns ErrInvalidCode when no such record exists or when another
// consumer won the race, and ErrCodeExpired when the record is past its
// expiry (the record is left untouched, still time-gated only).
func (l *Ledger) Consume(ctx context.Context, email, code string) error {
	rec, err := l.repo.FindActive(ctx, email, code)
	if err != nil {
		return fmt.Errorf("find reset record: %w", err)
	}
	if rec == nil {
		return ErrInvalidCode
	}
	now := l.now()
	if rec.Expired(now) {
		return ErrCodeExpired
	}
	ok, err := l.repo.MarkUsed(ctx, rec.ID, now)
	if err != nil {
		return fmt.Errorf("mark reset record used: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}
