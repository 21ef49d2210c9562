package repository

import (
	"context"
	"time"

	"school-management/backend/internal/passwordreset/domain"
)

// Repository defines persistence for password reset records.
type Repository interface {
	Create(ctx context.Context, r *domain.PasswordReset) error
	// FindActive returns the most recent not-yet-used record for the
	// (email, code) pair, or nil if none exists. Expiry is not filtered
	// here; the ledger decides expired vs consumable against its clock.
	FindActive(ctx context.Context, email, code string) (*domain.PasswordReset, error)
	// MarkUsed sets used and used_at on the record with the given id,
	// guarded by used = false. Returns false when the record was already
	// used (zero rows updated), so concurrent consumers cannot both win.
	MarkUsed(ctx context.Context, id string, at time.Time) (bool, error)
}

// DefaultCodeTTL is the default reset code expiry window.
const DefaultCodeTTL = 15 * time.Minute
