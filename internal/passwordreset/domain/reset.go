package domain

import "time"

// PasswordReset is one issued verification code (stored in password_resets).
// Records are append-only audit entries: consuming a code sets Used and
// UsedAt, nothing deletes a record. Expiry is never stored as a state
// transition; it is derived from ExpiresAt against the clock at read time.
type PasswordReset struct {
	ID        string
	Email     string
	Code      string // 6-digit numeric
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time // nil until consumed
}

// Consumable reports whether the record can still be consumed at now:
// not yet used and not past its expiry.
func (r *PasswordReset) Consumable(now time.Time) bool {
	return !r.Used && !now.After(r.ExpiresAt)
}

// Expired reports whether the record is past its expiry at now.
func (r *PasswordReset) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
