// Package notify delivers password reset codes to staff email addresses.
// Delivery is best-effort: a failed send never rolls back the reset record.
package notify

import "context"

// Notifier sends a verification code to an email address.
type Notifier interface {
	// SendResetCode delivers code to email. Implementations must not log
	// the code.
	SendResetCode(ctx context.Context, email, code string) error
}

// Nop is a Notifier that discards every send. Used when no mail provider is
// configured (e.g. local development with the dev code endpoint).
type Nop struct{}

func (Nop) SendResetCode(context.Context, string, string) error { return nil }
