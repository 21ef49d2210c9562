package domain

import "time"

// AuditLog represents one recorded auth event (login, password change,
// reset request/confirm).
type AuditLog struct {
	ID        string
	SchoolID  string
	StaffID   string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
