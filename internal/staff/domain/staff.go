package domain

import (
	"errors"
	"time"
)

// Staff is a school staff account: the identity record behind login.
// PasswordHash is a bcrypt digest; the plaintext never leaves the request.
type Staff struct {
	ID           string
	SchoolID     string
	Email        string
	Name         string
	Role         StaffRole
	PasswordHash string
	Status       StaffStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"
	StaffRoleTeacher    StaffRole = "teacher"
	StaffRoleAccountant StaffRole = "accountant"
)

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusDisabled StaffStatus = "disabled"
)

// Validate validates the staff record for persistence. Returns an error
// describing the first validation failure.
func (s *Staff) Validate() error {
	if s.Email == "" {
		return errors.New("email is required")
	}
	if s.SchoolID == "" {
		return errors.New("school_id is required")
	}
	if s.Role == "" {
		return errors.New("role is required")
	}
	if s.Status == "" {
		s.Status = StaffStatusActive
	}
	return nil
}
