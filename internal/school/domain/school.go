package domain

import (
	"errors"
	"time"
)

// School represents a school/tenant. Staff accounts, and the sessions they
// open, are always scoped to one school.
type School struct {
	ID        string
	Name      string
	Address   string
	Status    SchoolStatus
	CreatedAt time.Time
}

type SchoolStatus string

const (
	SchoolStatusActive    SchoolStatus = "active"
	SchoolStatusSuspended SchoolStatus = "suspended"
)

// Validate validates the school for persistence. Returns an error describing
// the first validation failure.
func (s *School) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Status == "" {
		s.Status = SchoolStatusActive
	}
	return nil
}
