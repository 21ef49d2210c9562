package repository

import (
	"context"

	"school-management/backend/internal/staff/domain"
)

// Repository defines persistence for staff accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	ListBySchool(ctx context.Context, schoolID string, limit, offset int32) ([]*domain.Staff, error)
	Create(ctx context.Context, s *domain.Staff) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
