package repository

import (
	"context"

	"school-management/backend/internal/school/domain"
)

// Repository defines persistence for schools.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.School, error)
	List(ctx context.Context, limit, offset int32) ([]*domain.School, error)
	Create(ctx context.Context, s *domain.School) error
}
