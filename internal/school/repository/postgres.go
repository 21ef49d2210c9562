package repository

import (
	"context"
	"database/sql"
	"errors"

	"school-management/backend/internal/school/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a school repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the school for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.School, error) {
	const q = `SELECT id, name, address, status, created_at FROM schools WHERE id = $1`
	s := &domain.School{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Address, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List returns schools with limit and offset, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]*domain.School, error) {
	const q = `SELECT id, name, address, status, created_at FROM schools
	           ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.School
	for rows.Next() {
		s := &domain.School{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create persists the school. The school must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.School) error {
	const q = `INSERT INTO schools (id, name, address, status, created_at)
	           VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.Name, s.Address, s.Status, s.CreatedAt)
	return err
}
