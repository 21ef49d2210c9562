package repository

import (
	"context"
	"database/sql"
	"errors"

	"school-management/backend/internal/staff/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a staff repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const staffColumns = `id, school_id, email, name, role, password_hash, status, created_at, updated_at`

// GetByID returns the staff account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return scanStaff(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail returns the staff account for email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return scanStaff(r.db.QueryRowContext(ctx, q, email))
}

// ListBySchool returns staff for the school with limit and offset, newest first.
func (r *PostgresRepository) ListBySchool(ctx context.Context, schoolID string, limit, offset int32) ([]*domain.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff
	           WHERE school_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, schoolID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Staff
	for rows.Next() {
		s := &domain.Staff{}
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.Email, &s.Name, &s.Role, &s.PasswordHash, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create persists the staff account. The account must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Staff) error {
	const q = `INSERT INTO staff (id, school_id, email, name, role, password_hash, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.SchoolID, s.Email, s.Name, s.Role, s.PasswordHash, s.Status, s.CreatedAt, s.UpdatedAt)
	return err
}

// UpdatePasswordHash replaces the stored password hash for the account with
// the given id. Returns an error if the update fails.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE staff SET password_hash = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, passwordHash)
	return err
}

func scanStaff(row *sql.Row) (*domain.Staff, error) {
	s := &domain.Staff{}
	err := row.Scan(&s.ID, &s.SchoolID, &s.Email, &s.Name, &s.Role, &s.PasswordHash, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}
