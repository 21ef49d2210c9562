package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"school-management/backend/internal/passwordreset/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a password reset repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the reset record. The record must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, rec *domain.PasswordReset) error {
	const q = `INSERT INTO password_resets (id, email, code, used, expires_at, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, q, rec.ID, rec.Email, rec.Code, rec.Used, rec.ExpiresAt, rec.CreatedAt)
	return err
}

// FindActive returns the most recent unused record for (email, code), or nil
// if not found. It returns an error only for database failures, not for
// missing rows.
func (r *PostgresRepository) FindActive(ctx context.Context, email, code string) (*domain.PasswordReset, error) {
	const q = `SELECT id, email, code, used, expires_at, created_at, used_at
	           FROM password_resets
	           WHERE email = $1 AND code = $2 AND used = FALSE
	           ORDER BY created_at DESC
	           LIMIT 1`
	rec := &domain.PasswordReset{}
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, email, code).Scan(
		&rec.ID, &rec.Email, &rec.Code, &rec.Used, &rec.ExpiresAt, &rec.CreatedAt, &usedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if usedAt.Valid {
		rec.UsedAt = &usedAt.Time
	}
	return rec, nil
}

// MarkUsed consumes the record with the given id. The used = FALSE guard
// makes the check-and-mark atomic: under concurrent attempts exactly one
// caller sees a row updated.
func (r *PostgresRepository) MarkUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	const q = `UPDATE password_resets SET used = TRUE, used_at = $2
	           WHERE id = $1 AND used = FALSE`
	res, err := r.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
