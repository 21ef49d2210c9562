package repository

import (
	"context"
	"database/sql"
	"errors"

	"school-management/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	const q = `SELECT id, school_id, staff_id, action, resource, ip, metadata, created_at
	           FROM audit_logs WHERE id = $1`
	a := &domain.AuditLog{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.SchoolID, &a.StaffID, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListBySchool returns audit logs for the school with limit and offset, newest first.
func (r *PostgresRepository) ListBySchool(ctx context.Context, schoolID string, limit, offset int32) ([]*domain.AuditLog, error) {
	const q = `SELECT id, school_id, staff_id, action, resource, ip, metadata, created_at
	           FROM audit_logs WHERE school_id = $1
	           ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, schoolID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		a := &domain.AuditLog{}
		if err := rows.Scan(&a.ID, &a.SchoolID, &a.StaffID, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the audit log entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	const q = `INSERT INTO audit_logs (id, school_id, staff_id, action, resource, ip, metadata, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q, a.ID, a.SchoolID, a.StaffID, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt)
	return err
}
