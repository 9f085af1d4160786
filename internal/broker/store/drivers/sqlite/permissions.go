package sqlite

import (
	"context"
	"database/sql"

	"github.com/veilhq/veil/internal/broker/domain"
)

type permissionsRepo struct {
	q querier
}

const permissionColumns = `id, user_id, company_id, email_allowed, phone_allowed,
	id_number_allowed, created_at, updated_at`

func scanPermission(scan func(...any) error) (domain.Permission, error) {
	var p domain.Permission
	err := scan(&p.ID, &p.UserID, &p.CompanyID, &p.EmailAllowed,
		&p.PhoneAllowed, &p.IDNumberAllowed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func (r *permissionsRepo) GetPermission(ctx context.Context, userID, companyID string) (domain.Permission, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE user_id = ? AND company_id = ?`,
		userID, companyID,
	)
	return scanPermission(row.Scan)
}

func (r *permissionsRepo) GetPermissionByID(ctx context.Context, id string) (domain.Permission, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE id = ?`, id)
	return scanPermission(row.Scan)
}

func (r *permissionsRepo) UpsertPermission(ctx context.Context, p domain.Permission) error {
	// Overwrite semantics on the (user, company) pair: assign replaces any
	// previous grant wholesale. The original row ID survives the conflict.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO permissions (id, user_id, company_id, email_allowed, phone_allowed, id_number_allowed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, company_id) DO UPDATE SET
			email_allowed = excluded.email_allowed,
			phone_allowed = excluded.phone_allowed,
			id_number_allowed = excluded.id_number_allowed,
			updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.UserID, p.CompanyID, p.EmailAllowed, p.PhoneAllowed, p.IDNumberAllowed,
	)
	return err
}

func (r *permissionsRepo) UpdatePermissionFlags(ctx context.Context, id string, email, phone, idNumber bool) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE permissions SET
			email_allowed = ?, phone_allowed = ?, id_number_allowed = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		email, phone, idNumber, id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *permissionsRepo) ListPermissionsForUser(ctx context.Context, userID string) ([]domain.Permission, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows.Scan)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *permissionsRepo) DeletePermission(ctx context.Context, userID, companyID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM permissions WHERE user_id = ? AND company_id = ?`,
		userID, companyID,
	)
	return err
}

func (r *permissionsRepo) DeletePermissionByID(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	return err
}

func (r *permissionsRepo) DeleteAllPermissionsForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM permissions WHERE user_id = ?`, userID)
	return err
}
