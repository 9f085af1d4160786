package sqlite

import (
	"context"

	"github.com/veilhq/veil/internal/broker/domain"
)

type companiesRepo struct {
	q querier
}

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, external_id, segment, suspended, created_at, updated_at
		FROM companies WHERE id = ?`, id)

	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.ExternalID, &c.Segment, &c.Suspended,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO companies (id, name, external_id, segment, suspended)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.ExternalID, c.Segment, c.Suspended,
	)
	return err
}

func (r *companiesRepo) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, external_id, segment, suspended, created_at, updated_at
		FROM companies ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.ExternalID, &c.Segment,
			&c.Suspended, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *companiesRepo) SetCompanySuspended(ctx context.Context, id string, suspended bool) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE companies SET suspended = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		suspended, id,
	)
	return err
}
