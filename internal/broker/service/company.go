package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/idx"
)

// CompanyService manages the registry of data-consuming organisations.
type CompanyService struct {
	Store store.Store
}

// Register adds a company to the registry.
func (s *CompanyService) Register(ctx context.Context, name, externalID, segment string) (domain.Company, error) {
	c := domain.Company{
		ID:         idx.New().String(),
		Name:       name,
		ExternalID: externalID,
		Segment:    segment,
	}
	if err := s.Store.Companies().CreateCompany(ctx, c); err != nil {
		return domain.Company{}, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// Get fetches one company.
func (s *CompanyService) Get(ctx context.Context, id string) (domain.Company, error) {
	c, err := s.Store.Companies().GetCompanyByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Company{}, ErrCompanyNotFound
	}
	if err != nil {
		return domain.Company{}, fmt.Errorf("load company: %w", err)
	}
	return c, nil
}

// List returns every registered company, suspended ones included so users
// can still see who held grants.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.Store.Companies().ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// SetSuspended toggles the suspension flag. Suspension blocks new grants
// and the company-side query; existing grants stay untouched.
func (s *CompanyService) SetSuspended(ctx context.Context, id string, suspended bool) error {
	if err := s.Store.Companies().SetCompanySuspended(ctx, id, suspended); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("set suspended: %w", err)
	}
	return nil
}
