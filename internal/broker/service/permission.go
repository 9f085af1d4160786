package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/idx"
	"github.com/veilhq/veil/pkg/slogx"
)

var (
	ErrNoFieldsSelected   = errors.New("at least one field must be granted")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanySuspended   = errors.New("company is suspended")
	ErrPermissionNotFound = errors.New("no grant exists for this company")
)

// PermissionService is the consent ledger: which company may see which of a
// user's attributes. Grants exist only while at least one field is allowed;
// an update that clears the last field removes the grant entirely.
type PermissionService struct {
	Store        store.Store
	Verification *VerificationService
}

// Assign creates or replaces the grant for (user, company). The user must
// be fully verified, the company must exist and not be suspended, and at
// least one field must be granted.
func (s *PermissionService) Assign(ctx context.Context, userID, companyID string, email, phone, idNumber bool) (domain.Permission, error) {
	if !email && !phone && !idNumber {
		return domain.Permission{}, ErrNoFieldsSelected
	}

	if _, err := s.Verification.RequireVerified(ctx, userID); err != nil {
		return domain.Permission{}, err
	}

	company, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Permission{}, ErrCompanyNotFound
	}
	if err != nil {
		return domain.Permission{}, fmt.Errorf("load company: %w", err)
	}
	if company.Suspended {
		return domain.Permission{}, ErrCompanySuspended
	}

	grant := domain.Permission{
		ID:              idx.New().String(),
		UserID:          userID,
		CompanyID:       companyID,
		EmailAllowed:    email,
		PhoneAllowed:    phone,
		IDNumberAllowed: idNumber,
	}
	if err := s.Store.Permissions().UpsertPermission(ctx, grant); err != nil {
		return domain.Permission{}, fmt.Errorf("upsert permission: %w", err)
	}

	// Upsert keeps the existing row id on conflict; reload for the caller.
	stored, err := s.Store.Permissions().GetPermission(ctx, userID, companyID)
	if err != nil {
		return domain.Permission{}, fmt.Errorf("reload permission: %w", err)
	}
	return stored, nil
}

// Get loads a grant by id, scoped to the acting user. A row owned by
// someone else reads as not found.
func (s *PermissionService) Get(ctx context.Context, userID, grantID string) (domain.Permission, error) {
	grant, err := s.Store.Permissions().GetPermissionByID(ctx, grantID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Permission{}, ErrPermissionNotFound
	}
	if err != nil {
		return domain.Permission{}, fmt.Errorf("load permission: %w", err)
	}
	if grant.UserID != userID {
		return domain.Permission{}, ErrPermissionNotFound
	}
	return grant, nil
}

// Update applies a partial change to an existing grant. Clearing every
// field deletes the row instead of leaving an all-false shell; the zero
// Permission return signals removal.
func (s *PermissionService) Update(ctx context.Context, userID, companyID string, fields domain.PermissionFields) (domain.Permission, error) {
	if _, err := s.Verification.RequireVerified(ctx, userID); err != nil {
		return domain.Permission{}, err
	}

	var updated domain.Permission
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		grant, err := tx.Permissions().GetPermission(ctx, userID, companyID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrPermissionNotFound
		}
		if err != nil {
			return fmt.Errorf("load permission: %w", err)
		}

		fields.ApplyTo(&grant)
		if grant.Empty() {
			if err := tx.Permissions().DeletePermissionByID(ctx, grant.ID); err != nil {
				return fmt.Errorf("delete emptied permission: %w", err)
			}
			updated = domain.Permission{}
			return nil
		}

		if err := tx.Permissions().UpdatePermissionFlags(ctx, grant.ID,
			grant.EmailAllowed, grant.PhoneAllowed, grant.IDNumberAllowed); err != nil {
			return fmt.Errorf("update permission flags: %w", err)
		}
		updated = grant
		return nil
	})
	if err != nil {
		return domain.Permission{}, err
	}
	return updated, nil
}

// Revoke removes the grant for one company. Revoking an absent grant is a
// no-op.
func (s *PermissionService) Revoke(ctx context.Context, userID, companyID string) error {
	if _, err := s.Verification.RequireVerified(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.Permissions().DeletePermission(ctx, userID, companyID); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// RevokeAll removes every grant the user holds. Idempotent: a user with no
// grants revokes to the same end state.
func (s *PermissionService) RevokeAll(ctx context.Context, userID string) error {
	if _, err := s.Verification.RequireVerified(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.Permissions().DeleteAllPermissionsForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all permissions: %w", err)
	}
	slogx.FromContext(ctx).Info("all grants revoked", slog.String("user_id", userID))
	return nil
}

// ListForUser returns the user's grants, newest first.
func (s *PermissionService) ListForUser(ctx context.Context, userID string) ([]domain.Permission, error) {
	if _, err := s.Verification.RequireVerified(ctx, userID); err != nil {
		return nil, err
	}
	grants, err := s.Store.Permissions().ListPermissionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return grants, nil
}

// AllowedFields answers the company-side query: given a pseudo handle,
// which attribute names may the company read. No grant, an unknown handle
// and a deleted account all collapse to the empty list so the endpoint
// leaks nothing about existence.
func (s *PermissionService) AllowedFields(ctx context.Context, pseudoHandle, companyID string) ([]string, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company.Suspended {
		return nil, ErrCompanySuspended
	}

	u, err := s.Store.Users().GetUserByPseudoHandle(ctx, pseudoHandle)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve pseudo handle: %w", err)
	}
	if u.Deleted() {
		return []string{}, nil
	}

	grant, err := s.Store.Permissions().GetPermission(ctx, u.ID, companyID)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load permission: %w", err)
	}
	return grant.AllowedFields(), nil
}
