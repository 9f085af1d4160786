package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/idx"
)

func createVerifiedUser(t *testing.T, st store.Store) domain.User {
	t.Helper()
	ctx := context.Background()
	u := createTestUser(t, st, nil)
	require.NoError(t, st.Users().SetChannelVerified(ctx, u.ID, domain.ChannelEmail))
	require.NoError(t, st.Users().SetChannelVerified(ctx, u.ID, domain.ChannelPhone))

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	return stored
}

func createTestCompany(t *testing.T, st store.Store, name string) domain.Company {
	t.Helper()
	c := domain.Company{
		ID:   idx.New().String(),
		Name: name,
	}
	require.NoError(t, st.Companies().CreateCompany(context.Background(), c))
	return c
}

func newPermissionService(st store.Store) *PermissionService {
	return &PermissionService{
		Store:        st,
		Verification: newVerificationService(st, newCaptureSender()),
	}
}

func TestPermissionAssignRequiresField(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, false, false, false)
	require.ErrorIs(t, err, ErrNoFieldsSelected)
}

func TestPermissionAssignRequiresVerifiedUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createTestUser(t, st, nil)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, true, false, false)
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestPermissionAssignAndList(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	acme := createTestCompany(t, st, "Acme")
	globex := createTestCompany(t, st, "Globex")

	grant, err := svc.Assign(ctx, user.ID, acme.ID, true, false, true)
	require.NoError(t, err)
	require.Equal(t, []string{"email", "idNumber"}, grant.AllowedFields())

	_, err = svc.Assign(ctx, user.ID, globex.ID, false, true, false)
	require.NoError(t, err)

	grants, err := svc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 2)
}

func TestPermissionReassignReplacesFlags(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, true, true, true)
	require.NoError(t, err)

	grant, err := svc.Assign(ctx, user.ID, company.ID, false, true, false)
	require.NoError(t, err)
	require.False(t, grant.EmailAllowed)
	require.True(t, grant.PhoneAllowed)
	require.False(t, grant.IDNumberAllowed)

	// Still one row per (user, company).
	grants, err := svc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
}

func TestPermissionUpdateClearingLastFieldDeletesRow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, true, false, false)
	require.NoError(t, err)

	off := false
	updated, err := svc.Update(ctx, user.ID, company.ID, domain.PermissionFields{EmailAllowed: &off})
	require.NoError(t, err)
	require.Empty(t, updated.ID)

	grants, err := svc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, grants)
}

func TestPermissionUpdatePartial(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, true, false, false)
	require.NoError(t, err)

	on := true
	updated, err := svc.Update(ctx, user.ID, company.ID, domain.PermissionFields{PhoneAllowed: &on})
	require.NoError(t, err)
	require.True(t, updated.EmailAllowed)
	require.True(t, updated.PhoneAllowed)
	require.False(t, updated.IDNumberAllowed)
}

func TestPermissionRevokeAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	acme := createTestCompany(t, st, "Acme")
	globex := createTestCompany(t, st, "Globex")

	_, err := svc.Assign(ctx, user.ID, acme.ID, true, false, false)
	require.NoError(t, err)
	_, err = svc.Assign(ctx, user.ID, globex.ID, false, true, false)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, user.ID))

	grants, err := svc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, grants)

	// Revoking again is a no-op, not an error.
	require.NoError(t, svc.RevokeAll(ctx, user.ID))
}

func TestPermissionAssignSuspendedCompany(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")
	require.NoError(t, st.Companies().SetCompanySuspended(ctx, company.ID, true))

	_, err := svc.Assign(ctx, user.ID, company.ID, true, false, false)
	require.ErrorIs(t, err, ErrCompanySuspended)
}

func TestAllowedFieldsQuery(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	_, err := svc.Assign(ctx, user.ID, company.ID, true, true, false)
	require.NoError(t, err)

	fields, err := svc.AllowedFields(ctx, user.PseudoHandle, company.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"email", "phone"}, fields)
}

func TestAllowedFieldsHidesExistence(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")

	// Unknown handle and no grant both read as an empty list.
	fields, err := svc.AllowedFields(ctx, "does-not-exist", company.ID)
	require.NoError(t, err)
	require.Empty(t, fields)

	fields, err = svc.AllowedFields(ctx, user.PseudoHandle, company.ID)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestAllowedFieldsSuspendedCompanyBlocked(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")
	_, err := svc.Assign(ctx, user.ID, company.ID, true, false, false)
	require.NoError(t, err)

	require.NoError(t, st.Companies().SetCompanySuspended(ctx, company.ID, true))

	_, err = svc.AllowedFields(ctx, user.PseudoHandle, company.ID)
	require.ErrorIs(t, err, ErrCompanySuspended)
}
