package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
)

func TestCompleteProfileFillsEmptyFields(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := createTestUser(t, st, func(u *domain.User) {
		u.Phone = ""
		u.IDNumber = ""
	})

	updated, err := svc.CompleteProfile(ctx, user.ID, "+61400000009", "A1234567", "")
	require.NoError(t, err)
	require.Equal(t, "+61400000009", updated.Phone)
	require.Equal(t, "A1234567", updated.IDNumber)
	// Untouched fields keep their values.
	require.Equal(t, user.DisplayName, updated.DisplayName)
}

func TestCompleteProfilePhoneTaken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	holder := createTestUser(t, st, nil)
	user := createTestUser(t, st, func(u *domain.User) {
		u.Phone = ""
	})

	_, err := svc.CompleteProfile(ctx, user.ID, holder.Phone, "", "")
	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestCompleteProfileOnDeletedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := createTestUser(t, st, nil)
	require.NoError(t, st.Users().SoftDeleteUser(ctx, user.ID))

	_, err := svc.CompleteProfile(ctx, user.ID, "+61400000010", "", "")
	require.ErrorIs(t, err, ErrAccountDeleted)
}

func TestGetUnknownUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
