package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/idx"
)

func newAccountService(st store.Store, sender *captureSender) *AccountService {
	challenges := newChallengeService(st, sender)
	return &AccountService{
		Store:        st,
		Challenges:   challenges,
		Verification: &VerificationService{Store: st, Challenges: challenges},
	}
}

func TestAccountDeletionFullCascade(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)
	permissions := newPermissionService(st)

	user := createVerifiedUser(t, st)
	company := createTestCompany(t, st, "Acme")
	_, err := permissions.Assign(ctx, user.ID, company.ID, true, true, false)
	require.NoError(t, err)

	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, session))

	channel, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ChannelEmail, channel)
	code := sender.lastCode(t)

	require.NoError(t, svc.ConfirmDeletion(ctx, user.ID, code))

	// Grants are gone.
	grants, err := st.Permissions().ListPermissionsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, grants)

	// Sessions are terminated.
	stored, err := st.Sessions().GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.False(t, stored.Active(time.Now().UTC()))

	// The shell row survives but identifies nothing.
	shell, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, shell.Deleted())
	require.Empty(t, shell.Email)
	require.Empty(t, shell.Phone)
	require.Empty(t, shell.IDNumber)
}

func TestAccountDeletionUsesMFAChannel(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)

	user := createVerifiedUser(t, st)
	require.NoError(t, st.Users().SetMFAChannel(ctx, user.ID, domain.ChannelPhone))

	channel, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ChannelPhone, channel)
}

func TestAccountDeletionWrongCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)

	user := createVerifiedUser(t, st)
	_, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	code := sender.lastCode(t)

	err = svc.ConfirmDeletion(ctx, user.ID, "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	// Nothing happened to the account.
	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.Deleted())

	// The right code still completes the deletion.
	require.NoError(t, svc.ConfirmDeletion(ctx, user.ID, code))
}

func TestAccountDeletionMaxAttempts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)
	svc.Challenges.MaxAttempts = 3

	user := createVerifiedUser(t, st)
	_, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	code := sender.lastCode(t)

	for i := 1; i <= 2; i++ {
		err = svc.ConfirmDeletion(ctx, user.ID, "000000")
		require.ErrorIs(t, err, ErrCodeMismatch)

		stored, serr := st.Challenges().GetLatestChallenge(ctx, user.ID, domain.ChannelEmail, domain.PurposeAccountDeletion)
		require.NoError(t, serr)
		require.Equal(t, i, stored.Attempts)
	}

	// Third mismatch burns the challenge.
	err = svc.ConfirmDeletion(ctx, user.ID, "000000")
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// The real code is dead with it; the user must request again.
	err = svc.ConfirmDeletion(ctx, user.ID, code)
	require.ErrorIs(t, err, ErrNoActiveChallenge)

	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.Deleted())
}

func TestAccountDeletionRequiresVerifiedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newAccountService(st, newCaptureSender())

	user := createTestUser(t, st, nil)

	_, err := svc.RequestDeletion(ctx, user.ID)
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestAccountDeletionWithoutRequest(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newAccountService(st, newCaptureSender())

	user := createVerifiedUser(t, st)

	err := svc.ConfirmDeletion(ctx, user.ID, "123456")
	require.ErrorIs(t, err, ErrNoDeletionRequested)
}

func TestAccountDeletionCancel(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)

	user := createVerifiedUser(t, st)
	_, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	code := sender.lastCode(t)

	require.NoError(t, svc.CancelDeletion(ctx, user.ID))

	// The outstanding code is dead and the request flag is cleared.
	err = svc.ConfirmDeletion(ctx, user.ID, code)
	require.ErrorIs(t, err, ErrNoDeletionRequested)
}

func TestAccountDeletionIsTerminal(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)

	user := createVerifiedUser(t, st)
	_, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmDeletion(ctx, user.ID, sender.lastCode(t)))

	_, err = svc.RequestDeletion(ctx, user.ID)
	require.ErrorIs(t, err, ErrAccountDeleted)

	err = svc.ConfirmDeletion(ctx, user.ID, "123456")
	require.ErrorIs(t, err, ErrAccountDeleted)
}

func TestAccountDeletionRepeatRequestResends(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newAccountService(st, sender)
	svc.Challenges.Cooldown = time.Nanosecond

	user := createVerifiedUser(t, st)

	_, err := svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	first := sender.lastCode(t)

	time.Sleep(2 * time.Millisecond)

	_, err = svc.RequestDeletion(ctx, user.ID)
	require.NoError(t, err)
	second := sender.lastCode(t)

	// The earlier code was superseded.
	err = svc.ConfirmDeletion(ctx, user.ID, first)
	require.Error(t, err)
	require.NoError(t, svc.ConfirmDeletion(ctx, user.ID, second))
}
