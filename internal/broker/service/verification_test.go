package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
)

func newVerificationService(st store.Store, sender *captureSender) *VerificationService {
	return &VerificationService{
		Store:      st,
		Challenges: newChallengeService(st, sender),
	}
}

func verifyChannel(t *testing.T, svc *VerificationService, sender *captureSender, userID string, ch domain.Channel) VerificationStatus {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.RequestChannelVerification(ctx, userID, ch))
	status, err := svc.SubmitChannelCode(ctx, userID, sender.lastCode(t), ch)
	require.NoError(t, err)
	return status
}

func TestVerificationFullFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newVerificationService(st, sender)

	user := createTestUser(t, st, nil)

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateUnverified, status.State)

	status = verifyChannel(t, svc, sender, user.ID, domain.ChannelEmail)
	require.True(t, status.EmailVerified)
	require.False(t, status.PhoneVerified)
	require.Equal(t, domain.StatePartiallyVerified, status.State)

	status = verifyChannel(t, svc, sender, user.ID, domain.ChannelPhone)
	require.True(t, status.PhoneVerified)
	require.Equal(t, domain.StateVerified, status.State)
}

func TestVerificationOrderDoesNotMatter(t *testing.T) {
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newVerificationService(st, sender)

	user := createTestUser(t, st, nil)

	status := verifyChannel(t, svc, sender, user.ID, domain.ChannelPhone)
	require.Equal(t, domain.StatePartiallyVerified, status.State)

	status = verifyChannel(t, svc, sender, user.ID, domain.ChannelEmail)
	require.Equal(t, domain.StateVerified, status.State)
}

func TestVerificationRejectsRepeatedProof(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newVerificationService(st, sender)

	user := createTestUser(t, st, nil)
	verifyChannel(t, svc, sender, user.ID, domain.ChannelEmail)

	err := svc.RequestChannelVerification(ctx, user.ID, domain.ChannelEmail)
	require.ErrorIs(t, err, ErrChannelAlreadyVerified)

	_, err = svc.SubmitChannelCode(ctx, user.ID, "123456", domain.ChannelEmail)
	require.ErrorIs(t, err, ErrChannelAlreadyVerified)
}

func TestVerificationWrongCodeLeavesFlagsUntouched(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newVerificationService(st, sender)

	user := createTestUser(t, st, nil)
	require.NoError(t, svc.RequestChannelVerification(ctx, user.ID, domain.ChannelEmail))
	sender.lastCode(t)

	_, err := svc.SubmitChannelCode(ctx, user.ID, "000000", domain.ChannelEmail)
	require.ErrorIs(t, err, ErrCodeMismatch)

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, status.EmailVerified)
	require.Equal(t, domain.StateUnverified, status.State)
}

func TestRequireVerifiedGatesPartialAccounts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newVerificationService(st, sender)

	user := createTestUser(t, st, nil)

	_, err := svc.RequireVerified(ctx, user.ID)
	require.ErrorIs(t, err, ErrNotVerified)

	verifyChannel(t, svc, sender, user.ID, domain.ChannelEmail)
	_, err = svc.RequireVerified(ctx, user.ID)
	require.ErrorIs(t, err, ErrNotVerified)

	verifyChannel(t, svc, sender, user.ID, domain.ChannelPhone)
	u, err := svc.RequireVerified(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, u.Verified())
}

func TestVerificationUnknownUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newVerificationService(st, newCaptureSender())

	_, err := svc.Status(ctx, "nope")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerificationInvalidChannel(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newVerificationService(st, newCaptureSender())

	user := createTestUser(t, st, nil)
	err := svc.RequestChannelVerification(ctx, user.ID, domain.Channel("carrier-pigeon"))
	require.ErrorIs(t, err, ErrInvalidChannel)
}
