package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
)

func TestMFAPreferenceRequiresVerifiedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	verification := newVerificationService(st, sender)
	svc := &MFAService{Store: st, Verification: verification}

	user := createTestUser(t, st, nil)

	err := svc.SetPreference(ctx, user.ID, domain.ChannelEmail)
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestMFAPreferenceIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	verification := newVerificationService(st, sender)
	svc := &MFAService{Store: st, Verification: verification}

	user := createTestUser(t, st, nil)
	verifyChannel(t, verification, sender, user.ID, domain.ChannelEmail)
	verifyChannel(t, verification, sender, user.ID, domain.ChannelPhone)

	require.NoError(t, svc.SetPreference(ctx, user.ID, domain.ChannelPhone))

	got, err := svc.Preference(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ChannelPhone, got)

	// The choice is final, even for the same channel.
	err = svc.SetPreference(ctx, user.ID, domain.ChannelPhone)
	require.ErrorIs(t, err, ErrPreferenceAlreadySet)
	err = svc.SetPreference(ctx, user.ID, domain.ChannelEmail)
	require.ErrorIs(t, err, ErrPreferenceAlreadySet)
}

func TestMFAPreferenceRejectsUnknownChannel(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	verification := newVerificationService(st, sender)
	svc := &MFAService{Store: st, Verification: verification}

	user := createTestUser(t, st, nil)
	err := svc.SetPreference(ctx, user.ID, domain.Channel("fax"))
	require.ErrorIs(t, err, ErrInvalidChannel)
}

func TestMFAPreferenceEmptyUntilChosen(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	verification := newVerificationService(st, sender)
	svc := &MFAService{Store: st, Verification: verification}

	user := createTestUser(t, st, nil)

	got, err := svc.Preference(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, got)
}
