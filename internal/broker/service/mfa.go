package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
)

var ErrPreferenceAlreadySet = errors.New("mfa channel preference has already been chosen")

// MFAService records the user's one-time choice of second-factor channel.
// The choice is write-once: after onboarding it can only be revisited
// through support, never through the API.
type MFAService struct {
	Store        store.Store
	Verification *VerificationService
}

// SetPreference stores the preferred channel. The account must be fully
// verified first, and a preference can only be set once.
func (s *MFAService) SetPreference(ctx context.Context, userID string, ch domain.Channel) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}

	u, err := s.Verification.RequireVerified(ctx, userID)
	if err != nil {
		return err
	}
	if u.MFAChannel != "" {
		return ErrPreferenceAlreadySet
	}

	if err := s.Store.Users().SetMFAChannel(ctx, userID, ch); err != nil {
		return fmt.Errorf("set mfa channel: %w", err)
	}
	return nil
}

// Preference returns the chosen channel, or "" when none has been set.
func (s *MFAService) Preference(ctx context.Context, userID string) (domain.Channel, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return "", ErrAccountDeleted
	}
	return u.MFAChannel, nil
}
