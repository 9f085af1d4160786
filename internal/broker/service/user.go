package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
)

var ErrPhoneTaken = errors.New("phone number is already registered")

// UserService exposes the user's own view of their record.
type UserService struct {
	Store store.Store
}

// Get returns the user's record. Deleted accounts are treated as gone.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return domain.User{}, ErrAccountDeleted
	}
	return u, nil
}

// CompleteProfile fills in fields that onboarding left empty, typically the
// phone number and national ID after a social signup. Changing the phone
// does not retroactively unverify it; the phone channel can only be
// verified once a number is on file, so the flag is still false here.
func (s *UserService) CompleteProfile(ctx context.Context, userID, phone, idNumber, displayName string) (domain.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, phone, idNumber, displayName); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrPhoneTaken
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("reload user: %w", err)
	}
	return u, nil
}
