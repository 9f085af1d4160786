package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
)

var (
	ErrNotVerified            = errors.New("account has not completed verification of both channels")
	ErrChannelAlreadyVerified = errors.New("channel is already verified")
	ErrAccountDeleted         = errors.New("account has been deleted")
	ErrUserNotFound           = errors.New("user not found")
)

// VerificationStatus is the coordinator's public view of where a user
// stands: the two per-channel flags plus the aggregate derived from them.
type VerificationStatus struct {
	EmailVerified bool
	PhoneVerified bool
	State         domain.VerificationState
}

// VerificationService drives the per-channel proof-of-ownership flow and
// owns the aggregate state derived from the two flags. The flags only move
// one way; re-proving an already verified channel is rejected rather than
// silently repeated.
type VerificationService struct {
	Store      store.Store
	Challenges *ChallengeService
}

func (s *VerificationService) user(ctx context.Context, userID string) (domain.User, error) {
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

func channelVerified(u domain.User, ch domain.Channel) bool {
	if ch == domain.ChannelEmail {
		return u.EmailVerified
	}
	return u.PhoneVerified
}

// RequestChannelVerification issues a fresh code for the channel. Asking to
// verify a channel that is already proven, or one with no contact on file,
// is an error.
func (s *VerificationService) RequestChannelVerification(ctx context.Context, userID string, ch domain.Channel) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if channelVerified(u, ch) {
		return ErrChannelAlreadyVerified
	}

	_, err = s.Challenges.Issue(ctx, u, ch, domain.PurposeSignup)
	return err
}

// ResendChannelVerification replaces the outstanding code, subject to the
// cool-down.
func (s *VerificationService) ResendChannelVerification(ctx context.Context, userID string, ch domain.Channel) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if channelVerified(u, ch) {
		return ErrChannelAlreadyVerified
	}

	_, err = s.Challenges.Resend(ctx, u, ch, domain.PurposeSignup)
	return err
}

// SubmitChannelCode validates a code and, on success, flips the channel's
// verified flag. The returned status reflects the post-submit aggregate.
func (s *VerificationService) SubmitChannelCode(ctx context.Context, userID, code string, ch domain.Channel) (VerificationStatus, error) {
	if !ch.Valid() {
		return VerificationStatus{}, ErrInvalidChannel
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return VerificationStatus{}, err
	}
	if channelVerified(u, ch) {
		return VerificationStatus{}, ErrChannelAlreadyVerified
	}

	if err := s.Challenges.Validate(ctx, userID, code, ch, domain.PurposeSignup); err != nil {
		return VerificationStatus{}, err
	}

	if err := s.Store.Users().SetChannelVerified(ctx, userID, ch); err != nil {
		return VerificationStatus{}, fmt.Errorf("set channel verified: %w", err)
	}

	u, err = s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return VerificationStatus{}, fmt.Errorf("reload user: %w", err)
	}
	return statusOf(u), nil
}

// Status reports the current per-channel flags and the aggregate state.
func (s *VerificationService) Status(ctx context.Context, userID string) (VerificationStatus, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return VerificationStatus{}, err
	}
	return statusOf(u), nil
}

// RequireVerified loads the user and fails with ErrNotVerified unless both
// channels are proven. Every consent-bearing operation calls this first.
func (s *VerificationService) RequireVerified(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if !u.Verified() {
		return domain.User{}, ErrNotVerified
	}
	return u, nil
}

func statusOf(u domain.User) VerificationStatus {
	return VerificationStatus{
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		State:         u.VerificationState(),
	}
}
