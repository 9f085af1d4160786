package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/cryptox"
	"github.com/veilhq/veil/pkg/slogx"
)

var ErrNoDeletionRequested = errors.New("no deletion has been requested")

// AccountService handles the irreversible part of the lifecycle. Deletion
// is OTP-gated: a code goes to the user's second-factor channel, and only a
// valid code triggers the cascade of revoking grants, terminating sessions
// and releasing the identity columns.
type AccountService struct {
	Store        store.Store
	Challenges   *ChallengeService
	Verification *VerificationService
}

// deletionChannel picks where the confirmation code goes: the chosen MFA
// channel when one is set, otherwise email.
func deletionChannel(u domain.User) domain.Channel {
	if u.MFAChannel.Valid() {
		return u.MFAChannel
	}
	return domain.ChannelEmail
}

// RequestDeletion marks the account as pending deletion and sends a
// confirmation code. Only fully verified accounts can start the flow.
// Repeating the request re-sends the code, subject to the challenge
// cool-down.
func (s *AccountService) RequestDeletion(ctx context.Context, userID string) (domain.Channel, error) {
	u, err := s.Verification.RequireVerified(ctx, userID)
	if err != nil {
		return "", err
	}

	ch := deletionChannel(u)
	if u.DeletionRequested {
		if _, err := s.Challenges.Resend(ctx, u, ch, domain.PurposeAccountDeletion); err != nil {
			return "", err
		}
		return ch, nil
	}

	if _, err := s.Challenges.Issue(ctx, u, ch, domain.PurposeAccountDeletion); err != nil {
		return "", err
	}
	if err := s.Store.Users().SetDeletionRequested(ctx, userID, true); err != nil {
		return "", fmt.Errorf("mark deletion requested: %w", err)
	}
	return ch, nil
}

// CancelDeletion withdraws a pending request and invalidates the
// outstanding code.
func (s *AccountService) CancelDeletion(ctx context.Context, userID string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return ErrAccountDeleted
	}
	if !u.DeletionRequested {
		return ErrNoDeletionRequested
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Challenges().ConsumeActiveChallenges(ctx, userID, domain.ChannelEmail, domain.PurposeAccountDeletion); err != nil {
			return fmt.Errorf("invalidate deletion challenges: %w", err)
		}
		if err := tx.Challenges().ConsumeActiveChallenges(ctx, userID, domain.ChannelPhone, domain.PurposeAccountDeletion); err != nil {
			return fmt.Errorf("invalidate deletion challenges: %w", err)
		}
		if err := tx.Users().SetDeletionRequested(ctx, userID, false); err != nil {
			return fmt.Errorf("clear deletion requested: %w", err)
		}
		return nil
	})
}

// ConfirmDeletion validates the code and, in one transaction, revokes every
// permission grant, terminates every session and soft-deletes the account.
// The shell row keeps the id and timestamps for audit; everything
// identifying is released.
func (s *AccountService) ConfirmDeletion(ctx context.Context, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return ErrAccountDeleted
	}
	if !u.DeletionRequested {
		return ErrNoDeletionRequested
	}

	// As in ChallengeService.Validate, a mismatch must commit its attempts
	// write, so that verdict leaves the transaction through a variable
	// instead of an error return.
	var verdict error
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		challenge, err := tx.Challenges().GetActiveChallengeForPurpose(ctx, userID, domain.PurposeAccountDeletion)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoActiveChallenge
		}
		if err != nil {
			return fmt.Errorf("load deletion challenge: %w", err)
		}

		now := time.Now().UTC()
		if challenge.Expired(now) {
			return ErrChallengeExpired
		}
		if challenge.Attempts >= s.Challenges.maxAttempts() {
			return ErrTooManyAttempts
		}
		if !cryptox.VerifyFingerprint(code, challenge.CodeHash) {
			attempts, aerr := tx.Challenges().IncrementChallengeAttempts(ctx, challenge.ID)
			if aerr != nil {
				return fmt.Errorf("record failed attempt: %w", aerr)
			}
			verdict = ErrCodeMismatch
			if attempts >= s.Challenges.maxAttempts() {
				if cerr := tx.Challenges().ConsumeChallenge(ctx, challenge.ID); cerr != nil {
					return fmt.Errorf("burn challenge: %w", cerr)
				}
				verdict = ErrTooManyAttempts
			}
			return nil
		}
		if err := tx.Challenges().ConsumeChallenge(ctx, challenge.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrChallengeConsumed
			}
			return fmt.Errorf("consume challenge: %w", err)
		}

		if err := tx.Permissions().DeleteAllPermissionsForUser(ctx, userID); err != nil {
			return fmt.Errorf("revoke permissions: %w", err)
		}
		if err := tx.Sessions().RevokeAllUserSessions(ctx, userID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		if err := tx.Users().SoftDeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("soft delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if verdict != nil {
		return verdict
	}

	slogx.FromContext(ctx).Info("account deleted", slog.String("user_id", userID))
	return nil
}
