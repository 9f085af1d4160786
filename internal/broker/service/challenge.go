package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/notify"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/cryptox"
	"github.com/veilhq/veil/pkg/idx"
	"github.com/veilhq/veil/pkg/slogx"
)

const (
	// DefaultChallengeTTL is how long an issued code stays valid.
	DefaultChallengeTTL = 10 * time.Minute

	// DefaultResendCooldown is the minimum gap between issuing a code and
	// asking for another one on the same channel and purpose.
	DefaultResendCooldown = 60 * time.Second

	// DefaultMaxAttempts is how many wrong codes a challenge absorbs
	// before it stops accepting input.
	DefaultMaxAttempts = 5
)

var (
	ErrNoActiveChallenge  = errors.New("no active challenge for this channel")
	ErrChallengeExpired   = errors.New("challenge has expired")
	ErrCodeMismatch       = errors.New("submitted code does not match")
	ErrChallengeConsumed  = errors.New("challenge has already been used")
	ErrTooManyAttempts    = errors.New("too many failed attempts for this challenge")
	ErrResendCooldown     = errors.New("a code was sent recently, wait before requesting another")
	ErrChannelUnreachable = errors.New("no destination on file for this channel")
	ErrInvalidChannel     = errors.New("unknown verification channel")
	ErrInvalidPurpose     = errors.New("unknown challenge purpose")
)

// ChallengeService issues short-lived one-time codes and validates them
// exactly once. Codes never touch storage in the clear; only a fingerprint
// is kept, so a leaked database row cannot be replayed.
type ChallengeService struct {
	Store  store.Store
	Sender notify.Sender

	TTL         time.Duration
	Cooldown    time.Duration
	MaxAttempts int
}

func (s *ChallengeService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultChallengeTTL
}

func (s *ChallengeService) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return DefaultResendCooldown
}

func (s *ChallengeService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Issue mints a fresh code for the user on the given channel and purpose,
// supersedes any earlier unconsumed challenge for the same tuple, and hands
// the code to the notifier. The caller never sees the code.
func (s *ChallengeService) Issue(ctx context.Context, user domain.User, ch domain.Channel, p domain.Purpose) (domain.Challenge, error) {
	if !ch.Valid() {
		return domain.Challenge{}, ErrInvalidChannel
	}
	if !p.Valid() {
		return domain.Challenge{}, ErrInvalidPurpose
	}

	destination := user.ContactFor(ch)
	if destination == "" {
		return domain.Challenge{}, ErrChannelUnreachable
	}

	code, err := cryptox.GenerateChallengeCode()
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("generate code: %w", err)
	}

	now := time.Now().UTC()
	challenge := domain.Challenge{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Channel:   ch,
		Purpose:   p,
		CodeHash:  cryptox.FingerprintToken(code),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Challenges().ConsumeActiveChallenges(ctx, user.ID, ch, p); err != nil {
			return fmt.Errorf("supersede active challenges: %w", err)
		}
		if err := tx.Challenges().CreateChallenge(ctx, challenge); err != nil {
			return fmt.Errorf("create challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Challenge{}, err
	}

	s.deliver(ctx, destination, ch, code)
	return challenge, nil
}

// Resend issues a replacement code, provided the cool-down since the last
// issue has elapsed. With no prior challenge on file it behaves like Issue.
func (s *ChallengeService) Resend(ctx context.Context, user domain.User, ch domain.Channel, p domain.Purpose) (domain.Challenge, error) {
	if !ch.Valid() {
		return domain.Challenge{}, ErrInvalidChannel
	}
	if !p.Valid() {
		return domain.Challenge{}, ErrInvalidPurpose
	}

	last, err := s.Store.Challenges().GetLatestChallenge(ctx, user.ID, ch, p)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// nothing on file, plain issue
	case err != nil:
		return domain.Challenge{}, fmt.Errorf("load latest challenge: %w", err)
	default:
		if time.Now().UTC().Sub(last.IssuedAt) < s.cooldown() {
			return domain.Challenge{}, ErrResendCooldown
		}
	}

	return s.Issue(ctx, user, ch, p)
}

// Validate checks a submitted code against the active challenge for the
// tuple and consumes it on a match. A consumed challenge never validates
// again; enough mismatches burn the challenge entirely.
func (s *ChallengeService) Validate(ctx context.Context, userID, code string, ch domain.Channel, p domain.Purpose) error {
	// A mismatch still writes the attempts counter, so that verdict is
	// carried out of the transaction rather than returned from inside it,
	// where it would roll the write back.
	var verdict error
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		challenge, err := tx.Challenges().GetActiveChallenge(ctx, userID, ch, p)
		if errors.Is(err, store.ErrNotFound) {
			return s.classifyMissing(ctx, tx, userID, ch, p)
		}
		if err != nil {
			return fmt.Errorf("load active challenge: %w", err)
		}

		now := time.Now().UTC()
		if challenge.Expired(now) {
			return ErrChallengeExpired
		}
		if challenge.Attempts >= s.maxAttempts() {
			return ErrTooManyAttempts
		}

		if !cryptox.VerifyFingerprint(code, challenge.CodeHash) {
			attempts, aerr := tx.Challenges().IncrementChallengeAttempts(ctx, challenge.ID)
			if aerr != nil {
				return fmt.Errorf("record failed attempt: %w", aerr)
			}
			verdict = ErrCodeMismatch
			if attempts >= s.maxAttempts() {
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
		return nil
	})
	if err != nil {
		return err
	}
	return verdict
}

// classifyMissing tells a spent code apart from no code at all. Callers
// get TooManyAttempts when the most recent challenge was burnt by
// mismatches, AlreadyConsumed when it was used, Expired when it lapsed,
// and NoActiveChallenge otherwise.
func (s *ChallengeService) classifyMissing(ctx context.Context, tx store.Tx, userID string, ch domain.Channel, p domain.Purpose) error {
	last, err := tx.Challenges().GetLatestChallenge(ctx, userID, ch, p)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoActiveChallenge
	}
	if err != nil {
		return fmt.Errorf("load latest challenge: %w", err)
	}
	if last.Attempts >= s.maxAttempts() {
		return ErrTooManyAttempts
	}
	if last.Consumed() {
		return ErrChallengeConsumed
	}
	if last.Expired(time.Now().UTC()) {
		return ErrChallengeExpired
	}
	return ErrNoActiveChallenge
}

// deliver hands the code to the notifier without blocking the caller.
// Delivery failures are logged, never surfaced; the user can always ask
// for a resend.
func (s *ChallengeService) deliver(ctx context.Context, destination string, ch domain.Channel, code string) {
	logger := slogx.FromContext(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.Sender.Send(sendCtx, destination, ch, code); err != nil {
			logger.Error("challenge code delivery failed",
				slog.String("channel", string(ch)),
				slog.Any("error", err),
			)
		}
	}()
}
