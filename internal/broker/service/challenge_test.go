package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/internal/broker/domain"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/internal/broker/store/drivers/sqlite"
	"github.com/veilhq/veil/pkg/cryptox"
	"github.com/veilhq/veil/pkg/idx"
)

// captureSender records dispatched codes so tests can submit them.
type captureSender struct {
	codes chan string
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(chan string, 8)}
}

func (s *captureSender) Send(ctx context.Context, destination string, channel domain.Channel, code string) error {
	s.codes <- code
	return nil
}

// lastCode waits for the next dispatched code.
func (s *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	select {
	case code := <-s.codes:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("no code dispatched")
		return ""
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

var testPhoneSeq atomic.Int64

func createTestUser(t *testing.T, st store.Store, mutate func(*domain.User)) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		Phone:        fmt.Sprintf("+6140%07d", testPhoneSeq.Add(1)),
		DisplayName:  "Test User",
		PasswordHash: "hash",
		PseudoHandle: cryptox.MustGenerateToken(cryptox.TokenSize128),
	}
	if mutate != nil {
		mutate(&u)
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))

	stored, err := st.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return stored
}

func newChallengeService(st store.Store, sender *captureSender) *ChallengeService {
	return &ChallengeService{Store: st, Sender: sender}
}

func TestChallengeIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)

	challenge, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	require.Equal(t, user.ID, challenge.UserID)
	require.True(t, challenge.ExpiresAt.After(challenge.IssuedAt))

	code := sender.lastCode(t)
	require.Len(t, code, 6)

	require.NoError(t, svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup))
}

func TestChallengeValidateWrongCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)
	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	code := sender.lastCode(t)

	err = svc.Validate(ctx, user.ID, "000000", domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrCodeMismatch)

	// A mismatch does not consume the challenge; the right code still works.
	require.NoError(t, svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup))
}

func TestChallengeValidateSingleUse(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)
	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	code := sender.lastCode(t)

	require.NoError(t, svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup))

	// The same code never validates twice.
	err = svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrChallengeConsumed)
}

func TestChallengeValidateNoneOutstanding(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newChallengeService(st, newCaptureSender())

	user := createTestUser(t, st, nil)

	err := svc.Validate(ctx, user.ID, "123456", domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrNoActiveChallenge)
}

func TestChallengeValidateExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newChallengeService(st, newCaptureSender())

	user := createTestUser(t, st, nil)

	// Insert a lapsed challenge directly.
	code := "314159"
	now := time.Now().UTC()
	require.NoError(t, st.Challenges().CreateChallenge(ctx, domain.Challenge{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Channel:   domain.ChannelEmail,
		Purpose:   domain.PurposeSignup,
		CodeHash:  cryptox.FingerprintToken(code),
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-50 * time.Minute),
	}))

	err := svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrChallengeExpired)
}

func TestChallengeIssueSupersedesPrevious(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)

	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	first := sender.lastCode(t)

	_, err = svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	second := sender.lastCode(t)

	// Only the newest code validates.
	err = svc.Validate(ctx, user.ID, first, domain.ChannelEmail, domain.PurposeSignup)
	require.Error(t, err)
	require.NoError(t, svc.Validate(ctx, user.ID, second, domain.ChannelEmail, domain.PurposeSignup))
}

func TestChallengeResendCooldown(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)
	svc.Cooldown = time.Hour

	user := createTestUser(t, st, nil)

	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	sender.lastCode(t)

	_, err = svc.Resend(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrResendCooldown)
}

func TestChallengeResendWithoutPriorIssues(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)

	_, err := svc.Resend(ctx, user, domain.ChannelPhone, domain.PurposeSignup)
	require.NoError(t, err)
	require.Len(t, sender.lastCode(t), 6)
}

func TestChallengeMaxAttempts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)
	svc.MaxAttempts = 3

	user := createTestUser(t, st, nil)
	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	code := sender.lastCode(t)

	for i := 0; i < 2; i++ {
		err = svc.Validate(ctx, user.ID, "000000", domain.ChannelEmail, domain.PurposeSignup)
		require.ErrorIs(t, err, ErrCodeMismatch)
	}

	// Third mismatch burns the challenge.
	err = svc.Validate(ctx, user.ID, "000000", domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// The burnt challenge is consumed, not just refused.
	stored, err := st.Challenges().GetLatestChallenge(ctx, user.ID, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	require.True(t, stored.Consumed())
	require.Equal(t, 3, stored.Attempts)

	// Even the right code is refused now.
	err = svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestChallengeMismatchPersistsAttempts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)
	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)

	// Each mismatch survives its own call; the counter must not reset
	// between requests.
	for i := 1; i <= 3; i++ {
		err = svc.Validate(ctx, user.ID, "000000", domain.ChannelEmail, domain.PurposeSignup)
		require.ErrorIs(t, err, ErrCodeMismatch)

		stored, serr := st.Challenges().GetLatestChallenge(ctx, user.ID, domain.ChannelEmail, domain.PurposeSignup)
		require.NoError(t, serr)
		require.Equal(t, i, stored.Attempts)
	}
}

func TestChallengeIssueUnreachableChannel(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newChallengeService(st, newCaptureSender())

	user := createTestUser(t, st, func(u *domain.User) {
		u.Phone = ""
	})

	_, err := svc.Issue(ctx, user, domain.ChannelPhone, domain.PurposeSignup)
	require.ErrorIs(t, err, ErrChannelUnreachable)
}

func TestChallengePurposeIsolation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sender := newCaptureSender()
	svc := newChallengeService(st, sender)

	user := createTestUser(t, st, nil)
	_, err := svc.Issue(ctx, user, domain.ChannelEmail, domain.PurposeSignup)
	require.NoError(t, err)
	code := sender.lastCode(t)

	// A signup code never validates for account deletion.
	err = svc.Validate(ctx, user.ID, code, domain.ChannelEmail, domain.PurposeAccountDeletion)
	require.ErrorIs(t, err, ErrNoActiveChallenge)
}
