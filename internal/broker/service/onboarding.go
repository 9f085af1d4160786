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
	"github.com/veilhq/veil/pkg/idx"
	"github.com/veilhq/veil/pkg/jwtx"
	"github.com/veilhq/veil/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMFANotConfigured   = errors.New("no mfa channel has been chosen")
)

// SignupParams are the fields collected on the signup form. Phone and
// national ID may arrive later through profile completion.
type SignupParams struct {
	Email       string
	Password    string
	Phone       string
	IDNumber    string
	DisplayName string
}

// LoginResult is what a completed (or paused) login yields. When
// MFAPending is set the token is empty and the caller must complete the
// second factor.
type LoginResult struct {
	UserID     string
	Token      string
	MFAPending bool
	MFAChannel domain.Channel
}

// OnboardingService covers signup, social onboarding and login. It mints
// sessions and access tokens; everything consent-related stays behind the
// verification gate owned by VerificationService.
type OnboardingService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	Challenges *ChallengeService

	SessionTTL time.Duration
}

func (s *OnboardingService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Signup registers a password account and sends the first email
// verification code. The new account starts unverified.
func (s *OnboardingService) Signup(ctx context.Context, p SignupParams) (domain.User, error) {
	if _, err := s.Store.Users().GetUserByEmail(ctx, p.Email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	handle, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.User{}, fmt.Errorf("generate pseudo handle: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        p.Email,
		Phone:        p.Phone,
		IDNumber:     p.IDNumber,
		DisplayName:  p.DisplayName,
		PasswordHash: hash,
		PseudoHandle: handle,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	if _, err := s.Challenges.Issue(ctx, u, domain.ChannelEmail, domain.PurposeSignup); err != nil {
		// The account exists; the user can request a code explicitly.
		slogx.FromContext(ctx).Warn("initial verification code not issued",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
	}

	slogx.FromContext(ctx).Info("user signed up", slog.String("user_id", u.ID))
	return u, nil
}

// SocialOnboard registers or resumes a social-identity user. The provider
// has vouched for the email, but the broker still runs its own channel
// verification; provider claims do not flip the flags.
func (s *OnboardingService) SocialOnboard(ctx context.Context, externalSub, email, displayName string) (domain.User, error) {
	existing, err := s.Store.Users().GetUserByExternalSub(ctx, externalSub)
	if err == nil {
		if existing.Deleted() {
			return domain.User{}, ErrAccountDeleted
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup external sub: %w", err)
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}

	handle, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.User{}, fmt.Errorf("generate pseudo handle: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  displayName,
		ExternalSub:  externalSub,
		PseudoHandle: handle,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user onboarded via social identity", slog.String("user_id", u.ID))
	return u, nil
}

// Login checks credentials. Accounts with an MFA channel chosen get a
// second-factor code instead of a token; the rest get a token immediately.
func (s *OnboardingService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return LoginResult{}, ErrInvalidCredentials
	}
	if u.PasswordHash == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if u.MFAChannel.Valid() {
		if _, err := s.Challenges.Issue(ctx, u, u.MFAChannel, domain.PurposeLoginMFA); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{UserID: u.ID, MFAPending: true, MFAChannel: u.MFAChannel}, nil
	}

	token, err := s.mintSession(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: u.ID, Token: token}, nil
}

// CompleteLoginMFA validates the second-factor code and mints the token.
func (s *OnboardingService) CompleteLoginMFA(ctx context.Context, userID, code string) (LoginResult, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if u.Deleted() {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.MFAChannel.Valid() {
		return LoginResult{}, ErrMFANotConfigured
	}

	if err := s.Challenges.Validate(ctx, userID, code, u.MFAChannel, domain.PurposeLoginMFA); err != nil {
		return LoginResult{}, err
	}

	token, err := s.mintSession(ctx, userID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: userID, Token: token}, nil
}

// Logout revokes the session behind the presented token. Other sessions
// of the same user stay live; deletion is what kills them all.
func (s *OnboardingService) Logout(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().RevokeSession(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// SessionActive satisfies httpx.SessionChecker so deleted accounts lose
// API access the moment their sessions are revoked.
func (s *OnboardingService) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	sess, err := s.Store.Sessions().GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sess.Active(time.Now().UTC()), nil
}

func (s *OnboardingService) mintSession(ctx context.Context, userID string) (string, error) {
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := s.Signer.Mint(userID, sess.ID)
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return token, nil
}
