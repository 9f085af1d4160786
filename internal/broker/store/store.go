package store

import (
	"context"
	"errors"

	"github.com/veilhq/veil/internal/broker/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and let
// the same contract be backed by an in-memory database in tests.
type Store interface {
	Users() Users
	Challenges() Challenges
	Permissions() Permissions
	Companies() Companies
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended entry point
	// for multi-step operations that must be atomic (challenge supersede,
	// deletion cascade).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id, including soft-deleted shells.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and duplicate checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByExternalSub resolves a social-onboarded user.
	GetUserByExternalSub(ctx context.Context, sub string) (domain.User, error)

	// GetUserByPseudoHandle resolves the opaque handle companies query by.
	GetUserByPseudoHandle(ctx context.Context, handle string) (domain.User, error)

	// CreateUser inserts a new user (id and pseudo handle provided by the app).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates phone, national ID and display name and bumps
	// updated_at. Empty values leave the column untouched.
	UpdateProfile(ctx context.Context, userID, phone, idNumber, displayName string) error

	// SetChannelVerified flips the verified flag for one channel. Flags are
	// only ever set, never cleared.
	SetChannelVerified(ctx context.Context, userID string, ch domain.Channel) error

	// SetMFAChannel records the preferred second-factor channel.
	SetMFAChannel(ctx context.Context, userID string, ch domain.Channel) error

	// SetDeletionRequested marks or clears the pending-deletion flag.
	SetDeletionRequested(ctx context.Context, userID string, requested bool) error

	// SoftDeleteUser releases the identifying columns and stamps deleted_at,
	// leaving an auditable shell row.
	SoftDeleteUser(ctx context.Context, userID string) error
}

type Challenges interface {
	// CreateChallenge stores a freshly issued challenge.
	CreateChallenge(ctx context.Context, c domain.Challenge) error

	// GetActiveChallenge returns the unconsumed challenge for the tuple.
	// Expiry is left to the caller so it can report Expired distinctly from
	// NoActiveChallenge.
	GetActiveChallenge(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) (domain.Challenge, error)

	// GetLatestChallenge returns the most recently issued challenge for the
	// tuple, consumed or not. Validation needs it to tell a spent code
	// ("already consumed") apart from no code at all.
	GetLatestChallenge(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) (domain.Challenge, error)

	// GetActiveChallengeForPurpose returns the unconsumed challenge for a
	// purpose regardless of channel. Deletion confirmation does not know
	// which channel the code went to.
	GetActiveChallengeForPurpose(ctx context.Context, userID string, p domain.Purpose) (domain.Challenge, error)

	// ConsumeChallenge stamps consumed_at on a single challenge.
	ConsumeChallenge(ctx context.Context, id string) error

	// ConsumeActiveChallenges invalidates every unconsumed challenge for the
	// tuple. Called before inserting a successor.
	ConsumeActiveChallenges(ctx context.Context, userID string, ch domain.Channel, p domain.Purpose) error

	// IncrementChallengeAttempts bumps the failed-attempt counter and
	// returns the new count.
	IncrementChallengeAttempts(ctx context.Context, id string) (int, error)

	// DeleteExpiredChallenges is housekeeping.
	DeleteExpiredChallenges(ctx context.Context) error
}

type Permissions interface {
	// GetPermission fetches the grant row for a (user, company) pair.
	GetPermission(ctx context.Context, userID, companyID string) (domain.Permission, error)

	// GetPermissionByID fetches a grant row by its id.
	GetPermissionByID(ctx context.Context, id string) (domain.Permission, error)

	// UpsertPermission creates or overwrites the row for (UserID, CompanyID).
	UpsertPermission(ctx context.Context, p domain.Permission) error

	// UpdatePermissionFlags overwrites the three flags and bumps updated_at.
	UpdatePermissionFlags(ctx context.Context, id string, email, phone, idNumber bool) error

	// ListPermissionsForUser returns all grant rows for a user, newest first.
	ListPermissionsForUser(ctx context.Context, userID string) ([]domain.Permission, error)

	// DeletePermission removes the row for a (user, company) pair. Deleting
	// an absent row is a no-op, not an error.
	DeletePermission(ctx context.Context, userID, companyID string) error

	// DeletePermissionByID removes a row by id.
	DeletePermissionByID(ctx context.Context, id string) error

	// DeleteAllPermissionsForUser removes every grant for a departing user.
	DeleteAllPermissionsForUser(ctx context.Context, userID string) error
}

type Companies interface {
	// GetCompanyByID fetches a company record.
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// CreateCompany inserts a new company (id is ULID).
	CreateCompany(ctx context.Context, c domain.Company) error

	// ListCompanies returns all companies ordered by creation date.
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	// SetCompanySuspended toggles the suspension flag.
	SetCompanySuspended(ctx context.Context, id string, suspended bool) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession fetches a session by id.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession stamps revoked_at on one session.
	RevokeSession(ctx context.Context, id string) error

	// RevokeAllUserSessions terminates every live session for a user.
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}
