package domain

import "time"

// Purpose scopes a challenge to the flow that issued it. Binding codes to a
// (user, channel, purpose) triple prevents cross-purpose replay: a login
// second-factor code can never authorize account deletion.
type Purpose string

const (
	PurposeSignup          Purpose = "signup"
	PurposeLoginMFA        Purpose = "login-mfa"
	PurposeAccountDeletion Purpose = "account-deletion"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeSignup || p == PurposeLoginMFA || p == PurposeAccountDeletion
}

// Challenge is one outstanding OTP attempt. At most one unconsumed,
// unexpired challenge exists per (UserID, Channel, Purpose); issuing a new
// one consumes any predecessor.
type Challenge struct {
	ID       string
	UserID   string
	Channel  Channel
	Purpose  Purpose
	CodeHash string // SHA-256 fingerprint of the code; the code itself is never stored
	Attempts int    // failed validation attempts

	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// Expired reports whether the challenge is past its expiry at now.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Consumed reports whether the challenge has been used or superseded.
func (c Challenge) Consumed() bool {
	return c.ConsumedAt != nil
}
