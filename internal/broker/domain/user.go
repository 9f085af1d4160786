package domain

import "time"

// Channel is one of the two contact methods requiring independent proof of
// ownership.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelPhone
}

// VerificationState is the aggregate of the two per-channel flags.
type VerificationState string

const (
	StateUnverified        VerificationState = "unverified"
	StatePartiallyVerified VerificationState = "partially_verified"
	StateVerified          VerificationState = "verified"
)

// User is the identity record. Verification flags are monotonic: once a
// channel is proven it stays proven until the account itself is deleted.
type User struct {
	ID           string
	Email        string
	Phone        string // may be empty until supplied (social onboarding)
	IDNumber     string // national ID, optional until supplied
	DisplayName  string
	PasswordHash string // argon2 encoded; empty for social-onboarded users
	ExternalSub  string // subject ID from the social identity provider
	PseudoHandle string // opaque handle companies query by

	EmailVerified     bool
	PhoneVerified     bool
	MFAChannel        Channel // preferred second-factor channel; "" until chosen
	DeletionRequested bool
	DeletedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VerificationState computes the aggregate from the per-channel flags.
func (u User) VerificationState() VerificationState {
	switch {
	case u.EmailVerified && u.PhoneVerified:
		return StateVerified
	case u.EmailVerified || u.PhoneVerified:
		return StatePartiallyVerified
	default:
		return StateUnverified
	}
}

// Verified reports whether both channels are proven, the single gate for
// data-sharing capability.
func (u User) Verified() bool {
	return u.EmailVerified && u.PhoneVerified
}

// Deleted reports whether the account has completed deletion.
func (u User) Deleted() bool {
	return u.DeletedAt != nil
}

// ContactFor returns the stored contact value for the channel.
func (u User) ContactFor(ch Channel) string {
	if ch == ChannelEmail {
		return u.Email
	}
	return u.Phone
}
