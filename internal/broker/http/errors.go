package http

import (
	"errors"
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
)

// writeServiceError maps service sentinel errors to wire errors. Unknown
// errors become a plain 500; the caller is expected to have logged them.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveChallenge):
		brokersdk.ErrNoActiveChallenge.WriteError(w)
	case errors.Is(err, service.ErrChallengeExpired):
		brokersdk.ErrChallengeExpired.WriteError(w)
	case errors.Is(err, service.ErrCodeMismatch):
		brokersdk.ErrCodeMismatch.WriteError(w)
	case errors.Is(err, service.ErrChallengeConsumed):
		brokersdk.ErrAlreadyConsumed.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts),
		errors.Is(err, service.ErrResendCooldown):
		brokersdk.ErrTooManyRequests.WriteError(w)
	case errors.Is(err, service.ErrChannelUnreachable),
		errors.Is(err, service.ErrInvalidChannel),
		errors.Is(err, service.ErrInvalidPurpose),
		errors.Is(err, service.ErrNoFieldsSelected),
		errors.Is(err, service.ErrNoDeletionRequested):
		brokersdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrNotVerified):
		brokersdk.ErrNotVerified.WriteError(w)
	case errors.Is(err, service.ErrChannelAlreadyVerified):
		brokersdk.ErrAlreadyVerified.WriteError(w)
	case errors.Is(err, service.ErrPreferenceAlreadySet):
		brokersdk.ErrPreferenceAlreadySet.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		brokersdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrPhoneTaken):
		brokersdk.ErrPhoneTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMFANotConfigured):
		brokersdk.ErrInvalidGrant.WriteError(w)
	case errors.Is(err, service.ErrCompanySuspended):
		brokersdk.ErrCompanySuspended.WriteError(w)
	case errors.Is(err, service.ErrAccountDeleted):
		brokersdk.ErrAccountDeleted.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCompanyNotFound),
		errors.Is(err, service.ErrPermissionNotFound):
		brokersdk.ErrNotFound.WriteError(w)
	default:
		brokersdk.ErrServerError.WriteError(w)
	}
}
