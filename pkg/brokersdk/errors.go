package brokersdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/veilhq/veil/pkg/httpx"
)

// Error codes returned by the broker API. Clients switch on Code; the
// description is for humans and may change.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInvalidGrant      = "invalid_grant"
	ErrorCodeServerError       = "server_error"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeNotVerified       = "not_verified"
	ErrorCodeAlreadyVerified   = "already_verified"
	ErrorCodeNoActiveChallenge = "no_active_challenge"
	ErrorCodeChallengeExpired  = "challenge_expired"
	ErrorCodeCodeMismatch      = "code_mismatch"
	ErrorCodeAlreadyConsumed   = "already_consumed"
	ErrorCodeTooManyRequests   = "too_many_requests"
	ErrorCodeNoFieldsSelected  = "no_fields_selected"
	ErrorCodePreferenceSet     = "preference_already_set"
	ErrorCodeEmailTaken        = "email_taken"
	ErrorCodePhoneTaken        = "phone_taken"
	ErrorCodeCompanySuspended  = "company_suspended"
	ErrorCodeAccountDeleted    = "account_deleted"
)

// APIError is the broker's wire-level error shape. It serves both sides:
// handlers write it, the SDK client decodes it.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid, expired or revoked",
	}

	ErrInvalidGrant = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "invalid credentials",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an internal error occurred",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "the requested resource does not exist",
	}

	ErrNotVerified = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNotVerified,
		Description: "both channels must be verified before using this operation",
	}

	ErrAlreadyVerified = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyVerified,
		Description: "this channel is already verified",
	}

	ErrNoActiveChallenge = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNoActiveChallenge,
		Description: "no code is outstanding, request one first",
	}

	ErrChallengeExpired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeChallengeExpired,
		Description: "the code has expired, request a new one",
	}

	ErrCodeMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeCodeMismatch,
		Description: "the submitted code is incorrect",
	}

	ErrAlreadyConsumed = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyConsumed,
		Description: "the code has already been used",
	}

	ErrTooManyRequests = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeTooManyRequests,
		Description: "too many attempts, slow down",
	}

	ErrNoFieldsSelected = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNoFieldsSelected,
		Description: "at least one field must be granted",
	}

	ErrPreferenceAlreadySet = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodePreferenceSet,
		Description: "the mfa channel preference has already been chosen",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "this email is already registered",
	}

	ErrPhoneTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodePhoneTaken,
		Description: "this phone number is already registered",
	}

	ErrCompanySuspended = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeCompanySuspended,
		Description: "this company is suspended",
	}

	ErrAccountDeleted = &APIError{
		StatusCode:  http.StatusGone,
		Code:        ErrorCodeAccountDeleted,
		Description: "this account has been deleted",
	}
)
