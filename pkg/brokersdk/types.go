package brokersdk

import "time"

// ErrorResponse documents the error wire shape for Swagger.
type ErrorResponse struct {
	Code        string `json:"error" example:"invalid_request"`
	Description string `json:"error_description" example:"the request is malformed"`
}

// SignupRequest registers a password account.
type SignupRequest struct {
	Email       string `json:"email" example:"ada@example.com"`
	Password    string `json:"password" example:"correct-horse-battery"`
	Phone       string `json:"phone,omitempty" example:"+61400000000"`
	IDNumber    string `json:"id_number,omitempty"`
	DisplayName string `json:"display_name,omitempty" example:"Ada"`
}

// SocialOnboardRequest registers or resumes a social-identity account.
type SocialOnboardRequest struct {
	ExternalSub string `json:"external_sub"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginMFARequest completes a login paused on the second factor.
type LoginMFARequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// LoginResponse is a completed or paused login. When MFAPending is true the
// token is empty and the client must submit the code from the MFA channel.
type LoginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty" example:"Bearer"`
	MFAPending  bool   `json:"mfa_pending,omitempty"`
	MFAChannel  string `json:"mfa_channel,omitempty" example:"phone"`
}

// VerificationCodeRequest submits a received code for a channel.
type VerificationCodeRequest struct {
	Code string `json:"code" example:"482913"`
}

// VerificationStatusResponse is the per-channel flags plus the aggregate.
type VerificationStatusResponse struct {
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
	State         string `json:"state" example:"partially_verified"`
}

// MFAPreferenceRequest chooses the second-factor channel.
type MFAPreferenceRequest struct {
	Channel string `json:"channel" example:"phone"`
}

// MFAPreferenceResponse reports the chosen channel, empty until set.
type MFAPreferenceResponse struct {
	Channel string `json:"channel" example:"email"`
}

// PermissionRequest creates or replaces a grant.
type PermissionRequest struct {
	CompanyID       string `json:"company_id"`
	EmailAllowed    bool   `json:"email_allowed"`
	PhoneAllowed    bool   `json:"phone_allowed"`
	IDNumberAllowed bool   `json:"id_number_allowed"`
}

// PermissionPatchRequest partially updates a grant; nil fields are left
// unchanged.
type PermissionPatchRequest struct {
	EmailAllowed    *bool `json:"email_allowed,omitempty"`
	PhoneAllowed    *bool `json:"phone_allowed,omitempty"`
	IDNumberAllowed *bool `json:"id_number_allowed,omitempty"`
}

// PermissionResponse is one grant row.
type PermissionResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	EmailAllowed    bool      `json:"email_allowed"`
	PhoneAllowed    bool      `json:"phone_allowed"`
	IDNumberAllowed bool      `json:"id_number_allowed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PermissionListResponse wraps the user's grants.
type PermissionListResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
}

// AllowedFieldsResponse answers the company-side query.
type AllowedFieldsResponse struct {
	Fields []string `json:"fields" example:"email,phone"`
}

// DeletionRequestResponse tells the client where the confirmation code went.
type DeletionRequestResponse struct {
	Channel string `json:"channel" example:"email"`
}

// DeletionConfirmRequest submits the deletion code.
type DeletionConfirmRequest struct {
	Code string `json:"code"`
}

// ProfileResponse is the user's own view of their record.
type ProfileResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	IDNumber      string `json:"id_number,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	PseudoHandle  string `json:"pseudo_handle"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
	State         string `json:"state"`
	MFAChannel    string `json:"mfa_channel,omitempty"`
}

// ProfileUpdateRequest fills in fields onboarding left empty.
type ProfileUpdateRequest struct {
	Phone       string `json:"phone,omitempty"`
	IDNumber    string `json:"id_number,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// CompanyRequest registers a company.
type CompanyRequest struct {
	Name       string `json:"name"`
	ExternalID string `json:"external_id,omitempty"`
	Segment    string `json:"segment,omitempty"`
}

// CompanyResponse is one registered company.
type CompanyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id,omitempty"`
	Segment    string `json:"segment,omitempty"`
	Suspended  bool   `json:"suspended"`
}

// CompanyListResponse wraps the registry.
type CompanyListResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// HealthResponse reports service liveness or readiness.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}
