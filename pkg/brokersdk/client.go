package brokersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the broker's HTTP API. Unauthenticated calls
// hang off the client directly; Login and CompleteLoginMFA return a Session
// for the token-bearing endpoints.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a broker client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is an authenticated view of the API, bound to one access token.
// Tokens are not refreshed; when one expires the caller logs in again.
type Session struct {
	client *SDKClient
	token  string
}

// NewSession wraps an existing access token.
func (c *SDKClient) NewSession(accessToken string) *Session {
	return &Session{client: c, token: accessToken}
}

func (c *SDKClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if derr := json.NewDecoder(resp.Body).Decode(apiErr); derr != nil || apiErr.Code == "" {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Signup registers a password account.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/signup", "", req, &out)
	return out, err
}

// SocialOnboard registers or resumes a social-identity account.
func (c *SDKClient) SocialOnboard(ctx context.Context, req SocialOnboardRequest) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/social", "", req, &out)
	return out, err
}

// Login authenticates. When the response has MFAPending set, follow up with
// CompleteLoginMFA using the code delivered to the MFA channel.
func (c *SDKClient) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// CompleteLoginMFA finishes a login paused on the second factor.
func (c *SDKClient) CompleteLoginMFA(ctx context.Context, userID, code string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login/mfa", "", LoginMFARequest{UserID: userID, Code: code}, &out)
	return out, err
}

// AllowedFields is the company-side query: which attribute names may the
// company read for the user behind the pseudo handle.
func (c *SDKClient) AllowedFields(ctx context.Context, pseudoHandle, companyID string) (AllowedFieldsResponse, error) {
	var out AllowedFieldsResponse
	path := fmt.Sprintf("/v1/query/%s/allowed-fields?company_id=%s",
		url.PathEscape(pseudoHandle), url.QueryEscape(companyID))
	err := c.do(ctx, http.MethodGet, path, "", nil, &out)
	return out, err
}

// GetLiveness checks the liveness endpoint.
func (c *SDKClient) GetLiveness(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out)
	return out, err
}

// Logout revokes the session behind this token. The Session is dead
// afterwards; further calls fail with invalid_token.
func (s *Session) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "/v1/auth/logout", s.token, nil, nil)
}

// RequestVerification asks for a code on a channel.
func (s *Session) RequestVerification(ctx context.Context, channel string) error {
	return s.client.do(ctx, http.MethodPost, "/v1/verification/"+url.PathEscape(channel)+"/request", s.token, nil, nil)
}

// ResendVerification replaces the outstanding code, subject to cool-down.
func (s *Session) ResendVerification(ctx context.Context, channel string) error {
	return s.client.do(ctx, http.MethodPost, "/v1/verification/"+url.PathEscape(channel)+"/resend", s.token, nil, nil)
}

// ConfirmVerification submits a received code.
func (s *Session) ConfirmVerification(ctx context.Context, channel, code string) (VerificationStatusResponse, error) {
	var out VerificationStatusResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/verification/"+url.PathEscape(channel)+"/confirm", s.token,
		VerificationCodeRequest{Code: code}, &out)
	return out, err
}

// VerificationStatus reports the per-channel flags and aggregate state.
func (s *Session) VerificationStatus(ctx context.Context) (VerificationStatusResponse, error) {
	var out VerificationStatusResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/verification/status", s.token, nil, &out)
	return out, err
}

// SetMFAPreference makes the one-time channel choice.
func (s *Session) SetMFAPreference(ctx context.Context, channel string) error {
	return s.client.do(ctx, http.MethodPut, "/v1/mfa/preference", s.token, MFAPreferenceRequest{Channel: channel}, nil)
}

// GetMFAPreference reads the chosen channel.
func (s *Session) GetMFAPreference(ctx context.Context) (MFAPreferenceResponse, error) {
	var out MFAPreferenceResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/mfa/preference", s.token, nil, &out)
	return out, err
}

// AssignPermission creates or replaces a grant.
func (s *Session) AssignPermission(ctx context.Context, req PermissionRequest) (PermissionResponse, error) {
	var out PermissionResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/permissions", s.token, req, &out)
	return out, err
}

// ListPermissions returns the user's grants.
func (s *Session) ListPermissions(ctx context.Context) (PermissionListResponse, error) {
	var out PermissionListResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/permissions", s.token, nil, &out)
	return out, err
}

// UpdatePermission partially updates a grant. A 204 means the update
// cleared the last field and the grant was removed.
func (s *Session) UpdatePermission(ctx context.Context, id string, req PermissionPatchRequest) error {
	return s.client.do(ctx, http.MethodPatch, "/v1/permissions/"+url.PathEscape(id), s.token, req, nil)
}

// RevokePermission removes the grant for one company.
func (s *Session) RevokePermission(ctx context.Context, companyID string) error {
	return s.client.do(ctx, http.MethodDelete, "/v1/permissions/"+url.PathEscape(companyID), s.token, nil, nil)
}

// RevokeAllPermissions removes every grant.
func (s *Session) RevokeAllPermissions(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/v1/permissions", s.token, nil, nil)
}

// RequestAccountDeletion starts OTP-gated deletion.
func (s *Session) RequestAccountDeletion(ctx context.Context) (DeletionRequestResponse, error) {
	var out DeletionRequestResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/account/delete/request", s.token, nil, &out)
	return out, err
}

// ConfirmAccountDeletion submits the deletion code. On success the session's
// token is already revoked.
func (s *Session) ConfirmAccountDeletion(ctx context.Context, code string) error {
	return s.client.do(ctx, http.MethodPost, "/v1/account/delete/confirm", s.token, DeletionConfirmRequest{Code: code}, nil)
}

// GetProfile returns the user's record.
func (s *Session) GetProfile(ctx context.Context) (ProfileResponse, error) {
	var out ProfileResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/profile", s.token, nil, &out)
	return out, err
}

// UpdateProfile fills in fields onboarding left empty.
func (s *Session) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (ProfileResponse, error) {
	var out ProfileResponse
	err := s.client.do(ctx, http.MethodPut, "/v1/profile", s.token, req, &out)
	return out, err
}

// RegisterCompany adds a company to the registry so users can grant it
// field access.
func (s *Session) RegisterCompany(ctx context.Context, req CompanyRequest) (CompanyResponse, error) {
	var out CompanyResponse
	err := s.client.do(ctx, http.MethodPost, "/v1/companies", s.token, req, &out)
	return out, err
}

// ListCompanies returns the company registry.
func (s *Session) ListCompanies(ctx context.Context) (CompanyListResponse, error) {
	var out CompanyListResponse
	err := s.client.do(ctx, http.MethodGet, "/v1/companies", s.token, nil, &out)
	return out, err
}
