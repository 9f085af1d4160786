package http

import (
	"encoding/json"
	"net/http"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/pkg/brokersdk"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/slogx"
)

// AuthHandler handles signup, social onboarding and login.
type AuthHandler struct {
	OnboardingService *service.OnboardingService
}

// HandleSignup handles POST /v1/auth/signup
//
//	@Summary		Register a password account
//	@Description	Creates an unverified account and sends the first email verification code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.SignupRequest		true	"Signup details"
//	@Success		201		{object}	brokersdk.ProfileResponse	"The new account"
//	@Failure		400		{object}	brokersdk.ErrorResponse		"Malformed request"
//	@Failure		409		{object}	brokersdk.ErrorResponse		"Email already registered"
//	@Failure		500		{object}	brokersdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req brokersdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.OnboardingService.Signup(ctx, service.SignupParams{
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		IDNumber:    req.IDNumber,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		log.Warn("signup failed", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, profileView(u))
}

// HandleSocialOnboard handles POST /v1/auth/social
//
//	@Summary		Register or resume a social-identity account
//	@Description	Creates an account from a social identity provider's subject, or returns the existing one.
//	@Description	Provider claims never mark a channel verified; the account still runs its own verification.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.SocialOnboardRequest	true	"Provider subject and email"
//	@Success		200		{object}	brokersdk.ProfileResponse		"The account"
//	@Failure		400		{object}	brokersdk.ErrorResponse			"Malformed request"
//	@Failure		409		{object}	brokersdk.ErrorResponse			"Email already registered"
//	@Failure		500		{object}	brokersdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/social [post].
func (h *AuthHandler) HandleSocialOnboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req brokersdk.SocialOnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.ExternalSub == "" || req.Email == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.OnboardingService.SocialOnboard(ctx, req.ExternalSub, req.Email, req.DisplayName)
	if err != nil {
		log.Warn("social onboarding failed", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileView(u))
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Authenticate with email and password
//	@Description	Returns an access token, or a pending-MFA response when the account has a second-factor channel chosen.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	brokersdk.LoginResponse	"Token or pending MFA"
//	@Failure		401		{object}	brokersdk.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req brokersdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.OnboardingService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginView(result))
}

// HandleLoginMFA handles POST /v1/auth/login/mfa
//
//	@Summary		Complete a login paused on the second factor
//	@Description	Validates the code sent to the MFA channel and returns the access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		brokersdk.LoginMFARequest	true	"User ID and code"
//	@Success		200		{object}	brokersdk.LoginResponse		"Access token"
//	@Failure		400		{object}	brokersdk.ErrorResponse		"Wrong or expired code"
//	@Failure		401		{object}	brokersdk.ErrorResponse		"Invalid credentials"
//	@Failure		500		{object}	brokersdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/login/mfa [post].
func (h *AuthHandler) HandleLoginMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req brokersdk.LoginMFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.UserID == "" || req.Code == "" {
		brokersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.OnboardingService.CompleteLoginMFA(ctx, req.UserID, req.Code)
	if err != nil {
		log.Warn("mfa completion failed", "user_id", req.UserID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginView(result))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Revoke the current session
//	@Description	Terminates the session behind the presented token. Other sessions of the same user are unaffected.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	brokersdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	brokersdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sessionID, ok := httpx.SessionIDFromContext(ctx)
	if !ok {
		brokersdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.OnboardingService.Logout(ctx, sessionID); err != nil {
		log.Warn("logout failed", "session_id", sessionID, "err", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func loginView(r service.LoginResult) brokersdk.LoginResponse {
	resp := brokersdk.LoginResponse{
		UserID:     r.UserID,
		MFAPending: r.MFAPending,
		MFAChannel: string(r.MFAChannel),
	}
	if r.Token != "" {
		resp.AccessToken = r.Token
		resp.TokenType = "Bearer"
	}
	return resp
}
