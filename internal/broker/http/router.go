package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/veilhq/veil/internal/broker/service"
	"github.com/veilhq/veil/internal/broker/store"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/jwtx"
	"github.com/veilhq/veil/pkg/slogx"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/veilhq/veil/api/broker" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	OnboardingService   *service.OnboardingService
	VerificationService *service.VerificationService
	MFAService          *service.MFAService
	PermissionService   *service.PermissionService
	AccountService      *service.AccountService
	UserService         *service.UserService
	CompanyService      *service.CompanyService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerVerification()
	r.registerMFA()
	r.registerPermissions()
	r.registerQuery()
	r.registerAccount()
	r.registerProfile()
	r.registerCompanies()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Veil Privacy Broker API
//	@version		0.1.0
//	@description	Verification-gated consent service: users prove ownership of
//	@description	their contact channels, then control which registered company
//	@description	may read which of their attributes.
//
//	@contact.name				Veil Team
//	@contact.url				https://github.com/veilhq/veil
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with token verification and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier, r.OnboardingService),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{OnboardingService: r.OnboardingService}

	// Unauthenticated endpoints, strict IP limits against credential
	// stuffing and signup abuse.
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/social",
		httpx.Chain(http.HandlerFunc(h.HandleSocialOnboard),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleLoginMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		r.secured(http.HandlerFunc(h.HandleLogout), httpx.ModerateLimit))
}

func (r *Router) registerVerification() {
	h := &VerificationHandler{VerificationService: r.VerificationService}

	// Code issuance is strictly limited; status reads are cheap.
	r.Mux.Handle("POST /v1/verification/{channel}/request",
		r.secured(http.HandlerFunc(h.HandleRequest), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/verification/{channel}/resend",
		r.secured(http.HandlerFunc(h.HandleResend), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/verification/{channel}/confirm",
		r.secured(http.HandlerFunc(h.HandleConfirm), httpx.StrictLimit))
	r.Mux.Handle("GET /v1/verification/status",
		r.secured(http.HandlerFunc(h.HandleStatus), httpx.LenientLimit))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("PUT /v1/mfa/preference",
		r.secured(http.HandlerFunc(h.HandleSet), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/mfa/preference",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
}

func (r *Router) registerPermissions() {
	h := &PermissionsHandler{PermissionService: r.PermissionService}

	r.Mux.Handle("POST /v1/permissions",
		r.secured(http.HandlerFunc(h.HandleAssign), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/permissions",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/permissions/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/permissions/{companyID}",
		r.secured(http.HandlerFunc(h.HandleRevoke), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/permissions",
		r.secured(http.HandlerFunc(h.HandleRevokeAll), httpx.ModerateLimit))
}

func (r *Router) registerQuery() {
	h := &QueryHandler{PermissionService: r.PermissionService}

	// Company-side contract endpoint. Reached through the partner gateway,
	// which authenticates the caller; here we only rate limit.
	r.Mux.Handle("GET /v1/query/{handle}/allowed-fields",
		httpx.Chain(http.HandlerFunc(h.HandleAllowedFields),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /v1/account/delete/request",
		r.secured(http.HandlerFunc(h.HandleDeleteRequest), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/account/delete/confirm",
		r.secured(http.HandlerFunc(h.HandleDeleteConfirm), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/account/delete/cancel",
		r.secured(http.HandlerFunc(h.HandleDeleteCancel), httpx.ModerateLimit))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/profile",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/profile",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
}

func (r *Router) registerCompanies() {
	h := &CompaniesHandler{CompanyService: r.CompanyService}

	r.Mux.Handle("POST /v1/companies",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/companies",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.buildVersion, r.startTime),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
