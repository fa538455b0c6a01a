package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/account/internal/account/external"
	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/internal/account/store"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"

	_ "github.com/aussiebroadwan/account/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Credentials   *service.CredentialService
	Authorization *service.AuthorizationProvider
	Tokens        *service.TokenService

	// External login. Providers may be empty; the cookie codecs are still
	// required for the ExternalLogin endpoint to answer.
	Providers        *external.Registry
	ExternalCookie   ticketx.Codec
	Correlation      ticketx.Codec
	AllowedRedirects []string

	RateLimits httpx.RateLimits
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		RateLimits:   httpx.DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerToken()
	r.registerAccount()
	r.registerExternal()
	r.registerMessage()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Account Service API
//	@version		0.1.0
//	@description	OAuth2 bearer token account service: password grant, local registration and external login linking.
//	@description
//	@description				Bearer tokens are opaque. They are only meaningful to this service.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/account
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
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// Bearer policies. Local tokens carry only claims issued by this service;
// external tokens carry at least one claim from a login provider.
func (r *Router) localAuth() httpx.Middleware {
	return httpx.Authenticate(r.Tokens.Codec, ticketx.LocalPolicy{})
}

func (r *Router) externalAuth() httpx.Middleware {
	return httpx.Authenticate(r.Tokens.Codec, ticketx.ExternalPolicy{})
}

func (r *Router) anyAuth() httpx.Middleware {
	return httpx.Authenticate(r.Tokens.Codec, ticketx.AnyPolicy{ticketx.LocalPolicy{}, ticketx.ExternalPolicy{}})
}

func (r *Router) registerToken() {
	h := &TokenHandler{
		Authorization: r.Authorization,
		Tokens:        r.Tokens,
	}

	// POST /Token - strict rate limit by IP + username (password guessing)
	r.Mux.Handle("POST /Token",
		httpx.Chain(h,
			httpx.RateLimitByIPAndFormField(r.RateLimits.Strict, "username"),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{
		Credentials:    r.Credentials,
		Tokens:         r.Tokens,
		Providers:      r.Providers,
		PublicClientID: r.Authorization.PublicClientID,
	}
	limits := r.RateLimits

	r.Mux.Handle("GET /api/Account/UserInfo",
		httpx.Chain(http.HandlerFunc(h.HandleUserInfo),
			r.anyAuth(),
			httpx.RateLimitByUser(limits.Lenient),
		),
	)
	r.Mux.Handle("GET /api/Account/ManageInfo",
		httpx.Chain(http.HandlerFunc(h.HandleManageInfo),
			r.localAuth(),
			httpx.RateLimitByUser(limits.Lenient),
		),
	)

	// Password changes check the old password - strict
	r.Mux.Handle("POST /api/Account/ChangePassword",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			r.localAuth(),
			httpx.RateLimitByUser(limits.Strict),
		),
	)
	r.Mux.Handle("POST /api/Account/SetPassword",
		httpx.Chain(http.HandlerFunc(h.HandleSetPassword),
			r.localAuth(),
			httpx.RateLimitByUser(limits.Strict),
		),
	)

	r.Mux.Handle("POST /api/Account/AddExternalLogin",
		httpx.Chain(http.HandlerFunc(h.HandleAddExternalLogin),
			r.localAuth(),
			httpx.RateLimitByUser(limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/Account/RemoveLogin",
		httpx.Chain(http.HandlerFunc(h.HandleRemoveLogin),
			r.localAuth(),
			httpx.RateLimitByUser(limits.Moderate),
		),
	)

	// Anonymous
	r.Mux.Handle("GET /api/Account/ExternalLogins",
		httpx.Chain(http.HandlerFunc(h.HandleExternalLogins),
			httpx.RateLimitByIP(limits.Public),
		),
	)
	r.Mux.Handle("POST /api/Account/Register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(limits.Strict),
		),
	)

	// External bearer tokens only
	r.Mux.Handle("GET /api/Account/ExternalLoginComplete",
		httpx.Chain(http.HandlerFunc(h.HandleExternalLoginComplete),
			r.externalAuth(),
			httpx.RateLimitByUser(limits.Lenient),
		),
	)
	r.Mux.Handle("POST /api/Account/RegisterExternal",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterExternal),
			r.externalAuth(),
			httpx.RateLimitByUser(limits.Strict),
		),
	)
}

func (r *Router) registerExternal() {
	h := &ExternalLoginHandler{
		Authorization:    r.Authorization,
		Tokens:           r.Tokens,
		Providers:        r.Providers,
		ExternalCookie:   r.ExternalCookie,
		Correlation:      r.Correlation,
		AllowedRedirects: r.AllowedRedirects,
	}

	// Authorize endpoint for the implicit flow: anonymous callers are sent to
	// the provider, callers back from the provider get an external token.
	r.Mux.Handle("GET /api/Account/ExternalLogin",
		httpx.Chain(http.HandlerFunc(h.HandleExternalLogin),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)

	// ServeMux wildcards must fill a whole segment, so each provider gets
	// its own /signin-<name> route. Unknown names fall through to 404.
	callbackLimit := httpx.RateLimitByIP(r.RateLimits.Lenient)
	for _, p := range r.Providers.Providers() {
		r.Mux.Handle("GET "+external.CallbackPath(p.Name()),
			httpx.Chain(h.HandleCallback(p), callbackLimit),
		)
	}
}

func (r *Router) registerMessage() {
	r.Mux.Handle("GET /api/message",
		httpx.Chain(MessageHandler(),
			httpx.RateLimitByIP(r.RateLimits.Public),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Tokens.Codec),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)
}
