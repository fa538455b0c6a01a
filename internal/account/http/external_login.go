package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/account/internal/account/external"
	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// ExternalLoginPath is the authorize endpoint of the implicit flow.
const ExternalLoginPath = "/api/Account/ExternalLogin"

// Cookie names. The external cookie holds the identity returned by a
// provider until ExternalLogin turns it into an external bearer token.
const (
	externalCookieName    = "account.external"
	correlationCookieName = "account.correlation"
)

// ExternalLoginHandler drives the redirect round trip with a login provider.
type ExternalLoginHandler struct {
	Authorization    *service.AuthorizationProvider
	Tokens           *service.TokenService
	Providers        *external.Registry
	ExternalCookie   ticketx.Codec
	Correlation      ticketx.Codec
	AllowedRedirects []string
}

// HandleExternalLogin godoc
//
//	@Summary		External login authorize endpoint
//	@Description	Without an external identity the caller is redirected to the provider. Once the provider has answered, the external bearer token is returned in the redirect_uri fragment, or as JSON when no redirect_uri was given.
//	@Tags			OAuth2
//	@Produce		json
//	@Param			provider		query		string					true	"Provider name"
//	@Param			response_type	query		string					true	"Must be token"
//	@Param			client_id		query		string					true	"Public client id"
//	@Param			redirect_uri	query		string					false	"Relative path or an allowed origin"
//	@Param			state			query		string					false	"Echoed back in the fragment"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, token_type, expires_in"
//	@Success		302
//	@Failure		400	{object}	authsdk.OAuth2Error	"error, error_description"
//	@Failure		500	{object}	authsdk.OAuth2Error	"error, error_description"
//	@Router			/api/Account/ExternalLogin [get].
func (h *ExternalLoginHandler) HandleExternalLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	// 1. Validate the authorize request
	if q.Get("response_type") != "token" {
		authsdk.ErrUnsupportedResponseType.WriteError(w)
		return
	}
	if err := h.Authorization.LookupClient(q.Get("client_id")); err != nil {
		authsdk.ErrInvalidClient.WriteError(w)
		return
	}
	redirectURI := q.Get("redirect_uri")
	if redirectURI != "" && !h.redirectAllowed(redirectURI) {
		authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "redirect_uri is not allowed").WriteError(w)
		return
	}
	provider, ok := h.Providers.Get(q.Get("provider"))
	if !ok {
		authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "unknown provider").WriteError(w)
		return
	}

	// 2. Challenge unless the caller is back from this provider
	identity := h.externalIdentity(r)
	if identity == nil {
		h.challenge(w, r, provider)
		return
	}
	login := external.FromIdentity(identity)
	if login == nil {
		log.Error("external identity carries no external login")
		authsdk.ErrServerError.WriteError(w)
		return
	}
	if !strings.EqualFold(login.LoginProvider, provider.Name()) {
		h.challenge(w, r, provider)
		return
	}

	// 3. Swap the external cookie for an external bearer token
	h.clearCookie(w, r, externalCookieName, "/")

	resp, err := h.Tokens.ForIdentity(login.ToIdentity(ticketx.AuthTypeBearer))
	if err != nil {
		log.Error("failed to issue external token", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	log.Info("external token issued", "provider", login.LoginProvider)

	if redirectURI == "" {
		httpx.WriteJSON(w, http.StatusOK, resp)
		return
	}

	frag := url.Values{}
	frag.Set("access_token", resp.AccessToken)
	frag.Set("token_type", resp.TokenType)
	frag.Set("expires_in", strconv.Itoa(resp.ExpiresIn))
	if state := q.Get("state"); state != "" {
		frag.Set("state", state)
	}
	redirect(w, redirectURI+"#"+frag.Encode())
}

// HandleCallback godoc
//
//	@Summary		Provider callback
//	@Description	Completes the provider round trip and resumes the ExternalLogin request that started it.
//	@Tags			OAuth2
//	@Param			provider	path	string	true	"Provider name"
//	@Param			code		query	string	false	"Authorization code"
//	@Param			state		query	string	true	"Correlation state"
//	@Success		302
//	@Failure		400	{object}	authsdk.OAuth2Error	"error, error_description"
//	@Failure		404
//	@Router			/signin-{provider} [get].
func (h *ExternalLoginHandler) HandleCallback(provider external.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.callback(w, r, provider)
	}
}

func (h *ExternalLoginHandler) callback(w http.ResponseWriter, r *http.Request, provider external.Provider) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	callbackPath := external.CallbackPath(provider.Name())

	cookie, err := r.Cookie(correlationCookieName)
	h.clearCookie(w, r, correlationCookieName, callbackPath)
	if err != nil {
		log.Warn("provider callback without correlation cookie", "provider", provider.Name())
		accessDenied(w)
		return
	}

	q := r.URL.Query()
	corr, err := external.UnprotectCorrelation(h.Correlation, cookie.Value, provider.Name(), q.Get("state"))
	if err != nil {
		log.Warn("provider callback failed correlation", "provider", provider.Name())
		accessDenied(w)
		return
	}

	// From here on failures go back to the client.
	original, _ := url.ParseQuery(corr.ReturnQuery)
	redirectURI := original.Get("redirect_uri")

	if e := q.Get("error"); e != "" || q.Get("code") == "" {
		log.Info("provider denied sign in", "provider", provider.Name(), "error", e)
		h.failToClient(w, r, redirectURI, original.Get("state"))
		return
	}

	identity, err := provider.Exchange(ctx, q.Get("code"), corr.Verifier)
	if err != nil {
		log.Warn("provider code exchange failed", "provider", provider.Name(), "err", err)
		h.failToClient(w, r, redirectURI, original.Get("state"))
		return
	}

	sealed, err := h.ExternalCookie.Protect(ticketx.NewTicket(identity, nil))
	if err != nil {
		log.Error("failed to protect external identity", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	h.setCookie(w, r, externalCookieName, sealed, "/", h.ExternalCookie.TTL())

	redirect(w, ExternalLoginPath+"?"+corr.ReturnQuery)
}

// externalIdentity reads the identity from the external cookie, falling
// back to an external bearer token.
func (h *ExternalLoginHandler) externalIdentity(r *http.Request) *ticketx.Identity {
	if c, err := r.Cookie(externalCookieName); err == nil {
		if t := h.ExternalCookie.Unprotect(c.Value); t != nil && t.Identity.IsAuthenticated() {
			return t.Identity
		}
	}
	if t := httpx.AuthenticatedTicket(r, h.Tokens.Codec, ticketx.ExternalPolicy{}); t != nil {
		return t.Identity
	}
	return nil
}

func (h *ExternalLoginHandler) challenge(w http.ResponseWriter, r *http.Request, provider external.Provider) {
	log := slogx.FromContext(r.Context())

	corr, err := external.NewCorrelation(provider.Name(), r.URL.RawQuery)
	if err != nil {
		log.Error("failed to start correlation", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	sealed, err := corr.Protect(h.Correlation)
	if err != nil {
		log.Error("failed to protect correlation", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	h.setCookie(w, r, correlationCookieName, sealed, external.CallbackPath(provider.Name()), h.Correlation.TTL())
	redirect(w, provider.AuthCodeURL(corr.State, corr.Verifier))
}

// failToClient sends the browser back to the client with access_denied in
// the fragment. Without a redirect_uri the error is written as JSON.
func (h *ExternalLoginHandler) failToClient(w http.ResponseWriter, r *http.Request, redirectURI, state string) {
	if redirectURI == "" || !h.redirectAllowed(redirectURI) {
		accessDenied(w)
		return
	}
	frag := url.Values{}
	frag.Set("error", authsdk.ErrorCodeAccessDenied)
	if state != "" {
		frag.Set("state", state)
	}
	redirect(w, redirectURI+"#"+frag.Encode())
}

// redirect writes a 302 without cleaning the target: fragments may carry
// characters that path cleaning would rewrite.
func redirect(w http.ResponseWriter, target string) {
	httpx.NoCache(w)
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}

func accessDenied(w http.ResponseWriter) {
	authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeAccessDenied, "external login failed").WriteError(w)
}

// redirectAllowed accepts local paths and absolute URLs on an allowed origin.
func (h *ExternalLoginHandler) redirectAllowed(raw string) bool {
	if strings.HasPrefix(raw, "/") {
		return !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/\\")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	origin := u.Scheme + "://" + u.Host
	for _, allowed := range h.AllowedRedirects {
		if strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

func (h *ExternalLoginHandler) setCookie(w http.ResponseWriter, r *http.Request, name, value, path string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *ExternalLoginHandler) clearCookie(w http.ResponseWriter, r *http.Request, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
