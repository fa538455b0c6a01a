package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
)

// TokenHandler serves POST /Token.
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	Authorization *service.AuthorizationProvider
	Tokens        *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues a bearer token for the resource owner password credentials grant.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type	formData	string					true	"Grant type"	Enums(password)
//	@Param			username	formData	string					true	"User name"
//	@Param			password	formData	string					true	"Password"
//	@Param			client_id	formData	string					false	"Public client id"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, userName, .issued, .expires"
//	@Failure		400			{object}	authsdk.OAuth2Error		"error, error_description"
//	@Failure		500			{object}	authsdk.OAuth2Error		"error, error_description"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/Token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	// 3. Client, then grant type
	if err := h.Authorization.LookupClient(r.PostForm.Get("client_id")); err != nil {
		authsdk.ErrInvalidClient.WriteError(w)
		return
	}
	if r.PostForm.Get("grant_type") != "password" {
		authsdk.ErrUnsupportedGrantType.WriteError(w)
		return
	}

	// 4. Resource owner credentials
	ticket, err := h.Authorization.GrantResourceOwnerCredentials(ctx,
		r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidGrant) {
			authsdk.ErrInvalidGrant.WriteError(w)
			return
		}
		log.Error("password grant failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp, err := h.Tokens.Issue(ticket)
	if err != nil {
		log.Error("failed to protect ticket", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	body := map[string]any{
		"access_token": resp.AccessToken,
		"token_type":   resp.TokenType,
		"expires_in":   resp.ExpiresIn,
	}
	h.Authorization.TokenEndpoint(ticket, body)

	httpx.WriteJSON(w, http.StatusOK, body)
}
