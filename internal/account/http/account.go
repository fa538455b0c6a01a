package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/external"
	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
)

const msgExternalLoginFailure = "External login failure."

// AccountHandler serves /api/Account. Authentication is applied by the
// router; handlers read the identity from the request context.
type AccountHandler struct {
	Credentials    *service.CredentialService
	Tokens         *service.TokenService
	Providers      *external.Registry
	PublicClientID string
}

// HandleUserInfo godoc
//
//	@Summary	Current user
//	@Tags		Account
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	authsdk.UserInfo	"userName"
//	@Failure	401	{object}	authsdk.APIError	"message"
//	@Router		/api/Account/UserInfo [get].
func (h *AccountHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	identity := httpx.IdentityFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, authsdk.UserInfo{UserName: identity.Name()})
}

// HandleManageInfo godoc
//
//	@Summary	Linked logins
//	@Tags		Account
//	@Security	BearerAuth
//	@Produce	json
//	@Param		returnUrl		query		string				false	"redirect_uri for the provider links"
//	@Param		generateState	query		bool				false	"attach a fresh anti-forgery state"
//	@Success	200				{object}	authsdk.ManageInfo	"localLoginProvider, userName, logins, externalLoginProviders"
//	@Failure	401				{object}	authsdk.APIError	"message"
//	@Router		/api/Account/ManageInfo [get].
func (h *AccountHandler) HandleManageInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := httpx.IdentityFromContext(ctx)

	logins, err := h.Credentials.GetLogins(ctx, identity.UserID())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// The token outlived its user.
			httpx.WriteJSON(w, http.StatusOK, nil)
			return
		}
		slogx.FromContext(ctx).Error("failed to list logins", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	providers, ok := h.externalLogins(w, r)
	if !ok {
		return
	}

	info := authsdk.ManageInfo{
		LocalLoginProvider:     domain.LocalLoginProvider,
		UserName:               identity.Name(),
		Logins:                 make([]authsdk.UserLoginInfo, 0, len(logins)),
		ExternalLoginProviders: providers,
	}
	for _, l := range logins {
		info.Logins = append(info.Logins, authsdk.UserLoginInfo{
			LoginProvider: l.LoginProvider,
			ProviderKey:   l.ProviderKey,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, info)
}

// HandleChangePassword godoc
//
//	@Summary	Change the local password
//	@Tags		Account
//	@Security	BearerAuth
//	@Accept		json
//	@Param		body	body	authsdk.ChangePasswordRequest	true	"oldPassword, newPassword, confirmPassword"
//	@Success	200
//	@Failure	400	{object}	authsdk.APIError	"message, modelState"
//	@Failure	401	{object}	authsdk.APIError	"message"
//	@Router		/api/Account/ChangePassword [post].
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if !bind(w, r, &req) {
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	res, err := h.Credentials.ChangePassword(r.Context(), identity.Name(), req.OldPassword, req.NewPassword)
	if writeResult(w, r, res, err) {
		return
	}
	writeOK(w)
}

// HandleSetPassword godoc
//
//	@Summary	Add a local password to a user without one
//	@Tags		Account
//	@Security	BearerAuth
//	@Accept		json
//	@Param		body	body	authsdk.SetPasswordRequest	true	"newPassword, confirmPassword"
//	@Success	200
//	@Failure	400	{object}	authsdk.APIError	"message, modelState"
//	@Failure	401	{object}	authsdk.APIError	"message"
//	@Router		/api/Account/SetPassword [post].
func (h *AccountHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetPasswordRequest
	if !bind(w, r, &req) {
		return
	}

	identity := httpx.IdentityFromContext(r.Context())
	res, err := h.Credentials.CreateLocalLogin(r.Context(), identity.UserID(), identity.Name(), req.NewPassword)
	if writeResult(w, r, res, err) {
		return
	}
	writeOK(w)
}

// HandleAddExternalLogin godoc
//
//	@Summary		Link an external login
//	@Description	Links the login asserted by an external bearer token to the signed in user.
//	@Tags			Account
//	@Security		BearerAuth
//	@Accept			json
//	@Param			body	body	authsdk.AddExternalLoginRequest	true	"externalAccessToken"
//	@Success		200
//	@Failure		400	{object}	authsdk.APIError	"message, modelState"
//	@Failure		401	{object}	authsdk.APIError	"message"
//	@Failure		500	{object}	authsdk.OAuth2Error	"error, error_description"
//	@Router			/api/Account/AddExternalLogin [post].
func (h *AccountHandler) HandleAddExternalLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.AddExternalLoginRequest
	if !bind(w, r, &req) {
		return
	}

	ticket := h.Tokens.Codec.Unprotect(req.ExternalAccessToken)
	if ticket == nil || ticket.Identity == nil || ticket.Expired(time.Now()) {
		(&authsdk.APIError{StatusCode: http.StatusBadRequest, Message: msgExternalLoginFailure}).WriteError(w)
		return
	}

	login := external.FromIdentity(ticket.Identity)
	if login == nil {
		log.Error("external access token carries no external login")
		authsdk.ErrServerError.WriteError(w)
		return
	}

	res, err := h.Credentials.AddLogin(ctx, httpx.UserIDFromContext(ctx), login.LoginProvider, login.ProviderKey)
	if writeResult(w, r, res, err) {
		return
	}
	log.Info("external login linked", "provider", login.LoginProvider)
	writeOK(w)
}

// HandleRemoveLogin godoc
//
//	@Summary	Unlink a login
//	@Tags		Account
//	@Security	BearerAuth
//	@Accept		json
//	@Param		body	body	authsdk.RemoveLoginRequest	true	"loginProvider, providerKey"
//	@Success	200
//	@Failure	400	{object}	authsdk.APIError	"message, modelState"
//	@Failure	401	{object}	authsdk.APIError	"message"
//	@Router		/api/Account/RemoveLogin [post].
func (h *AccountHandler) HandleRemoveLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RemoveLoginRequest
	if !bind(w, r, &req) {
		return
	}

	ctx := r.Context()
	res, err := h.Credentials.RemoveLogin(ctx, httpx.UserIDFromContext(ctx), req.LoginProvider, req.ProviderKey)
	if writeResult(w, r, res, err) {
		return
	}
	writeOK(w)
}

// HandleExternalLoginComplete godoc
//
//	@Summary		Finish an external login
//	@Description	Returns a local token when the external login is linked to a user, and the pending registration otherwise.
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TokenResponse		"linked: access_token, token_type, expires_in, userName"
//	@Success		200	{object}	authsdk.PendingRegistration	"not linked: loginProvider, userName"
//	@Failure		401	{object}	authsdk.APIError			"message"
//	@Failure		500	{object}	authsdk.OAuth2Error			"error, error_description"
//	@Router			/api/Account/ExternalLoginComplete [get].
func (h *AccountHandler) HandleExternalLoginComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	login := external.FromIdentity(httpx.IdentityFromContext(ctx))
	if login == nil {
		log.Error("external bearer token carries no external login")
		authsdk.ErrServerError.WriteError(w)
		return
	}

	userID, err := h.Credentials.GetUserIDForLogin(ctx, login.LoginProvider, login.ProviderKey)
	if err != nil {
		log.Error("failed to look up external login", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	if userID == "" {
		httpx.WriteJSON(w, http.StatusOK, authsdk.PendingRegistration{
			LoginProvider: login.LoginProvider,
			UserName:      login.UserName,
		})
		return
	}

	h.writeAccessToken(w, r, userID)
}

// HandleExternalLogins godoc
//
//	@Summary		External login providers
//	@Description	Lists the configured providers with the URL that starts a login with each.
//	@Tags			Account
//	@Produce		json
//	@Param			returnUrl		query	string	false	"redirect_uri for the provider links"
//	@Param			generateState	query	bool	false	"attach a fresh anti-forgery state"
//	@Success		200				{array}	authsdk.ExternalLogin	"name, url, state"
//	@Router			/api/Account/ExternalLogins [get].
func (h *AccountHandler) HandleExternalLogins(w http.ResponseWriter, r *http.Request) {
	logins, ok := h.externalLogins(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logins)
}

// HandleRegister godoc
//
//	@Summary	Register a local user
//	@Tags		Account
//	@Accept		json
//	@Produce	json
//	@Param		body	body		authsdk.RegisterRequest	true	"userName, password, confirmPassword"
//	@Success	200		{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, userName"
//	@Failure	400		{object}	authsdk.APIError		"message, modelState"
//	@Router		/api/Account/Register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !bind(w, r, &req) {
		return
	}

	user, res, err := h.Credentials.CreateLocalUser(r.Context(), req.UserName, req.Password)
	if writeResult(w, r, res, err) {
		return
	}
	h.writeAccessToken(w, r, user.ID)
}

// HandleRegisterExternal godoc
//
//	@Summary		Register a user for an external login
//	@Description	Creates a user linked to the login asserted by the external bearer token.
//	@Tags			Account
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterExternalRequest	true	"userName"
//	@Success		200		{object}	authsdk.TokenResponse			"access_token, token_type, expires_in, userName"
//	@Failure		400		{object}	authsdk.APIError				"message, modelState"
//	@Failure		401		{object}	authsdk.APIError				"message"
//	@Failure		500		{object}	authsdk.OAuth2Error				"error, error_description"
//	@Router			/api/Account/RegisterExternal [post].
func (h *AccountHandler) HandleRegisterExternal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RegisterExternalRequest
	if !bind(w, r, &req) {
		return
	}

	login := external.FromIdentity(httpx.IdentityFromContext(ctx))
	if login == nil {
		slogx.FromContext(ctx).Error("external bearer token carries no external login")
		authsdk.ErrServerError.WriteError(w)
		return
	}

	user, res, err := h.Credentials.CreateExternalUser(ctx, req.UserName, login.LoginProvider, login.ProviderKey)
	if writeResult(w, r, res, err) {
		return
	}
	h.writeAccessToken(w, r, user.ID)
}

func (h *AccountHandler) writeAccessToken(w http.ResponseWriter, r *http.Request, userID string) {
	resp, err := h.Tokens.ForUser(r.Context(), userID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to issue access token", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// externalLogins builds the provider list for ExternalLogins and ManageInfo.
// With generateState every entry shares one fresh state value.
func (h *AccountHandler) externalLogins(w http.ResponseWriter, r *http.Request) ([]authsdk.ExternalLogin, bool) {
	q := r.URL.Query()
	returnURL := q.Get("returnUrl")

	generateState, _ := strconv.ParseBool(q.Get("generateState"))
	var state string
	if generateState {
		var err error
		if state, err = cryptox.GenerateAntiForgeryState(); err != nil {
			slogx.FromContext(r.Context()).Error("failed to generate state", "err", err)
			authsdk.ErrServerError.WriteError(w)
			return nil, false
		}
	}

	providers := h.Providers.Providers()
	logins := make([]authsdk.ExternalLogin, 0, len(providers))
	for _, p := range providers {
		logins = append(logins, authsdk.ExternalLogin{
			Name:  p.Caption(),
			URL:   externalLoginURL(p.Name(), h.PublicClientID, returnURL, state),
			State: state,
		})
	}
	return logins, true
}

// externalLoginURL keeps the parameter order of the authorize request.
// Empty redirect_uri and state are left out.
func externalLoginURL(provider, clientID, redirectURI, state string) string {
	var b strings.Builder
	b.WriteString(ExternalLoginPath)
	b.WriteString("?provider=")
	b.WriteString(url.QueryEscape(provider))
	b.WriteString("&response_type=token&client_id=")
	b.WriteString(url.QueryEscape(clientID))
	if redirectURI != "" {
		b.WriteString("&redirect_uri=")
		b.WriteString(url.QueryEscape(redirectURI))
	}
	if state != "" {
		b.WriteString("&state=")
		b.WriteString(url.QueryEscape(state))
	}
	return b.String()
}
