/*
Package authsdk provides a client SDK for the account service, together with
the wire types and errors the service itself writes.

# SDKClient vs Session

  - SDKClient: anonymous operations (Register, PasswordGrant, ExternalLogins,
    Message, health checks) and creation of Sessions
  - Session: operations performed with a bearer token

Typical use:

	client := authsdk.NewSDKClient("https://account.example.com")

	tok, err := client.Register(ctx, authsdk.RegisterRequest{
		UserName: "alice",
		Password: "correct horse",
	})

	session := client.NewSession(tok.AccessToken)
	info, err := session.UserInfo(ctx)

A password sign in is a single call:

	session, err := client.AuthenticateWithPassword(ctx, "alice", "correct horse")

Bearer tokens are not refreshable. When one expires the user signs in again.

# External logins

ExternalLogins lists the configured providers. Each entry carries a URL that
starts the provider round trip in a browser and, with generateState, an
anti-forgery state the caller keeps (the browser client keeps it in session
storage). The service finishes the round trip by redirecting to the
returnUrl with the external bearer token in the fragment:

	logins, _ := client.ExternalLogins(ctx, "/", true)
	stored := logins[0].State
	// ... browser navigates to logins[0].URL and comes back ...

	frag, err := authsdk.ParseFragment(redirectedURL)
	if err := authsdk.VerifyState(&frag, stored, true); err != nil {
		// invalid_state: start over
	}

	external := client.NewSession(frag.AccessToken)
	tok, pending, err := external.ExternalLoginComplete(ctx)
	if pending != nil {
		tok, err = external.RegisterExternal(ctx, pending.UserName)
	}

An external token can also be attached to an existing local user with
Session.AddExternalLogin.

# Errors

Failed calls return one of two typed errors:

  - *OAuth2Error: the token endpoint and external login redirects
    ("invalid_grant", "invalid_client", ...)
  - *APIError: account endpoints; ModelState holds field errors, with
    store errors under the empty key

Example:

	_, err := client.PasswordGrant(ctx, "alice", "wrong")
	var oauthErr *authsdk.OAuth2Error
	if errors.As(err, &oauthErr) && oauthErr.Code == authsdk.ErrorCodeInvalidGrant {
		// bad user name or password
	}
*/
package authsdk
