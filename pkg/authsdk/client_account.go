package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AccountPath is the prefix of every account endpoint.
const AccountPath = "/api/Account"

// Register creates a local user and returns a bearer token for it.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, AccountPath+"/Register", "", req)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// ExternalLogins lists the configured external providers. With
// generateState every URL carries the same fresh anti-forgery state, which
// the caller must keep to check the redirect with VerifyState.
func (c *SDKClient) ExternalLogins(ctx context.Context, returnURL string, generateState bool) ([]ExternalLogin, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, AccountPath+"/ExternalLogins?"+manageQuery(returnURL, generateState), "", nil)
	if err != nil {
		return nil, err
	}

	var logins []ExternalLogin
	if err := decodeJSON(resp, &logins, http.StatusOK); err != nil {
		return nil, err
	}

	return logins, nil
}

// Message fetches the hello world message.
func (c *SDKClient) Message(ctx context.Context) (*Message, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/message", "", nil)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}

	return &msg, nil
}

func manageQuery(returnURL string, generateState bool) string {
	q := url.Values{}
	q.Set("returnUrl", returnURL)
	q.Set("generateState", strconv.FormatBool(generateState))
	return q.Encode()
}
