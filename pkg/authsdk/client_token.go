package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// TokenPath is where the password grant is posted.
const TokenPath = "/Token"

// PasswordGrant exchanges a user name and password for a bearer token using
// the OAuth2 resource owner password credentials grant.
func (c *SDKClient) PasswordGrant(ctx context.Context, userName, password string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"password"},
		"username":   {userName},
		"password":   {password},
	}
	if c.ClientID != "" {
		data.Set("client_id", c.ClientID)
	}

	return c.requestToken(ctx, data)
}

func (c *SDKClient) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, TokenPath, "",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}
