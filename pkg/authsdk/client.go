package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the account service.
// It provides access to anonymous operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// ClientID is sent as client_id on token and external login requests.
	// Default: "self"
	ClientID string
}

// NewSDKClient creates a new account service client for the public client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		ClientID: DefaultClientID,
	}
}

// DefaultClientID is the id of the single public client.
const DefaultClientID = "self"

// AuthenticateWithPassword runs the password grant and wraps the result in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, userName, password string) (*Session, error) {
	tokenResp, err := c.PasswordGrant(ctx, userName, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(tokenResp.AccessToken), nil
}

// NewSession wraps an existing bearer token. Tokens cannot be refreshed; a
// session is good until the token expires.
func (c *SDKClient) NewSession(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

// Session performs requests on behalf of one bearer token. It is immutable
// and safe for concurrent use.
type Session struct {
	client      *SDKClient
	accessToken string
}

// AccessToken returns the bearer token the session authenticates with.
func (s *Session) AccessToken() string { return s.accessToken }
