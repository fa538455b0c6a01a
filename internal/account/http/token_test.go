package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

func TestPasswordGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register("alice", "Pw1!")

	tok, err := env.client.PasswordGrant(ctx, "alice", "Pw1!")
	require.NoError(t, err)
	require.Equal(t, "bearer", tok.TokenType)
	require.Equal(t, 1200, tok.ExpiresIn)
	require.Equal(t, "alice", tok.UserName)
	require.NotEmpty(t, tok.Issued)
	require.NotEmpty(t, tok.Expires)

	ticket := env.router.Tokens.Codec.Unprotect(tok.AccessToken)
	require.NotNil(t, ticket)
	for _, c := range ticket.Identity.Claims {
		require.Equal(t, ticketx.DefaultIssuer, c.Issuer, c.Type)
	}

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		for _, creds := range [][2]string{{"alice", "nope"}, {"mallory", "Pw1!"}} {
			_, err := env.client.PasswordGrant(ctx, creds[0], creds[1])
			var oauthErr *authsdk.OAuth2Error
			require.ErrorAs(t, err, &oauthErr)
			require.Equal(t, http.StatusBadRequest, oauthErr.StatusCode)
			require.Equal(t, authsdk.ErrorCodeInvalidGrant, oauthErr.Code)
			require.Equal(t, "The user name or password is incorrect.", oauthErr.Description)
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		c := authsdk.NewSDKClient(env.server.URL)
		c.ClientID = "other"
		_, err := c.PasswordGrant(ctx, "alice", "Pw1!")
		var oauthErr *authsdk.OAuth2Error
		require.ErrorAs(t, err, &oauthErr)
		require.Equal(t, authsdk.ErrorCodeInvalidClient, oauthErr.Code)
	})

	t.Run("no client id", func(t *testing.T) {
		c := authsdk.NewSDKClient(env.server.URL)
		c.ClientID = ""
		_, err := c.PasswordGrant(ctx, "alice", "Pw1!")
		require.NoError(t, err)
	})
}

func TestTokenEndpointRejects(t *testing.T) {
	env := newTestEnv(t)

	post := func(contentType, body string) (*http.Response, map[string]any) {
		resp, err := http.Post(env.server.URL+"/Token", contentType, strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, body := post("application/json", `{"grant_type":"password"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, body["error"])

	resp, body = post("application/x-www-form-urlencoded", url.Values{"grant_type": {"client_credentials"}}.Encode())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeUnsupportedGrantType, body["error"])
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
