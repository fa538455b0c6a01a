package account_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oauth2-proxy/mockoidc"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/internal/account/app"
	"github.com/aussiebroadwan/account/pkg/authsdk"
)

/*
 * Common constants and helper functions for account service end-to-end
 * tests. Each test gets its own service, database and secret, wired exactly
 * as cmd/account wires them, plus a mock OpenID Connect provider.
 */

const (
	mockProvider = "Mock"
	appOrigin    = "https://app.example"

	testPassword = "Secret123!"
)

type testService struct {
	t       *testing.T
	baseURL string
	client  *authsdk.SDKClient
	oidc    *mockoidc.MockOIDC
}

// setupAccountService starts the account service on a random port with a
// providers file pointing at a fresh mockoidc instance.
func setupAccountService(t *testing.T) *testService {
	t.Helper()

	m, err := mockoidc.Run()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown() })

	// The public URL has to be known before the providers are built.
	srv := httptest.NewUnstartedServer(nil)
	baseURL := "http://" + srv.Listener.Addr().String()

	dir := t.TempDir()
	providersFile := filepath.Join(dir, "providers.yaml")
	providers := fmt.Sprintf(`providers:
  - name: %s
    caption: Mock Login
    type: oidc
    issuer: %s
    client_id: %s
    client_secret: %s
`, mockProvider, m.Issuer(), m.Config().ClientID, m.Config().ClientSecret)
	require.NoError(t, os.WriteFile(providersFile, []byte(providers), 0600))

	cfg := app.Config{
		PublicURL:           baseURL,
		PublicClientID:      authsdk.DefaultClientID,
		AccessTokenTTL:      20 * time.Minute,
		ExternalCookieTTL:   5 * time.Minute,
		MinPasswordLength:   6,
		SecretFile:          filepath.Join(dir, "secret"),
		DatabaseFile:        filepath.Join(dir, "account.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		ProvidersFile:       providersFile,
		AllowedRedirects:    []string{appOrigin},
		Env:                 "test",
		LogLevel:            "warn",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
	}

	application, err := app.New(context.Background(), cfg)
	require.NoError(t, err)

	srv.Config.Handler = application.Handler()
	srv.Start()
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	return &testService{
		t:       t,
		baseURL: baseURL,
		client:  authsdk.NewSDKClient(baseURL),
		oidc:    m,
	}
}

// browser returns a client that keeps cookies and stops at every redirect,
// so each hop of the external login can be inspected.
func (s *testService) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testService) get(c *http.Client, rawURL string) *http.Response {
	s.t.Helper()
	if len(rawURL) > 0 && rawURL[0] == '/' {
		rawURL = s.baseURL + rawURL
	}
	resp, err := c.Get(rawURL)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// registerUser creates a local user and returns a session for it.
func (s *testService) registerUser(userName string) *authsdk.Session {
	s.t.Helper()
	tok, err := s.client.Register(s.t.Context(), authsdk.RegisterRequest{
		UserName:        userName,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(s.t, err)
	assertTokenResponse(s.t, tok)
	return s.client.NewSession(tok.AccessToken)
}

// signInWithMock follows the ExternalLogin URL advertised for the mock
// provider through the provider and back, and returns the fragment handed
// to redirectURI.
func (s *testService) signInWithMock(c *http.Client, redirectURI string) authsdk.Fragment {
	s.t.Helper()

	logins, err := s.client.ExternalLogins(s.t.Context(), redirectURI, true)
	require.NoError(s.t, err)
	require.Len(s.t, logins, 1)
	require.Equal(s.t, "Mock Login", logins[0].Name)
	state := logins[0].State
	require.NotEmpty(s.t, state)

	// Challenge, provider, callback, resumed authorize request.
	resp := s.get(c, logins[0].URL)
	for range 3 {
		require.Equal(s.t, http.StatusFound, resp.StatusCode)
		resp = s.get(c, resp.Header.Get("Location"))
	}
	require.Equal(s.t, http.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	require.True(s.t, strings.HasPrefix(location, redirectURI+"#"), location)

	frag, err := authsdk.ParseFragment(location)
	require.NoError(s.t, err)
	require.NoError(s.t, authsdk.VerifyState(&frag, state, true))
	return frag
}

// assertTokenResponse verifies a token response has all required fields.
func assertTokenResponse(t *testing.T, resp *authsdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, int((20 * time.Minute).Seconds()), resp.ExpiresIn)
	require.NotEmpty(t, resp.Issued)
	require.NotEmpty(t, resp.Expires)
}

// assertStatus checks an SDK error carries the given HTTP status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	switch e := err.(type) {
	case *authsdk.APIError:
		require.Equal(t, status, e.StatusCode, err.Error())
	case *authsdk.OAuth2Error:
		require.Equal(t, status, e.StatusCode, err.Error())
	default:
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
