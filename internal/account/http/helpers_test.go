package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/internal/account/external"
	"github.com/aussiebroadwan/account/internal/account/service"
	"github.com/aussiebroadwan/account/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

const testSecret = "http-test-secret-0123456789abcdef"

func TestMain(m *testing.M) {
	cryptox.SetPepper("http-test-pepper")
	os.Exit(m.Run())
}

// fakeProvider hands out codes of the form "code-<key>" and turns them back
// into an identity for that key.
type fakeProvider struct {
	name  string
	users map[string]string // key -> user name
}

func (p *fakeProvider) Name() string    { return p.name }
func (p *fakeProvider) Caption() string { return p.name + " account" }

func (p *fakeProvider) AuthCodeURL(state, verifier string) string {
	q := url.Values{"state": {state}, "challenge": {verifier}}
	return "https://provider.test/" + p.name + "/authorize?" + q.Encode()
}

func (p *fakeProvider) Exchange(_ context.Context, code, verifier string) (*ticketx.Identity, error) {
	if verifier == "" {
		return nil, fmt.Errorf("missing verifier")
	}
	for key, name := range p.users {
		if code == "code-"+key {
			return external.LoginData{LoginProvider: p.name, ProviderKey: key, UserName: name}.ToIdentity(p.name), nil
		}
	}
	return nil, fmt.Errorf("bad code %q", code)
}

type testEnv struct {
	t      *testing.T
	server *httptest.Server
	client *authsdk.SDKClient
	router *Router
}

func newTestEnv(t *testing.T, providers ...external.Provider) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	bearer, err := ticketx.NewJWECodec([]byte(testSecret), ticketx.PurposeBearer, 20*time.Minute)
	require.NoError(t, err)
	cookie, err := ticketx.NewJWECodec([]byte(testSecret), ticketx.PurposeExternalCookie, 5*time.Minute)
	require.NoError(t, err)
	correlation, err := ticketx.NewJWECodec([]byte(testSecret), ticketx.PurposeCorrelation, 5*time.Minute)
	require.NoError(t, err)

	if len(providers) == 0 {
		providers = []external.Provider{&fakeProvider{name: "Fake", users: map[string]string{"f-1": "bob"}}}
	}
	registry, err := external.NewRegistry(providers...)
	require.NoError(t, err)

	credentials := &service.CredentialService{Store: st, MinPasswordLength: 4}

	r := NewRouter("test", st, slogx.Discard())
	r.Credentials = credentials
	r.Authorization = &service.AuthorizationProvider{Credentials: credentials, PublicClientID: "self"}
	r.Tokens = &service.TokenService{Codec: bearer, Credentials: credentials}
	r.Providers = registry
	r.ExternalCookie = cookie
	r.Correlation = correlation
	r.AllowedRedirects = []string{"https://app.example"}
	r.RateLimits = httpx.Unlimited()
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, server: srv, client: authsdk.NewSDKClient(srv.URL), router: r}
}

// browser returns a client that keeps cookies and does not follow redirects.
func (e *testEnv) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) get(c *http.Client, rawURL string) *http.Response {
	e.t.Helper()
	if len(rawURL) > 0 && rawURL[0] == '/' {
		rawURL = e.server.URL + rawURL
	}
	resp, err := c.Get(rawURL)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) register(name, password string) *authsdk.Session {
	e.t.Helper()
	tok, err := e.client.Register(context.Background(), authsdk.RegisterRequest{UserName: name, Password: password})
	require.NoError(e.t, err)
	return e.client.NewSession(tok.AccessToken)
}

// externalLogin runs the browser side of the external login for the given
// provider and key and returns the redirect fragment.
func (e *testEnv) externalLogin(c *http.Client, provider, key, state string) authsdk.Fragment {
	e.t.Helper()

	start := ExternalLoginPath + "?" + url.Values{
		"provider":      {provider},
		"response_type": {"token"},
		"client_id":     {"self"},
		"redirect_uri":  {"/"},
		"state":         {state},
	}.Encode()

	// 1. Challenge
	resp := e.get(c, start)
	require.Equal(e.t, http.StatusFound, resp.StatusCode)
	authURL, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(e.t, err)
	providerState := authURL.Query().Get("state")
	require.NotEmpty(e.t, providerState)

	// 2. Provider redirects back to the callback
	resp = e.get(c, external.CallbackPath(provider)+"?"+url.Values{
		"code":  {"code-" + key},
		"state": {providerState},
	}.Encode())
	require.Equal(e.t, http.StatusFound, resp.StatusCode)
	resume := resp.Header.Get("Location")
	require.Contains(e.t, resume, ExternalLoginPath)

	// 3. Resume the authorize request
	resp = e.get(c, resume)
	require.Equal(e.t, http.StatusFound, resp.StatusCode)

	frag, err := authsdk.ParseFragment(resp.Header.Get("Location"))
	require.NoError(e.t, err)
	return frag
}
