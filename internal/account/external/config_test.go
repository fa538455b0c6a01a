package external

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProviderConfigs(t *testing.T) {
	cfgs, err := ParseProviderConfigs([]byte(`
providers:
  - name: Google
    issuer: https://accounts.google.com
    client_id: web-client
    client_secret: shh
  - name: GitHub
    caption: GitHub.com
    type: oauth2
    client_id: gh
    auth_url: https://github.com/login/oauth/authorize
    token_url: https://github.com/login/oauth/access_token
    userinfo_url: https://api.github.com/user
    name_field: login
    scopes: [read:user]
`))
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	require.Equal(t, TypeOIDC, cfgs[0].Type, "type defaults to oidc")
	require.Equal(t, "Google", cfgs[0].Caption, "caption defaults to name")
	require.Equal(t, TypeOAuth2, cfgs[1].Type)
	require.Equal(t, "login", cfgs[1].NameField)
	require.Equal(t, []string{"read:user"}, cfgs[1].Scopes)

	t.Run("empty document", func(t *testing.T) {
		cfgs, err := ParseProviderConfigs(nil)
		require.NoError(t, err)
		require.Empty(t, cfgs)
	})
}

func TestParseProviderConfigsErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "providers:\n  - name: X\n    client_id: a\n    issuer: https://x\n    clientid: typo\n",
		"missing name":       "providers:\n  - client_id: a\n    issuer: https://x\n",
		"missing client id":  "providers:\n  - name: X\n    issuer: https://x\n",
		"oidc without issue": "providers:\n  - name: X\n    client_id: a\n",
		"oauth2 missing url": "providers:\n  - name: X\n    type: oauth2\n    client_id: a\n    auth_url: https://x\n",
		"unknown type":       "providers:\n  - name: X\n    type: saml\n    client_id: a\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProviderConfigs([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadProviderConfigs(t *testing.T) {
	cfgs, err := LoadProviderConfigs("")
	require.NoError(t, err)
	require.Nil(t, cfgs)

	_, err = LoadProviderConfigs(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - name: X\n    client_id: a\n    issuer: https://x\n"), 0o600))
	cfgs, err = LoadProviderConfigs(path)
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
}

func TestBuildRegistryOAuth2(t *testing.T) {
	reg, err := BuildRegistry(context.Background(), []ProviderConfig{{
		Name: "GitHub", Type: TypeOAuth2, ClientID: "gh",
		AuthURL: "https://gh/authorize", TokenURL: "https://gh/token", UserInfoURL: "https://gh/user",
	}}, "https://account.example/")
	require.NoError(t, err)

	p, ok := reg.Get("github")
	require.True(t, ok)
	require.Contains(t, p.AuthCodeURL("s", "v"), "redirect_uri=https%3A%2F%2Faccount.example%2Fsignin-github")
}
