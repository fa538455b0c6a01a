package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// OAuth2Provider signs users in with a plain OAuth2 provider. After the code
// exchange it reads the user from a JSON userinfo endpoint.
type OAuth2Provider struct {
	name        string
	caption     string
	oauthConfig *oauth2.Config
	userInfoURL string
	idField     string
	nameField   string
}

func NewOAuth2Provider(cfg ProviderConfig, redirectURL string) *OAuth2Provider {
	idField := cfg.IDField
	if idField == "" {
		idField = "id"
	}
	nameField := cfg.NameField
	if nameField == "" {
		nameField = "name"
	}
	caption := cfg.Caption
	if caption == "" {
		caption = cfg.Name
	}

	return &OAuth2Provider{
		name:    cfg.Name,
		caption: caption,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			Scopes: cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		idField:     idField,
		nameField:   nameField,
	}
}

func (p *OAuth2Provider) Name() string    { return p.name }
func (p *OAuth2Provider) Caption() string { return p.caption }

func (p *OAuth2Provider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

func (p *OAuth2Provider) Exchange(ctx context.Context, code, verifier string) (*ticketx.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("external: %s: token exchange: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("external: %s: userinfo: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("external: %s: userinfo: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("external: %s: userinfo returned %d", p.name, resp.StatusCode)
	}

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("external: %s: userinfo: %w", p.name, err)
	}

	key := stringField(fields, p.idField)
	if key == "" {
		return nil, errors.New("external: " + p.name + ": userinfo without " + p.idField)
	}
	return newIdentity(p.name, key, stringField(fields, p.nameField)), nil
}

// stringField renders strings and numbers; ids are often numeric.
func stringField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
