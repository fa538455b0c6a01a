package external

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// OIDCProvider signs users in with an OpenID Connect provider discovered
// from its issuer URL. The identity comes from the verified ID token.
type OIDCProvider struct {
	name        string
	caption     string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

func NewOIDCProvider(ctx context.Context, cfg ProviderConfig, redirectURL string) (*OIDCProvider, error) {
	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("external: %s: discover %s: %w", cfg.Name, cfg.Issuer, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	caption := cfg.Caption
	if caption == "" {
		caption = cfg.Name
	}

	return &OIDCProvider{
		name:    cfg.Name,
		caption: caption,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       scopes,
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *OIDCProvider) Name() string    { return p.name }
func (p *OIDCProvider) Caption() string { return p.caption }

func (p *OIDCProvider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, verifier string) (*ticketx.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("external: %s: token exchange: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("external: %s: no id_token in token response", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("external: %s: verify id_token: %w", p.name, err)
	}

	var claims struct {
		Subject           string `json:"sub"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
		Email             string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("external: %s: id_token claims: %w", p.name, err)
	}
	if claims.Subject == "" {
		return nil, errors.New("external: " + p.name + ": id_token without subject")
	}

	return newIdentity(p.name, claims.Subject, firstNonEmpty(claims.PreferredUsername, claims.Name, claims.Email)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
