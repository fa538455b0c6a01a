package service

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// TokenService turns tickets into bearer token responses.
type TokenService struct {
	Codec       ticketx.Codec
	Credentials *CredentialService

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue stamps the issue and expiry properties on t and protects it.
func (s *TokenService) Issue(t *ticketx.Ticket) (authsdk.TokenResponse, error) {
	if t.Properties == nil {
		t.Properties = map[string]string{}
	}
	t.IssuedAt = s.now().Truncate(time.Second)
	t.ExpiresAt = t.IssuedAt.Add(s.Codec.TTL())
	t.Properties[ticketx.PropertyIssued] = t.IssuedAt.Format(http.TimeFormat)
	t.Properties[ticketx.PropertyExpires] = t.ExpiresAt.Format(http.TimeFormat)

	token, err := s.Codec.Protect(t)
	if err != nil {
		return authsdk.TokenResponse{}, err
	}

	return authsdk.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(t.ExpiresAt.Sub(t.IssuedAt) / time.Second),
		UserName:    t.Properties[ticketx.PropertyUserName],
		Issued:      t.Properties[ticketx.PropertyIssued],
		Expires:     t.Properties[ticketx.PropertyExpires],
	}, nil
}

// ForUser signs a user in with local claims.
func (s *TokenService) ForUser(ctx context.Context, userID string) (authsdk.TokenResponse, error) {
	claims, err := s.Credentials.GetUserIdentityClaims(ctx, userID)
	if err != nil {
		return authsdk.TokenResponse{}, err
	}
	identity := ticketx.NewIdentity(ticketx.AuthTypeBearer, claims...)
	return s.Issue(ticketx.NewTicket(identity, map[string]string{
		ticketx.PropertyUserName: identity.Name(),
	}))
}

// ForIdentity issues a token for an identity asserted by an external
// provider. Its claims keep the provider as issuer, so the token only
// passes the external bearer policy.
func (s *TokenService) ForIdentity(identity *ticketx.Identity) (authsdk.TokenResponse, error) {
	props := map[string]string{}
	if name := identity.Name(); name != "" {
		props[ticketx.PropertyUserName] = name
	}
	return s.Issue(ticketx.NewTicket(identity, props))
}
