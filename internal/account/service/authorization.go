package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// AuthorizationProvider backs the token endpoint: it checks the client and
// the resource owner credentials and builds the ticket to protect.
type AuthorizationProvider struct {
	Credentials    *CredentialService
	PublicClientID string
}

// LookupClient accepts requests without a client id and requests from the
// single public client. There are no client secrets.
func (p *AuthorizationProvider) LookupClient(clientID string) error {
	if clientID == "" || clientID == p.PublicClientID {
		return nil
	}
	return ErrInvalidClient
}

// GrantResourceOwnerCredentials validates the password grant. Unknown user
// names and wrong passwords both yield ErrInvalidGrant.
func (p *AuthorizationProvider) GrantResourceOwnerCredentials(ctx context.Context, userName, password string) (*ticketx.Ticket, error) {
	userID, ok, err := p.Credentials.ValidateLocalLogin(ctx, userName, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		slogx.FromContext(ctx).Info("password grant rejected")
		return nil, ErrInvalidGrant
	}

	claims, err := p.Credentials.GetUserIdentityClaims(ctx, userID)
	if err != nil {
		return nil, err
	}
	identity := ticketx.NewIdentity(ticketx.AuthTypeBearer, claims...)

	slogx.FromContext(ctx).Info("password grant issued", slog.String("user_id", userID))
	return ticketx.NewTicket(identity, map[string]string{
		ticketx.PropertyUserName: identity.Name(),
	}), nil
}

// TokenEndpoint copies every ticket property into the token response body.
func (p *AuthorizationProvider) TokenEndpoint(t *ticketx.Ticket, body map[string]any) {
	for k, v := range t.Properties {
		body[k] = v
	}
}
