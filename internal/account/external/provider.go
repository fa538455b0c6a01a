package external

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// Provider is an external identity provider reached through an OAuth2
// authorization code round trip.
type Provider interface {
	// Name is the authentication type; it becomes the issuer of every claim
	// the provider asserts.
	Name() string

	// Caption is shown to users in the login list.
	Caption() string

	// AuthCodeURL returns the provider authorization URL. verifier is the
	// PKCE code verifier; only its S256 challenge is sent.
	AuthCodeURL(state, verifier string) string

	// Exchange redeems the authorization code and returns the identity
	// asserted by the provider. The identity carries a NameIdentifier claim
	// and, when the provider offers one, a Name claim, both issued by Name().
	Exchange(ctx context.Context, code, verifier string) (*ticketx.Identity, error)
}

// Registry holds the configured providers in configuration order. Lookup by
// name ignores case so /signin-google finds "Google".
type Registry struct {
	list   []Provider
	byName map[string]Provider
}

// NewRegistry registers the given providers. Provider names must be unique.
func NewRegistry(list ...Provider) (*Registry, error) {
	r := &Registry{byName: make(map[string]Provider, len(list))}
	for _, p := range list {
		key := strings.ToLower(p.Name())
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("external: duplicate provider %q", p.Name())
		}
		r.byName[key] = p
		r.list = append(r.list, p)
	}
	return r, nil
}

// Get returns the provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.byName[strings.ToLower(name)]
	return p, ok
}

// Providers returns the providers in configuration order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	return append([]Provider(nil), r.list...)
}

// CallbackPath is where a provider redirects back to after sign in.
func CallbackPath(providerName string) string {
	return "/signin-" + strings.ToLower(providerName)
}

func newIdentity(provider, key, name string) *ticketx.Identity {
	return LoginData{LoginProvider: provider, ProviderKey: key, UserName: name}.ToIdentity(provider)
}
