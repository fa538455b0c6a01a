package external

import (
	"errors"

	"golang.org/x/oauth2"

	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// ErrBadCorrelation is returned when the correlation cookie is missing,
// tampered with, expired, or belongs to another round trip.
var ErrBadCorrelation = errors.New("external: correlation failed")

const (
	propProvider    = "provider"
	propState       = "state"
	propVerifier    = "verifier"
	propReturnQuery = "returnQuery"
)

// Correlation ties a provider callback to the challenge that started it. It
// travels in a short lived cookie sealed by the correlation codec.
type Correlation struct {
	Provider string
	State    string
	Verifier string

	// ReturnQuery is the raw query of the ExternalLogin request to resume
	// once the provider has answered.
	ReturnQuery string
}

// NewCorrelation starts a round trip with fresh state and PKCE verifier.
func NewCorrelation(provider, returnQuery string) (*Correlation, error) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	return &Correlation{
		Provider:    provider,
		State:       state,
		Verifier:    oauth2.GenerateVerifier(),
		ReturnQuery: returnQuery,
	}, nil
}

// Protect seals the correlation with codec.
func (c *Correlation) Protect(codec ticketx.Codec) (string, error) {
	return codec.Protect(ticketx.NewTicket(ticketx.NewIdentity(ticketx.AuthTypeCorrelation), map[string]string{
		propProvider:    c.Provider,
		propState:       c.State,
		propVerifier:    c.Verifier,
		propReturnQuery: c.ReturnQuery,
	}))
}

// UnprotectCorrelation opens a sealed correlation and checks it against the
// provider and state the callback arrived with.
func UnprotectCorrelation(codec ticketx.Codec, value, provider, state string) (*Correlation, error) {
	t := codec.Unprotect(value)
	if t == nil || t.Identity.AuthenticationType != ticketx.AuthTypeCorrelation {
		return nil, ErrBadCorrelation
	}
	c := &Correlation{
		Provider:    t.Properties[propProvider],
		State:       t.Properties[propState],
		Verifier:    t.Properties[propVerifier],
		ReturnQuery: t.Properties[propReturnQuery],
	}
	if c.State == "" || c.State != state || !equalFoldProvider(c.Provider, provider) {
		return nil, ErrBadCorrelation
	}
	return c, nil
}

func equalFoldProvider(a, b string) bool {
	return a != "" && CallbackPath(a) == CallbackPath(b)
}
