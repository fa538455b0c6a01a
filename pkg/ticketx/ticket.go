package ticketx

import (
	"maps"
	"time"
)

// Well known ticket properties. They are stamped by the token issuer and
// echoed back to clients in the token response.
const (
	PropertyIssued   = ".issued"
	PropertyExpires  = ".expires"
	PropertyUserName = "userName"
)

// Ticket pairs an identity with free-form string properties. It only lives
// for the duration of a request; the bearer token is its only persisted form.
type Ticket struct {
	Identity   *Identity
	Properties map[string]string

	// IssuedAt and ExpiresAt are filled in by Protect when zero.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewTicket returns a ticket holding a copy of props.
func NewTicket(identity *Identity, props map[string]string) *Ticket {
	p := make(map[string]string, len(props))
	maps.Copy(p, props)
	return &Ticket{Identity: identity, Properties: p}
}

// Expired reports whether the ticket has an expiry that lies before now.
func (t *Ticket) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
