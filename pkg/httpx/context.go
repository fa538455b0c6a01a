package httpx

import (
	"context"

	"github.com/aussiebroadwan/account/pkg/ticketx"
)

type ctxKey string

const ctxKeyTicket ctxKey = "ticket"

// ContextWithTicket stores the authenticated ticket for downstream handlers.
func ContextWithTicket(ctx context.Context, t *ticketx.Ticket) context.Context {
	return context.WithValue(ctx, ctxKeyTicket, t)
}

// TicketFromContext returns the ticket placed by Authenticate, or nil.
func TicketFromContext(ctx context.Context) *ticketx.Ticket {
	t, _ := ctx.Value(ctxKeyTicket).(*ticketx.Ticket)
	return t
}

// IdentityFromContext returns the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *ticketx.Identity {
	if t := TicketFromContext(ctx); t != nil {
		return t.Identity
	}
	return nil
}

// UserIDFromContext returns the NameIdentifier of the authenticated identity.
func UserIDFromContext(ctx context.Context) string {
	return IdentityFromContext(ctx).UserID()
}
