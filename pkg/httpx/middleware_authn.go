package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// Authenticate requires a bearer token that unprotects under codec and whose
// identity satisfies policy. Failures stop the request with a 401 before the
// wrapped handler runs.
func Authenticate(codec ticketx.Codec, policy ticketx.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			ticket := codec.Unprotect(raw)
			if ticket == nil {
				writeBearerError(w, "token verification failed")
				return
			}

			if err := policy.Validate(ticket.Identity); err != nil {
				log.Warn("bearer policy rejected token", "err", err)
				writeBearerError(w, "token not accepted for this resource")
				return
			}

			ctx = slogx.With(ContextWithTicket(ctx, ticket), "user_id", ticket.Identity.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedTicket runs the same checks as Authenticate without rejecting
// the request, for endpoints that also serve anonymous callers.
func AuthenticatedTicket(r *http.Request, codec ticketx.Codec, policy ticketx.Policy) *ticketx.Ticket {
	raw, ok := BearerToken(r)
	if !ok {
		return nil
	}
	ticket := codec.Unprotect(raw)
	if ticket == nil || policy.Validate(ticket.Identity) != nil {
		return nil
	}
	return ticket
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	NoCache(w)
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"message": "Authorization has been denied for this request.",
	})
}
