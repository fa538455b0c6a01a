package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/account/internal/account/store"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and the status of the database and the token codec
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	codec ticketx.Codec,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Codec:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// A throwaway ticket must survive a protect/unprotect round trip.
		if err := codecRoundTrip(codec); err != nil {
			checks.Codec = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

var errCodecRoundTrip = errors.New("protected ticket did not unprotect")

func codecRoundTrip(codec ticketx.Codec) error {
	token, err := codec.Protect(ticketx.NewTicket(
		ticketx.NewIdentity(ticketx.AuthTypeBearer, ticketx.NewClaim(ticketx.ClaimTypeName, "readyz")),
		nil,
	))
	if err != nil {
		return err
	}
	if codec.Unprotect(token) == nil {
		return errCodecRoundTrip
	}
	return nil
}
