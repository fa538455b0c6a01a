package http

import (
	"net/http"

	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/httpx"
)

// MessageHandler godoc
//
//	@Summary	Hello world
//	@Tags		Message
//	@Produce	json
//	@Success	200	{object}	authsdk.Message	"text"
//	@Router		/api/message [get].
func MessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.Message{Text: "Hello, World!"})
	}
}
