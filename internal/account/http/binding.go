package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/pkg/authsdk"
	"github.com/aussiebroadwan/account/pkg/httpx"
	"github.com/aussiebroadwan/account/pkg/slogx"
)

const maxBodyBytes = 64 << 10

const msgMalformedBody = "The request body could not be read."

// validatable is implemented by every authsdk request model.
type validatable interface {
	Validate() authsdk.ModelState
}

// bind decodes the request body into v and validates it. JSON and form
// bodies are both accepted; form fields use the JSON field names. On failure
// the 400 response has been written and bind returns false.
func bind(w http.ResponseWriter, r *http.Request, v validatable) bool {
	if err := decodeBody(w, r, v); err != nil {
		slogx.FromContext(r.Context()).Info("malformed request body", "err", err)
		authsdk.NewModelStateError(authsdk.ModelState{"": {msgMalformedBody}}).WriteError(w)
		return false
	}
	if ms := v.Validate(); !ms.IsValid() {
		authsdk.NewModelStateError(ms).WriteError(w)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return err
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, v)
	default:
		err := json.NewDecoder(r.Body).Decode(v)
		if errors.Is(err, io.EOF) {
			// An empty body binds to the zero model; validation reports
			// the missing fields.
			return nil
		}
		return err
	}
}

// writeResult translates the outcome of a credential operation. A Go error
// is a 500. A failed result is a 400 carrying its errors under the empty
// model state key, or an empty 400 when it has none. It returns true when a
// response was written.
func writeResult(w http.ResponseWriter, r *http.Request, res domain.Result, err error) bool {
	if err != nil {
		slogx.FromContext(r.Context()).Error("credential store failure", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return true
	}
	if res.Succeeded {
		return false
	}

	ms := authsdk.ModelState{}
	for _, e := range res.Errors {
		ms.Add("", e)
	}
	if ms.IsValid() {
		(&authsdk.APIError{StatusCode: http.StatusBadRequest}).WriteError(w)
		return true
	}
	authsdk.NewModelStateError(ms).WriteError(w)
	return true
}

func writeOK(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
