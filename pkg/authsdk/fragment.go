package authsdk

import (
	"net/url"
	"strconv"
	"strings"
)

// Fragment holds the parameters the server appends to redirect_uri after an
// external login, e.g. "#access_token=...&token_type=bearer&state=...".
type Fragment struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	State       string
	Error       string
}

// ParseFragment reads the fragment of rawURL. rawURL may be a full URL or
// just the fragment, with or without the leading '#'.
func ParseFragment(rawURL string) (Fragment, error) {
	frag := rawURL
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		frag = rawURL[i+1:]
	}

	values, err := url.ParseQuery(frag)
	if err != nil {
		return Fragment{}, err
	}

	f := Fragment{
		AccessToken: values.Get("access_token"),
		TokenType:   values.Get("token_type"),
		State:       values.Get("state"),
		Error:       values.Get("error"),
	}
	if v := values.Get("expires_in"); v != "" {
		f.ExpiresIn, _ = strconv.Atoi(v)
	}
	return f, nil
}

// HasToken reports whether the fragment carries an access token.
func (f Fragment) HasToken() bool { return f.AccessToken != "" }

// VerifyState compares the fragment state with the value stored before the
// login started. The comparison is plain string equality. Fragments without
// an access token are left alone. On mismatch, or when nothing was stored,
// f.Error is set to invalid_state and ErrInvalidState is returned; the login
// must then be restarted.
func VerifyState(f *Fragment, stored string, ok bool) error {
	if !f.HasToken() {
		return nil
	}
	if !ok || f.State != stored {
		f.Error = ErrorCodeInvalidState
		return ErrInvalidState
	}
	return nil
}
