package authsdk

import "fmt"

// MaxPasswordLength bounds every password field. The minimum is a server
// policy and is enforced by the credential store.
const MaxPasswordLength = 100

const confirmMismatch = "The password and confirmation password do not match."

func required(ms ModelState, field, value string) {
	if value == "" {
		ms.Add(field, fmt.Sprintf("The %s field is required.", field))
	}
}

func password(ms ModelState, field, value string) {
	switch {
	case value == "":
		required(ms, field, value)
	case len(value) > MaxPasswordLength:
		ms.Add(field, fmt.Sprintf("The %s must be at most %d characters long.", field, MaxPasswordLength))
	}
}

// confirm only checks the confirmation when the caller supplied one.
func confirm(ms ModelState, pw, confirmation string) {
	if confirmation != "" && confirmation != pw {
		ms.Add("confirmPassword", confirmMismatch)
	}
}

// Validate checks the request fields. It returns nil when the request is valid.
func (r RegisterRequest) Validate() ModelState {
	ms := ModelState{}
	required(ms, "userName", r.UserName)
	password(ms, "password", r.Password)
	confirm(ms, r.Password, r.ConfirmPassword)
	return orNil(ms)
}

func (r ChangePasswordRequest) Validate() ModelState {
	ms := ModelState{}
	required(ms, "oldPassword", r.OldPassword)
	password(ms, "newPassword", r.NewPassword)
	confirm(ms, r.NewPassword, r.ConfirmPassword)
	return orNil(ms)
}

func (r SetPasswordRequest) Validate() ModelState {
	ms := ModelState{}
	password(ms, "newPassword", r.NewPassword)
	confirm(ms, r.NewPassword, r.ConfirmPassword)
	return orNil(ms)
}

func (r AddExternalLoginRequest) Validate() ModelState {
	ms := ModelState{}
	required(ms, "externalAccessToken", r.ExternalAccessToken)
	return orNil(ms)
}

func (r RemoveLoginRequest) Validate() ModelState {
	ms := ModelState{}
	required(ms, "loginProvider", r.LoginProvider)
	required(ms, "providerKey", r.ProviderKey)
	return orNil(ms)
}

func (r RegisterExternalRequest) Validate() ModelState {
	ms := ModelState{}
	required(ms, "userName", r.UserName)
	return orNil(ms)
}

func orNil(ms ModelState) ModelState {
	if ms.IsValid() {
		return nil
	}
	return ms
}
