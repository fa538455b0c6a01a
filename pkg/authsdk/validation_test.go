package authsdk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	require.Nil(t, RegisterRequest{UserName: "alice", Password: "Pw1!"}.Validate())
	require.Nil(t, RegisterRequest{UserName: "alice", Password: "secret", ConfirmPassword: "secret"}.Validate())

	ms := RegisterRequest{}.Validate()
	require.Contains(t, ms, "userName")
	require.Contains(t, ms, "password")

	ms = RegisterRequest{UserName: "alice", Password: "secret", ConfirmPassword: "secrets"}.Validate()
	require.Equal(t, []string{confirmMismatch}, ms["confirmPassword"])

	ms = RegisterRequest{UserName: "alice", Password: strings.Repeat("x", MaxPasswordLength+1)}.Validate()
	require.Contains(t, ms, "password")
}

func TestBindingModelsRequireFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ms     ModelState
		fields []string
	}{
		{"change password", ChangePasswordRequest{}.Validate(), []string{"oldPassword", "newPassword"}},
		{"set password", SetPasswordRequest{}.Validate(), []string{"newPassword"}},
		{"add external login", AddExternalLoginRequest{}.Validate(), []string{"externalAccessToken"}},
		{"remove login", RemoveLoginRequest{}.Validate(), []string{"loginProvider", "providerKey"}},
		{"register external", RegisterExternalRequest{}.Validate(), []string{"userName"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.ms, len(tt.fields))
			for _, f := range tt.fields {
				require.Contains(t, tt.ms, f)
			}
		})
	}

	require.Nil(t, SetPasswordRequest{NewPassword: "secret"}.Validate())
	require.Nil(t, RemoveLoginRequest{LoginProvider: "Google", ProviderKey: "123"}.Validate())
}

func TestModelStateMessages(t *testing.T) {
	t.Parallel()

	ms := ModelState{}
	ms.Add("b", "second")
	ms.Add("", "first")
	ms.Add("b", "third")
	require.Equal(t, []string{"first", "second", "third"}, ms.Messages())
	require.False(t, ms.IsValid())
}
