package external

import "github.com/aussiebroadwan/account/pkg/ticketx"

// LoginData is the (provider, key) pair an external identity asserts, plus
// the user name it suggests.
type LoginData struct {
	LoginProvider string
	ProviderKey   string
	UserName      string
}

// FromIdentity extracts the login from the NameIdentifier claim. It returns
// nil when the claim is missing, empty, or issued locally: a local identity
// is not an external login.
func FromIdentity(id *ticketx.Identity) *LoginData {
	if id == nil {
		return nil
	}
	key, ok := id.FindFirst(ticketx.ClaimTypeNameIdentifier)
	if !ok || key.Issuer == "" || key.Issuer == ticketx.DefaultIssuer || key.Value == "" {
		return nil
	}
	return &LoginData{
		LoginProvider: key.Issuer,
		ProviderKey:   key.Value,
		UserName:      id.FindFirstValue(ticketx.ClaimTypeName),
	}
}

// ToIdentity rebuilds an identity whose claims are issued by the provider.
func (d LoginData) ToIdentity(authType string) *ticketx.Identity {
	id := ticketx.NewIdentity(authType,
		ticketx.NewIssuedClaim(ticketx.ClaimTypeNameIdentifier, d.ProviderKey, d.LoginProvider),
	)
	if d.UserName != "" {
		id.AddClaim(ticketx.NewIssuedClaim(ticketx.ClaimTypeName, d.UserName, d.LoginProvider))
	}
	return id
}
