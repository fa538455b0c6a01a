// Package ticketx models claims-bearing authentication tickets and turns them
// into opaque bearer strings and back.
package ticketx

// DefaultIssuer marks a claim as issued by this service rather than by an
// external login provider.
const DefaultIssuer = "LOCAL AUTHORITY"

// Claim types understood by the account service.
const (
	ClaimTypeNameIdentifier   = "nameidentifier"
	ClaimTypeName             = "name"
	ClaimTypeRole             = "role"
	ClaimTypeIdentityProvider = "identityprovider"
)

// Authentication types a ticket can be issued under.
const (
	AuthTypeBearer         = "Bearer"
	AuthTypeExternalCookie = "ExternalCookie"
	AuthTypeCorrelation    = "Correlation"
)

// Claim is a single (type, value, issuer) assertion about an identity.
type Claim struct {
	Type   string `json:"t"`
	Value  string `json:"v"`
	Issuer string `json:"i,omitempty"`
}

// NewClaim returns a locally issued claim.
func NewClaim(typ, value string) Claim {
	return Claim{Type: typ, Value: value, Issuer: DefaultIssuer}
}

// NewIssuedClaim returns a claim attributed to issuer. An empty issuer falls
// back to DefaultIssuer.
func NewIssuedClaim(typ, value, issuer string) Claim {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return Claim{Type: typ, Value: value, Issuer: issuer}
}

// IsLocal reports whether the claim was issued by this service.
func (c Claim) IsLocal() bool { return c.Issuer == DefaultIssuer }

// Identity is a set of claims gathered under one authentication type.
type Identity struct {
	AuthenticationType string  `json:"-"`
	Claims             []Claim `json:"-"`
}

// NewIdentity builds an identity from claims.
func NewIdentity(authType string, claims ...Claim) *Identity {
	return &Identity{AuthenticationType: authType, Claims: append([]Claim(nil), claims...)}
}

// IsAuthenticated reports whether the identity carries an authentication type.
func (id *Identity) IsAuthenticated() bool {
	return id != nil && id.AuthenticationType != ""
}

func (id *Identity) AddClaim(c Claim) {
	id.Claims = append(id.Claims, c)
}

// FindFirst returns the first claim of the given type.
func (id *Identity) FindFirst(typ string) (Claim, bool) {
	if id == nil {
		return Claim{}, false
	}
	for _, c := range id.Claims {
		if c.Type == typ {
			return c, true
		}
	}
	return Claim{}, false
}

// FindFirstValue returns the value of the first claim of the given type, or "".
func (id *Identity) FindFirstValue(typ string) string {
	c, _ := id.FindFirst(typ)
	return c.Value
}

// UserID is the NameIdentifier claim value.
func (id *Identity) UserID() string { return id.FindFirstValue(ClaimTypeNameIdentifier) }

// Name is the Name claim value.
func (id *Identity) Name() string { return id.FindFirstValue(ClaimTypeName) }

// ValuesByType groups claim values by claim type, preserving order.
func (id *Identity) ValuesByType() map[string][]string {
	out := make(map[string][]string)
	if id == nil {
		return out
	}
	for _, c := range id.Claims {
		out[c.Type] = append(out[c.Type], c.Value)
	}
	return out
}
