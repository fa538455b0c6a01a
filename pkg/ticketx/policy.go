package ticketx

import "errors"

// ErrPolicyRejected is returned when an identity fails a bearer policy.
var ErrPolicyRejected = errors.New("ticketx: rejected by bearer policy")

// Policy decides whether a decoded identity may authenticate a request.
type Policy interface {
	Validate(id *Identity) error
}

// LocalPolicy accepts identities whose claims were all issued locally. Any
// single external claim rejects the identity.
type LocalPolicy struct{}

func (LocalPolicy) Validate(id *Identity) error {
	if id == nil {
		return ErrPolicyRejected
	}
	for _, c := range id.Claims {
		if c.Issuer != DefaultIssuer {
			return ErrPolicyRejected
		}
	}
	return nil
}

// ExternalPolicy requires at least one externally issued claim. Local claims
// may be mixed in. This is deliberately not the mirror image of LocalPolicy.
type ExternalPolicy struct{}

func (ExternalPolicy) Validate(id *Identity) error {
	if id == nil || len(id.Claims) == 0 {
		return ErrPolicyRejected
	}
	for _, c := range id.Claims {
		if c.Issuer != DefaultIssuer {
			return nil
		}
	}
	return ErrPolicyRejected
}

// AnyPolicy accepts an identity when one of its policies does.
type AnyPolicy []Policy

func (p AnyPolicy) Validate(id *Identity) error {
	for _, policy := range p {
		if policy.Validate(id) == nil {
			return nil
		}
	}
	return ErrPolicyRejected
}
