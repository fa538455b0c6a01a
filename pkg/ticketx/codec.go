package ticketx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when protecting a ticket without an identity.
var ErrNoIdentity = errors.New("ticketx: ticket has no identity")

// Codec protects tickets into opaque strings and reverses the process.
// Unprotect never fails loudly: a tampered, expired or malformed value simply
// yields no ticket.
type Codec interface {
	Protect(t *Ticket) (string, error)
	Unprotect(token string) *Ticket
	TTL() time.Duration
}

// JWECodec signs the ticket as an HS256 JWT and seals the result in a
// compact JWE (dir, A256GCM). Both keys are derived from one server secret
// and the codec purpose.
type JWECodec struct {
	keys    keyPair
	purpose string
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a JWECodec.
type Option func(*JWECodec)

// WithClock replaces time.Now, mostly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *JWECodec) { c.now = now }
}

// NewJWECodec derives the purpose keys from secret. ttl is applied to tickets
// that do not carry their own expiry.
func NewJWECodec(secret []byte, purpose string, ttl time.Duration, opts ...Option) (*JWECodec, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("ticketx: ttl must be positive, got %s", ttl)
	}
	keys, err := deriveKeys(secret, purpose)
	if err != nil {
		return nil, err
	}

	c := &JWECodec{keys: keys, purpose: purpose, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *JWECodec) TTL() time.Duration { return c.ttl }

// Purpose returns the purpose the codec keys were derived for.
func (c *JWECodec) Purpose() string { return c.purpose }

type ticketClaims struct {
	jwt.RegisteredClaims

	AuthType   string            `json:"amt"`
	Claims     []Claim           `json:"clm,omitempty"`
	Properties map[string]string `json:"prp,omitempty"`
}

// Protect stamps missing issue/expiry times on t and returns the sealed token.
func (c *JWECodec) Protect(t *Ticket) (string, error) {
	if t == nil || t.Identity == nil {
		return "", ErrNoIdentity
	}

	if t.IssuedAt.IsZero() {
		t.IssuedAt = c.now().UTC()
	}
	if t.ExpiresAt.IsZero() {
		t.ExpiresAt = t.IssuedAt.Add(c.ttl)
	}

	claims := ticketClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   t.Identity.UserID(),
			Audience:  jwt.ClaimStrings{c.purpose},
			IssuedAt:  jwt.NewNumericDate(t.IssuedAt),
			NotBefore: jwt.NewNumericDate(t.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(t.ExpiresAt),
			ID:        newJTI(),
		},
		AuthType:   t.Identity.AuthenticationType,
		Claims:     t.Identity.Claims,
		Properties: t.Properties,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.keys.sign)
	if err != nil {
		return "", fmt.Errorf("ticketx: sign: %w", err)
	}

	enc, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: c.keys.encrypt},
		(&jose.EncrypterOptions{}).WithContentType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("ticketx: encrypter: %w", err)
	}
	obj, err := enc.Encrypt([]byte(signed))
	if err != nil {
		return "", fmt.Errorf("ticketx: encrypt: %w", err)
	}
	return obj.CompactSerialize()
}

// Unprotect returns the ticket sealed in token, or nil when token is not a
// valid, unexpired value minted by this codec.
func (c *JWECodec) Unprotect(token string) (t *Ticket) {
	// Parsers must not take the request down with them.
	defer func() {
		if recover() != nil {
			t = nil
		}
	}()

	if !isCanonicalCompact(token) {
		return nil
	}

	obj, err := jose.ParseEncryptedCompact(token,
		[]jose.KeyAlgorithm{jose.DIRECT},
		[]jose.ContentEncryption{jose.A256GCM},
	)
	if err != nil {
		return nil
	}
	plain, err := obj.Decrypt(c.keys.encrypt)
	if err != nil {
		return nil
	}

	var claims ticketClaims
	parsed, err := jwt.ParseWithClaims(string(plain), &claims,
		func(*jwt.Token) (any, error) { return c.keys.sign, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(c.purpose),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}

	t = &Ticket{
		Identity:   NewIdentity(claims.AuthType, claims.Claims...),
		Properties: claims.Properties,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		t.IssuedAt = claims.IssuedAt.Time
	}
	if t.Properties == nil {
		t.Properties = map[string]string{}
	}
	return t
}

// isCanonicalCompact checks the five segment JWE shape with an empty
// encrypted key (dir) and strict base64url in every other segment. Lenient
// decoders ignore trailing bits, which would let two different strings
// decode to the same token.
func isCanonicalCompact(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 5 || parts[1] != "" {
		return false
	}
	strict := base64.RawURLEncoding.Strict()
	for i, p := range parts {
		if i == 1 {
			continue
		}
		if p == "" {
			return false
		}
		if _, err := strict.DecodeString(p); err != nil {
			return false
		}
	}
	return true
}

func newJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
