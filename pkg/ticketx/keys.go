package ticketx

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Codec purposes. Each purpose derives its own key pair, so a value minted
// for one purpose never unprotects under another.
const (
	PurposeBearer         = "bearer"
	PurposeExternalCookie = "external-cookie"
	PurposeCorrelation    = "correlation"
)

// MinSecretLength is the shortest server secret accepted.
const MinSecretLength = 16

// ErrWeakSecret is returned for secrets shorter than MinSecretLength.
var ErrWeakSecret = errors.New("ticketx: secret too short")

type keyPair struct {
	sign    []byte // HS256
	encrypt []byte // A256GCM content key
}

func deriveKeys(secret []byte, purpose string) (keyPair, error) {
	if len(secret) < MinSecretLength {
		return keyPair{}, ErrWeakSecret
	}
	if purpose == "" {
		return keyPair{}, errors.New("ticketx: purpose is required")
	}

	r := hkdf.New(sha256.New, secret, nil, []byte("account.ticket."+purpose))
	kp := keyPair{sign: make([]byte, 32), encrypt: make([]byte, 32)}
	if _, err := io.ReadFull(r, kp.sign); err != nil {
		return keyPair{}, fmt.Errorf("derive signing key: %w", err)
	}
	if _, err := io.ReadFull(r, kp.encrypt); err != nil {
		return keyPair{}, fmt.Errorf("derive encryption key: %w", err)
	}
	return kp, nil
}
