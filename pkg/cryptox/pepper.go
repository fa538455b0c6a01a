package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Argon2id parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile string
)

// SetPepperPath configures the file the pepper is loaded from (or written to
// on first start). It must be called before the first hash is computed.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperFile = file
	pepper = ""
}

// SetPepper overrides the pepper directly. Tests use it to avoid touching disk.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepper = p
}

// GetPepper returns the process pepper, loading it lazily. Without a
// configured file an in-memory pepper is generated, which means stored
// hashes will not verify after a restart.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper
	}

	if pepperFile == "" {
		slog.Warn("no pepper file configured, using an ephemeral pepper")
		pepper = MustGenerateToken(keyLength)
		return pepper
	}

	p, err := LoadOrCreateSecretFile(pepperFile, keyLength)
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}
	pepper = string(p)
	return pepper
}

// LoadOrCreateSecretFile reads a secret from path. When the file does not
// exist a random secret of size bytes is generated, base64url encoded and
// written with 0600 permissions. The returned bytes are the file contents
// with surrounding whitespace trimmed.
func LoadOrCreateSecretFile(path string, size int) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return nil, errors.New("secret file is empty: " + path)
		}
		return []byte(secret), nil
	case !os.IsNotExist(err):
		return nil, err
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		return nil, err
	}
	return []byte(secret), nil
}
