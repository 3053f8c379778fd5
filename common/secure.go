package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

import (
	"encoding/base64"

	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
)

// SecretSize is the signing secret length in bytes (HS256 wants at
// least the hash size).
const SecretSize = 32

// ErrWeakSecret is returned for secrets shorter than SecretSize.
var ErrWeakSecret = errors.Errorf("secret must be at least %d bytes", SecretSize)

// Generate creates a random key of keysize length, and returns it in
// base64 encoded text.
func Generate(keysize int) string {
	return base64.StdEncoding.
		EncodeToString(securecookie.GenerateRandomKey(keysize))
}

// Decode extracts a byte slice from a base64 encoded string.
func Decode(hash string) ([]byte, error) {
	return base64.StdEncoding.
		DecodeString(hash)
}

// NewSecret decodes a base64 signing secret. An empty value yields a
// random secret, which is only good for one execution run.
func NewSecret(encoded string) ([]byte, error) {
	if encoded == "" {
		key := securecookie.GenerateRandomKey(SecretSize)
		if key == nil {
			return nil, errors.New("unable to generate random secret")
		}
		return key, nil
	}
	key, err := Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decoding secret")
	}
	if len(key) < SecretSize {
		return nil, ErrWeakSecret
	}
	return key, nil
}
