package keys

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-payware/core"
)

// ParsePrivateKey normalizes text and parses it as an RSA private key in
// either PKCS#1 or PKCS#8 encoding. Empty content is an InvalidKeyError; a
// block that is not a usable RSA key is a SigningError.
func ParsePrivateKey(text string) (*rsa.PrivateKey, error) {
	normalized, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(normalized))
	if err != nil {
		info := Inspect(normalized)
		return nil, core.SigningError(err, "keys: private key is not a usable RSA signing key", map[string]any{
			"key_format": string(info.Format),
			"key_length": info.Length,
		})
	}
	return key, nil
}

// ParsePublicKey normalizes text (bare content is treated as SubjectPublicKeyInfo)
// and parses an RSA public key.
func ParsePublicKey(text string) (*rsa.PublicKey, error) {
	normalized, err := NormalizeAs(text, core.KeyFormatPublic)
	if err != nil {
		return nil, err
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(normalized))
	if err != nil {
		return nil, core.InvalidKeyError("keys: public key is not a usable RSA key: "+err.Error(), nil)
	}
	return key, nil
}

// Inspector adapts the package functions to core.KeyInspector.
type Inspector struct{}

func (Inspector) Normalize(text string) (string, error) {
	return Normalize(text)
}

func (Inspector) Inspect(text string) core.KeyInfo {
	return Inspect(text)
}

var _ core.KeyInspector = Inspector{}
