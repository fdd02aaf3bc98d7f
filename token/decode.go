package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-payware/core"
)

// Decoded is a token split into its parts without signature verification.
type Decoded struct {
	Raw       string
	Header    map[string]any
	Payload   map[string]any
	Claims    Claims
	Signature string
}

// Decode parses raw without verifying its signature or claims.
func Decode(raw string) (Decoded, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return Decoded{}, core.ValidationError("token", "token is required")
	}

	values := jwt.MapClaims{}
	parsed, parts, err := jwt.NewParser(jwt.WithoutClaimsValidation()).ParseUnverified(raw, values)
	if err != nil {
		return Decoded{}, core.BadInputError("token: malformed token: "+err.Error(), map[string]any{
			"segments": strings.Count(raw, ".") + 1,
		})
	}

	decoded := Decoded{
		Raw:     raw,
		Header:  parsed.Header,
		Payload: map[string]any(values),
		Claims:  claimsFromMap(values),
	}
	if len(parts) == 3 {
		decoded.Signature = parts[2]
	}
	return decoded, nil
}

// Role infers the authorization mode from the claims shape: a subject marks a
// delegated token.
func (d Decoded) Role() core.Role {
	if strings.TrimSpace(d.Claims.Subject) != "" {
		return core.RoleDelegated
	}
	return core.RoleDirect
}

// Digest returns the content digest carried in the header. SHA-256 wins when
// both fields are present.
func (d Decoded) Digest() (core.DigestAlgorithm, string, bool) {
	if value, ok := d.Header[core.HeaderContentSHA256].(string); ok && value != "" {
		return core.DigestSHA256, value, true
	}
	if value, ok := d.Header[core.HeaderContentMD5].(string); ok && value != "" {
		return core.DigestMD5, value, true
	}
	return "", "", false
}
