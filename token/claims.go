package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payware token payload. Field order is the wire order: iss,
// aud, sub (delegated only), iat. Audience is a single string, never an array.
type Claims struct {
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`
	Subject  string `json:"sub,omitempty"`
	IssuedAt int64  `json:"iat"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c Claims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c Claims) GetSubject() (string, error) {
	return c.Subject, nil
}

func (c Claims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}

// Map returns the claims as a payload map, omitting sub when empty.
func (c Claims) Map() map[string]any {
	out := map[string]any{
		"iss": c.Issuer,
		"aud": c.Audience,
		"iat": c.IssuedAt,
	}
	if c.Subject != "" {
		out["sub"] = c.Subject
	}
	return out
}

func claimsFromMap(values jwt.MapClaims) Claims {
	claims := Claims{
		Issuer:  stringClaim(values["iss"]),
		Subject: stringClaim(values["sub"]),
	}
	switch aud := values["aud"].(type) {
	case string:
		claims.Audience = aud
	case []any:
		if len(aud) > 0 {
			claims.Audience = stringClaim(aud[0])
		}
	}
	switch iat := values["iat"].(type) {
	case float64:
		claims.IssuedAt = int64(iat)
	case int64:
		claims.IssuedAt = iat
	}
	return claims
}

func stringClaim(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	return ""
}

var _ jwt.Claims = Claims{}
