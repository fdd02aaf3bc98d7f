// Package token builds and inspects RS256 tokens for the payware API.
package token

import (
	"maps"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/digest"
	"github.com/goliatone/go-payware/keys"
)

const (
	HeaderAlgorithm = "alg"
	HeaderType      = "typ"
	TypeJWT         = "JWT"
)

type FactoryConfig struct {
	Audience        string
	DigestAlgorithm core.DigestAlgorithm
	Now             func() time.Time
}

// Factory signs one token per call. It holds no per-call state and is safe
// for concurrent use.
type Factory struct {
	audience        string
	digestAlgorithm core.DigestAlgorithm
	now             func() time.Time
}

func NewFactory(cfg FactoryConfig) *Factory {
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = core.DefaultAudience
	}
	alg := cfg.DigestAlgorithm
	if !alg.Valid() {
		alg = core.DigestSHA256
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Factory{audience: audience, digestAlgorithm: alg, now: now}
}

func (f *Factory) Audience() string {
	if f == nil {
		return core.DefaultAudience
	}
	return f.audience
}

// Issue signs a token for identity. When body is present its digest is placed
// in the header and the canonical bytes are returned as IssuedToken.Body; an
// empty alg uses the factory default.
func (f *Factory) Issue(
	identity string,
	privateKey string,
	auth Authorization,
	body any,
	alg core.DigestAlgorithm,
) (core.IssuedToken, error) {
	if f == nil {
		return core.IssuedToken{}, core.InternalError("token: factory is nil")
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return core.IssuedToken{}, core.ValidationError("identity", "identity is required")
	}
	if auth == nil {
		return core.IssuedToken{}, core.ValidationError("authorization", "authorization mode is required")
	}
	if alg == "" {
		alg = f.digestAlgorithm
	}

	claims, err := auth.claims(identity, f.audience, f.now().Unix())
	if err != nil {
		return core.IssuedToken{}, err
	}

	content, err := digest.Compute(body, alg)
	if err != nil {
		return core.IssuedToken{}, err
	}

	key, err := keys.ParsePrivateKey(privateKey)
	if err != nil {
		return core.IssuedToken{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header[HeaderType] = TypeJWT
	if content.Present {
		token.Header[content.HeaderField()] = content.Value
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return core.IssuedToken{}, core.SigningError(err, "token: sign RS256 token", map[string]any{
			"role": string(auth.Role()),
		})
	}

	return core.IssuedToken{
		Token:   signed,
		Header:  maps.Clone(token.Header),
		Payload: claims.Map(),
		Body:    content.Canonical,
	}, nil
}
