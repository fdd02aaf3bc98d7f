package query

import (
	"strings"

	"github.com/goliatone/go-payware/core"
)

const (
	TypeIssueToken    = "payware.query.token.issue"
	TypeValidateToken = "payware.query.token.validate"
	TypeNormalizeKey  = "payware.query.key.normalize"
	TypeInspectKey    = "payware.query.key.inspect"
	TypeCanonicalize  = "payware.query.body.canonicalize"
)

type IssueTokenMessage struct {
	Request core.IssueRequest
}

func (IssueTokenMessage) Type() string { return TypeIssueToken }

func (m IssueTokenMessage) Validate() error {
	if strings.TrimSpace(m.Request.Identity) == "" {
		return queryValidationError("identity", "partner identity is required")
	}
	if strings.TrimSpace(m.Request.PrivateKey) == "" {
		return core.InvalidKeyError("query: private key material is required", map[string]any{
			"field": "private_key",
		})
	}
	return nil
}

type ValidateTokenMessage struct {
	Request core.ValidateTokenRequest
}

func (ValidateTokenMessage) Type() string { return TypeValidateToken }

func (m ValidateTokenMessage) Validate() error {
	if strings.TrimSpace(m.Request.Token) == "" {
		return queryValidationError("token", "token is required")
	}
	return nil
}

type NormalizeKeyMessage struct {
	KeyText string
}

func (NormalizeKeyMessage) Type() string { return TypeNormalizeKey }

func (m NormalizeKeyMessage) Validate() error {
	if strings.TrimSpace(m.KeyText) == "" {
		return core.InvalidKeyError("query: key material is required", map[string]any{
			"field": "key_text",
		})
	}
	return nil
}

// InspectKeyMessage accepts any text, including empty input, which inspects
// as an unknown format.
type InspectKeyMessage struct {
	KeyText string
}

func (InspectKeyMessage) Type() string { return TypeInspectKey }

func (InspectKeyMessage) Validate() error { return nil }

type CanonicalizeMessage struct {
	Value any
}

func (CanonicalizeMessage) Type() string { return TypeCanonicalize }

func (CanonicalizeMessage) Validate() error { return nil }
