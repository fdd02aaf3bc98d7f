package query

import (
	"context"

	"github.com/goliatone/go-payware/core"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error)
}

type TokenValidator interface {
	ValidateToken(ctx context.Context, req core.ValidateTokenRequest) (core.TokenValidationReport, error)
}

type KeyReader interface {
	NormalizeKey(ctx context.Context, text string) (string, error)
	InspectKey(ctx context.Context, text string) (core.KeyInfo, error)
}

type BodyCanonicalizer interface {
	Canonicalize(ctx context.Context, value any) ([]byte, error)
}

type IssueTokenQuery struct {
	issuer TokenIssuer
}

func NewIssueTokenQuery(issuer TokenIssuer) *IssueTokenQuery {
	return &IssueTokenQuery{issuer: issuer}
}

func (q *IssueTokenQuery) Query(ctx context.Context, msg IssueTokenMessage) (core.IssuedToken, error) {
	if q == nil || q.issuer == nil {
		return core.IssuedToken{}, queryDependencyError("query: token issuer is required")
	}
	if err := msg.Validate(); err != nil {
		return core.IssuedToken{}, err
	}
	return q.issuer.IssueToken(ctx, msg.Request)
}

type ValidateTokenQuery struct {
	validator TokenValidator
}

func NewValidateTokenQuery(validator TokenValidator) *ValidateTokenQuery {
	return &ValidateTokenQuery{validator: validator}
}

func (q *ValidateTokenQuery) Query(
	ctx context.Context,
	msg ValidateTokenMessage,
) (core.TokenValidationReport, error) {
	if q == nil || q.validator == nil {
		return core.TokenValidationReport{}, queryDependencyError("query: token validator is required")
	}
	if err := msg.Validate(); err != nil {
		return core.TokenValidationReport{}, err
	}
	return q.validator.ValidateToken(ctx, msg.Request)
}

type NormalizeKeyQuery struct {
	reader KeyReader
}

func NewNormalizeKeyQuery(reader KeyReader) *NormalizeKeyQuery {
	return &NormalizeKeyQuery{reader: reader}
}

func (q *NormalizeKeyQuery) Query(ctx context.Context, msg NormalizeKeyMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: key reader is required")
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}
	return q.reader.NormalizeKey(ctx, msg.KeyText)
}

type InspectKeyQuery struct {
	reader KeyReader
}

func NewInspectKeyQuery(reader KeyReader) *InspectKeyQuery {
	return &InspectKeyQuery{reader: reader}
}

func (q *InspectKeyQuery) Query(ctx context.Context, msg InspectKeyMessage) (core.KeyInfo, error) {
	if q == nil || q.reader == nil {
		return core.KeyInfo{}, queryDependencyError("query: key reader is required")
	}
	return q.reader.InspectKey(ctx, msg.KeyText)
}

// CanonicalizeQuery returns the canonical body as a string, ready to be sent
// verbatim.
type CanonicalizeQuery struct {
	canonicalizer BodyCanonicalizer
}

func NewCanonicalizeQuery(canonicalizer BodyCanonicalizer) *CanonicalizeQuery {
	return &CanonicalizeQuery{canonicalizer: canonicalizer}
}

func (q *CanonicalizeQuery) Query(ctx context.Context, msg CanonicalizeMessage) (string, error) {
	if q == nil || q.canonicalizer == nil {
		return "", queryDependencyError("query: body canonicalizer is required")
	}
	out, err := q.canonicalizer.Canonicalize(ctx, msg.Value)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
