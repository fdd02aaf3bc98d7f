package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-payware/core"
)

func TestIssueTokenQuery_QueryDelegates(t *testing.T) {
	expected := core.IssuedToken{Token: "h.p.s", Body: []byte(`{"a":1}`)}
	called := false
	issuer := stubTokenIssuer{
		issueFn: func(_ context.Context, req core.IssueRequest) (core.IssuedToken, error) {
			called = true
			if req.Identity != "PARTNER01" || req.Role != core.RoleDirect {
				t.Fatalf("unexpected issue request: %#v", req)
			}
			return expected, nil
		},
	}

	qry := NewIssueTokenQuery(issuer)
	result, err := qry.Query(context.Background(), IssueTokenMessage{Request: core.IssueRequest{
		Role:       core.RoleDirect,
		Identity:   "PARTNER01",
		PrivateKey: "key",
		Body:       map[string]any{"a": 1},
	}})
	if err != nil {
		t.Fatalf("query issue token: %v", err)
	}
	if !called {
		t.Fatalf("expected issuer invocation")
	}
	if result.Token != expected.Token {
		t.Fatalf("unexpected issued token: %#v", result)
	}
}

func TestIssueTokenQuery_ValidatesBeforeDelegating(t *testing.T) {
	issuer := stubTokenIssuer{
		issueFn: func(context.Context, core.IssueRequest) (core.IssuedToken, error) {
			t.Fatalf("issuer should not be called for invalid messages")
			return core.IssuedToken{}, nil
		},
	}
	_, err := NewIssueTokenQuery(issuer).Query(context.Background(), IssueTokenMessage{
		Request: core.IssueRequest{Identity: "PARTNER01"},
	})
	if !core.IsInvalidKey(err) {
		t.Fatalf("expected invalid key error, got %v", err)
	}

	_, err = NewIssueTokenQuery(issuer).Query(context.Background(), IssueTokenMessage{
		Request: core.IssueRequest{PrivateKey: "key"},
	})
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input error for missing identity, got %v", err)
	}
}

func TestValidateTokenQuery_QueryDelegates(t *testing.T) {
	validator := stubTokenValidator{
		validateFn: func(_ context.Context, req core.ValidateTokenRequest) (core.TokenValidationReport, error) {
			if req.Token != "h.p.s" {
				t.Fatalf("unexpected token %q", req.Token)
			}
			return core.TokenValidationReport{Role: core.RoleDelegated, DigestMatches: true}, nil
		},
	}

	report, err := NewValidateTokenQuery(validator).Query(context.Background(), ValidateTokenMessage{
		Request: core.ValidateTokenRequest{Token: "h.p.s"},
	})
	if err != nil {
		t.Fatalf("query validate token: %v", err)
	}
	if report.Role != core.RoleDelegated || !report.DigestMatches {
		t.Fatalf("unexpected report %#v", report)
	}

	_, err = NewValidateTokenQuery(validator).Query(context.Background(), ValidateTokenMessage{})
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input for empty token, got %v", err)
	}
}

func TestKeyQueries_Delegate(t *testing.T) {
	reader := stubKeyReader{
		normalizeFn: func(_ context.Context, text string) (string, error) {
			return "normalized:" + text, nil
		},
		inspectFn: func(_ context.Context, text string) (core.KeyInfo, error) {
			return core.KeyInfo{Format: core.KeyFormatRSA, Length: len(text)}, nil
		},
	}

	normalized, err := NewNormalizeKeyQuery(reader).Query(context.Background(), NormalizeKeyMessage{KeyText: "abc"})
	if err != nil {
		t.Fatalf("query normalize key: %v", err)
	}
	if normalized != "normalized:abc" {
		t.Fatalf("unexpected normalized key %q", normalized)
	}

	info, err := NewInspectKeyQuery(reader).Query(context.Background(), InspectKeyMessage{KeyText: "abcd"})
	if err != nil {
		t.Fatalf("query inspect key: %v", err)
	}
	if info.Format != core.KeyFormatRSA || info.Length != 4 {
		t.Fatalf("unexpected key info %#v", info)
	}

	_, err = NewNormalizeKeyQuery(reader).Query(context.Background(), NormalizeKeyMessage{})
	if !core.IsInvalidKey(err) {
		t.Fatalf("expected invalid key for empty key text, got %v", err)
	}
}

func TestCanonicalizeQuery_QueryDelegates(t *testing.T) {
	canonicalizer := stubCanonicalizer{
		canonicalizeFn: func(_ context.Context, value any) ([]byte, error) {
			if value == nil {
				return nil, fmt.Errorf("unexpected nil value")
			}
			return []byte(`{"a":1}`), nil
		},
	}

	out, err := NewCanonicalizeQuery(canonicalizer).Query(context.Background(), CanonicalizeMessage{Value: map[string]any{"a": 1}})
	if err != nil {
		t.Fatalf("query canonicalize: %v", err)
	}
	if out != `{"a":1}` {
		t.Fatalf("unexpected canonical body %s", out)
	}

	if _, err := NewCanonicalizeQuery(canonicalizer).Query(context.Background(), CanonicalizeMessage{}); err == nil {
		t.Fatalf("expected canonicalizer error to propagate")
	}
}

type stubTokenIssuer struct {
	issueFn func(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error)
}

func (s stubTokenIssuer) IssueToken(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error) {
	if s.issueFn == nil {
		return core.IssuedToken{}, nil
	}
	return s.issueFn(ctx, req)
}

type stubTokenValidator struct {
	validateFn func(ctx context.Context, req core.ValidateTokenRequest) (core.TokenValidationReport, error)
}

func (s stubTokenValidator) ValidateToken(ctx context.Context, req core.ValidateTokenRequest) (core.TokenValidationReport, error) {
	if s.validateFn == nil {
		return core.TokenValidationReport{}, nil
	}
	return s.validateFn(ctx, req)
}

type stubKeyReader struct {
	normalizeFn func(ctx context.Context, text string) (string, error)
	inspectFn   func(ctx context.Context, text string) (core.KeyInfo, error)
}

func (s stubKeyReader) NormalizeKey(ctx context.Context, text string) (string, error) {
	if s.normalizeFn == nil {
		return text, nil
	}
	return s.normalizeFn(ctx, text)
}

func (s stubKeyReader) InspectKey(ctx context.Context, text string) (core.KeyInfo, error) {
	if s.inspectFn == nil {
		return core.KeyInfo{}, nil
	}
	return s.inspectFn(ctx, text)
}

type stubCanonicalizer struct {
	canonicalizeFn func(ctx context.Context, value any) ([]byte, error)
}

func (s stubCanonicalizer) Canonicalize(ctx context.Context, value any) ([]byte, error) {
	if s.canonicalizeFn == nil {
		return nil, nil
	}
	return s.canonicalizeFn(ctx, value)
}
