package core

import (
	"context"
	"sync"
)

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type stubTokenIssuer struct {
	mu       sync.Mutex
	requests []IssueRequest
	issueFn  func(ctx context.Context, req IssueRequest) (IssuedToken, error)
}

func (s *stubTokenIssuer) Issue(ctx context.Context, req IssueRequest) (IssuedToken, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.issueFn == nil {
		return IssuedToken{Token: "header.payload.signature"}, nil
	}
	return s.issueFn(ctx, req)
}

func (s *stubTokenIssuer) last() IssueRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return IssueRequest{}
	}
	return s.requests[len(s.requests)-1]
}

type stubKeyInspector struct {
	normalizeFn func(text string) (string, error)
	info        KeyInfo
}

func (s stubKeyInspector) Normalize(text string) (string, error) {
	if s.normalizeFn == nil {
		return text, nil
	}
	return s.normalizeFn(text)
}

func (s stubKeyInspector) Inspect(string) KeyInfo {
	return s.info
}

type stubTokenValidator struct {
	report TokenValidationReport
	err    error
	last   *ValidateTokenRequest
}

func (s stubTokenValidator) Validate(_ context.Context, req ValidateTokenRequest) (TokenValidationReport, error) {
	if s.last != nil {
		*s.last = req
	}
	return s.report, s.err
}

type stubCanonicalizer struct {
	out []byte
	err error
}

func (s stubCanonicalizer) Canonicalize(any) ([]byte, error) {
	return s.out, s.err
}
