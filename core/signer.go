package core

import (
	"context"
	"net/http"
	"strings"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAPIVersion    = "Api-Version"
	ContentTypeJSON     = "application/json"
)

type RequestSigner interface {
	Sign(ctx context.Context, req *http.Request, issued IssuedToken) error
}

// BearerTokenSigner applies the header half of the request contract: a
// bearer token, the JSON content type and the fixed API version.
type BearerTokenSigner struct {
	APIVersion string
}

func (s BearerTokenSigner) Sign(_ context.Context, req *http.Request, issued IssuedToken) error {
	if req == nil {
		return InternalError("core: http request is required")
	}
	token := strings.TrimSpace(issued.Token)
	if token == "" {
		return ValidationError("token", "token is required for bearer signing")
	}
	version := strings.TrimSpace(s.APIVersion)
	if version == "" {
		version = DefaultAPIVersion
	}
	req.Header.Set(HeaderAuthorization, issued.AuthorizationHeader())
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderAPIVersion, version)
	return nil
}

var _ RequestSigner = BearerTokenSigner{}
