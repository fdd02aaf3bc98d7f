package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-payware/core"
)

const HeaderRequestID = "X-Request-Id"

// RequestBuilder turns an issued token into an outbound payware request. The
// request body is IssuedToken.Body byte for byte, so the digest in the token
// header always matches what goes on the wire.
type RequestBuilder struct {
	BaseURL        string
	Signer         core.RequestSigner
	DefaultHeaders map[string]string
	NewRequestID   func() string
}

func NewRequestBuilder(baseURL string, apiVersion string) *RequestBuilder {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = core.DefaultBaseURL
	}
	return &RequestBuilder{
		BaseURL:        baseURL,
		Signer:         core.BearerTokenSigner{APIVersion: apiVersion},
		DefaultHeaders: map[string]string{"Accept": core.ContentTypeJSON},
		NewRequestID:   uuid.NewString,
	}
}

// Build creates the http request for path. An empty method resolves to POST
// when the token carries a body and GET otherwise.
func (b *RequestBuilder) Build(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	issued core.IssuedToken,
) (*http.Request, error) {
	if b == nil {
		return nil, transportError("transport: request builder is nil", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method = strings.TrimSpace(strings.ToUpper(method))
	if method == "" {
		method = http.MethodGet
		if issued.HasBody() {
			method = http.MethodPost
		}
	}

	target, err := b.resolveURL(path, query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if issued.HasBody() {
		body = bytes.NewReader(issued.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"method": method, "url": target},
		)
	}

	for key, value := range b.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if b.NewRequestID != nil {
		httpReq.Header.Set(HeaderRequestID, b.NewRequestID())
	}

	signer := b.Signer
	if signer == nil {
		signer = core.BearerTokenSigner{}
	}
	if err := signer.Sign(ctx, httpReq, issued); err != nil {
		return nil, err
	}
	return httpReq, nil
}

func (b *RequestBuilder) resolveURL(path string, query map[string]string) (string, error) {
	path = strings.TrimSpace(path)
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = strings.TrimRight(b.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		if err == nil {
			err = transportError("transport: request url has no host", goerrors.CategoryBadInput, http.StatusBadRequest, nil)
		}
		return "", transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid request url",
			http.StatusBadRequest,
			map[string]any{"url": raw},
		)
	}

	values := parsed.Query()
	for key, value := range query {
		if strings.TrimSpace(key) == "" {
			continue
		}
		values.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}
