package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-payware/core"
)

const defaultRESTClientTimeout = 30 * time.Second
const defaultRESTResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one payware API call. Auth.Body is the request body; it is
// digested into the token and sent exactly as canonicalized.
type Request struct {
	Method               string
	Path                 string
	Query                map[string]string
	Headers              map[string]string
	Auth                 core.IssueRequest
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	RequestID  string
	Token      core.IssuedToken
	Metadata   map[string]any
}

// RESTAdapter issues a fresh token per call and sends the signed request. It
// never retries.
type RESTAdapter struct {
	Client               HTTPDoer
	Issuer               core.TokenIssuer
	Builder              *RequestBuilder
	MaxResponseBodyBytes int64
}

func NewRESTAdapter(issuer core.TokenIssuer, builder *RequestBuilder, client HTTPDoer) *RESTAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	if builder == nil {
		builder = NewRequestBuilder("", "")
	}
	return &RESTAdapter{
		Client:               client,
		Issuer:               issuer,
		Builder:              builder,
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

// NewRESTAdapterFromConfig builds an adapter with an http.Client bounded by
// cfg.Transport.Timeout.
func NewRESTAdapterFromConfig(cfg core.Config, issuer core.TokenIssuer) *RESTAdapter {
	timeout := cfg.Transport.Timeout
	if timeout <= 0 {
		timeout = defaultRESTClientTimeout
	}
	return NewRESTAdapter(
		issuer,
		NewRequestBuilder(cfg.Transport.BaseURL, cfg.APIVersion),
		&http.Client{Timeout: timeout},
	)
}

func (a *RESTAdapter) Do(ctx context.Context, req Request) (Response, error) {
	if a == nil || a.Client == nil || a.Issuer == nil || a.Builder == nil {
		return Response{}, transportError(
			"transport: rest adapter requires an http client, token issuer and request builder",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	issued, err := a.Issuer.Issue(ctx, req.Auth)
	if err != nil {
		return Response{}, err
	}

	requestCtx := ctx
	cancel := func() {}
	if req.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	httpReq, err := a.Builder.Build(requestCtx, req.Method, req.Path, req.Query, issued)
	if err != nil {
		return Response{}, err
	}
	for key, value := range req.Headers {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" || protectedHeader(trimmed) {
			continue
		}
		httpReq.Header.Set(trimmed, strings.TrimSpace(value))
	}
	requestID := httpReq.Header.Get(HeaderRequestID)

	startedAt := time.Now().UTC()
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return Response{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"method": httpReq.Method, "url": httpReq.URL.String(), "request_id": requestID},
		)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := resolveResponseBodyLimit(req.MaxResponseBodyBytes, a.MaxResponseBodyBytes)
	body, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return Response{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode, "request_id": requestID},
		)
	}
	if int64(len(body)) > maxBodyBytes {
		return Response{}, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"status_code":      httpRes.StatusCode,
				"response_limit_b": maxBodyBytes,
				"request_id":       requestID,
			},
		)
	}

	return Response{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
		RequestID:  requestID,
		Token:      issued,
		Metadata: map[string]any{
			"duration_ms": time.Since(startedAt).Milliseconds(),
			"role":        string(core.NormalizeRole(req.Auth.Role)),
		},
	}, nil
}

// protectedHeader reports headers owned by the signing contract that caller
// headers must not override.
func protectedHeader(key string) bool {
	switch http.CanonicalHeaderKey(key) {
	case core.HeaderAuthorization, core.HeaderContentType, http.CanonicalHeaderKey(core.HeaderAPIVersion):
		return true
	}
	return false
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(requestLimit int64, adapterLimit int64) int64 {
	if requestLimit > 0 {
		return requestLimit
	}
	if adapterLimit > 0 {
		return adapterLimit
	}
	return defaultRESTResponseBodyLimit
}
