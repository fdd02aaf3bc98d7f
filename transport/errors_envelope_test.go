package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-payware/core"
)

func TestRESTAdapter_ResponseLimitReturnsRichError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(newTestSelector(t), NewRequestBuilder(server.URL, ""), server.Client())
	adapter.MaxResponseBodyBytes = 4

	_, err := adapter.Do(context.Background(), Request{
		Path: "/status",
		Auth: core.IssueRequest{Identity: "PARTNER01", PrivateKey: generateTestKeyPEM(t)},
	})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorExternalFailure {
		t.Fatalf("expected %q text code, got %q", core.ErrorExternalFailure, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected %d code, got %d", http.StatusBadGateway, rich.Code)
	}
}

func TestRESTAdapter_NilReturnsRichError(t *testing.T) {
	var adapter *RESTAdapter
	_, err := adapter.Do(context.Background(), Request{})
	if err == nil {
		t.Fatalf("expected rest adapter nil error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.ErrorInternal, rich.TextCode)
	}
	if rich.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d code, got %d", http.StatusInternalServerError, rich.Code)
	}
}
