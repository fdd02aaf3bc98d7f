package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-payware/core"
)

func TestCompute_SHA256OverCanonicalBody(t *testing.T) {
	body := map[string]any{"currency": "EUR", "amount": "10.00", "reasonL1": "x"}

	result, err := Compute(body, core.DigestSHA256)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !result.Present {
		t.Fatalf("expected digest to be present")
	}
	canonicalBody := `{"amount":"10.00","currency":"EUR","reasonL1":"x"}`
	if string(result.Canonical) != canonicalBody {
		t.Fatalf("unexpected canonical body %s", result.Canonical)
	}
	sum := sha256.Sum256([]byte(canonicalBody))
	if result.Value != base64.StdEncoding.EncodeToString(sum[:]) {
		t.Fatalf("digest does not match sha256 of canonical body")
	}
	if result.Deprecated {
		t.Fatalf("sha256 should not be deprecated")
	}
	if result.HeaderField() != core.HeaderContentSHA256 {
		t.Fatalf("unexpected header field %q", result.HeaderField())
	}
}

func TestCompute_IndependentOfKeyOrder(t *testing.T) {
	first, err := Compute(json.RawMessage(`{"b":1,"a":{"d":2,"c":3}}`), core.DigestSHA256)
	if err != nil {
		t.Fatalf("compute first: %v", err)
	}
	second, err := Compute(map[string]any{"a": map[string]any{"c": 3, "d": 2}, "b": 1}, core.DigestSHA256)
	if err != nil {
		t.Fatalf("compute second: %v", err)
	}
	if first.Value != second.Value {
		t.Fatalf("expected equal digests, got %s and %s", first.Value, second.Value)
	}
}

func TestCompute_StringBodyIsHashedVerbatim(t *testing.T) {
	body := `{"z":1,"a":2}`
	result, err := Compute(body, core.DigestSHA256)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if string(result.Canonical) != body {
		t.Fatalf("expected string body to be kept verbatim, got %s", result.Canonical)
	}
	sum := sha256.Sum256([]byte(body))
	if result.Value != base64.StdEncoding.EncodeToString(sum[:]) {
		t.Fatalf("unexpected digest for verbatim body")
	}
}

func TestCompute_MD5IsDeprecated(t *testing.T) {
	result, err := Compute(map[string]any{"amount": "1.00"}, core.DigestMD5)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	sum := md5.Sum([]byte(`{"amount":"1.00"}`))
	if result.Value != base64.StdEncoding.EncodeToString(sum[:]) {
		t.Fatalf("unexpected md5 digest %s", result.Value)
	}
	if !result.Deprecated {
		t.Fatalf("expected md5 to be flagged deprecated")
	}
	if result.HeaderField() != core.HeaderContentMD5 {
		t.Fatalf("unexpected header field %q", result.HeaderField())
	}
}

func TestCompute_AbsentValuesProduceNoDigest(t *testing.T) {
	var nilMap map[string]any
	var nilSlice []any
	var nilPointer *struct{}
	inputs := []any{nil, "", false, 0, 0.0, nilMap, nilSlice, nilPointer, json.RawMessage(nil), json.RawMessage("null")}

	for _, input := range inputs {
		result, err := Compute(input, core.DigestSHA256)
		if err != nil {
			t.Fatalf("compute %#v: %v", input, err)
		}
		if result.Present || result.Value != "" || result.Canonical != nil {
			t.Fatalf("expected absent digest for %#v, got %#v", input, result)
		}
		if result.HeaderField() != "" {
			t.Fatalf("expected no header field for %#v", input)
		}
	}
}

func TestCompute_EmptyObjectIsABody(t *testing.T) {
	result, err := Compute(map[string]any{}, core.DigestSHA256)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !result.Present || string(result.Canonical) != `{}` {
		t.Fatalf("expected empty object to be hashed, got %#v", result)
	}
}

func TestCompute_RejectsUnsupportedAlgorithm(t *testing.T) {
	_, err := Compute(map[string]any{"a": 1}, core.DigestAlgorithm("sha1"))
	if err == nil {
		t.Fatalf("expected unsupported algorithm error")
	}
	if !core.IsBadInput(err) {
		t.Fatalf("expected bad input error, got %v", err)
	}
}

func TestCompute_DefaultsToSHA256(t *testing.T) {
	result, err := Compute("x", "")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Algorithm != core.DigestSHA256 {
		t.Fatalf("expected sha256 default, got %q", result.Algorithm)
	}
}

func TestCompare_DetectsMismatch(t *testing.T) {
	body := []byte(`{"amount":"10.00"}`)
	expected, err := Sum(body, core.DigestSHA256)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}

	ok, err := Compare(expected, body, core.DigestSHA256)
	if err != nil || !ok {
		t.Fatalf("expected digest match, ok=%v err=%v", ok, err)
	}
	ok, err = Compare(expected, []byte(`{"amount": "10.00"}`), core.DigestSHA256)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if ok {
		t.Fatalf("expected whitespace change to break the digest")
	}
}
