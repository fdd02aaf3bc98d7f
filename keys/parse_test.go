package keys

import (
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/goliatone/go-payware/core"
)

func TestParsePrivateKey_AcceptsLegacyAndPKCS8(t *testing.T) {
	key := generateTestRSAKey(t)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}

	inputs := map[string]string{
		"rsa pem":     encodePEM(t, LabelRSAPrivate, x509.MarshalPKCS1PrivateKey(key)),
		"pkcs8 pem":   encodePEM(t, LabelPKCS8Private, der),
		"pkcs8 bare":  base64.StdEncoding.EncodeToString(der),
		"legacy bare": base64.StdEncoding.EncodeToString(x509.MarshalPKCS1PrivateKey(key)),
	}
	for name, input := range inputs {
		parsed, err := ParsePrivateKey(input)
		if err != nil {
			t.Fatalf("%s: parse private key: %v", name, err)
		}
		if parsed.N.Cmp(key.N) != 0 {
			t.Fatalf("%s: parsed modulus mismatch", name)
		}
	}
}

func TestParsePrivateKey_RejectsNonRSAMaterial(t *testing.T) {
	key := generateTestRSAKey(t)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	_, err = ParsePrivateKey(encodePEM(t, LabelPublic, publicDER))
	if err == nil {
		t.Fatalf("expected signing error for public key material")
	}
	if !core.IsSigningError(err) {
		t.Fatalf("expected signing error text code, got %v", err)
	}

	_, err = ParsePrivateKey("")
	if !core.IsInvalidKey(err) {
		t.Fatalf("expected invalid key error for empty input, got %v", err)
	}
}

func TestParsePublicKey_AcceptsBareAndDelimited(t *testing.T) {
	key := generateTestRSAKey(t)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	for _, input := range []string{
		encodePEM(t, LabelPublic, publicDER),
		base64.StdEncoding.EncodeToString(publicDER),
	} {
		parsed, err := ParsePublicKey(input)
		if err != nil {
			t.Fatalf("parse public key: %v", err)
		}
		if parsed.N.Cmp(key.N) != 0 {
			t.Fatalf("parsed public modulus mismatch")
		}
	}
}

func TestInspector_ImplementsKeyInspector(t *testing.T) {
	var inspector core.KeyInspector = Inspector{}
	info := inspector.Inspect("not a key")
	if info.Format != core.KeyFormatUnknown {
		t.Fatalf("expected unknown format, got %q", info.Format)
	}
}
