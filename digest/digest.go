// Package digest computes the content digest that binds a request body to the
// token signed for it.
package digest

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"hash"
	"reflect"

	"github.com/goliatone/go-payware/canonical"
	"github.com/goliatone/go-payware/core"
)

// Result is the outcome of Compute. When Present is false there is no body to
// send and no digest to place in the token header.
type Result struct {
	Algorithm  core.DigestAlgorithm
	Value      string
	Canonical  []byte
	Present    bool
	Deprecated bool
}

// HeaderField is the token header key for this result, or "" when absent.
func (r Result) HeaderField() string {
	if !r.Present {
		return ""
	}
	return r.Algorithm.HeaderField()
}

// Compute canonicalizes value and hashes it with alg. Strings are taken as
// already serialized and hashed verbatim. Falsy values yield an absent result.
func Compute(value any, alg core.DigestAlgorithm) (Result, error) {
	if alg == "" {
		alg = core.DigestSHA256
	}
	if !alg.Valid() {
		return Result{}, unsupportedAlgorithm(alg)
	}

	result := Result{Algorithm: alg, Deprecated: alg.Deprecated()}
	if Absent(value) {
		return result, nil
	}

	var body []byte
	if text, ok := value.(string); ok {
		body = []byte(text)
	} else {
		encoded, err := canonical.Canonicalize(value)
		if err != nil {
			return Result{}, err
		}
		body = encoded
	}

	sum, err := Sum(body, alg)
	if err != nil {
		return Result{}, err
	}
	result.Value = sum
	result.Canonical = body
	result.Present = true
	return result, nil
}

// Sum hashes body with alg and returns standard padded base64.
func Sum(body []byte, alg core.DigestAlgorithm) (string, error) {
	h, err := newHash(alg)
	if err != nil {
		return "", err
	}
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Compare recomputes the digest of body and compares it with expected in
// constant time.
func Compare(expected string, body []byte, alg core.DigestAlgorithm) (bool, error) {
	actual, err := Sum(body, alg)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1, nil
}

// Absent reports values that carry no body: nil, empty strings, false, numeric
// zero, nil or empty-text raw JSON, and nil maps, slices or pointers.
func Absent(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	case json.RawMessage:
		return rawAbsent(typed)
	case []byte:
		return rawAbsent(typed)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

func rawAbsent(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func newHash(alg core.DigestAlgorithm) (hash.Hash, error) {
	switch alg {
	case core.DigestSHA256:
		return sha256.New(), nil
	case core.DigestMD5:
		return md5.New(), nil
	default:
		return nil, unsupportedAlgorithm(alg)
	}
}

func unsupportedAlgorithm(alg core.DigestAlgorithm) error {
	return core.BadInputError("digest: unsupported algorithm "+string(alg), map[string]any{
		"digest_algorithm": string(alg),
	})
}
