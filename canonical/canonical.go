// Package canonical produces the single deterministic byte encoding of a
// JSON-like value: object keys sorted recursively, no insignificant
// whitespace, arrays in their original order. The output is the exact body
// that gets hashed into a token header and sent over the wire.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gowebpki/jcs"

	"github.com/goliatone/go-payware/core"
)

var null = []byte("null")

// maxExactInteger is the largest magnitude an IEEE 754 double holds exactly.
const maxExactInteger = 1 << 53

// Canonicalize encodes value as canonical JSON (RFC 8785). Go maps, slices,
// structs and scalars go through encoding/json first; json.RawMessage and
// []byte are treated as JSON text. A nil value encodes as null.
func Canonicalize(value any) ([]byte, error) {
	raw, err := encode(value)
	if err != nil {
		return nil, err
	}
	if err := checkIntegerPrecision(raw); err != nil {
		return nil, err
	}
	return transform(raw)
}

// String is Canonicalize returning a string.
func String(value any) (string, error) {
	out, err := Canonicalize(value)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Equal reports whether two values share one canonical encoding.
func Equal(left, right any) (bool, error) {
	a, err := Canonicalize(left)
	if err != nil {
		return false, err
	}
	b, err := Canonicalize(right)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

func encode(value any) ([]byte, error) {
	switch typed := value.(type) {
	case nil:
		return null, nil
	case json.RawMessage:
		return validRaw(typed)
	case []byte:
		return validRaw(typed)
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			return nil, core.BadInputError(fmt.Sprintf("canonical: value of type %T is not JSON encodable: %v", value, err), nil)
		}
		return raw, nil
	}
}

func validRaw(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return null, nil
	}
	if !json.Valid(trimmed) {
		return nil, core.BadInputError("canonical: invalid JSON text", map[string]any{
			"length": len(trimmed),
		})
	}
	return trimmed, nil
}

// checkIntegerPrecision rejects integer literals that JCS number
// serialization would silently round.
func checkIntegerPrecision(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return core.BadInputError("canonical: invalid JSON: "+err.Error(), nil)
		}
		num, ok := tok.(json.Number)
		if !ok {
			continue
		}
		text := num.String()
		if strings.ContainsAny(text, ".eE") {
			continue
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n > maxExactInteger || n < -maxExactInteger {
			return core.BadInputError(fmt.Sprintf("canonical: integer %s exceeds 2^53 and cannot be encoded exactly", text), map[string]any{
				"value": text,
			})
		}
	}
}

// transform wraps raw in an array so scalars at the top level go through the
// same JCS rules as nested ones, then drops the brackets again.
func transform(raw []byte) ([]byte, error) {
	wrapped := make([]byte, 0, len(raw)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, raw...)
	wrapped = append(wrapped, ']')

	out, err := jcs.Transform(wrapped)
	if err != nil {
		return nil, core.BadInputError("canonical: invalid JSON: "+err.Error(), nil)
	}
	if len(out) < 2 || out[0] != '[' || out[len(out)-1] != ']' {
		return nil, core.InternalError("canonical: unexpected transform output")
	}
	return out[1 : len(out)-1], nil
}

type Canonicalizer struct{}

func (Canonicalizer) Canonicalize(value any) ([]byte, error) {
	return Canonicalize(value)
}

var _ core.BodyCanonicalizer = Canonicalizer{}
