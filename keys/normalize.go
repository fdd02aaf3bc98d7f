package keys

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"regexp"
	"strings"

	"github.com/goliatone/go-payware/core"
)

const (
	LabelPKCS8Private = "PRIVATE KEY"
	LabelRSAPrivate   = "RSA PRIVATE KEY"
	LabelPublic       = "PUBLIC KEY"
	LabelRSAPublic    = "RSA PUBLIC KEY"
)

var (
	pemBlockPattern = regexp.MustCompile(`-----BEGIN ([A-Z0-9 ]+)-----([\s\S]*?)-----END ([A-Z0-9 ]+)-----`)
	nonBase64       = regexp.MustCompile(`[^A-Za-z0-9+/=]`)
)

// Normalize returns key text as a canonical PEM block wrapped at 64 columns.
// Delimited input keeps its label (PKCS#8 stays PKCS#8, RSA stays RSA); bare
// base64 content is wrapped as a PKCS#8 private key.
func Normalize(text string) (string, error) {
	return NormalizeAs(text, core.KeyFormatPKCS8)
}

// NormalizeAs behaves like Normalize but wraps bare content with the label for
// format. Delimited input ignores format.
func NormalizeAs(text string, format core.KeyFormat) (string, error) {
	label, content, err := splitKeyText(text)
	if err != nil {
		return "", err
	}
	if label == "" {
		label, err = labelForFormat(format)
		if err != nil {
			return "", err
		}
	}
	der, err := decodeContent(content)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der})), nil
}

// Inspect reports what the key text looks like without changing it. It is a
// diagnostic and never fails; unreadable input reports KeyFormatUnknown.
func Inspect(text string) core.KeyInfo {
	unescaped := unescapeKeyText(text)
	info := core.KeyInfo{
		Format: core.KeyFormatUnknown,
		Lines:  countLines(unescaped),
	}

	label, content, err := splitKeyText(text)
	if err != nil {
		info.HasHeaders = strings.Contains(unescaped, "-----BEGIN ")
		return info
	}
	info.Length = len(content)
	if label != "" {
		info.HasHeaders = true
		info.Label = label
		info.Format = formatForLabel(label)
		info.IsPrivate = strings.Contains(label, "PRIVATE")
		return info
	}

	der, err := decodeContent(content)
	if err != nil {
		return info
	}
	info.Format, info.IsPrivate = sniffDER(der)
	if label, err := labelForFormat(info.Format); err == nil {
		info.Label = label
	}
	return info
}

func splitKeyText(text string) (string, string, error) {
	unescaped := strings.TrimSpace(unescapeKeyText(text))
	if unescaped == "" {
		return "", "", core.InvalidKeyError("keys: key material is required", nil)
	}

	if !strings.Contains(unescaped, "-----BEGIN ") {
		content := nonBase64.ReplaceAllString(unescaped, "")
		if content == "" {
			return "", "", core.InvalidKeyError("keys: key content is empty", nil)
		}
		return "", content, nil
	}

	match := pemBlockPattern.FindStringSubmatch(unescaped)
	if match == nil {
		return "", "", core.InvalidKeyError("keys: key delimiters are incomplete", nil)
	}
	begin := strings.TrimSpace(match[1])
	end := strings.TrimSpace(match[3])
	if begin != end {
		return "", "", core.InvalidKeyError("keys: key delimiters do not match", map[string]any{
			"begin_label": begin,
			"end_label":   end,
		})
	}
	if strings.Contains(match[2], "ENCRYPTED") {
		return "", "", core.InvalidKeyError("keys: encrypted keys are not supported", map[string]any{
			"label": begin,
		})
	}
	content := nonBase64.ReplaceAllString(match[2], "")
	if content == "" {
		return "", "", core.InvalidKeyError("keys: key content is empty", map[string]any{
			"label": begin,
		})
	}
	return begin, content, nil
}

// unescapeKeyText turns literal "\n" sequences (keys pasted from env files or
// JSON) into real line breaks.
func unescapeKeyText(text string) string {
	text = strings.ReplaceAll(text, `\r\n`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func decodeContent(content string) ([]byte, error) {
	der, err := base64.StdEncoding.DecodeString(content)
	if err == nil {
		return der, nil
	}
	der, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(content, "="))
	if rawErr == nil {
		return der, nil
	}
	return nil, core.InvalidKeyError("keys: key content is not valid base64", map[string]any{
		"length": len(content),
	})
}

func labelForFormat(format core.KeyFormat) (string, error) {
	switch format {
	case core.KeyFormatPKCS8, "":
		return LabelPKCS8Private, nil
	case core.KeyFormatRSA:
		return LabelRSAPrivate, nil
	case core.KeyFormatPublic:
		return LabelPublic, nil
	case core.KeyFormatRSAPublic:
		return LabelRSAPublic, nil
	default:
		return "", core.BadInputError("keys: unsupported key format "+string(format), nil)
	}
}

func formatForLabel(label string) core.KeyFormat {
	switch label {
	case LabelPKCS8Private:
		return core.KeyFormatPKCS8
	case LabelRSAPrivate:
		return core.KeyFormatRSA
	case LabelPublic:
		return core.KeyFormatPublic
	case LabelRSAPublic:
		return core.KeyFormatRSAPublic
	default:
		return core.KeyFormatUnknown
	}
}

func sniffDER(der []byte) (core.KeyFormat, bool) {
	if _, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return core.KeyFormatPKCS8, true
	}
	if _, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return core.KeyFormatRSA, true
	}
	if _, err := x509.ParsePKIXPublicKey(der); err == nil {
		return core.KeyFormatPublic, false
	}
	if _, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return core.KeyFormatRSAPublic, false
	}
	return core.KeyFormatUnknown, false
}

func countLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
