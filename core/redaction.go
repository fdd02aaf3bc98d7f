package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactSensitiveMap masks key material, tokens and signatures before they
// reach a log sink. Nested maps and slices are walked.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	case string:
		if looksLikePEM(typed) {
			return RedactedValue
		}
		return typed
	default:
		return value
	}
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	// "sub" carries the delegation token inside decoded payloads.
	if key == "sub" {
		return true
	}
	sensitiveTokens := []string{
		"private_key",
		"privatekey",
		"secret",
		"token",
		"authorization",
		"signature",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "issuance_id",
		"partner_id",
		"target_id",
		"role",
		"digest_algorithm",
		"key_format",
		"event_type",
		"request_id":
		return true
	default:
		return false
	}
}

func looksLikePEM(value string) bool {
	return strings.Contains(value, "-----BEGIN ")
}
