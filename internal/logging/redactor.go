package logging

import (
	"strings"
)

const redactedValue = "[REDACTED]"

// Redactor handles secret redaction in log fields.
type Redactor struct {
	sensitiveKeys map[string]bool
}

// NewRedactor creates a new Redactor with default sensitive keys.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: map[string]bool{
			// Passwords
			"password":         true,
			"current_password": true,
			"new_password":     true,
			"secret":           true,
			"key":              true,
			"token":            true,

			// SRP values
			"a":                 true, // client ephemeral secret
			"b":                 true, // server ephemeral secret
			"m1":                true, // client proof (lowercase to match case-insensitive check)
			"x":                 true, // PH2 output
			"k_a":               true, // session key
			"s":                 true, // shared secret
			"hash":              true,
			"new_password_hash": true,
			"secure_random":     true,
			"verifier":          true,
			"proof":             true,
			"salt":              true,
			"salt1":             true,
			"salt2":             true,

			// Account recovery
			"email": true,
		},
	}
}

// AddSensitiveKey adds a custom key to the redaction list.
func (r *Redactor) AddSensitiveKey(key string) {
	r.sensitiveKeys[strings.ToLower(key)] = true
}

// RemoveSensitiveKey removes a key from the redaction list.
func (r *Redactor) RemoveSensitiveKey(key string) {
	delete(r.sensitiveKeys, strings.ToLower(key))
}

// RedactFields redacts sensitive values from a map of fields.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	redacted := make(map[string]any, len(fields))

	for k, v := range fields {
		if r.isSensitiveKey(k) {
			redacted[k] = redactedValue
		} else if nested, ok := v.(map[string]any); ok {
			// Recursively redact nested maps
			redacted[k] = r.RedactFields(nested)
		} else {
			redacted[k] = v
		}
	}

	return redacted
}

// RedactString returns redactedValue if s contains a sensitive key followed
// by "=", ": " or a closing JSON quote and colon. Keys must start at a word
// boundary, so "data=" does not match the key "a".
func (r *Redactor) RedactString(s string) string {
	lower := strings.ToLower(s)

	for key := range r.sensitiveKeys {
		patterns := []string{
			key + "=",
			key + ": ",
			"\"" + key + "\":",
		}

		for _, pattern := range patterns {
			if containsAtBoundary(lower, pattern) {
				return redactedValue
			}
		}
	}

	return s
}

func containsAtBoundary(s, pattern string) bool {
	for offset := 0; ; {
		i := strings.Index(s[offset:], pattern)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 || !isWordByte(s[i-1]) {
			return true
		}
		offset = i + 1
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// isSensitiveKey checks if a field key is marked as sensitive.
func (r *Redactor) isSensitiveKey(key string) bool {
	// Only check exact match (case-insensitive)
	// Substring matching was too aggressive and caught legitimate fields
	return r.sensitiveKeys[strings.ToLower(key)]
}
