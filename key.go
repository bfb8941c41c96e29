package spanattrs

import (
	"regexp"
	"strings"
	"unicode"
)

// KeyPrefix is the namespace prefix applied to every attribute key. Keys that
// already carry it are left untouched; all others have it prepended. The
// prefix keeps custom attributes from colliding with keys set by other
// instrumentation sources (HTTP middleware, database clients, and so on).
const KeyPrefix = "apm."

// Attribute keys may contain only ASCII letters, digits, and dots.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9.]+$`)

// NormalizeKey validates and normalizes an attribute key for use on a span:
//
//  1. Surrounding whitespace is trimmed.
//  2. The trimmed key must be non-empty, contain no whitespace, and match
//     [a-zA-Z0-9.]+.
//  3. The key is lowercased.
//  4. The "apm." prefix is prepended unless already present.
//
// NormalizeKey is a pure function and idempotent on its own output. It returns
// a *ValidationError for any rule violation.
func NormalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)

	if key == "" {
		return "", &ValidationError{Reason: "attribute key cannot be empty"}
	}

	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return "", &ValidationError{Key: key, Reason: "attribute key contains whitespace characters"}
	}

	if !keyPattern.MatchString(key) {
		return "", &ValidationError{Key: key, Reason: "attribute key contains invalid characters, only letters, digits and dots are allowed"}
	}

	key = strings.ToLower(key)

	if !strings.HasPrefix(key, KeyPrefix) {
		key = KeyPrefix + key
	}

	return key, nil
}
