package spanattrs

import (
	"errors"
	"testing"
)

// TestNormalizeKey tests trimming, charset validation, lowercasing and
// prefixing of attribute keys
func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "trims and lowercases prefixed key",
			key:  "  Apm.User.ID  ",
			want: "apm.user.id",
		},
		{
			name: "adds prefix when missing",
			key:  "user.id",
			want: "apm.user.id",
		},
		{
			name: "keeps existing prefix",
			key:  "apm.request.success",
			want: "apm.request.success",
		},
		{
			name: "uppercase prefix is recognized after lowercasing",
			key:  "APM.COUNT",
			want: "apm.count",
		},
		{
			name: "digits and dots",
			key:  "shard.042.reads",
			want: "apm.shard.042.reads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.key)
			if err != nil {
				t.Fatalf("NormalizeKey(%q) unexpected error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// TestNormalizeKeyInvalid tests rejection of empty, whitespace-bearing and
// out-of-charset keys
func TestNormalizeKeyInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{
			name: "empty key",
			key:  "",
		},
		{
			name: "whitespace only",
			key:  "   \t ",
		},
		{
			name: "internal whitespace",
			key:  "user id",
		},
		{
			name: "internal tab",
			key:  "user\tid",
		},
		{
			name: "disallowed character",
			key:  "user#id",
		},
		{
			name: "underscore",
			key:  "user_id",
		},
		{
			name: "non-ascii letter",
			key:  "usér.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.key)
			if err == nil {
				t.Fatalf("NormalizeKey(%q) = %q, expected error", tt.key, got)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("NormalizeKey(%q) error = %T, want *ValidationError", tt.key, err)
			}
		})
	}
}

// TestNormalizeKeyIdempotent tests that normalizing an already-normalized key
// is a no-op
func TestNormalizeKeyIdempotent(t *testing.T) {
	keys := []string{
		"  Apm.User.ID  ",
		"user.id",
		"apm.count",
		"A.B.C",
		"tags",
	}

	for _, key := range keys {
		once, err := NormalizeKey(key)
		if err != nil {
			t.Fatalf("NormalizeKey(%q) unexpected error = %v", key, err)
		}

		twice, err := NormalizeKey(once)
		if err != nil {
			t.Fatalf("NormalizeKey(%q) unexpected error = %v", once, err)
		}

		if twice != once {
			t.Errorf("NormalizeKey not idempotent: %q -> %q -> %q", key, once, twice)
		}
	}
}
