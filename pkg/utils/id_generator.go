// Package utils provides small helpers shared across the service: rounding,
// distance math and identifier generation.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). Nothing here depends on the
// service's domain types.
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string. The API uses it as a per-request
// identifier when the client did not send an X-Request-ID header.
func GenerateID() string {
	return uuid.New().String()
}

// IsValidID reports whether s parses as a UUID. Client-supplied request IDs
// that fail this check are replaced rather than echoed back.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
