// Package hashutil derives content-addressed identifiers from text.
//
// Identifiers are stable across processes and machines: the input is
// normalized before hashing, so the same logical content always maps to
// the same identifier regardless of platform line endings or surrounding
// whitespace. Used for naming rendered diagram artifacts so that
// concurrent conversions of identical content collapse to the same file.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DefaultLength is the number of hex characters returned when callers
// pass no explicit length.
const DefaultLength = 16

// maxLength is the full hex width of a SHA-256 digest.
const maxLength = 64

// Normalize trims outer whitespace and converts \r\n and \r to \n.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

// Hash returns the first length hex characters of the SHA-256 digest of
// the normalized text. length is clamped to [0, 64]; a negative length
// yields an empty string, anything above 64 yields the full digest.
func Hash(text string, length int) string {
	if length < 0 {
		length = 0
	}
	if length > maxLength {
		length = maxLength
	}

	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])[:length]
}

// HashDefault returns Hash(text, DefaultLength).
func HashDefault(text string) string {
	return Hash(text, DefaultLength)
}
