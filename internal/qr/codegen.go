package qr

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ManualCodeAlphabet is the 32-symbol alphabet for manual fallback
// codes: digits and uppercase letters minus the ambiguous 0/1/I/O.
// The validator builds its regex from this same constant, so a
// generated code can never fail its own validation.
const ManualCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const manualCodeLength = 8

// GenerateManualCode returns a human-typable XXXX-XXXX fallback code.
// Draws come from crypto/rand so codes cannot be predicted from
// issuance order. 256 is a multiple of 32, so masking a byte down to
// five bits gives an unbiased index.
func GenerateManualCode() (string, error) {
	buf := make([]byte, manualCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate manual code: %w", err)
	}

	var b strings.Builder
	b.Grow(manualCodeLength + 1)
	for i, c := range buf {
		if i == manualCodeLength/2 {
			b.WriteByte('-')
		}
		b.WriteByte(ManualCodeAlphabet[int(c)&31])
	}
	return b.String(), nil
}

// GenerateRandomToken returns a 32-character opaque random string
// (a UUID with the dashes stripped) for uses that never decode, such
// as one-time link salts. Kept separate from manual codes because of
// its different length and alphabet.
func GenerateRandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
