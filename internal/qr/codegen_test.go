package qr_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-checkin/internal/qr"
)

func TestGenerateManualCodeShape(t *testing.T) {
	shape := regexp.MustCompile("^[" + qr.ManualCodeAlphabet + "]{4}-[" + qr.ManualCodeAlphabet + "]{4}$")

	for i := 0; i < 100; i++ {
		code, err := qr.GenerateManualCode()
		require.NoError(t, err)
		assert.Len(t, code, 9)
		assert.Regexp(t, shape, code)
		assert.Equal(t, byte('-'), code[4])
	}
}

func TestGenerateManualCodeExcludesAmbiguousGlyphs(t *testing.T) {
	for _, c := range "01IO" {
		assert.NotContains(t, qr.ManualCodeAlphabet, string(c))
	}
	assert.Len(t, qr.ManualCodeAlphabet, 32)
}

func TestGenerateManualCodeUniformity(t *testing.T) {
	// 10k codes = 80k draws. Every alphabet symbol should appear, and
	// none should dominate: a uniform draw puts ~2500 occurrences on
	// each of the 32 symbols.
	counts := make(map[rune]int)
	seen := make(map[string]bool)

	for i := 0; i < 10000; i++ {
		code, err := qr.GenerateManualCode()
		require.NoError(t, err)
		seen[code] = true
		for _, c := range strings.ReplaceAll(code, "-", "") {
			counts[c]++
		}
	}

	assert.Len(t, counts, 32, "every alphabet symbol should occur")
	for c, n := range counts {
		assert.Greater(t, n, 1500, "symbol %c is under-represented", c)
		assert.Less(t, n, 3500, "symbol %c is over-represented", c)
	}

	// Keyspace is 32^8; 10k draws should essentially never collide.
	assert.Greater(t, len(seen), 9990)
}

func TestGenerateManualCodePassesOwnValidation(t *testing.T) {
	codec, err := qr.NewCodec(qr.CodecConfig{Salt: "parity-test"})
	require.NoError(t, err)
	validator := qr.NewValidator(codec)

	for i := 0; i < 1000; i++ {
		code, err := qr.GenerateManualCode()
		require.NoError(t, err)
		assert.NoError(t, validator.ValidateManualCode(code))
	}
}

func TestGenerateRandomToken(t *testing.T) {
	a := qr.GenerateRandomToken()
	b := qr.GenerateRandomToken()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}
