package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestFingerprintShape(t *testing.T) {
	fp := Fingerprint("some-session-seed")

	assert.Len(t, fp, len("anon_")+16)
	assert.Equal(t, "anon_", fp[:5])
	for _, r := range fp[5:] {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, isAlnum, "unexpected character %q", r)
	}
}

func TestFingerprintStableAndDistinct(t *testing.T) {
	assert.Equal(t, Fingerprint("seed-a"), Fingerprint("seed-a"))
	assert.NotEqual(t, Fingerprint("seed-a"), Fingerprint("seed-b"))
}

func TestEmailValidation(t *testing.T) {
	assert.True(t, IsValidEmail("doc@example.org"))
	assert.True(t, IsValidEmail("doc+ward@example.org"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("Dr Doc <doc@example.org>"))
}

func TestPasswordComplexity(t *testing.T) {
	assert.True(t, IsComplexPassword("Str0ng!Pass"))
	assert.False(t, IsComplexPassword("short1!"))
	assert.False(t, IsComplexPassword("alllowercase1!"))
	assert.False(t, IsComplexPassword("NoNumbers!"))
	assert.False(t, IsComplexPassword("NoSymbols123"))
}
