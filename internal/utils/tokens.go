package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// Fingerprint derives a stable anonymous identity from a session seed. The
// output is "anon_" plus the first 16 alphanumeric characters of the
// base64-encoded SHA-256 digest, so the seed itself is never stored.
func Fingerprint(seed string) string {
	digest := sha256.Sum256([]byte(seed))
	encoded := base64.StdEncoding.EncodeToString(digest[:])

	var b strings.Builder
	for _, r := range encoded {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 16 {
				break
			}
		}
	}
	return "anon_" + b.String()
}
