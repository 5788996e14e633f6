// Package gravatar derives avatar URLs from email addresses.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const baseURL = "https://0.gravatar.com/avatar/"

// URL returns the gravatar address for an email. The email is trimmed and
// lowercased before hashing so equivalent addresses map to the same avatar.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return baseURL + hex.EncodeToString(sum[:])
}
