package crypto

import (
	"crypto/sha256"
	"fmt"
)

// ShortSHA returns a truncated hex encoding of the SHA-256 sum of the input,
// optionally salted.
func ShortSHA(salt, input string) string {
	if salt != "" {
		input = fmt.Sprintf("%s:%s", salt, input)
	}
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", sum)[0:54]
}
