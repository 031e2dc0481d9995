// Package randid generates short random identifiers from a
// lowercase-alphanumeric alphabet using crypto/rand.
package randid

import (
	"crypto/rand"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random identifier of the given length.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform RNG is broken;
		// nothing sensible to recover to.
		panic("randid: " + err.Error())
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf)
}

// Prefixed returns a random identifier of the given length with a fixed
// prefix, joined by a dash. Used for namespaced ids such as
// externally-created participants ("ext-x7f2...").
func Prefixed(prefix string, length int) string {
	return prefix + "-" + Generate(length)
}
