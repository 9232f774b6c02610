// Package credential implements the one-way password digest used for stored
// credentials. The digest is deterministic: the repository looks users up by
// (account, digest) pairs, so the same password must always produce the same
// digest under a given process-wide salt.
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 210_000
	keyLen     = 32
)

// Codec turns plaintext secrets into storable digests and verifies them.
// The zero value is unusable; construct with NewCodec.
type Codec struct {
	salt []byte
}

// NewCodec creates a Codec with the given process-wide secret salt.
func NewCodec(salt string) *Codec {
	return &Codec{salt: []byte(salt)}
}

// Digest derives a hex-encoded PBKDF2-SHA256 digest of the secret.
func (c *Codec) Digest(secret string) string {
	key := pbkdf2.Key([]byte(secret), c.salt, iterations, keyLen, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether secret digests to stored. Comparison is constant
// time; the digest is never reversed.
func (c *Codec) Verify(secret, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Digest(secret)), []byte(stored)) == 1
}
