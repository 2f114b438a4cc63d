package runner

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest identifies file content.
type Digest [blake2b.Size256]byte

// DigestOf returns the BLAKE2b-256 digest of content.
func DigestOf(content []byte) Digest {
	return blake2b.Sum256(content)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is unset.
func (d Digest) IsZero() bool {
	return d == Digest{}
}
