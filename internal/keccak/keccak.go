// Package keccak provides the Keccak-256 digest used to derive selectors,
// event topics and EIP-55 checksums. The actual permutation is out of scope
// for this module (spec.md's non-goals) and comes from
// golang.org/x/crypto/sha3; this package is the one place the rest of the
// tree gets the hash from, the same role crypto.NewKeccakState plays for
// go-ethereum's own pack layer. The hash is fixed: there is no hook for
// substituting another digest. Sum256 takes a fresh state from New on every
// call.
package keccak

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// State wraps hash.Hash for the one-shot Sum256 use case this package
// needs; it carries no Read-based squeeze extension because nothing here
// needs variable-length output.
type State interface {
	hash.Hash
}

// New returns a fresh Keccak-256 digest state.
func New() State {
	return sha3.NewLegacyKeccak256()
}

// Sum256 hashes data and returns the 32-byte Keccak-256 digest.
func Sum256(data []byte) [32]byte {
	d := New()
	d.Write(data)
	var out [32]byte
	d.Sum(out[:0])
	return out
}
