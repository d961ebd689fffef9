// Package hash provides the underlying cryptographic hash implementations
// used to address objects in the store.
package hash

import (
	"crypto"
	"errors"
	"fmt"
	"hash"

	"github.com/pjbgf/sha1cd"
)

// Byte sizes of the two object formats the core understands.
const (
	SHA1Size      = 20
	SHA1HexSize   = SHA1Size * 2
	SHA256Size    = 32
	SHA256HexSize = SHA256Size * 2
)

// ErrUnsupportedHashFunction is returned by RegisterHash for any
// crypto.Hash other than SHA1 or SHA256.
var ErrUnsupportedHashFunction = errors.New("unsupported hash function")

// algos holds the hash constructor used for each supported algorithm.
// SHA-1 defaults to the collision-detecting implementation so that the
// object store can refuse to persist a crafted SHA-1 collision instead of
// silently aliasing two distinct payloads onto one hash.
var algos = map[crypto.Hash]func() hash.Hash{}

func init() {
	reset()
}

func reset() {
	algos[crypto.SHA1] = sha1cd.New
	algos[crypto.SHA256] = crypto.SHA256.New
}

// RegisterHash overrides the hash.Hash constructor used for an algorithm.
// Intended for tests that need a faster, non-collision-detecting SHA-1.
func RegisterHash(h crypto.Hash, f func() hash.Hash) error {
	if f == nil {
		return fmt.Errorf("cannot register hash: f is nil")
	}
	switch h {
	case crypto.SHA1, crypto.SHA256:
		algos[h] = f
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedHashFunction, h)
	}
	return nil
}

// Hash is an alias of hash.Hash, so callers don't need to import both
// packages under different names.
type Hash interface {
	hash.Hash
}

// New returns a new Hash for the given hash function. It panics if the
// algorithm has not been registered, which can only happen for a value
// other than crypto.SHA1/crypto.SHA256.
func New(h crypto.Hash) Hash {
	hh, ok := algos[h]
	if !ok {
		panic(fmt.Sprintf("hash algorithm not registered: %v", h))
	}
	return hh()
}

// SizeFor returns the digest size, in bytes, of the given algorithm.
func SizeFor(h crypto.Hash) int {
	if h == crypto.SHA256 {
		return SHA256Size
	}
	return SHA1Size
}
