package plumbing

import (
	"crypto"
	"strconv"

	"github.com/wit-vcs/wit/plumbing/format/config"
	"github.com/wit-vcs/wit/plumbing/hash"
)

// Hasher computes the content address of a single typed object payload:
// H("<type> <len>\0" + body). It is the one place the "type len\0body"
// canonical form (§3) is produced, so every object variant hashes through
// it rather than rolling its own framing.
type Hasher struct {
	hash.Hash
	algo crypto.Hash
}

// cryptoHashFor maps an object format to the crypto.Hash that implements
// it, defaulting to SHA-1 for an unset or unrecognized format.
func cryptoHashFor(of config.ObjectFormat) crypto.Hash {
	if of == config.SHA256 {
		return crypto.SHA256
	}
	return crypto.SHA1
}

// NewHasher returns a Hasher primed with the object header for t and size.
func NewHasher(of config.ObjectFormat, t ObjectType, size int64) Hasher {
	algo := cryptoHashFor(of)
	h := Hasher{algo: algo}
	h.Hash = hash.New(algo)
	h.Reset(t, size)
	return h
}

// Reset rewinds the hasher and rewrites the "<type> <size>\0" header.
func (h Hasher) Reset(t ObjectType, size int64) {
	h.Hash.Reset()
	h.Write(t.Bytes())
	h.Write([]byte(" "))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
}

// Sum returns the Hash computed so far.
func (h Hasher) Sum() Hash {
	sum := h.Hash.Sum(nil)
	out, _ := FromBytes(sum)
	return out
}

// HashObject is a convenience for hashing a single already-serialized
// object body without needing to drive a Hasher by hand.
func HashObject(algo crypto.Hash, t ObjectType, body []byte) Hash {
	of := config.SHA1
	if algo == crypto.SHA256 {
		of = config.SHA256
	}
	h := NewHasher(of, t, int64(len(body)))
	h.Write(body)
	return h.Sum()
}
