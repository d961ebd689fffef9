package plumbing

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"io"
	"sort"

	"github.com/wit-vcs/wit/plumbing/hash"
)

// Hash is a content address: the digest of a typed, length-prefixed
// payload. It is algorithm-parameterized (SHA-1, 20 bytes, or SHA-256, 32
// bytes) but carries its own length so a Hash value is self-describing.
type Hash struct {
	algo crypto.Hash
	sum  [hash.SHA256Size]byte
}

// ZeroHash is the Hash with every byte set to zero, using the default
// (SHA-1) algorithm. It never addresses a real object.
var ZeroHash Hash

// NewHash parses a hexadecimal string into a Hash. Invalid input yields the
// zero Hash; callers that need to distinguish invalid input from a real
// zero hash should use FromHex.
func NewHash(s string) Hash {
	h, _ := FromHex(s)
	return h
}

// FromHex decodes a hex string into a Hash. The algorithm is inferred from
// the string length (40 hex chars ⇒ SHA-1, 64 ⇒ SHA-256); any other length
// fails.
func FromHex(s string) (Hash, bool) {
	var h Hash
	switch len(s) {
	case hash.SHA1HexSize:
		h.algo = crypto.SHA1
	case hash.SHA256HexSize:
		h.algo = crypto.SHA256
	default:
		return h, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, false
	}
	copy(h.sum[:], b)
	return h, true
}

// FromBytes builds a Hash from a raw digest, inferring the algorithm from
// the slice length.
func FromBytes(b []byte) (Hash, bool) {
	var h Hash
	switch len(b) {
	case hash.SHA1Size:
		h.algo = crypto.SHA1
	case hash.SHA256Size:
		h.algo = crypto.SHA256
	default:
		return h, false
	}
	copy(h.sum[:], b)
	return h, true
}

// Size returns the digest length, in bytes, for this hash's algorithm.
func (h Hash) Size() int { return hash.SizeFor(h.algo) }

// HexSize returns the length, in hex characters, of this hash's string
// form: twice its byte Size.
func (h Hash) HexSize() int { return h.Size() * 2 }

// ResetBySize clears h and sets its algorithm from a digest size (20 for
// SHA-1, 32 for SHA-256; any other value defaults to SHA-1). Used before
// ReadFrom when the algorithm is only known by the number of bytes on the
// wire.
func (h *Hash) ResetBySize(n int) {
	h.sum = [hash.SHA256Size]byte{}
	if n == hash.SHA256Size {
		h.algo = crypto.SHA256
	} else {
		h.algo = crypto.SHA1
	}
}

// ReadFrom reads this hash's digest (h.Size() bytes) from r.
func (h *Hash) ReadFrom(r io.Reader) (int64, error) {
	n := h.Size()
	if _, err := io.ReadFull(r, h.sum[:n]); err != nil {
		return 0, err
	}
	return int64(n), nil
}

// Bytes returns the raw digest.
func (h Hash) Bytes() []byte {
	b := make([]byte, h.Size())
	copy(b, h.sum[:h.Size()])
	return b
}

// String returns the lowercase hexadecimal form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h.sum[:h.Size()])
}

// IsZero reports whether every byte of the digest is zero.
func (h Hash) IsZero() bool {
	var zero [hash.SHA256Size]byte
	return h.sum == zero
}

// Compare orders h against a raw digest, byte-wise.
func (h Hash) Compare(b []byte) int {
	return bytes.Compare(h.sum[:h.Size()], b)
}

// HasHexPrefix reports whether the (already-lowercased) hex prefix matches
// the leading hex digits of h. Used to resolve abbreviated hashes.
func (h Hash) HasHexPrefix(hexPrefix string) bool {
	s := h.String()
	return len(hexPrefix) <= len(s) && s[:len(hexPrefix)] == hexPrefix
}

// HashesSort sorts hashes in increasing byte order.
func HashesSort(a []Hash) { sort.Sort(HashSlice(a)) }

// HashSlice implements sort.Interface over []Hash.
type HashSlice []Hash

func (p HashSlice) Len() int           { return len(p) }
func (p HashSlice) Less(i, j int) bool { return p[i].Compare(p[j].Bytes()) < 0 }
func (p HashSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// IsHash reports whether s is a full hex hash (either supported size).
func IsHash(s string) bool {
	switch len(s) {
	case hash.SHA1HexSize, hash.SHA256HexSize:
		_, err := hex.DecodeString(s)
		return err == nil
	default:
		return false
	}
}

// IsHashPrefix reports whether s is a plausible abbreviated hash: at least
// 4 hex characters (the spec's minimum unambiguous prefix length), all
// valid hex, and no longer than a full SHA-256 hash.
func IsHashPrefix(s string) bool {
	if len(s) < 4 || len(s) > hash.SHA256HexSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
