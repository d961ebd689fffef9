// Package cache implements a size-bounded, in-process LRU used to keep
// recently-read objects and loose-object buffers warm across repeated
// lookups (§4.2).
package cache

import "github.com/wit-vcs/wit/plumbing"

// FileSize is expressed in bytes.
type FileSize int64

// Byte-size unit constants for sizing a cache.
const (
	Byte FileSize = 1 << (iota * 10)
	KiByte
	MiByte
	GiByte
)

// DefaultMaxSize is the cache budget used when a size isn't explicitly
// configured.
const DefaultMaxSize = 96 * MiByte

// Object is a size-bounded cache of decoded objects, keyed by hash.
type Object interface {
	Put(o plumbing.EncodedObject)
	Get(k plumbing.Hash) (plumbing.EncodedObject, bool)
	Clear()
}

// Buffer is a size-bounded cache of raw object bytes, keyed by an opaque
// offset (used for packfile base-object reuse during delta resolution).
type Buffer interface {
	Put(k int64, b []byte)
	Get(k int64) ([]byte, bool)
	Clear()
}
