package plumbing

import (
	"bytes"
	"crypto"
	"io"

	"github.com/wit-vcs/wit/plumbing/format/config"
)

// ObjectHasher binds the object-format choice (SHA-1 or SHA-256) a
// repository was configured with to the crypto.Hash that actually
// computes its object addresses.
type ObjectHasher struct {
	algo crypto.Hash
}

// FromObjectFormat returns the ObjectHasher for of. An unset or
// unrecognized format falls back to config.DefaultObjectFormat.
func FromObjectFormat(of config.ObjectFormat) *ObjectHasher {
	switch of {
	case config.SHA256:
		return &ObjectHasher{algo: crypto.SHA256}
	default:
		return &ObjectHasher{algo: crypto.SHA1}
	}
}

// MemoryObject is an in-memory EncodedObject. Its Hash is computed
// lazily, once the full declared Size has been written, and is cached
// from then on even if the type is changed afterwards.
type MemoryObject struct {
	typ  ObjectType
	size int64
	cont []byte
	hash Hash
	oh   *ObjectHasher
}

// NewMemoryObject returns a MemoryObject that hashes with the
// algorithm oh was built from, for storage backends that need objects
// addressed under a non-default object format.
func NewMemoryObject(oh *ObjectHasher) *MemoryObject {
	return &MemoryObject{oh: oh}
}

func (o *MemoryObject) algo() crypto.Hash {
	if o.oh != nil {
		return o.oh.algo
	}
	return crypto.SHA1
}

// Hash returns ZeroHash until exactly Size bytes have been written.
func (o *MemoryObject) Hash() Hash {
	if int64(len(o.cont)) != o.size {
		return ZeroHash
	}
	if o.hash.IsZero() {
		o.hash = HashObject(o.algo(), o.typ, o.cont)
	}
	return o.hash
}

func (o *MemoryObject) Type() ObjectType     { return o.typ }
func (o *MemoryObject) SetType(t ObjectType) { o.typ = t }
func (o *MemoryObject) Size() int64          { return o.size }
func (o *MemoryObject) SetSize(s int64)      { o.size = s }

// Reader returns a seekable, read-only view of the object's content.
func (o *MemoryObject) Reader() (io.ReadCloser, error) {
	return nopCloser{bytes.NewReader(o.cont)}, nil
}

// Writer returns o itself: writes append to the in-memory content and
// grow Size to match.
func (o *MemoryObject) Writer() (io.WriteCloser, error) {
	return o, nil
}

func (o *MemoryObject) Write(p []byte) (int, error) {
	o.cont = append(o.cont, p...)
	o.size = int64(len(o.cont))
	return len(p), nil
}

func (o *MemoryObject) Close() error { return nil }

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }
