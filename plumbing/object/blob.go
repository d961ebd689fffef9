package object

import (
	"bytes"
	"crypto"
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// Blob is opaque file content. Its canonical encoding is just the content
// itself; the hash covers "blob <len>\0" + content (§3 "Object — Blob").
type Blob struct {
	hash    plumbing.Hash
	content []byte
}

// NewBlob builds a Blob from raw content, without computing its hash yet
// (call Encode to address it against a specific algorithm).
func NewBlob(content []byte) *Blob {
	return &Blob{content: content}
}

func (b *Blob) ID() plumbing.Hash          { return b.hash }
func (b *Blob) Type() plumbing.ObjectType  { return plumbing.BlobObject }

// Size returns the length of the blob's content in bytes.
func (b *Blob) Size() int64 { return int64(len(b.content)) }

// Reader returns a stream over the blob's content.
func (b *Blob) Reader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.content)), nil
}

// Bytes returns the blob's raw content.
func (b *Blob) Bytes() []byte { return b.content }

// Encode hashes and wraps the blob as a plumbing.EncodedObject, ready to be
// handed to a storer.
func (b *Blob) Encode(algo crypto.Hash) (plumbing.EncodedObject, error) {
	o := NewMemoryObject(algo, plumbing.BlobObject, b.content)
	b.hash = o.Hash()
	return o, nil
}
