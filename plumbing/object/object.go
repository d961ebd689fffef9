// Package object implements the four immutable object variants of the
// content-addressed store — Blob, Tree, Commit, Tag — and their canonical
// encoding (§3).
package object

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// ErrUnsupportedObject is returned when decoding an EncodedObject whose
// Type() is not one of the four variants this package knows.
var ErrUnsupportedObject = errors.New("unsupported object type")

// MemoryObject is the in-memory plumbing.EncodedObject backing every object
// this package produces before it is handed to a storer. It holds the
// already-serialized body; Hash/Size are derived from it.
type MemoryObject struct {
	typ  plumbing.ObjectType
	hash plumbing.Hash
	cont []byte
}

func (o *MemoryObject) Hash() plumbing.Hash        { return o.hash }
func (o *MemoryObject) Type() plumbing.ObjectType  { return o.typ }
func (o *MemoryObject) SetType(t plumbing.ObjectType) { o.typ = t }
func (o *MemoryObject) Size() int64                { return int64(len(o.cont)) }
func (o *MemoryObject) SetSize(int64)              {}

func (o *MemoryObject) Reader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(o.cont)), nil
}

func (o *MemoryObject) Writer() (io.WriteCloser, error) {
	return &memoryObjectWriter{o}, nil
}

// Bytes returns the raw serialized body (without the "type len\0" header).
func (o *MemoryObject) Bytes() []byte { return o.cont }

type memoryObjectWriter struct{ o *MemoryObject }

func (w *memoryObjectWriter) Write(p []byte) (int, error) {
	w.o.cont = append(w.o.cont, p...)
	return len(p), nil
}
func (w *memoryObjectWriter) Close() error { return nil }

// NewMemoryObject wraps an already-encoded body and hashes it.
func NewMemoryObject(algo crypto.Hash, t plumbing.ObjectType, body []byte) *MemoryObject {
	return &MemoryObject{
		typ:  t,
		cont: body,
		hash: plumbing.HashObject(algo, t, body),
	}
}

// Object is the common surface every decoded variant exposes.
type Object interface {
	ID() plumbing.Hash
	Type() plumbing.ObjectType
	Encode(algo crypto.Hash) (plumbing.EncodedObject, error)
}

// DecodeObject reconstructs the typed variant from a plumbing.EncodedObject
// read back out of the store.
func DecodeObject(o plumbing.EncodedObject) (Object, error) {
	r, err := o.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch o.Type() {
	case plumbing.BlobObject:
		return &Blob{hash: o.Hash(), content: body}, nil
	case plumbing.TreeObject:
		return decodeTree(o.Hash(), body)
	case plumbing.CommitObject:
		return decodeCommit(o.Hash(), body)
	case plumbing.TagObject:
		return decodeTag(o.Hash(), body)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedObject, o.Type())
	}
}
