package storer

import (
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// EncodedObjectStorer is the interface every object store backend
// implements, whether loose-file (§4.2) or in-memory.
type EncodedObjectStorer interface {
	// NewEncodedObject returns a new empty EncodedObject, to be filled and
	// passed to SetEncodedObject.
	NewEncodedObject() plumbing.EncodedObject
	// SetEncodedObject saves an object to the store, returning its hash.
	// Content-addressed: writing the same bytes twice returns the same
	// hash without producing a duplicate.
	SetEncodedObject(plumbing.EncodedObject) (plumbing.Hash, error)
	// EncodedObject returns the object with the given hash, restricted to
	// the given type unless AnyObject is passed.
	EncodedObject(plumbing.ObjectType, plumbing.Hash) (plumbing.EncodedObject, error)
	// IterEncodedObjects returns an iterator over all objects of the given
	// type (AnyObject for all types).
	IterEncodedObjects(plumbing.ObjectType) (EncodedObjectIter, error)
	// HasEncodedObject returns ErrObjectNotFound if the object doesn't
	// exist in the store, nil otherwise.
	HasEncodedObject(plumbing.Hash) error
	// EncodedObjectSize returns the plaintext size of an object, without
	// reading the whole object.
	EncodedObjectSize(plumbing.Hash) (int64, error)
}

// PackfileWriter is implemented by storers that can write a whole
// packfile directly, bypassing the per-object SetEncodedObject path.
type PackfileWriter interface {
	// PackfileWriter returns a writer for adding a new packfile. The
	// returned writer must be closed after the last write.
	PackfileWriter() (io.WriteCloser, error)
}

// EncodedObjectIter is a generic closable interface for iterating over
// EncodedObjects.
type EncodedObjectIter interface {
	Next() (plumbing.EncodedObject, error)
	ForEach(func(plumbing.EncodedObject) error) error
	Close()
}

// EncodedObjectLookupIter implements EncodedObjectIter. It iterates over
// a series of hashes, lazily looking each one up via the given storer and
// skipping any that don't exist.
type EncodedObjectLookupIter struct {
	storer EncodedObjectStorer
	t      plumbing.ObjectType
	series []plumbing.Hash
	pos    int
}

// NewEncodedObjectLookupIter returns an iterator that looks up each hash
// in series via storer as it is consumed.
func NewEncodedObjectLookupIter(storer EncodedObjectStorer, t plumbing.ObjectType, series []plumbing.Hash) *EncodedObjectLookupIter {
	return &EncodedObjectLookupIter{storer: storer, t: t, series: series}
}

func (iter *EncodedObjectLookupIter) Next() (plumbing.EncodedObject, error) {
	if iter.pos >= len(iter.series) {
		return nil, io.EOF
	}

	obj, err := iter.storer.EncodedObject(iter.t, iter.series[iter.pos])
	if err != nil {
		return nil, err
	}

	iter.pos++
	return obj, nil
}

func (iter *EncodedObjectLookupIter) ForEach(cb func(plumbing.EncodedObject) error) error {
	return forEachObject(iter, cb)
}

func (iter *EncodedObjectLookupIter) Close() {
	iter.pos = len(iter.series)
}

// EncodedObjectSliceIter implements EncodedObjectIter over an in-memory
// slice of already-resolved objects.
type EncodedObjectSliceIter struct {
	series []plumbing.EncodedObject
}

// NewEncodedObjectSliceIter returns an iterator over series. series is
// consumed as the iterator advances.
func NewEncodedObjectSliceIter(series []plumbing.EncodedObject) *EncodedObjectSliceIter {
	return &EncodedObjectSliceIter{series: series}
}

func (iter *EncodedObjectSliceIter) Next() (plumbing.EncodedObject, error) {
	if len(iter.series) == 0 {
		return nil, io.EOF
	}

	obj := iter.series[0]
	iter.series = iter.series[1:]
	return obj, nil
}

func (iter *EncodedObjectSliceIter) ForEach(cb func(plumbing.EncodedObject) error) error {
	return forEachObject(iter, cb)
}

func (iter *EncodedObjectSliceIter) Close() {
	iter.series = nil
}

// MultiEncodedObjectIter chains several EncodedObjectIters into one.
type MultiEncodedObjectIter struct {
	iters []EncodedObjectIter
}

// NewMultiEncodedObjectIter returns an iterator that drains iters in order.
func NewMultiEncodedObjectIter(iters []EncodedObjectIter) *MultiEncodedObjectIter {
	return &MultiEncodedObjectIter{iters: iters}
}

func (iter *MultiEncodedObjectIter) Next() (plumbing.EncodedObject, error) {
	for len(iter.iters) > 0 {
		obj, err := iter.iters[0].Next()
		if err == io.EOF {
			iter.iters[0].Close()
			iter.iters = iter.iters[1:]
			continue
		}
		return obj, err
	}
	return nil, io.EOF
}

func (iter *MultiEncodedObjectIter) ForEach(cb func(plumbing.EncodedObject) error) error {
	return forEachObject(iter, cb)
}

func (iter *MultiEncodedObjectIter) Close() {
	for _, i := range iter.iters {
		i.Close()
	}
	iter.iters = nil
}

func forEachObject(iter EncodedObjectIter, cb func(plumbing.EncodedObject) error) error {
	for {
		obj, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := cb(obj); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}
