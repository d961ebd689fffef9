package storer

import (
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// ReferenceStorer is the interface every ref store backend implements:
// loose files plus packed-refs (§4.3), or an in-memory map.
type ReferenceStorer interface {
	SetReference(*plumbing.Reference) error
	// CheckAndSetReference sets ref only if old matches the store's current
	// value for that name (or old is nil, meaning "create"); used to avoid
	// racing concurrent ref updates.
	CheckAndSetReference(ref, old *plumbing.Reference) error
	Reference(plumbing.ReferenceName) (*plumbing.Reference, error)
	IterReferences() (ReferenceIter, error)
	RemoveReference(plumbing.ReferenceName) error
	CountLooseRefs() (int, error)
	// PackRefs folds loose refs into the packed-refs file.
	PackRefs() error
}

// ReferenceIter is a generic closable interface for iterating over
// references.
type ReferenceIter interface {
	Next() (*plumbing.Reference, error)
	ForEach(func(*plumbing.Reference) error) error
	Close()
}

// ReferenceSliceIter implements ReferenceIter over a fixed slice.
type ReferenceSliceIter struct {
	series []*plumbing.Reference
	pos    int
}

// NewReferenceSliceIter returns an iterator over series.
func NewReferenceSliceIter(series []*plumbing.Reference) *ReferenceSliceIter {
	return &ReferenceSliceIter{series: series}
}

func (iter *ReferenceSliceIter) Next() (*plumbing.Reference, error) {
	if iter.pos >= len(iter.series) {
		return nil, io.EOF
	}

	obj := iter.series[iter.pos]
	iter.pos++
	return obj, nil
}

func (iter *ReferenceSliceIter) ForEach(cb func(*plumbing.Reference) error) error {
	return forEachReference(iter, cb)
}

func (iter *ReferenceSliceIter) Close() {
	iter.pos = len(iter.series)
}

// ReferenceFilteredIter filters an underlying ReferenceIter through f,
// only yielding references for which f returns true.
type ReferenceFilteredIter struct {
	f    func(*plumbing.Reference) bool
	iter ReferenceIter
}

// NewReferenceFilteredIter returns an iterator over iter that only yields
// references matching f.
func NewReferenceFilteredIter(f func(*plumbing.Reference) bool, iter ReferenceIter) *ReferenceFilteredIter {
	return &ReferenceFilteredIter{f, iter}
}

func (iter *ReferenceFilteredIter) Next() (*plumbing.Reference, error) {
	for {
		obj, err := iter.iter.Next()
		if err != nil {
			return nil, err
		}

		if iter.f(obj) {
			return obj, nil
		}
	}
}

func (iter *ReferenceFilteredIter) ForEach(cb func(*plumbing.Reference) error) error {
	return forEachReference(iter, cb)
}

func (iter *ReferenceFilteredIter) Close() {
	iter.iter.Close()
}

// MultiReferenceIter chains several ReferenceIters into one.
type MultiReferenceIter struct {
	iters []ReferenceIter
}

// NewMultiReferenceIter returns an iterator that drains iters in order.
func NewMultiReferenceIter(iters []ReferenceIter) *MultiReferenceIter {
	return &MultiReferenceIter{iters: iters}
}

func (iter *MultiReferenceIter) Next() (*plumbing.Reference, error) {
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

func (iter *MultiReferenceIter) ForEach(cb func(*plumbing.Reference) error) error {
	return forEachReference(iter, cb)
}

func (iter *MultiReferenceIter) Close() {
	for _, i := range iter.iters {
		i.Close()
	}
	iter.iters = nil
}

func forEachReference(iter ReferenceIter, cb func(*plumbing.Reference) error) error {
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
