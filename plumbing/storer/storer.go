// Package storer declares the generic storage contracts (object store,
// reference store, index store) that the filesystem and in-memory
// backends implement (§4.2, §4.3).
package storer

import "errors"

// ErrStop is returned from a ForEach callback to stop iteration early
// without it being reported as a failure.
var ErrStop = errors.New("stop iter")

// Storer is a basic storer for encoded objects and references.
type Storer interface {
	EncodedObjectStorer
	ReferenceStorer
}

// Initializer should be implemented by storers that require to perform any
// operation when creating a new repository (i.e. git init).
type Initializer interface {
	// Init performs initialization of the storer and returns the error, if
	// any.
	Init() error
}

// Options holds configuration for the storage.
type Options struct {
	// Static means that the filesystem is not modified while the repo is open.
	Static bool
}
