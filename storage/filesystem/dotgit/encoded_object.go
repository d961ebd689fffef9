package dotgit

import (
	"errors"
	"io"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/format/objfile"
)

// largeEncodedObject is a plumbing.EncodedObject whose content is never
// buffered in memory: every Reader call reopens and decompresses the
// underlying loose object file from scratch. It exists so that objects
// past LargeObjectThreshold don't have to be copied wholesale into a
// MemoryObject just to be streamed back out.
type largeEncodedObject struct {
	dir  *DotGit
	hash plumbing.Hash
	typ  plumbing.ObjectType
	size int64
}

// NewEncodedObject returns an EncodedObject for the loose object
// identified by h, whose content is read directly from dir on demand
// rather than being buffered.
func NewEncodedObject(dir *DotGit, h plumbing.Hash, t plumbing.ObjectType, size int64) plumbing.EncodedObject {
	return &largeEncodedObject{dir: dir, hash: h, typ: t, size: size}
}

func (o *largeEncodedObject) Hash() plumbing.Hash          { return o.hash }
func (o *largeEncodedObject) Type() plumbing.ObjectType    { return o.typ }
func (o *largeEncodedObject) SetType(t plumbing.ObjectType) { o.typ = t }
func (o *largeEncodedObject) Size() int64                  { return o.size }
func (o *largeEncodedObject) SetSize(s int64)              { o.size = s }

func (o *largeEncodedObject) Writer() (io.WriteCloser, error) {
	return nil, errors.New("dotgit: large object is read-only")
}

// Reader reopens the loose object file and skips past its zlib header,
// returning a stream of just the object's content.
func (o *largeEncodedObject) Reader() (io.ReadCloser, error) {
	f, err := o.dir.Object(o.hash)
	if err != nil {
		return nil, err
	}

	r, err := objfile.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, _, err := r.Header(); err != nil {
		_ = r.Close()
		_ = f.Close()
		return nil, err
	}

	return &objfileReadCloser{Reader: r, f: f}, nil
}

// objfileReadCloser closes both the objfile decompression layer and the
// underlying file handle it wraps.
type objfileReadCloser struct {
	*objfile.Reader
	f io.Closer
}

func (o *objfileReadCloser) Close() error {
	err := o.Reader.Close()
	if ferr := o.f.Close(); err == nil {
		err = ferr
	}
	return err
}
