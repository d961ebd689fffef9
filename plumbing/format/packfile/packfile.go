package packfile

import (
	"bytes"
	"errors"
	"io"
	"sync"

	billy "github.com/go-git/go-billy/v5"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/cache"
	"github.com/wit-vcs/wit/plumbing/format/idxfile"
	"github.com/wit-vcs/wit/plumbing/storer"
)

// ErrInvalidObject is returned when an object doesn't pass validation.
var ErrInvalidObject = errors.New("invalid object")

// Packfile allows random access into a packfile, resolving objects by hash
// or by their offset within the pack, rebuilding delta chains on demand.
//
// It requires the packfile's idx to have already been built; use Parser
// together with idxfile.Writer to build one from a packfile that doesn't
// carry a companion .idx.
type Packfile struct {
	idxfile.Index

	fs           billy.Filesystem
	file         billy.File
	packPath     string
	cache        cache.Object
	objectIDSize int

	scanner *Scanner
	hsize   int

	m sync.Mutex
}

// NewPackfile returns a Packfile that reads object data from file. By
// default it has no idx and no cache; use WithIdx, WithFs and WithCache to
// set those up.
func NewPackfile(file billy.File, opts ...PackfileOption) *Packfile {
	p := &Packfile{
		file: file,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.cache == nil {
		p.cache = cache.NewObjectLRUDefault()
	}

	if file != nil {
		p.packPath = file.Name()

		var sopts []ScannerOption
		if p.objectIDSize > 0 {
			sopts = append(sopts, WithObjectIDSize(p.objectIDSize))
		}
		p.scanner = NewScanner(file, sopts...)
	}

	return p
}

func (p *Packfile) init() error {
	if p.file == nil {
		return errors.New("packfile: no underlying file")
	}
	if p.Index == nil {
		return errors.New("packfile: no index")
	}
	return nil
}

// ID returns the checksum stored at the end of the packfile.
func (p *Packfile) ID() (plumbing.Hash, error) {
	if err := p.init(); err != nil {
		return plumbing.ZeroHash, err
	}

	p.m.Lock()
	defer p.m.Unlock()

	n := p.hashSize()
	if _, err := p.file.Seek(-int64(n), io.SeekEnd); err != nil {
		return plumbing.ZeroHash, err
	}

	var h plumbing.Hash
	h.ResetBySize(n)
	if _, err := h.ReadFrom(p.file); err != nil {
		return plumbing.ZeroHash, err
	}

	return h, nil
}

// Get returns the object with the given hash.
func (p *Packfile) Get(h plumbing.Hash) (plumbing.EncodedObject, error) {
	offset, err := p.FindOffset(h)
	if err != nil {
		return nil, err
	}

	return p.GetByOffset(offset)
}

// GetByOffset returns the object stored at the given offset within the
// packfile.
func (p *Packfile) GetByOffset(offset int64) (plumbing.EncodedObject, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	p.m.Lock()
	defer p.m.Unlock()

	oh, err := p.headerFromOffset(offset)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, plumbing.ErrObjectNotFound
		}
		return nil, err
	}

	return p.objectFromHeader(oh)
}

// GetSizeByOffset returns the size, in bytes, of the fully reconstructed
// object stored at the given offset.
func (p *Packfile) GetSizeByOffset(offset int64) (int64, error) {
	if err := p.init(); err != nil {
		return 0, err
	}

	p.m.Lock()
	defer p.m.Unlock()

	oh, err := p.headerFromOffset(offset)
	if err != nil {
		return 0, err
	}

	if !oh.Type.IsDelta() {
		return oh.Size, nil
	}

	obj, err := p.objectFromHeader(oh)
	if err != nil {
		return 0, err
	}

	return obj.Size(), nil
}

// GetAll returns an iterator over every object in the packfile.
func (p *Packfile) GetAll() (storer.EncodedObjectIter, error) {
	return p.GetByType(plumbing.AnyObject)
}

// GetByType returns an iterator over every object of the given type. Only
// the four base object types and plumbing.AnyObject are valid; anything
// else, including the delta types, returns plumbing.ErrInvalidType since a
// delta's true type is only known once it's been resolved.
func (p *Packfile) GetByType(typ plumbing.ObjectType) (storer.EncodedObjectIter, error) {
	switch typ {
	case plumbing.AnyObject,
		plumbing.CommitObject,
		plumbing.TreeObject,
		plumbing.BlobObject,
		plumbing.TagObject:
		if err := p.init(); err != nil {
			return nil, err
		}

		entries, err := p.Entries()
		if err != nil {
			return nil, err
		}

		return &objectIter{p: p, typ: typ, iter: entries}, nil
	default:
		return nil, plumbing.ErrInvalidType
	}
}

// Close releases the underlying file.
func (p *Packfile) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// headerFromOffset parses the object header located at the given packfile
// offset, along with its raw delta payload when the object is a delta.
// Callers must hold p.m.
func (p *Packfile) headerFromOffset(offset int64) (*ObjectHeader, error) {
	if err := p.scanner.SeekFromStart(offset); err != nil {
		return nil, err
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	data := p.scanner.Data()
	if data.Section != ObjectSection {
		return nil, ErrMalformedPackfile
	}

	oh := data.Value().(ObjectHeader)
	return &oh, nil
}

// objectFromHeader resolves oh into a fully readable object, recursively
// walking delta chains as needed. Callers must hold p.m.
func (p *Packfile) objectFromHeader(oh *ObjectHeader) (plumbing.EncodedObject, error) {
	if !oh.Type.IsDelta() {
		h, err := p.FindHash(oh.Offset)
		if err != nil {
			return nil, err
		}

		return NewFSObject(
			h, oh.Type, oh.Offset, oh.Size,
			p.Index, p.fs, p.file, p.packPath, p.cache,
		), nil
	}

	return p.resolveDelta(oh)
}

func (p *Packfile) resolveDelta(oh *ObjectHeader) (plumbing.EncodedObject, error) {
	var baseOffset int64
	if oh.Type == plumbing.OFSDeltaObject {
		baseOffset = oh.OffsetReference
	} else {
		offset, err := p.FindOffset(oh.Reference)
		if err != nil {
			return nil, err
		}
		baseOffset = offset
	}

	baseHeader, err := p.headerFromOffset(baseOffset)
	if err != nil {
		return nil, err
	}

	base, err := p.objectFromHeader(baseHeader)
	if err != nil {
		return nil, err
	}

	var deltaBuf bytes.Buffer
	if oh.content.Len() > 0 {
		if _, err := deltaBuf.Write(oh.content.Bytes()); err != nil {
			return nil, err
		}
	} else if err := p.scanner.inflateContent(oh.ContentOffset, &deltaBuf); err != nil {
		return nil, err
	}

	target := plumbing.NewMemoryObject(nil)
	target.SetType(base.Type())

	if err := ApplyDelta(target, base, &deltaBuf); err != nil {
		return nil, err
	}

	return target, nil
}

// hashSize returns the byte length of the hashes recorded in the index,
// inferred from the first entry and cached from then on.
func (p *Packfile) hashSize() int {
	if p.objectIDSize > 0 {
		return p.objectIDSize
	}

	if p.hsize != 0 {
		return p.hsize
	}

	it, err := p.Entries()
	if err != nil {
		return plumbing.ZeroHash.Size()
	}
	defer it.Close()

	e, err := it.Next()
	if err != nil {
		return plumbing.ZeroHash.Size()
	}

	p.hsize = e.Hash.Size()
	return p.hsize
}
