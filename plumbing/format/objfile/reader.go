package objfile

import (
	"bufio"
	"compress/zlib"
	"errors"
	"io"
	"strconv"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/format/config"
)

var (
	// ErrClosed is returned when the reader is used after Close.
	ErrClosed = errors.New("objfile: reading of closed file")
	// ErrHeader is returned when the header of the object is malformed.
	ErrHeader = errors.New("objfile: invalid header")
	// ErrNegativeSize is returned when the header reports a negative size.
	ErrNegativeSize = errors.New("objfile: negative object size")
)

// Reader reads and decodes git objects from a zlib-compressed loose
// object file, in the form produced by Writer: a "<type> <size>\0"
// header followed by the object content.
type Reader struct {
	zReader  io.ReadCloser
	hasher   plumbing.Hasher
	multiRd  io.Reader

	typ  plumbing.ObjectType
	size int64
	sum  *plumbing.Hash
}

// NewReader returns a new Reader reading from r.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &Reader{zReader: zr}, nil
}

// Header reads the object type and size from the object header. It
// must be called once, before any call to Read.
func (r *Reader) Header() (t plumbing.ObjectType, size int64, err error) {
	if r.hasher.Hash != nil {
		return r.typ, r.size, nil
	}

	br := bufio.NewReader(r.zReader)

	t, err = r.readType(br)
	if err != nil {
		return
	}

	size, err = r.readSize(br)
	if err != nil {
		return
	}

	r.typ = t
	r.size = size
	r.hasher = plumbing.NewHasher(config.SHA1, t, size)
	r.multiRd = io.TeeReader(io.LimitReader(br, size), r.hasher)

	return
}

func (r *Reader) readType(br *bufio.Reader) (plumbing.ObjectType, error) {
	value, err := br.ReadString(' ')
	if err != nil {
		return plumbing.InvalidObject, ErrHeader
	}

	value = value[:len(value)-1]
	return plumbing.ParseObjectType(value)
}

func (r *Reader) readSize(br *bufio.Reader) (int64, error) {
	value, err := br.ReadString(0)
	if err != nil {
		return -1, ErrHeader
	}

	value = value[:len(value)-1]
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1, ErrHeader
	}

	if n < 0 {
		return -1, ErrNegativeSize
	}

	return n, nil
}

// Read reads len(p) object content bytes into p.
func (r *Reader) Read(p []byte) (int, error) {
	if r.multiRd == nil {
		if _, _, err := r.Header(); err != nil {
			return 0, err
		}
	}

	return r.multiRd.Read(p)
}

// Hash returns the computed hash of the object read so far. It is only
// meaningful once the object content has been fully read.
func (r *Reader) Hash() plumbing.Hash {
	if r.sum == nil {
		h := r.hasher.Sum()
		r.sum = &h
	}

	return *r.sum
}

// Close releases the underlying zlib reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}
