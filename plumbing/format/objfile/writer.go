package objfile

import (
	"compress/zlib"
	"errors"
	"io"
	"strconv"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/format/config"
)

var (
	// ErrOverflow is returned when more bytes are written than declared in
	// the header's size field.
	ErrOverflow = errors.New("objfile: declared data length exceeded")
)

// Writer writes git objects as a zlib-compressed loose object file: a
// "<type> <size>\0" header followed by the object content, matching the
// format Reader decodes.
type Writer struct {
	raw    io.Writer
	zw     io.WriteCloser
	hasher plumbing.Hasher
	mw     io.Writer

	size    int64
	written int64
}

// NewWriter returns a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{raw: w}
}

// WriteHeader writes the object type and size, preparing the Writer to
// accept exactly size bytes of content.
func (w *Writer) WriteHeader(t plumbing.ObjectType, size int64) error {
	if !t.Valid() {
		return plumbing.ErrInvalidType
	}

	if size < 0 {
		return ErrNegativeSize
	}

	zw, err := zlib.NewWriterLevel(w.raw, zlib.BestCompression)
	if err != nil {
		return err
	}

	w.zw = zw
	w.size = size
	w.hasher = plumbing.NewHasher(config.SHA1, t, size)
	w.mw = io.MultiWriter(w.zw, w.hasher)

	header := append(t.Bytes(), ' ')
	header = append(header, []byte(strconv.FormatInt(size, 10))...)
	header = append(header, 0)

	_, err = w.zw.Write(header)
	return err
}

// Write writes object content. It is an error to write more than the
// size declared by the most recent WriteHeader call.
func (w *Writer) Write(p []byte) (int, error) {
	overflow := (w.written + int64(len(p))) - w.size
	if overflow > 0 {
		p = p[:int64(len(p))-overflow]
	}

	n, err := w.mw.Write(p)
	w.written += int64(n)

	if err == nil && overflow > 0 {
		err = ErrOverflow
	}

	return n, err
}

// Hash returns the hash of the object written so far.
func (w *Writer) Hash() plumbing.Hash {
	return w.hasher.Sum()
}

// Close flushes and closes the underlying zlib writer.
func (w *Writer) Close() error {
	if w.zw == nil {
		return nil
	}

	return w.zw.Close()
}
