package binary

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// sniffLen is how many leading bytes IsBinary inspects, mirroring git's own
// binary-detection heuristic.
const sniffLen = 8000

const (
	lengthBits   = uint(7)
	maskLength   = byte(0x7f)
	maskContinue = byte(0x80)
)

// Read reads structured binary data from r into data, using BigEndian order.
// https://golang.org/pkg/encoding/binary/#Read
func Read(r io.Reader, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}

	return nil
}

// ReadUint32 reads a BigEndian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}

	return v, nil
}

// ReadUint16 reads a BigEndian uint16 from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}

	return v, nil
}

// ReadHash reads a hash of the given byte length from r.
func ReadHash(r io.Reader, length int) (plumbing.Hash, error) {
	var h plumbing.Hash
	h.ResetBySize(length)
	if _, err := h.ReadFrom(r); err != nil {
		return plumbing.Hash{}, err
	}

	return h, nil
}

// ReadUntil reads from r until delim is found, returning everything read
// before it. The delimiter itself is consumed but not included.
func ReadUntil(r io.Reader, delim byte) ([]byte, error) {
	if br, ok := r.(*bufio.Reader); ok {
		return ReadUntilFromBufioReader(br, delim)
	}

	return ReadUntilFromBufioReader(bufio.NewReader(r), delim)
}

// ReadUntilFromBufioReader is like ReadUntil, avoiding an extra bufio.Reader
// allocation when the caller already has one.
func ReadUntilFromBufioReader(r *bufio.Reader, delim byte) ([]byte, error) {
	b, err := r.ReadBytes(delim)
	if err != nil {
		return b, err
	}

	return b[:len(b)-1], nil
}

// ReadVariableWidthInt reads an integer encoded the way git encodes OFS_DELTA
// base offsets: a big-endian sequence of 7-bit groups, MSB set on every byte
// but the last, with each continued group logically incremented before the
// next shift.
func ReadVariableWidthInt(r io.Reader) (int64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	c := b[0]
	value := int64(c & maskLength)
	for c&maskContinue != 0 {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		c = b[0]
		value = ((value + 1) << lengthBits) | int64(c&maskLength)
	}

	return value, nil
}

// IsBinary detects if data is a binary value: it reports true when a NUL
// byte occurs within the first sniffLen bytes.
func IsBinary(r io.Reader) (bool, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	buf = buf[:n]

	return bytes.IndexByte(buf, 0) != -1, nil
}
