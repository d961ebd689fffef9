package idxfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/wit-vcs/wit/plumbing/hash"
)

// Encode writes idx to w in packfile idx v2 format. h accumulates a
// running digest of everything written, used to compute the trailing
// index checksum; its algorithm must match idx's hash size.
func Encode(w io.Writer, h hash.Hash, idx *MemoryIndex) error {
	if w == nil {
		return errors.New("nil writer")
	}
	if idx == nil {
		return errors.New("nil index")
	}
	if idx.Version != VersionSupported {
		return errors.New("unsupported version")
	}

	h.Reset()
	mw := io.MultiWriter(w, h)

	if err := encodeHeader(mw, idx); err != nil {
		return err
	}
	if err := encodeFanout(mw, idx); err != nil {
		return err
	}
	if err := encodeNames(mw, idx); err != nil {
		return err
	}
	if err := encodeCRC32(mw, idx); err != nil {
		return err
	}
	if err := encodeOffsets(mw, idx); err != nil {
		return err
	}

	if _, err := mw.Write(idx.PackfileChecksum.Bytes()); err != nil {
		return err
	}

	_, err := w.Write(h.Sum(nil))
	return err
}

func encodeHeader(w io.Writer, idx *MemoryIndex) error {
	if _, err := w.Write(idxHeader); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, idx.Version)
}

func encodeFanout(w io.Writer, idx *MemoryIndex) error {
	for _, c := range idx.Fanout {
		if err := binary.Write(w, binary.BigEndian, c); err != nil {
			return err
		}
	}
	return nil
}

func encodeNames(w io.Writer, idx *MemoryIndex) error {
	for _, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}
		if pos < 0 || pos >= len(idx.Names) {
			return fmt.Errorf("%w: invalid position %d", ErrMalformedIdxFile, pos)
		}
		if _, err := w.Write(idx.Names[pos]); err != nil {
			return err
		}
	}
	return nil
}

func encodeCRC32(w io.Writer, idx *MemoryIndex) error {
	for _, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}
		if pos < 0 || pos >= len(idx.CRC32) {
			return fmt.Errorf("%w: invalid CRC32 index %d", ErrMalformedIdxFile, pos)
		}
		if _, err := w.Write(idx.CRC32[pos]); err != nil {
			return err
		}
	}
	return nil
}

func encodeOffsets(w io.Writer, idx *MemoryIndex) error {
	for _, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}
		if pos < 0 || pos >= len(idx.Offset32) {
			return fmt.Errorf("%w: invalid offset32 index %d", ErrMalformedIdxFile, pos)
		}
		if _, err := w.Write(idx.Offset32[pos]); err != nil {
			return err
		}
	}

	if len(idx.Offset64) > 0 {
		if _, err := w.Write(idx.Offset64); err != nil {
			return err
		}
	}

	return nil
}
