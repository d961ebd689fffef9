package idxfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wit-vcs/wit/plumbing"
)

// Decoder reads and decodes idx files from an input stream into a
// MemoryIndex.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder builds a new idx decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads an entire idx file from the decoder's reader into idx.
func (d *Decoder) Decode(idx *MemoryIndex) error {
	if err := d.readHeader(idx); err != nil {
		return err
	}

	n := idx.hashLen()

	if err := d.readFanout(idx); err != nil {
		return err
	}

	if err := d.readNames(idx, n); err != nil {
		return err
	}

	if err := d.readCRC32(idx); err != nil {
		return err
	}

	n64, err := d.readOffsets(idx)
	if err != nil {
		return err
	}

	if err := d.readOffset64(idx, n64); err != nil {
		return err
	}

	return d.readChecksums(idx, n)
}

func (d *Decoder) readHeader(idx *MemoryIndex) error {
	header := make([]byte, len(idxHeader))
	if _, err := io.ReadFull(d.r, header); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIdxFile, err)
	}
	if !bytes.Equal(header, idxHeader) {
		return ErrMalformedIdxFile
	}

	var version uint32
	if err := binary.Read(d.r, binary.BigEndian, &version); err != nil {
		return err
	}
	if version != VersionSupported {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	idx.Version = version
	return nil
}

func (d *Decoder) readFanout(idx *MemoryIndex) error {
	last := uint32(0)
	bucket := -1

	idx.FanoutMapping = make([]int, fanoutEntries)

	for i := 0; i < fanoutEntries; i++ {
		var v uint32
		if err := binary.Read(d.r, binary.BigEndian, &v); err != nil {
			return err
		}
		idx.Fanout[i] = v

		if v > last {
			bucket++
			idx.FanoutMapping[i] = bucket
		} else {
			idx.FanoutMapping[i] = noMapping
		}
		last = v
	}

	idx.Names = make([][]byte, bucket+1)
	idx.Offset32 = make([][]byte, bucket+1)
	idx.CRC32 = make([][]byte, bucket+1)

	return nil
}

func (d *Decoder) readNames(idx *MemoryIndex, hashLen int) error {
	last := 0
	for i, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}

		bucketCount := int(idx.Fanout[i]) - last
		last = int(idx.Fanout[i])

		buf := make([]byte, bucketCount*hashLen)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return err
		}
		idx.Names[pos] = buf
	}

	return nil
}

func (d *Decoder) readCRC32(idx *MemoryIndex) error {
	last := 0
	for i, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}

		bucketCount := int(idx.Fanout[i]) - last
		last = int(idx.Fanout[i])

		buf := make([]byte, bucketCount*4)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return err
		}
		idx.CRC32[pos] = buf
	}

	return nil
}

// readOffsets reads the 32-bit offset table and returns how many entries
// point into the (not yet read) 64-bit offset table.
func (d *Decoder) readOffsets(idx *MemoryIndex) (int, error) {
	last := 0
	n64 := 0

	for i, pos := range idx.FanoutMapping {
		if pos == noMapping {
			continue
		}

		bucketCount := int(idx.Fanout[i]) - last
		last = int(idx.Fanout[i])

		buf := make([]byte, bucketCount*4)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return 0, err
		}
		idx.Offset32[pos] = buf

		for j := 0; j < bucketCount; j++ {
			v := binary.BigEndian.Uint32(buf[j*4 : j*4+4])
			if v&is64BitsMask != 0 {
				if idxPos := int(v &^ is64BitsMask); idxPos+1 > n64 {
					n64 = idxPos + 1
				}
			}
		}
	}

	return n64, nil
}

func (d *Decoder) readOffset64(idx *MemoryIndex, n64 int) error {
	if n64 == 0 {
		return nil
	}

	buf := make([]byte, n64*8)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return err
	}
	idx.Offset64 = buf
	return nil
}

func (d *Decoder) readChecksums(idx *MemoryIndex, hashLen int) error {
	pack := make([]byte, hashLen)
	if _, err := io.ReadFull(d.r, pack); err != nil {
		return err
	}
	h, ok := plumbing.FromBytes(pack)
	if !ok {
		return ErrMalformedIdxFile
	}
	idx.PackfileChecksum = h

	own := make([]byte, hashLen)
	if _, err := io.ReadFull(d.r, own); err != nil {
		return err
	}
	h, ok = plumbing.FromBytes(own)
	if !ok {
		return ErrMalformedIdxFile
	}
	idx.IdxChecksum = h

	return nil
}
