package idxfile

import (
	"encoding/binary"
	"sort"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/hash"
)

type writerObject struct {
	hash   plumbing.Hash
	offset int64
	crc32  uint32
}

type writerObjects []writerObject

func (o writerObjects) Len() int      { return len(o) }
func (o writerObjects) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o writerObjects) Less(i, j int) bool {
	return o[i].hash.Compare(o[j].hash.Bytes()) < 0
}

// Writer implements the packfile.Observer interface, accumulating enough
// information from a packfile parse to build its MemoryIndex.
type Writer struct {
	count    uint32
	checksum plumbing.Hash
	objects  writerObjects
}

// OnHeader implements packfile.Observer.
func (w *Writer) OnHeader(count uint32) error {
	w.count = count
	w.objects = make(writerObjects, 0, count)
	return nil
}

// OnInflatedObjectHeader implements packfile.Observer.
func (w *Writer) OnInflatedObjectHeader(t plumbing.ObjectType, objSize int64, pos int64) error {
	return nil
}

// OnInflatedObjectContent implements packfile.Observer.
func (w *Writer) OnInflatedObjectContent(h plumbing.Hash, pos int64, crc uint32, content []byte) error {
	w.objects = append(w.objects, writerObject{hash: h, offset: pos, crc32: crc})
	return nil
}

// OnFooter implements packfile.Observer.
func (w *Writer) OnFooter(h plumbing.Hash) error {
	w.checksum = h
	return nil
}

func (w *Writer) hashSize() int {
	if len(w.objects) == 0 {
		return hash.SHA1Size
	}
	return w.objects[0].hash.Size()
}

// Index builds the MemoryIndex for the packfile observed so far.
// Offsets that don't fit in 31 bits are recorded in the 64-bit offset
// table, following the idx v2 layout.
func (w *Writer) Index() (*MemoryIndex, error) {
	sort.Sort(w.objects)

	idx := NewMemoryIndex(w.hashSize())
	idx.PackfileChecksum = w.checksum

	var off64 []uint64
	last := -1
	bucket := -1

	for i, o := range w.objects {
		fan := int(o.hash.Bytes()[0])

		for j := last + 1; j < fan; j++ {
			idx.Fanout[j] = uint32(i)
		}
		idx.Fanout[fan] = uint32(i + 1)

		if last != fan {
			bucket++
			idx.FanoutMapping[fan] = bucket
			last = fan

			idx.Names = append(idx.Names, nil)
			idx.Offset32 = append(idx.Offset32, nil)
			idx.CRC32 = append(idx.CRC32, nil)
		}

		idx.Names[bucket] = append(idx.Names[bucket], o.hash.Bytes()...)

		var off32 uint32
		if o.offset >= int64(is64BitsMask) {
			off32 = is64BitsMask | uint32(len(off64))
			off64 = append(off64, uint64(o.offset))
		} else {
			off32 = uint32(o.offset)
		}

		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], off32)
		idx.Offset32[bucket] = append(idx.Offset32[bucket], buf[:]...)

		binary.BigEndian.PutUint32(buf[:], o.crc32)
		idx.CRC32[bucket] = append(idx.CRC32[bucket], buf[:]...)
	}

	for j := last + 1; j < fanoutEntries; j++ {
		idx.Fanout[j] = uint32(len(w.objects))
	}

	if len(off64) > 0 {
		buf := make([]byte, len(off64)*8)
		for i, o := range off64 {
			binary.BigEndian.PutUint64(buf[i*8:i*8+8], o)
		}
		idx.Offset64 = buf
	}

	return idx, nil
}
