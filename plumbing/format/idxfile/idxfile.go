// Package idxfile implements encoding and decoding of git packfile
// index (.idx) files, version 2: the sorted-hash table that lets a
// packfile be queried by object hash without scanning its contents.
package idxfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sort"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/hash"
)

// VersionSupported is the only idx version this package can read or write.
const VersionSupported = 2

const (
	fanoutEntries = 256
	noMapping     = -1
	is64BitsMask  = uint32(1) << 31
)

var idxHeader = []byte{255, 't', 'O', 'c'}

// ErrUnsupportedVersion is returned when an idx file declares a version
// other than VersionSupported.
var ErrUnsupportedVersion = errors.New("unsupported version")

// ErrMalformedIdxFile is returned when an idx file's internal tables are
// inconsistent with its fanout or with each other.
var ErrMalformedIdxFile = errors.New("malformed IDX file")

// Index is queried to translate between an object's hash, its CRC32
// checksum, and its byte offset within the packfile it indexes.
type Index interface {
	// Contains reports whether h is present in the index.
	Contains(h plumbing.Hash) (bool, error)
	// FindOffset returns the offset in the packfile of the object with hash h.
	FindOffset(h plumbing.Hash) (int64, error)
	// FindCRC32 returns the CRC32 checksum of the object with hash h.
	FindCRC32(h plumbing.Hash) (uint32, error)
	// FindHash returns the hash of the object at the given packfile offset.
	FindHash(offset int64) (plumbing.Hash, error)
	// Count returns the number of objects in the index.
	Count() (int64, error)
	// Entries returns an iterator over all entries, ordered by hash.
	Entries() (EntryIter, error)
	// EntriesByOffset returns an iterator over all entries, ordered by
	// packfile offset.
	EntriesByOffset() (EntryIter, error)
	// Close releases any resources held by the index.
	Close() error
}

// Entry is a single object record from an idx file.
type Entry struct {
	Hash   plumbing.Hash
	Offset uint64
	CRC32  uint32
}

// EntryIter iterates over Entry values.
type EntryIter interface {
	Next() (*Entry, error)
	Close() error
}

// MemoryIndex is an in-memory Index, either decoded from an existing idx
// file or accumulated from a packfile parse via Writer.
//
// Per the idx v2 layout, objects are bucketed by the first byte of their
// hash (256 fanout buckets). Names, Offset32 and CRC32 are sliced the same
// way: Names[b], Offset32[b] and CRC32[b] hold the sorted hashes, 4-byte
// offsets and 4-byte CRC32s for every object falling in bucket b.
// FanoutMapping[b] gives the index into those slices for bucket b, or
// noMapping if the bucket is empty.
type MemoryIndex struct {
	hashSize int

	Version uint32
	Fanout  [fanoutEntries]uint32

	FanoutMapping []int
	Names         [][]byte
	Offset32      [][]byte
	CRC32         [][]byte
	Offset64      []byte

	PackfileChecksum plumbing.Hash
	IdxChecksum      plumbing.Hash

	offsetHash map[int64]plumbing.Hash
}

// NewMemoryIndex returns an empty index sized for hashes of hashSize bytes
// (20 for SHA-1, 32 for SHA-256).
func NewMemoryIndex(hashSize int) *MemoryIndex {
	mapping := make([]int, fanoutEntries)
	for i := range mapping {
		mapping[i] = noMapping
	}

	return &MemoryIndex{
		hashSize:      hashSize,
		Version:       VersionSupported,
		FanoutMapping: mapping,
	}
}

func (idx *MemoryIndex) hashLen() int {
	if idx.hashSize == 0 {
		return hash.SHA1Size
	}
	return idx.hashSize
}

func (idx *MemoryIndex) bucket(h plumbing.Hash) (int, bool) {
	b := int(h.Bytes()[0])
	if b < 0 || b >= len(idx.FanoutMapping) {
		return 0, false
	}

	pos := idx.FanoutMapping[b]
	return pos, pos != noMapping
}

// Contains reports whether h is present in the index.
func (idx *MemoryIndex) Contains(h plumbing.Hash) (bool, error) {
	_, err := idx.FindOffset(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (idx *MemoryIndex) search(bucket int, h plumbing.Hash) (int, bool) {
	n := idx.hashLen()
	names := idx.Names[bucket]
	want := h.Bytes()

	count := len(names) / n
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := bytes.Compare(names[mid*n:mid*n+n], want)
		switch {
		case cmp == 0:
			return mid, true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	return 0, false
}

func (idx *MemoryIndex) offsetAt(bucket, pos int) (int64, error) {
	if bucket < 0 || bucket >= len(idx.Offset32) {
		return 0, ErrMalformedIdxFile
	}

	raw := idx.Offset32[bucket]
	if (pos+1)*4 > len(raw) {
		return 0, ErrMalformedIdxFile
	}

	off := binary.BigEndian.Uint32(raw[pos*4 : pos*4+4])
	if off&is64BitsMask == 0 {
		return int64(off), nil
	}

	lo := int(off &^ is64BitsMask)
	start := lo * 8
	if start+8 > len(idx.Offset64) {
		return 0, ErrMalformedIdxFile
	}

	return int64(binary.BigEndian.Uint64(idx.Offset64[start : start+8])), nil
}

// FindOffset returns the packfile offset of the object with hash h.
func (idx *MemoryIndex) FindOffset(h plumbing.Hash) (int64, error) {
	bucket, ok := idx.bucket(h)
	if !ok {
		return 0, plumbing.ErrObjectNotFound
	}

	pos, found := idx.search(bucket, h)
	if !found {
		return 0, plumbing.ErrObjectNotFound
	}

	return idx.offsetAt(bucket, pos)
}

// FindCRC32 returns the CRC32 checksum of the object with hash h.
func (idx *MemoryIndex) FindCRC32(h plumbing.Hash) (uint32, error) {
	bucket, ok := idx.bucket(h)
	if !ok {
		return 0, plumbing.ErrObjectNotFound
	}

	pos, found := idx.search(bucket, h)
	if !found {
		return 0, plumbing.ErrObjectNotFound
	}

	raw := idx.CRC32[bucket]
	if (pos+1)*4 > len(raw) {
		return 0, ErrMalformedIdxFile
	}

	return binary.BigEndian.Uint32(raw[pos*4 : pos*4+4]), nil
}

// FindHash returns the hash of the object stored at the given packfile
// offset. The first call builds an offset-to-hash map over the whole
// index; later calls are O(1).
func (idx *MemoryIndex) FindHash(offset int64) (plumbing.Hash, error) {
	if idx.offsetHash == nil {
		if err := idx.buildOffsetHash(); err != nil {
			return plumbing.ZeroHash, err
		}
	}

	h, ok := idx.offsetHash[offset]
	if !ok {
		return plumbing.ZeroHash, plumbing.ErrObjectNotFound
	}

	return h, nil
}

func (idx *MemoryIndex) buildOffsetHash() error {
	n := idx.hashLen()
	m := make(map[int64]plumbing.Hash)

	for bucket, names := range idx.Names {
		count := len(names) / n
		for pos := 0; pos < count; pos++ {
			off, err := idx.offsetAt(bucket, pos)
			if err != nil {
				return err
			}

			h, ok := plumbing.FromBytes(names[pos*n : pos*n+n])
			if !ok {
				return ErrMalformedIdxFile
			}
			m[off] = h
		}
	}

	idx.offsetHash = m
	return nil
}

// Count returns the number of objects in the index.
func (idx *MemoryIndex) Count() (int64, error) {
	return int64(idx.Fanout[fanoutEntries-1]), nil
}

// Close is a no-op: a MemoryIndex holds no external resources.
func (idx *MemoryIndex) Close() error { return nil }

// Entries returns an iterator over the index's entries ordered by hash,
// the order they are physically stored in.
func (idx *MemoryIndex) Entries() (EntryIter, error) {
	return &memoryEntryIter{idx: idx}, nil
}

// EntriesByOffset returns an iterator over the index's entries ordered by
// packfile offset.
func (idx *MemoryIndex) EntriesByOffset() (EntryIter, error) {
	count, err := idx.Count()
	if err != nil {
		return nil, err
	}

	entries := make(entriesByOffset, 0, count)
	it := &memoryEntryIter{idx: idx}
	for {
		e, err := it.Next()
		if err != nil {
			break
		}
		entries = append(entries, e)
	}

	sort.Sort(entries)
	return &sliceEntryIter{entries: entries}, nil
}

type memoryEntryIter struct {
	idx    *MemoryIndex
	bucket int
	pos    int
}

func (i *memoryEntryIter) Next() (*Entry, error) {
	n := i.idx.hashLen()

	for i.bucket < len(i.idx.Names) {
		names := i.idx.Names[i.bucket]
		count := len(names) / n

		if i.pos >= count {
			i.bucket++
			i.pos = 0
			continue
		}

		h, ok := plumbing.FromBytes(names[i.pos*n : i.pos*n+n])
		if !ok {
			return nil, ErrMalformedIdxFile
		}

		off, err := i.idx.offsetAt(i.bucket, i.pos)
		if err != nil {
			return nil, err
		}

		crc, err := i.idx.FindCRC32(h)
		if err != nil {
			return nil, err
		}

		i.pos++
		return &Entry{Hash: h, Offset: uint64(off), CRC32: crc}, nil
	}

	return nil, io.EOF
}

type entriesByOffset []*Entry

func (e entriesByOffset) Len() int           { return len(e) }
func (e entriesByOffset) Less(i, j int) bool { return e[i].Offset < e[j].Offset }
func (e entriesByOffset) Swap(i, j int)      { e[i], e[j] = e[j], e[i] }

type sliceEntryIter struct {
	entries []*Entry
	pos     int
}

func (i *sliceEntryIter) Next() (*Entry, error) {
	if i.pos >= len(i.entries) {
		return nil, io.EOF
	}

	e := i.entries[i.pos]
	i.pos++
	return e, nil
}

func (i *memoryEntryIter) Close() error { i.bucket = len(i.idx.Names); return nil }
func (i *sliceEntryIter) Close() error  { i.pos = len(i.entries); return nil }
