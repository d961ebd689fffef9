package object

import (
	"bytes"
	"crypto"
	"fmt"
	"sort"
	"strings"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/filemode"
)

// TreeEntry is one row of a Tree: a name, its mode, and the hash of the
// object it addresses (a Blob for a file/symlink, a Tree for a subtree).
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// Tree is a directory snapshot: an ordered list of named, moded entries
// (§3 "Object — Tree").
type Tree struct {
	hash    plumbing.Hash
	Entries []TreeEntry
}

// NewTree builds a Tree from entries, sorting them into canonical order.
func NewTree(entries []TreeEntry) *Tree {
	t := &Tree{Entries: entries}
	t.sortEntries()
	return t
}

// sortEntries applies the tree entry ordering rule: compare names
// byte-wise, but append "/" to the name of a subtree before comparing, so
// that e.g. "lib" (a file) sorts before "lib.go" but "lib/" (a subtree)
// sorts after it.
func (t *Tree) sortEntries() {
	sort.Slice(t.Entries, func(i, j int) bool {
		return sortName(t.Entries[i]) < sortName(t.Entries[j])
	})
}

func sortName(e TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

func (t *Tree) ID() plumbing.Hash         { return t.hash }
func (t *Tree) Type() plumbing.ObjectType { return plumbing.TreeObject }

// File looks up a direct entry by name, returning ok=false if absent.
func (t *Tree) File(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// body serializes the tree in canonical form: each entry is
// "<octal mode> <name>\0" followed by the entry's raw hash bytes,
// concatenated in sorted order.
func (t *Tree) body() []byte {
	t.sortEntries()
	var buf bytes.Buffer
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode.String(), e.Name)
		buf.Write(e.Hash.Bytes())
	}
	return buf.Bytes()
}

// Encode hashes and wraps the tree as a plumbing.EncodedObject.
func (t *Tree) Encode(algo crypto.Hash) (plumbing.EncodedObject, error) {
	o := NewMemoryObject(algo, plumbing.TreeObject, t.body())
	t.hash = o.Hash()
	return o, nil
}

// decodeTree parses the canonical tree body back into entries. Every entry
// digest is read with the size of id's own algorithm (20 bytes for SHA-1,
// 32 for SHA-256); a tree mixing digest sizes is not decoded.
func decodeTree(id plumbing.Hash, body []byte) (*Tree, error) {
	t := &Tree{hash: id}
	digestSize := id.Size()

	for len(body) > 0 {
		sp := bytes.IndexByte(body, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("object/tree: malformed entry: missing space")
		}
		modeStr := string(body[:sp])
		mode, err := filemode.New(modeStr)
		if err != nil {
			return nil, fmt.Errorf("object/tree: %w", err)
		}
		if mode.IsMalformed() {
			return nil, fmt.Errorf("object/tree: malformed file mode %q", modeStr)
		}
		body = body[sp+1:]

		nul := bytes.IndexByte(body, 0)
		if nul < 0 {
			return nil, fmt.Errorf("object/tree: malformed entry: missing NUL")
		}
		name := string(body[:nul])
		body = body[nul+1:]

		if len(body) < digestSize {
			return nil, fmt.Errorf("object/tree: truncated entry hash")
		}
		h, ok := plumbing.FromBytes(body[:digestSize])
		if !ok {
			return nil, fmt.Errorf("object/tree: invalid entry hash")
		}
		body = body[digestSize:]

		t.Entries = append(t.Entries, TreeEntry{Name: name, Mode: mode, Hash: h})
	}

	return t, nil
}

// Path splits a slash-separated path into its components, ignoring any
// leading/trailing slash. Used when walking a Tree to resolve a working
// tree path (§4.5).
func Path(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
