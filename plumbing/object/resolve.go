package object

import (
	"errors"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/filemode"
	"github.com/wit-vcs/wit/plumbing/storer"
)

// ErrFileNotFound is returned when a path doesn't resolve to a blob inside
// a tree.
var ErrFileNotFound = errors.New("file not found")

// ErrDirectoryNotFound is returned when an intermediate path component
// resolves to something other than a subtree.
var ErrDirectoryNotFound = errors.New("directory not found")

func getDecoded(s storer.EncodedObjectStorer, typ plumbing.ObjectType, h plumbing.Hash) (Object, error) {
	o, err := s.EncodedObject(typ, h)
	if err != nil {
		return nil, err
	}
	return DecodeObject(o)
}

// GetCommit reads and decodes the commit stored at h.
func GetCommit(s storer.EncodedObjectStorer, h plumbing.Hash) (*Commit, error) {
	o, err := getDecoded(s, plumbing.CommitObject, h)
	if err != nil {
		return nil, err
	}
	c, ok := o.(*Commit)
	if !ok {
		return nil, ErrUnsupportedObject
	}
	return c, nil
}

// GetTree reads and decodes the tree stored at h.
func GetTree(s storer.EncodedObjectStorer, h plumbing.Hash) (*Tree, error) {
	o, err := getDecoded(s, plumbing.TreeObject, h)
	if err != nil {
		return nil, err
	}
	t, ok := o.(*Tree)
	if !ok {
		return nil, ErrUnsupportedObject
	}
	return t, nil
}

// GetBlob reads and decodes the blob stored at h.
func GetBlob(s storer.EncodedObjectStorer, h plumbing.Hash) (*Blob, error) {
	o, err := getDecoded(s, plumbing.BlobObject, h)
	if err != nil {
		return nil, err
	}
	b, ok := o.(*Blob)
	if !ok {
		return nil, ErrUnsupportedObject
	}
	return b, nil
}

// Tree resolves the commit's root tree from s.
func (c *Commit) Tree(s storer.EncodedObjectStorer) (*Tree, error) {
	return GetTree(s, c.TreeHash)
}

// Parents resolves the commit's parent commits from s, in the order they
// were recorded.
func (c *Commit) Parents(s storer.EncodedObjectStorer) ([]*Commit, error) {
	parents := make([]*Commit, 0, len(c.ParentHashes))
	for _, h := range c.ParentHashes {
		p, err := GetCommit(s, h)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, nil
}

// File walks the commit's root tree to the blob at the given slash-separated
// path, resolving intermediate subtrees from s as it goes.
func (c *Commit) File(s storer.EncodedObjectStorer, filePath string) (*Blob, filemode.FileMode, error) {
	t, err := c.Tree(s)
	if err != nil {
		return nil, 0, err
	}
	return t.FindBlob(s, filePath)
}

// FindBlob walks a (sub)tree to the blob at the given slash-separated path.
func (t *Tree) FindBlob(s storer.EncodedObjectStorer, filePath string) (*Blob, filemode.FileMode, error) {
	parts := Path(filePath)
	if len(parts) == 0 {
		return nil, 0, ErrFileNotFound
	}

	cur := t
	for i, name := range parts {
		e, ok := cur.File(name)
		if !ok {
			return nil, 0, ErrFileNotFound
		}

		last := i == len(parts)-1
		if last {
			if e.Mode == filemode.Dir {
				return nil, 0, ErrFileNotFound
			}
			b, err := GetBlob(s, e.Hash)
			if err != nil {
				return nil, 0, err
			}
			return b, e.Mode, nil
		}

		if e.Mode != filemode.Dir {
			return nil, 0, ErrDirectoryNotFound
		}
		next, err := GetTree(s, e.Hash)
		if err != nil {
			return nil, 0, err
		}
		cur = next
	}

	return nil, 0, ErrFileNotFound
}
