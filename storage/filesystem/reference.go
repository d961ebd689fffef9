package filesystem

import (
	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/storer"
	"github.com/wit-vcs/wit/storage/filesystem/dotgit"
)

// ReferenceStorage stores references as loose files and a packed-refs
// file under the .git directory.
type ReferenceStorage struct {
	dir *dotgit.DotGit
}

// SetReference stores ref unconditionally, overwriting any existing
// value for its name.
func (r *ReferenceStorage) SetReference(ref *plumbing.Reference) error {
	return r.dir.SetRef(ref, nil)
}

// CheckAndSetReference stores ref only if the store's current value for
// its name matches old (or old is nil, meaning the name must not yet be
// set to anything else).
func (r *ReferenceStorage) CheckAndSetReference(ref, old *plumbing.Reference) error {
	return r.dir.SetRef(ref, old)
}

// Reference returns the reference with the given name.
func (r *ReferenceStorage) Reference(n plumbing.ReferenceName) (*plumbing.Reference, error) {
	return r.dir.Ref(n)
}

// IterReferences returns an iterator over every reference, loose and
// packed.
func (r *ReferenceStorage) IterReferences() (storer.ReferenceIter, error) {
	refs, err := r.dir.Refs()
	if err != nil {
		return nil, err
	}

	return storer.NewReferenceSliceIter(refs), nil
}

// CountLooseRefs returns the number of loose (non-packed) references.
func (r *ReferenceStorage) CountLooseRefs() (int, error) {
	return r.dir.CountLooseRefs()
}

// PackRefs folds every loose reference into packed-refs.
func (r *ReferenceStorage) PackRefs() error {
	return r.dir.PackRefs()
}

// RemoveReference deletes the reference with the given name, whether it
// lives in a loose file, packed-refs, or both.
func (r *ReferenceStorage) RemoveReference(n plumbing.ReferenceName) error {
	return r.dir.RemoveRef(n)
}
