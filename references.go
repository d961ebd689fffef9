package wit

import (
	"sort"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/object"
	"github.com/wit-vcs/wit/plumbing/storer"
)

// fileHistory returns the commits that touched path, starting from c and
// walking backward through its ancestry, returned oldest first. The first
// entry is the commit that introduced the path. If c's tree doesn't contain path at
// all, a nil slice is returned.
//
// Caveats: renames and copies aren't detected, and a cherry-pick can appear
// twice if there's no direct ancestry link between the pick and its source.
func fileHistory(s storer.EncodedObjectStorer, c *object.Commit, path string) ([]*object.Commit, error) {
	var result []*object.Commit
	seen := make(map[plumbing.Hash]struct{})
	if err := walkFileHistory(s, &result, seen, c, path); err != nil {
		return nil, err
	}

	sortCommitsByDate(result)
	return dedupeByBlob(s, path, result)
}

func walkFileHistory(
	s storer.EncodedObjectStorer,
	result *[]*object.Commit,
	seen map[plumbing.Hash]struct{},
	current *object.Commit,
	path string,
) error {
	if _, ok := seen[current.ID()]; ok {
		return nil
	}
	seen[current.ID()] = struct{}{}

	if _, _, err := current.File(s, path); err != nil {
		// Path absent here; nothing upstream of this commit matters.
		return nil
	}

	parents, err := parentsWithPath(s, path, current)
	if err != nil {
		return err
	}

	if len(parents) == 0 {
		// No parent carries the path: this commit introduced it.
		*result = append(*result, current)
		return nil
	}

	unchanged, err := matchesAnyParent(s, path, current, parents)
	if err != nil {
		return err
	}
	if !unchanged {
		*result = append(*result, current)
	}

	for _, p := range parents {
		if err := walkFileHistory(s, result, seen, p, path); err != nil {
			return err
		}
	}
	return nil
}

func parentsWithPath(s storer.EncodedObjectStorer, path string, c *object.Commit) ([]*object.Commit, error) {
	parents, err := c.Parents(s)
	if err != nil {
		return nil, err
	}

	var result []*object.Commit
	for _, p := range parents {
		if _, _, err := p.File(s, path); err == nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func matchesAnyParent(s storer.EncodedObjectStorer, path string, c *object.Commit, parents []*object.Commit) (bool, error) {
	h, ok := blobHashAt(s, path, c)
	if !ok {
		return false, object.ErrFileNotFound
	}
	for _, p := range parents {
		ph, ok := blobHashAt(s, path, p)
		if ok && ph == h {
			return true, nil
		}
	}
	return false, nil
}

func blobHashAt(s storer.EncodedObjectStorer, path string, c *object.Commit) (plumbing.Hash, bool) {
	b, _, err := c.File(s, path)
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return b.ID(), true
}

type byCommitDate []*object.Commit

func (l byCommitDate) Len() int      { return len(l) }
func (l byCommitDate) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l byCommitDate) Less(i, j int) bool {
	return l[i].Committer.When.Before(l[j].Committer.When) ||
		l[i].Committer.When.Equal(l[j].Committer.When) &&
			l[i].Author.When.Before(l[j].Author.When)
}

// sortCommitsByDate orders commits oldest to newest by committer time,
// breaking ties on author time.
func sortCommitsByDate(l []*object.Commit) {
	sort.Sort(byCommitDate(l))
}

// dedupeByBlob drops consecutive entries whose blob at path is identical,
// collapsing runs produced by merges of identical cherry-picks. cs must
// already be sorted; the first of each run is kept.
func dedupeByBlob(s storer.EncodedObjectStorer, path string, cs []*object.Commit) ([]*object.Commit, error) {
	if len(cs) == 0 {
		return cs, nil
	}

	hashes := make([]plumbing.Hash, len(cs))
	for i, c := range cs {
		h, _ := blobHashAt(s, path, c)
		hashes[i] = h
	}

	result := make([]*object.Commit, 0, len(cs))
	result = append(result, cs[0])
	for i := 1; i < len(cs); i++ {
		if hashes[i] != hashes[i-1] {
			result = append(result, cs[i])
		}
	}
	return result, nil
}
