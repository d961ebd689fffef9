package filesystem

import (
	"bufio"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/storage/filesystem/dotgit"
	"github.com/wit-vcs/wit/utils/ioutil"
)

// ShallowStorage stores the list of commit hashes that bound a shallow
// clone, one hex hash per line in .git/shallow.
type ShallowStorage struct {
	dir *dotgit.DotGit
}

// SetShallow replaces the full contents of .git/shallow with commits.
func (s *ShallowStorage) SetShallow(commits []plumbing.Hash) (err error) {
	f, err := s.dir.ShallowWriter()
	if err != nil {
		return err
	}

	defer ioutil.CheckClose(f, &err)

	for _, h := range commits {
		if _, err := f.Write([]byte(h.String() + "\n")); err != nil {
			return err
		}
	}

	return nil
}

// Shallow returns the commit hashes listed in .git/shallow, or nil if
// the repository is not a shallow clone.
func (s *ShallowStorage) Shallow() (_ []plumbing.Hash, err error) {
	f, err := s.dir.Shallow()
	if err != nil {
		return nil, err
	}

	if f == nil {
		return nil, nil
	}

	defer ioutil.CheckClose(f, &err)

	var hashes []plumbing.Hash
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		hashes = append(hashes, plumbing.NewHash(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return hashes, nil
}
