package filesystem

import (
	"github.com/wit-vcs/wit/plumbing/cache"
	"github.com/wit-vcs/wit/storage"
	"github.com/wit-vcs/wit/storage/filesystem/dotgit"
)

// ModuleStorage implements storage for git submodules.
type ModuleStorage struct {
	dir *dotgit.DotGit
}

func (s *ModuleStorage) Module(name string) (storage.Storer, error) {
	fs, err := s.dir.Module(name)
	if err != nil {
		return nil, err
	}

	return NewStorage(fs, cache.NewObjectLRUDefault()), nil
}
