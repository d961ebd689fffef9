package packfile

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/wit-vcs/wit/plumbing/cache"
	"github.com/wit-vcs/wit/plumbing/format/idxfile"
)

type PackfileOption func(*Packfile)

// WithCache sets the cache to be used throughout Packfile operations.
// Use this to share existing caches with the Packfile. If not used, a
// new cache instance will be created.
func WithCache(cache cache.Object) PackfileOption {
	return func(p *Packfile) {
		p.cache = cache
	}
}

// WithIdx sets the idxfile for the packfile.
func WithIdx(idx idxfile.Index) PackfileOption {
	return func(p *Packfile) {
		p.Index = idx
	}
}

// WithFs sets the filesystem to be used.
func WithFs(fs billy.Filesystem) PackfileOption {
	return func(p *Packfile) {
		p.fs = fs
	}
}

// WithObjectIDSize sets the byte length of the hashes this packfile's
// objects are addressed with (20 for SHA-1, 32 for SHA-256). If not set,
// it's inferred from the first entry in the index.
func WithObjectIDSize(n int) PackfileOption {
	return func(p *Packfile) {
		p.objectIDSize = n
	}
}
