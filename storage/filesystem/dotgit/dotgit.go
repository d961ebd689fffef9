// Package dotgit reads and writes the on-disk layout of a .git directory:
// loose objects, packfiles, refs, packed-refs, config and the other files
// documented in gitrepository-layout(5).
package dotgit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/wit-vcs/wit/plumbing"
	formatcfg "github.com/wit-vcs/wit/plumbing/format/config"
)

const (
	suffix         = ".git"
	packedRefsPath = "packed-refs"
	configPath     = "config"
	indexPath      = "index"
	shallowPath    = "shallow"
	headPath       = "HEAD"

	objectsPath = "objects"
	packPath    = "pack"
	refsPath    = "refs"
	infoPath    = "info"
	branchesPath = "branches"
	hooksPath    = "hooks"
	remotesPath  = "remotes"
	logsPath     = "logs"
	worktreesPath = "worktrees"

	packExt = ".pack"
	idxExt  = ".idx"

	packedRefsHeader = "# pack-refs with: peeled fully-peeled \n"
)

var (
	// ErrNotFound is returned by New when the path is not found.
	ErrNotFound = errors.New("path not found")
	// ErrIdxNotFound is returned by ObjectPackIdx when the idx file is not found.
	ErrIdxNotFound = errors.New("idx file not found")
	// ErrPackfileNotFound is returned by ObjectPack when the packfile is not found.
	ErrPackfileNotFound = errors.New("packfile not found")
	// ErrConfigNotFound is returned by Config when the config file is not found.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrIsDir is returned by readReferenceFile when the ref path names a
	// directory rather than a file.
	ErrIsDir = errors.New("reference path is a directory")
	// ErrEmptyRefFile is returned internally when a loose reference file
	// has no content, either because it didn't exist before or a
	// concurrent writer truncated it.
	ErrEmptyRefFile = errors.New("ref file empty")
)

// Options holds configuration for a DotGit value.
type Options struct {
	// ExclusiveAccess means that the filesystem is not modified externally
	// while the repo is open.
	ExclusiveAccess bool
	// KeepDescriptors makes file descriptors for opened packfiles be
	// reused across calls instead of reopened; they are only released by
	// Close.
	KeepDescriptors bool
	// AlternatesFS is the filesystem alternate object directories are
	// resolved against. If nil, the DotGit's own filesystem is used.
	AlternatesFS billy.Filesystem
	// ObjectFormat is the hash algorithm new objects are written with.
	ObjectFormat formatcfg.ObjectFormat
}

// DotGit represents a local git repository on disk. Not zero-value safe;
// use New or NewWithOptions.
type DotGit struct {
	options Options
	fs      billy.Filesystem

	objectFormat formatcfg.ObjectFormat

	packList map[plumbing.Hash]billy.File
}

// New returns a DotGit value backed by fs, which must be rooted at the
// repository's .git directory.
func New(fs billy.Filesystem) *DotGit {
	return NewWithOptions(fs, Options{})
}

// NewWithOptions is like New but allows configuring DotGit's behavior.
func NewWithOptions(fs billy.Filesystem, o Options) *DotGit {
	return &DotGit{
		options:      o,
		fs:           fs,
		objectFormat: o.ObjectFormat,
	}
}

// Fs returns the underlying filesystem.
func (d *DotGit) Fs() billy.Filesystem {
	return d.fs
}

// SetObjectFormat changes the hash algorithm new objects are written with.
func (d *DotGit) SetObjectFormat(of formatcfg.ObjectFormat) error {
	d.objectFormat = of
	return nil
}

// Initialize creates the directory layout of a fresh, empty repository.
func (d *DotGit) Initialize() error {
	mustMkdirAll := []string{
		d.fs.Join(objectsPath, infoPath),
		d.fs.Join(objectsPath, packPath),
		d.fs.Join(refsPath, "heads"),
		d.fs.Join(refsPath, "tags"),
	}

	for _, p := range mustMkdirAll {
		if err := d.fs.MkdirAll(p, 0777); err != nil {
			return err
		}
	}

	return nil
}

// ConfigWriter returns a writer for .git/config.
func (d *DotGit) ConfigWriter() (billy.File, error) {
	return d.fs.Create(configPath)
}

// Config returns a reader for .git/config.
func (d *DotGit) Config() (billy.File, error) {
	return d.fs.Open(configPath)
}

// IndexWriter returns a writer for .git/index.
func (d *DotGit) IndexWriter() (billy.File, error) {
	return d.fs.Create(indexPath)
}

// Index returns a reader for .git/index.
func (d *DotGit) Index() (billy.File, error) {
	return d.fs.Open(indexPath)
}

// ShallowWriter returns a writer for .git/shallow.
func (d *DotGit) ShallowWriter() (billy.File, error) {
	return d.fs.Create(shallowPath)
}

// Shallow returns a reader for .git/shallow, or a nil file if the
// repository is not a shallow clone.
func (d *DotGit) Shallow() (billy.File, error) {
	f, err := d.fs.Open(shallowPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	return f, nil
}

// Module returns the filesystem for the named git submodule.
func (d *DotGit) Module(name string) (billy.Filesystem, error) {
	return d.fs.Chroot(d.fs.Join("modules", name))
}

// ObjectPacks returns the hashes of every packfile under objects/pack.
func (d *DotGit) ObjectPacks() ([]plumbing.Hash, error) {
	packDir := d.fs.Join(objectsPath, packPath)
	files, err := d.fs.ReadDir(packDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var packs []plumbing.Hash
	for _, f := range files {
		n := f.Name()
		if !strings.HasPrefix(n, "pack-") || !strings.HasSuffix(n, packExt) {
			continue
		}

		packs = append(packs, plumbing.NewHash(n[len("pack-"):len(n)-len(packExt)]))
	}

	return packs, nil
}

// ObjectPack returns the packfile for hash. When KeepDescriptors is
// enabled, the returned file is cached and reused across calls until
// Close is called.
func (d *DotGit) ObjectPack(hash plumbing.Hash) (billy.File, error) {
	if d.options.KeepDescriptors {
		if f, ok := d.packList[hash]; ok {
			return f, nil
		}
	}

	file := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s%s", hash.String(), packExt))
	pack, err := d.fs.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPackfileNotFound
		}

		return nil, err
	}

	if d.options.KeepDescriptors {
		if d.packList == nil {
			d.packList = make(map[plumbing.Hash]billy.File)
		}
		d.packList[hash] = pack
	}

	return pack, nil
}

// ObjectPackIdx returns the index file for the packfile identified by hash.
func (d *DotGit) ObjectPackIdx(hash plumbing.Hash) (billy.File, error) {
	file := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s%s", hash.String(), idxExt))
	idx, err := d.fs.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPackfileNotFound
		}

		return nil, err
	}

	return idx, nil
}

// NewObjectPack returns a writer that encodes a new packfile (and its
// index) to disk.
func (d *DotGit) NewObjectPack() (*PackWriter, error) {
	return newPackWrite(d.fs)
}

// NewObject returns a writer for a new loose object.
func (d *DotGit) NewObject() (*ObjectWriter, error) {
	return newObjectWriter(d.fs)
}

// objectPath returns the path of the loose object identified by h.
func objectPath(fs billy.Filesystem, h plumbing.Hash) string {
	hex := h.String()
	return fs.Join(objectsPath, hex[0:2], hex[2:h.HexSize()])
}

// Object returns a reader for the loose object identified by h, falling
// back to any concurrent-fetch "incoming" object directory left behind
// by another process.
func (d *DotGit) Object(h plumbing.Hash) (billy.File, error) {
	f, err := d.fs.Open(objectPath(d.fs, h))
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	if p, ferr := d.findIncomingObject(h); ferr == nil {
		return d.fs.Open(p)
	}

	return nil, err
}

// ObjectStat returns the os.FileInfo for the loose object identified by h.
func (d *DotGit) ObjectStat(h plumbing.Hash) (os.FileInfo, error) {
	fi, err := d.fs.Stat(objectPath(d.fs, h))
	if err == nil {
		return fi, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	if p, ferr := d.findIncomingObject(h); ferr == nil {
		return d.fs.Stat(p)
	}

	return nil, err
}

// ObjectDelete removes the loose object identified by h.
func (d *DotGit) ObjectDelete(h plumbing.Hash) error {
	p := objectPath(d.fs, h)
	if _, err := d.fs.Stat(p); err == nil {
		return d.fs.Remove(p)
	} else if !os.IsNotExist(err) {
		return err
	}

	if p, err := d.findIncomingObject(h); err == nil {
		return d.fs.Remove(p)
	}

	return os.ErrNotExist
}

// findIncomingObject searches every objects/tmp_objdir-incoming-* and
// objects/incoming-* directory (the two naming conventions used by git
// for the staging area of a concurrent fetch) for the loose object
// identified by h.
func (d *DotGit) findIncomingObject(h plumbing.Hash) (string, error) {
	entries, err := d.fs.ReadDir(objectsPath)
	if err != nil {
		return "", err
	}

	hex := h.String()
	suffix := d.fs.Join(hex[0:2], hex[2:h.HexSize()])

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		name := e.Name()
		if !strings.HasPrefix(name, "tmp_objdir-incoming-") && !strings.HasPrefix(name, "incoming-") {
			continue
		}

		candidate := d.fs.Join(objectsPath, name, suffix)
		if _, err := d.fs.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", os.ErrNotExist
}

// Objects returns the hashes of every loose object, in ascending
// lexicographic order.
func (d *DotGit) Objects() ([]plumbing.Hash, error) {
	files, err := d.fs.ReadDir(objectsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var objects []plumbing.Hash
	for _, f := range files {
		if !f.IsDir() || len(f.Name()) != 2 || !isHex(f.Name()) {
			continue
		}

		base := f.Name()
		entries, err := d.fs.ReadDir(d.fs.Join(objectsPath, base))
		if err != nil {
			return nil, err
		}

		for _, o := range entries {
			if !isHex(o.Name()) {
				continue
			}
			objects = append(objects, plumbing.NewHash(base+o.Name()))
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].String() < objects[j].String()
	})

	return objects, nil
}

// ObjectsWithPrefix returns the hashes of every loose object whose hex
// representation starts with prefix. A nil or empty prefix is the same
// as calling Objects.
func (d *DotGit) ObjectsWithPrefix(prefix []byte) ([]plumbing.Hash, error) {
	if len(prefix) == 0 {
		return d.Objects()
	}

	hexPrefix := fmt.Sprintf("%x", prefix)
	if len(hexPrefix) < 2 {
		return d.Objects()
	}

	base := hexPrefix[:2]
	rest := hexPrefix[2:]

	entries, err := d.fs.ReadDir(d.fs.Join(objectsPath, base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var objects []plumbing.Hash
	for _, o := range entries {
		if !isHex(o.Name()) || !strings.HasPrefix(o.Name(), rest) {
			continue
		}
		objects = append(objects, plumbing.NewHash(base+o.Name()))
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].String() < objects[j].String()
	})

	return objects, nil
}

// ForEachObjectHash calls fun for every loose object hash, stopping (but
// not failing) if fun returns storer.ErrStop.
func (d *DotGit) ForEachObjectHash(fun func(plumbing.Hash) error) error {
	objects, err := d.Objects()
	if err != nil {
		return err
	}

	for _, h := range objects {
		if err := fun(h); err != nil {
			return err
		}
	}

	return nil
}

// DeleteOldObjectPackAndIndex removes the packfile, index and reverse
// index identified by h, provided its packfile is not newer than t. A
// zero t deletes unconditionally.
func (d *DotGit) DeleteOldObjectPackAndIndex(h plumbing.Hash, t time.Time) error {
	base := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s", h.String()))
	packFile := base + packExt

	if !t.IsZero() {
		fi, err := d.fs.Stat(packFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if fi.ModTime().After(t) {
			return nil
		}
	}

	for _, ext := range []string{packExt, idxExt, ".rev"} {
		if err := d.fs.Remove(base + ext); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Close releases every packfile descriptor cached because of
// KeepDescriptors, returning the first error encountered.
func (d *DotGit) Close() error {
	var first error
	for h, f := range d.packList {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
		delete(d.packList, h)
	}

	return first
}

func isHex(s string) bool {
	for _, b := range []byte(s) {
		if isNum(b) || isHexAlpha(b) {
			continue
		}

		return false
	}

	return len(s) > 0
}

func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexAlpha(b byte) bool {
	return b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// incBytes increments in by one, as if it were a big-endian integer,
// reporting whether the increment overflowed.
func incBytes(in []byte) (out []byte, overflow bool) {
	out = make([]byte, len(in))
	copy(out, in)

	for i := len(out) - 1; i >= 0; i-- {
		if out[i] == 0xff {
			out[i] = 0
			if i == 0 {
				return out, true
			}
			continue
		}

		out[i]++
		return out, false
	}

	return out, true
}

// alternatesFS returns the filesystem alternate paths are resolved
// against.
func (d *DotGit) alternatesFS() billy.Filesystem {
	if d.options.AlternatesFS != nil {
		return d.options.AlternatesFS
	}

	return d.fs
}

func (d *DotGit) readAlternatesFile() ([]string, error) {
	f, err := d.fs.Open(d.fs.Join(objectsPath, infoPath, "alternates"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Alternates returns a DotGit for every repository listed in
// objects/info/alternates.
func (d *DotGit) Alternates() ([]*DotGit, error) {
	lines, err := d.readAlternatesFile()
	if err != nil {
		return nil, err
	}

	altFS := d.alternatesFS()
	seen := make(map[string]struct{})

	var dotgits []*DotGit
	for _, line := range lines {
		rel, err := resolveAlternatePath(altFS, line)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}

		if _, err := altFS.Stat(rel); err != nil {
			return nil, err
		}

		gitFS, err := altFS.Chroot(rel)
		if err != nil {
			return nil, err
		}

		dotgits = append(dotgits, NewWithOptions(gitFS, Options{
			AlternatesFS: altFS,
			ObjectFormat: d.objectFormat,
		}))
	}

	return dotgits, nil
}

// AddAlternate appends remote (the path to another repository's objects
// directory) to objects/info/alternates, skipping it if already present.
func (d *DotGit) AddAlternate(remote string) error {
	if err := d.fs.MkdirAll(d.fs.Join(objectsPath, infoPath), 0777); err != nil {
		return err
	}

	lines, err := d.readAlternatesFile()
	if err != nil {
		return err
	}

	for _, line := range lines {
		if line == remote {
			return nil
		}
	}

	f, err := d.fs.OpenFile(
		d.fs.Join(objectsPath, infoPath, "alternates"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write([]byte(remote + "\n"))
	return err
}

// resolveAlternatePath turns one line of objects/info/alternates (an
// absolute or relative path to another repository's objects directory)
// into a path relative to altFS's root.
func resolveAlternatePath(altFS billy.Filesystem, raw string) (string, error) {
	clean := filepath.ToSlash(strings.TrimRight(raw, "/\\"))
	gitDir := path.Dir(clean)

	if filepath.IsAbs(raw) {
		root := filepath.ToSlash(altFS.Root())
		if !strings.HasPrefix(gitDir, root) {
			return "", fmt.Errorf("dotgit: alternate %q is outside of %s", raw, root)
		}

		return strings.TrimPrefix(strings.TrimPrefix(gitDir, root), "/"), nil
	}

	for {
		trimmed := strings.TrimPrefix(gitDir, "../")
		if trimmed == gitDir {
			trimmed = strings.TrimPrefix(gitDir, "..\\")
			if trimmed == gitDir {
				break
			}
		}
		gitDir = trimmed
	}

	return strings.TrimPrefix(gitDir, "/"), nil
}
