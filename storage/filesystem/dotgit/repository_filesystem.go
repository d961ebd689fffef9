package dotgit

import (
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// sharedPaths lists the top-level entries of a .git directory that are
// shared between a repository and the worktrees linked to it (see
// gitrepository-layout(5)), and therefore live under the common dotgit
// filesystem rather than the worktree-private one.
var sharedPaths = []string{
	objectsPath,
	refsPath,
	packedRefsPath,
	configPath,
	branchesPath,
	hooksPath,
	infoPath,
	remotesPath,
	logsPath,
	shallowPath,
	worktreesPath,
}

// RepositoryFilesystem is a billy.Filesystem that routes paths between
// two underlying filesystems: dotGitFs, private to one worktree, and
// commonDotGitFs, shared across every worktree linked to the same
// repository. A handful of paths that look shared are in fact
// per-worktree exceptions (logs/HEAD and refs/bisect, refs/rewritten,
// refs/worktree) and are routed to dotGitFs regardless.
type RepositoryFilesystem struct {
	dotGitFs       billy.Filesystem
	commonDotGitFs billy.Filesystem
}

// NewRepositoryFilesystem returns a billy.Filesystem that transparently
// splits reads and writes between dotGitFs and commonDotGitFs. If
// commonDotGitFs is nil, dotGitFs is returned unchanged.
func NewRepositoryFilesystem(dotGitFs, commonDotGitFs billy.Filesystem) billy.Filesystem {
	if commonDotGitFs == nil {
		return dotGitFs
	}

	return &RepositoryFilesystem{
		dotGitFs:       dotGitFs,
		commonDotGitFs: commonDotGitFs,
	}
}

func (fs *RepositoryFilesystem) isException(filename string) bool {
	switch filename {
	case fs.Join(logsPath, "HEAD"),
		fs.Join(refsPath, "bisect"),
		fs.Join(refsPath, "rewritten"),
		fs.Join(refsPath, "worktree"):
		return true
	default:
		return false
	}
}

// fsFor picks which underlying filesystem filename belongs to.
func (fs *RepositoryFilesystem) fsFor(filename string) billy.Filesystem {
	if fs.isException(filename) {
		return fs.dotGitFs
	}

	for _, p := range sharedPaths {
		if filename == p || strings.HasPrefix(filename, p+"/") {
			return fs.commonDotGitFs
		}
	}

	return fs.dotGitFs
}

func (fs *RepositoryFilesystem) Create(filename string) (billy.File, error) {
	return fs.fsFor(filename).Create(filename)
}

func (fs *RepositoryFilesystem) Open(filename string) (billy.File, error) {
	return fs.fsFor(filename).Open(filename)
}

func (fs *RepositoryFilesystem) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	return fs.fsFor(filename).OpenFile(filename, flag, perm)
}

func (fs *RepositoryFilesystem) Stat(filename string) (os.FileInfo, error) {
	return fs.fsFor(filename).Stat(filename)
}

func (fs *RepositoryFilesystem) Rename(oldpath, newpath string) error {
	return fs.fsFor(oldpath).Rename(oldpath, newpath)
}

func (fs *RepositoryFilesystem) Remove(filename string) error {
	return fs.fsFor(filename).Remove(filename)
}

func (fs *RepositoryFilesystem) Join(elem ...string) string {
	return fs.dotGitFs.Join(elem...)
}

func (fs *RepositoryFilesystem) TempFile(dir, prefix string) (billy.File, error) {
	return fs.fsFor(dir).TempFile(dir, prefix)
}

func (fs *RepositoryFilesystem) ReadDir(path string) ([]os.FileInfo, error) {
	return fs.fsFor(path).ReadDir(path)
}

func (fs *RepositoryFilesystem) MkdirAll(filename string, perm os.FileMode) error {
	return fs.fsFor(filename).MkdirAll(filename, perm)
}

func (fs *RepositoryFilesystem) Lstat(filename string) (os.FileInfo, error) {
	return fs.fsFor(filename).Lstat(filename)
}

func (fs *RepositoryFilesystem) Symlink(target, link string) error {
	return fs.fsFor(link).Symlink(target, link)
}

func (fs *RepositoryFilesystem) Readlink(link string) (string, error) {
	return fs.fsFor(link).Readlink(link)
}

func (fs *RepositoryFilesystem) Chroot(path string) (billy.Filesystem, error) {
	return fs.fsFor(path).Chroot(path)
}

func (fs *RepositoryFilesystem) Root() string {
	return fs.dotGitFs.Root()
}
