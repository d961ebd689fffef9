package dotgit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/storage"
	"github.com/wit-vcs/wit/utils/ioutil"
)

// SetRef stores ref, replacing it only if old matches the reference's
// current value (old == nil means the reference must not already exist
// with a different value).
func (d *DotGit) SetRef(ref, old *plumbing.Reference) error {
	name, value := ref.Strings()
	return d.setRef(name, value+"\n", old)
}

// Ref returns the reference with the given name, checked in loose files
// first and packed-refs second.
func (d *DotGit) Ref(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	ref, err := d.readReferenceFile(".", name.String())
	if err == nil {
		return ref, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	refs, err := d.findPackedRefs()
	if err != nil {
		return nil, err
	}

	for _, r := range refs {
		if r.Name() == name {
			return r, nil
		}
	}

	return nil, plumbing.ErrReferenceNotFound
}

// Refs returns every reference: HEAD first, then every loose reference
// under refs/, then every remaining packed reference not already seen
// as a loose one.
func (d *DotGit) Refs() ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference
	seen := make(map[plumbing.ReferenceName]struct{})

	if err := d.addRefFromHEAD(&refs, seen); err != nil {
		return nil, err
	}

	if err := d.addRefsFromRefDir(&refs, seen); err != nil {
		return nil, err
	}

	if err := d.addRefsFromPackedRefs(&refs, seen); err != nil {
		return nil, err
	}

	return refs, nil
}

func (d *DotGit) addRefFromHEAD(refs *[]*plumbing.Reference, seen map[plumbing.ReferenceName]struct{}) error {
	ref, err := d.readReferenceFile(".", headPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	*refs = append(*refs, ref)
	seen[ref.Name()] = struct{}{}
	return nil
}

func (d *DotGit) addRefsFromRefDir(refs *[]*plumbing.Reference, seen map[plumbing.ReferenceName]struct{}) error {
	return d.walkRefsDir(refsPath, func(ref *plumbing.Reference) {
		if _, ok := seen[ref.Name()]; ok {
			return
		}
		seen[ref.Name()] = struct{}{}
		*refs = append(*refs, ref)
	})
}

// walkRefsDir recursively walks dir (relative to the repository root),
// calling fn for every reference file found. Missing directories and
// files (which can legitimately disappear mid-walk under concurrent
// access) are tolerated rather than treated as failures.
func (d *DotGit) walkRefsDir(dir string, fn func(*plumbing.Reference)) error {
	entries, err := d.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	for _, e := range entries {
		full := d.fs.Join(dir, e.Name())

		if e.IsDir() {
			if err := d.walkRefsDir(full, fn); err != nil {
				return err
			}
			continue
		}

		ref, err := d.readReferenceFile(".", full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return err
		}

		fn(ref)
	}

	return nil
}

func (d *DotGit) addRefsFromPackedRefs(refs *[]*plumbing.Reference, seen map[plumbing.ReferenceName]struct{}) error {
	packed, err := d.findPackedRefs()
	if err != nil {
		return err
	}

	for _, ref := range packed {
		if _, ok := seen[ref.Name()]; ok {
			continue
		}
		seen[ref.Name()] = struct{}{}
		*refs = append(*refs, ref)
	}

	return nil
}

// RemoveRef deletes the reference name, whether it lives in a loose
// file, packed-refs, or both.
func (d *DotGit) RemoveRef(name plumbing.ReferenceName) error {
	path := name.String()

	if _, err := d.fs.Stat(path); err == nil {
		if err := d.fs.Remove(path); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	return d.rewritePackedRefsWithoutRef(name)
}

// CountLooseRefs returns the number of reference files under refs/.
func (d *DotGit) CountLooseRefs() (int, error) {
	return d.countRefsDir(refsPath)
}

func (d *DotGit) countRefsDir(dir string) (int, error) {
	entries, err := d.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			n, err := d.countRefsDir(d.fs.Join(dir, e.Name()))
			if err != nil {
				return 0, err
			}
			count += n
			continue
		}

		count++
	}

	return count, nil
}

// PackRefs folds every loose reference under refs/ into packed-refs,
// merging with any existing packed entries (loose wins on conflict) and
// then removing the now-redundant loose files.
func (d *DotGit) PackRefs() (err error) {
	var loose []*plumbing.Reference
	if err := d.walkRefsDir(refsPath, func(ref *plumbing.Reference) {
		if ref.Type() == plumbing.HashReference {
			loose = append(loose, ref)
		}
	}); err != nil {
		return err
	}

	if len(loose) == 0 {
		return nil
	}

	merged := make(map[plumbing.ReferenceName]*plumbing.Reference)

	packed, err := d.findPackedRefs()
	if err != nil {
		return err
	}
	for _, ref := range packed {
		merged[ref.Name()] = ref
	}
	for _, ref := range loose {
		merged[ref.Name()] = ref
	}

	names := make([]plumbing.ReferenceName, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	tmp, err := d.fs.TempFile(".", "packed-refs_tmp_")
	if err != nil {
		return err
	}

	if err := writePackedRefs(tmp, names, merged); err != nil {
		_ = d.fs.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmp.Name())
		return err
	}

	pr, err := d.openAndLockPackedRefs(false)
	if err != nil {
		_ = d.fs.Remove(tmp.Name())
		return err
	}

	if pr == nil {
		if err := d.fs.Rename(tmp.Name(), packedRefsPath); err != nil {
			return err
		}
	} else {
		defer ioutil.CheckClose(pr, &err)
		if err := d.rewritePackedRefsWhileLocked(tmp, pr); err != nil {
			return err
		}
	}

	for _, ref := range loose {
		if err := d.fs.Remove(ref.Name().String()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

func writePackedRefs(w io.Writer, names []plumbing.ReferenceName, refs map[plumbing.ReferenceName]*plumbing.Reference) error {
	if _, err := w.Write([]byte(packedRefsHeader)); err != nil {
		return err
	}

	for _, name := range names {
		ref := refs[name]
		line := fmt.Sprintf("%s %s\n", ref.Hash().String(), ref.Name())
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}

	return nil
}

// readReferenceFile reads the reference stored at dirname/name. It
// returns ErrIsDir if that path names a directory.
func (d *DotGit) readReferenceFile(dirname, name string) (*plumbing.Reference, error) {
	path := d.fs.Join(dirname, name)

	fi, err := d.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, ErrIsDir
	}

	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return d.readReferenceFrom(f, name)
}

// readReferenceFrom parses name's reference value from r's content. An
// empty file is reported as io.EOF.
func (d *DotGit) readReferenceFrom(r io.Reader, name string) (*plumbing.Reference, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	line := strings.TrimSpace(string(b))
	if line == "" {
		return nil, io.EOF
	}

	return plumbing.NewReferenceFromStrings(name, line), nil
}

// checkReferenceAndTruncate checks f's current content against old (if
// given) and, on success, truncates f back to empty ready for the new
// value to be written. It returns ErrEmptyRefFile when f has no current
// content, regardless of old.
func (d *DotGit) checkReferenceAndTruncate(f billy.File, old *plumbing.Reference) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	ref, err := d.readReferenceFrom(f, f.Name())
	if err != nil {
		if err == io.EOF {
			return ErrEmptyRefFile
		}

		return err
	}

	if old == nil {
		return nil
	}

	if ref.Hash() != old.Hash() || ref.Target() != old.Target() {
		return storage.ErrReferenceHasChanged
	}

	if err := f.Truncate(0); err != nil {
		return err
	}

	_, err = f.Seek(0, io.SeekStart)
	return err
}

// findPackedRefs returns the contents of packed-refs, or nil if it
// doesn't exist.
func (d *DotGit) findPackedRefs() ([]*plumbing.Reference, error) {
	f, err := d.fs.Open(packedRefsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}
	defer f.Close()

	return d.findPackedRefsInFile(f)
}

// findPackedRefsInFile parses the packed-refs format: an optional
// leading "#"-comment header, one "<hash> <name>" line per direct
// reference, and an optional "^<hash>" peeled-tag line following any
// tag entry (which is ignored here).
func (d *DotGit) findPackedRefsInFile(f io.Reader) ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			continue
		}

		switch line[0] {
		case '#', '^':
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("dotgit: malformed packed-refs line: %q", line)
		}

		hashPart := parts[0]
		if !isHex(hashPart) || (len(hashPart) != 40 && len(hashPart) != 64) {
			return nil, fmt.Errorf("dotgit: malformed packed-refs line: %q", line)
		}

		refs = append(refs, plumbing.NewHashReference(plumbing.ReferenceName(parts[1]), plumbing.NewHash(hashPart)))
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// rewritePackedRefsWithoutRef removes name from packed-refs, if present.
// It is a no-op if packed-refs doesn't exist.
func (d *DotGit) rewritePackedRefsWithoutRef(name plumbing.ReferenceName) (err error) {
	pr, err := d.openAndLockPackedRefs(false)
	if err != nil {
		return err
	}
	if pr == nil {
		return nil
	}
	defer ioutil.CheckClose(pr, &err)

	return d.rewritePackedRefsWithoutRefWhileLocked(pr, name)
}

func (d *DotGit) rewritePackedRefsWithoutRefWhileLocked(pr billy.File, name plumbing.ReferenceName) error {
	if _, err := pr.Seek(0, io.SeekStart); err != nil {
		return err
	}

	refs, err := d.findPackedRefsInFile(pr)
	if err != nil {
		return err
	}

	names := make([]plumbing.ReferenceName, 0, len(refs))
	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, ref := range refs {
		if ref.Name() == name {
			continue
		}
		names = append(names, ref.Name())
		byName[ref.Name()] = ref
	}

	tmp, err := d.fs.TempFile(".", "packed-refs_tmp_")
	if err != nil {
		return err
	}

	if err := writePackedRefs(tmp, names, byName); err != nil {
		_ = d.fs.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmp.Name())
		return err
	}

	return d.rewritePackedRefsWhileLocked(tmp, pr)
}

// openAndLockPackedRefs opens packed-refs for reading (and, when the
// filesystem supports it, writing+locking). If the file doesn't exist,
// it returns a nil file and a nil error unless mustExist is set.
func (d *DotGit) openAndLockPackedRefs(mustExist bool) (billy.File, error) {
	mode := d.openAndLockPackedRefsMode()

	f, err := d.fs.OpenFile(packedRefsPath, mode, 0666)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return nil, err
			}

			return nil, nil
		}

		return nil, err
	}

	if mode == os.O_RDWR {
		if err := f.Lock(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}
