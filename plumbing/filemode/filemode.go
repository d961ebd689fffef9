// Package filemode defines the small, closed set of Git tree-entry modes
// (§3 "Object — Tree").
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode is the octal mode recorded against a tree entry.
type FileMode uint32

// The modes a tree entry may carry. Submodule (160000) is intentionally
// absent: submodule support is a spec Non-goal.
const (
	Empty      FileMode = 0
	Dir        FileMode = 0040000
	Regular    FileMode = 0100644
	Deprecated FileMode = 0100664
	Executable FileMode = 0100755
	Symlink    FileMode = 0120000
)

// New parses the octal textual form git uses in tree entries and packfile
// headers, e.g. "100644".
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	return FileMode(n), nil
}

// String renders the mode the way it appears in a serialized tree entry.
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// IsMalformed reports whether m is not one of the modes this engine
// understands.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink:
		return false
	default:
		return true
	}
}

// IsRegular reports whether m addresses blob content (file or symlink), as
// opposed to a subtree.
func (m FileMode) IsRegular() bool {
	switch m {
	case Regular, Deprecated, Executable, Symlink:
		return true
	default:
		return false
	}
}

// ToOSFileMode converts to the nearest os.FileMode, for materializing a
// tree entry onto a real filesystem (§4.5).
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir:
		return os.ModeDir | 0755, nil
	case Symlink:
		return os.ModeSymlink, nil
	case Executable:
		return 0755, nil
	case Regular, Deprecated:
		return 0644, nil
	case Empty:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported file mode: %o", uint32(m))
	}
}

// NewFromOSFileMode infers the tree mode for a file already on disk.
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	switch {
	case m.IsDir():
		return Dir, nil
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	case m.IsRegular():
		if m&0111 != 0 {
			return Executable, nil
		}
		return Regular, nil
	default:
		return Empty, fmt.Errorf("unsupported file mode: %s", m)
	}
}
