package config

import (
	"errors"
	"strings"

	"github.com/wit-vcs/wit/plumbing"
)

const (
	refSpecWildcard  = "*"
	refSpecForce     = "+"
	refSpecSeparator = ":"
)

var (
	ErrRefSpecMalformedSeparator = errors.New("malformed refspec, separator is required")
	ErrRefSpecMalformedWildcard  = errors.New("malformed refspec, mismatched number of wildcards")
)

// RefSpec is a mapping from local branches to remote references.
// The format of the refspec is an optional +, followed by <src>:<dst>, where
// <src> is the pattern for references on the remote side and <dst> is where
// those references are written locally. The + tells the remote to update the
// reference even if it isn't a fast-forward.
// e.g.: "+refs/heads/*:refs/remotes/origin/*"
//
// https://git-scm.com/book/en/v2/Git-Internals-The-Refspec
type RefSpec string

// IsValid validates the RefSpec.
//
// Deprecated: use Validate, which returns the specific error found.
func (s RefSpec) IsValid() bool {
	return s.Validate() == nil
}

// Validate validates the RefSpec.
func (s RefSpec) Validate() error {
	spec := string(s)
	if strings.Count(spec, refSpecSeparator) != 1 {
		return ErrRefSpecMalformedSeparator
	}

	sep := strings.Index(spec, refSpecSeparator)
	if sep == len(spec)-1 {
		return ErrRefSpecMalformedSeparator
	}

	ws := strings.Count(s.Src(), refSpecWildcard)
	wd := strings.Count(spec[sep+1:], refSpecWildcard)
	if ws != wd || ws > 1 || wd > 1 {
		return ErrRefSpecMalformedWildcard
	}

	return nil
}

// IsForceUpdate returns if update is allowed in non fast-forward merges.
func (s RefSpec) IsForceUpdate() bool {
	return strings.HasPrefix(string(s), refSpecForce)
}

// IsDelete returns true if the RefSpec has an empty src, meaning the
// destination reference should be deleted.
func (s RefSpec) IsDelete() bool {
	return s.Src() == ""
}

// IsExactSHA1 returns true if the src side of the RefSpec is a full hash.
func (s RefSpec) IsExactSHA1() bool {
	return plumbing.IsHash(s.Src())
}

// Src returns the src side.
func (s RefSpec) Src() string {
	spec := strings.TrimPrefix(string(s), refSpecForce)
	end := strings.Index(spec, refSpecSeparator)
	return spec[:end]
}

// Match matches the given plumbing.ReferenceName against the source.
func (s RefSpec) Match(n plumbing.ReferenceName) bool {
	if !s.isGlob() {
		return s.matchExact(n)
	}

	return s.matchGlob(n)
}

func (s RefSpec) isGlob() bool {
	return strings.Contains(string(s), refSpecWildcard)
}

func (s RefSpec) matchExact(n plumbing.ReferenceName) bool {
	return s.Src() == n.String()
}

func (s RefSpec) matchGlob(n plumbing.ReferenceName) bool {
	src := s.Src()
	name := n.String()
	wildcard := strings.Index(src, refSpecWildcard)

	prefix := src[0:wildcard]
	suffix := src[wildcard+1:]

	return len(name) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, suffix)
}

// Dst returns the destination for the given remote reference.
func (s RefSpec) Dst(n plumbing.ReferenceName) plumbing.ReferenceName {
	spec := string(s)
	start := strings.Index(spec, refSpecSeparator) + 1
	dst := spec[start:]
	src := s.Src()

	if !s.isGlob() {
		return plumbing.ReferenceName(dst)
	}

	name := n.String()
	ws := strings.Index(src, refSpecWildcard)
	wd := strings.Index(dst, refSpecWildcard)
	match := name[ws : len(name)-(len(src)-(ws+1))]

	return plumbing.ReferenceName(dst[0:wd] + match + dst[wd+1:])
}

// Reverse returns a copy of the RefSpec with its src and dst swapped,
// keeping any force-update marker.
func (s RefSpec) Reverse() RefSpec {
	force := strings.HasPrefix(string(s), refSpecForce)
	spec := strings.TrimPrefix(string(s), refSpecForce)

	i := strings.Index(spec, refSpecSeparator)
	src, dst := spec[:i], spec[i+1:]

	reversed := dst + refSpecSeparator + src
	if force {
		reversed = refSpecForce + reversed
	}

	return RefSpec(reversed)
}

func (s RefSpec) String() string {
	return string(s)
}

// MatchAny returns true if any of the RefSpecs match the given
// plumbing.ReferenceName.
func MatchAny(l []RefSpec, n plumbing.ReferenceName) bool {
	for _, r := range l {
		if r.Match(n) {
			return true
		}
	}

	return false
}
