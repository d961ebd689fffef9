package plumbing

import (
	"errors"
	"strings"
)

// ErrReferenceNotFound is returned when a reference name does not resolve.
var ErrReferenceNotFound = errors.New("reference not found")

// ReferenceName is a full ref name, e.g. "refs/heads/main" or "HEAD".
type ReferenceName string

// Well-known reference names and the category prefixes a short name
// resolves against, in the order §3 "Ref" specifies.
const (
	HEAD ReferenceName = "HEAD"

	refHeadsPrefix   = "refs/heads/"
	refTagsPrefix    = "refs/tags/"
	refRemotesPrefix = "refs/remotes/"
)

// NewBranchReferenceName builds "refs/heads/<name>".
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName(refHeadsPrefix + name)
}

// NewTagReferenceName builds "refs/tags/<name>".
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName(refTagsPrefix + name)
}

// NewRemoteReferenceName builds "refs/remotes/<remote>/<name>".
func NewRemoteReferenceName(remote, name string) ReferenceName {
	return ReferenceName(refRemotesPrefix + remote + "/" + name)
}

// String returns the ref name unchanged.
func (r ReferenceName) String() string { return string(r) }

// IsBranch reports whether r is under refs/heads/.
func (r ReferenceName) IsBranch() bool { return strings.HasPrefix(string(r), refHeadsPrefix) }

// IsTag reports whether r is under refs/tags/.
func (r ReferenceName) IsTag() bool { return strings.HasPrefix(string(r), refTagsPrefix) }

// IsRemote reports whether r is under refs/remotes/.
func (r ReferenceName) IsRemote() bool { return strings.HasPrefix(string(r), refRemotesPrefix) }

// Short strips the category prefix, returning the branch/tag/remote-branch
// short name. A name with no recognized prefix is returned unchanged.
func (r ReferenceName) Short() string {
	s := string(r)
	for _, prefix := range []string{refHeadsPrefix, refTagsPrefix, refRemotesPrefix} {
		if strings.HasPrefix(s, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// ReferenceType distinguishes a direct (hash) reference from a symbolic
// (ref-to-ref) one.
type ReferenceType int8

const (
	InvalidReference ReferenceType = iota
	HashReference
	SymbolicReference
)

// Reference is a named pointer: either directly at a Hash, or symbolically
// at another reference name (as HEAD is when "on a branch").
type Reference struct {
	typ    ReferenceType
	name   ReferenceName
	target ReferenceName
	hash   Hash
}

// NewHashReference builds a direct reference pointing at hash.
func NewHashReference(name ReferenceName, hash Hash) *Reference {
	return &Reference{typ: HashReference, name: name, hash: hash}
}

// NewSymbolicReference builds a reference pointing at another ref name.
func NewSymbolicReference(name, target ReferenceName) *Reference {
	return &Reference{typ: SymbolicReference, name: name, target: target}
}

// NewReferenceFromStrings builds a Reference the way a loose ref file or a
// packed-refs line is parsed: target is either "ref: <name>" (symbolic) or
// a bare hex hash (direct).
func NewReferenceFromStrings(name, target string) *Reference {
	n := ReferenceName(name)
	if strings.HasPrefix(target, "ref: ") {
		return NewSymbolicReference(n, ReferenceName(target[len("ref: "):]))
	}
	return NewHashReference(n, NewHash(target))
}

func (r *Reference) Type() ReferenceType  { return r.typ }
func (r *Reference) Name() ReferenceName  { return r.name }
func (r *Reference) Hash() Hash           { return r.hash }
func (r *Reference) Target() ReferenceName { return r.target }

// Strings renders the reference the way it is written to a loose ref file:
// a bare hex hash for a direct reference, or "ref: <target>" for a symbolic
// one (§4.3).
func (r *Reference) Strings() (first, second string) {
	if r.typ == SymbolicReference {
		return string(r.name), "ref: " + string(r.target)
	}
	return string(r.name), r.hash.String()
}

func (r *Reference) String() string {
	if r == nil {
		return "<nil>"
	}
	_, v := r.Strings()
	return v
}
