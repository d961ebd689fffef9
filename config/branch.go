package config

import (
	"errors"

	"github.com/wit-vcs/wit/plumbing"
	format "github.com/wit-vcs/wit/plumbing/format/config"
)

var (
	errBranchEmptyName    = errors.New("branch config: empty name")
	errBranchInvalidMerge = errors.New("branch config: invalid merge")
)

const (
	remoteKey = "remote"
)

// Branch contains the configuration for a given branch, as read from a
// `[branch "name"]` subsection of the repository config.
type Branch struct {
	// Name of the branch.
	Name string
	// Remote name of the remote to fetch and push from/to.
	Remote string
	// Merge is the local ref to be used for the upstream of this branch,
	// e.g. refs/heads/master.
	Merge plumbing.ReferenceName
	// Rebase instructs git to rebase instead of merge on `git pull`.
	// Valid values are "true" and "interactive".
	Rebase string

	// raw representation of the subsection, filled by marshal or
	// unmarshal are called.
	raw *format.Subsection
}

// Validate validates the fields and sets the default values.
func (b *Branch) Validate() error {
	if b.Name == "" {
		return errBranchEmptyName
	}

	if b.Merge != "" && !b.Merge.IsBranch() {
		return errBranchInvalidMerge
	}

	return nil
}

func (b *Branch) unmarshal(s *format.Subsection) error {
	b.raw = s

	b.Name = s.Name
	b.Remote = s.Options.Get(remoteKey)
	b.Merge = plumbing.ReferenceName(s.Options.Get(mergeKey))
	b.Rebase = s.Options.Get(rebaseKey)

	return nil
}

func (b *Branch) marshal() *format.Subsection {
	if b.raw == nil {
		b.raw = &format.Subsection{}
	}

	b.raw.Name = b.Name

	if b.Remote == "" {
		b.raw.RemoveOption(remoteKey)
	} else {
		b.raw.SetOption(remoteKey, b.Remote)
	}

	if b.Merge == "" {
		b.raw.RemoveOption(mergeKey)
	} else {
		b.raw.SetOption(mergeKey, string(b.Merge))
	}

	if b.Rebase == "" {
		b.raw.RemoveOption(rebaseKey)
	} else {
		b.raw.SetOption(rebaseKey, b.Rebase)
	}

	return b.raw
}
