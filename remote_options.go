package wit

import (
	"errors"

	"github.com/wit-vcs/wit/config"
	"github.com/wit-vcs/wit/plumbing"
	"github.com/wit-vcs/wit/plumbing/protocol/packp/sideband"
	"github.com/wit-vcs/wit/plumbing/transport"
)

// Tag-following modes, re-exported from plumbing for ergonomic use from
// FetchOptions/PushOptions without an extra import.
const (
	TagFollowing = plumbing.TagFollowing
	AllTags      = plumbing.AllTags
	NoTags       = plumbing.NoTags
)

// PeelingOption defines how peeled references are reported by Remote.List.
type PeelingOption int

const (
	// IgnorePeeled ignores peeled reference names.
	IgnorePeeled PeelingOption = iota
	// OnlyPeeled returns only peeled reference names.
	OnlyPeeled
	// AppendPeeled returns all the references, including peeled ones.
	AppendPeeled
)

var (
	// ErrMissingURL is returned when an operation that contacts a remote
	// needs a URL and none is configured or provided.
	ErrMissingURL = errors.New("URL field is required")
)

// FetchOptions describes a fetch operation against a Remote.
type FetchOptions struct {
	// RemoteName is the name of the remote to fetch from, defaults to
	// the Remote's own configured name.
	RemoteName string
	// RemoteURL overrides the URL taken from the remote's config.
	RemoteURL string
	RefSpecs  []config.RefSpec
	// Depth limit fetching to the specified number of commits from the
	// tip of each remote branch history.
	Depth int
	Auth  transport.AuthMethod
	// Progress is where the human readable information sent by the
	// server is stored, if supported by the transport.
	Progress        sideband.Progress
	Tags            plumbing.TagMode
	Force           bool
	InsecureSkipTLS bool
	CABundle        []byte
	ProxyOptions    transport.ProxyOptions
}

// Validate validates the fields and sets the default values.
func (o *FetchOptions) Validate() error {
	for _, r := range o.RefSpecs {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// PushOptions describes a push operation against a Remote.
type PushOptions struct {
	RemoteName string
	RemoteURL  string
	RefSpecs   []config.RefSpec
	Auth       transport.AuthMethod
	Progress   sideband.Progress
	Prune      bool
	Force      bool
	// ForceWithLease augments Force with a lease: the push only
	// succeeds if the remote ref is still at the expected value.
	ForceWithLease *ForceWithLease
	// RequireRemoteRefs fails the push unless every named ref on the
	// remote still matches its recorded hash.
	RequireRemoteRefs []config.RefSpec
	// FollowTags also pushes annotated tags whose target is included
	// in the objects being pushed.
	FollowTags bool
	// Atomic makes reference updates atomic on the remote, if the
	// remote supports the atomic capability.
	Atomic bool
	// Options are server-side push-options passed through as-is.
	Options         []string
	InsecureSkipTLS bool
	CABundle        []byte
	ProxyOptions    transport.ProxyOptions
}

// Validate validates the fields and sets the default values.
func (o *PushOptions) Validate() error {
	if o.RemoteName == "" {
		o.RemoteName = DefaultRemoteName
	}

	for _, r := range o.RefSpecs {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ListOptions describes a Remote.List operation.
type ListOptions struct {
	Auth            transport.AuthMethod
	InsecureSkipTLS bool
	CABundle        []byte
	ProxyOptions    transport.ProxyOptions
	PeelingOption   PeelingOption
	// Timeout is the duration, in seconds, the list operation is
	// allowed to take before it's canceled. 0 means the default (10s).
	Timeout int
}

// ForceWithLease augments a force push with a constraint on the
// remote ref's current value, so the push fails if the remote moved
// since it was last observed.
type ForceWithLease struct {
	// RefName restricts the lease to a single ref; empty applies it to
	// every ref being updated.
	RefName plumbing.ReferenceName
	// Hash is the value the remote ref is expected to have. A zero
	// hash means "whatever this client last fetched".
	Hash plumbing.Hash
}
