package plumbing

// TagMode controls which annotated tags a fetch or push also transfers
// alongside the requested refs.
type TagMode int

const (
	InvalidTagMode TagMode = iota
	// TagFollowing fetches any tag that points at a commit already being
	// fetched. Requires the remote to advertise the include-tag capability.
	TagFollowing
	// AllTags fetches every tag under refs/tags/*, regardless of whether
	// its target is part of the fetched history.
	AllTags
	// NoTags skips tags entirely.
	NoTags
)
