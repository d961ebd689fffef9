package storer

import "github.com/wit-vcs/wit/plumbing/format/index"

// IndexStorer is generic storage of the staging area index (§3 "Index
// Entry", §4.4).
type IndexStorer interface {
	SetIndex(*index.Index) error
	Index() (*index.Index, error)
}
