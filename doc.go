// Package wit is an embeddable, Git-compatible version control core: object
// store, ref store, index and working tree, reached from a Repository
// handle. It has no history engine, no merge, rebase or bisect operations
// and no journal of undoable actions.
//
// It follows the open/closed principle in its design to facilitate
// extensions.
package wit
