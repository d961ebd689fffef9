package wit

// Default supported transports. SSH and the legacy git:// protocol are
// intentionally not registered here; see DESIGN.md for why.
import (
	_ "github.com/wit-vcs/wit/plumbing/transport/file" // file transport
	_ "github.com/wit-vcs/wit/plumbing/transport/http" // http transport
)
