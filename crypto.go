package wit

import (
	// Register Go's SHA256 implementation, used when a repository is
	// initialized with the sha256 object format.
	_ "crypto/sha256"
	// Register sha1cd, a collision-detecting SHA-1 used as the default
	// object hash so a crafted colliding pair can't silently overwrite
	// an unrelated object.
	_ "github.com/pjbgf/sha1cd"
)
