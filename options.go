package wit

// DefaultRemoteName is the remote name used when a clone or fetch
// operation doesn't specify one, matching git's own default.
const DefaultRemoteName = "origin"
