package client

import (
	"fmt"

	"github.com/wit-vcs/wit/plumbing/transport"
	"github.com/wit-vcs/wit/plumbing/transport/file"
	"github.com/wit-vcs/wit/plumbing/transport/http"
)

// Protocols are the protocols supported by default. SSH and the legacy
// git:// protocol are not registered; see DESIGN.md for why.
var Protocols = map[string]transport.Transport{
	"http":  http.DefaultClient,
	"https": http.DefaultClient,
	"file":  file.DefaultClient,
}

// InstallProtocol adds or modifies an existing protocol.
func InstallProtocol(scheme string, c transport.Transport) {
	Protocols[scheme] = c
}

// NewClient returns the appropriate client among of the set of known protocols:
// http://, https:// and file://.
// See `InstallProtocol` to add or modify protocols.
func NewClient(endpoint transport.Endpoint) (transport.Transport, error) {
	f, ok := Protocols[endpoint.Scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported scheme %q", endpoint.Scheme)
	}

	return f, nil
}
