package sideband

import (
	"io"

	"github.com/wit-vcs/wit/plumbing/format/pktline"
)

// Muxer multiplexes pack data, progress and error messages onto a
// single writer as side-band pkt-lines.
type Muxer struct {
	t   Type
	w   io.Writer
	max int
}

var _ io.Writer = (*Muxer)(nil)

// NewMuxer returns a Muxer of the given Type, writing to w.
func NewMuxer(t Type, w io.Writer) *Muxer {
	max := pktline.MaxPayloadSize
	if t == Sideband {
		max = MaxPackedSize
	}

	return &Muxer{t: t, w: w, max: max}
}

// Write implements io.Writer, sending p over the PackData channel. It
// splits p into as many packets as needed to stay within the
// multiplexer's packet size limit.
func (m *Muxer) Write(p []byte) (int, error) {
	chunk := m.max - 1

	total := 0
	for len(p) > 0 {
		n := len(p)
		if n > chunk {
			n = chunk
		}

		if _, err := m.WriteChannel(PackData, p[:n]); err != nil {
			return total, err
		}

		total += n
		p = p[n:]
	}

	return total, nil
}

// WriteChannel sends p as a single packet on the given channel. It
// does not split p; callers sending PackData of arbitrary size should
// use Write instead.
func (m *Muxer) WriteChannel(ch Channel, p []byte) (int, error) {
	if len(p)+1 > m.max {
		return 0, ErrMaxPackedExceeded
	}

	if err := pktline.Write(m.w, ch.WithPayload(p)); err != nil {
		return 0, err
	}

	return len(p), nil
}
