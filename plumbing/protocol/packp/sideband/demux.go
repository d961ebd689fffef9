package sideband

import (
	"fmt"
	"io"

	"github.com/wit-vcs/wit/plumbing/format/pktline"
)

// Progress receives the bytes sent over the progress channel, if the
// remote sends any. Left nil, progress messages are silently dropped.
type Progress io.Writer

// Demuxer reads a side-band multiplexed stream, presenting the
// PackData channel through Read and routing ProgressMessage packets
// to Progress as they arrive. An ErrorMessage packet is surfaced as
// the error from Read.
type Demuxer struct {
	t Type
	r io.Reader

	max     int
	pending []byte

	// Progress, if set, receives the content of every ProgressMessage
	// packet as it is demultiplexed.
	Progress Progress
}

// NewDemuxer returns a Demuxer of the given Type reading multiplexed
// packets from r.
func NewDemuxer(t Type, r io.Reader) *Demuxer {
	max := pktline.MaxPayloadSize
	if t == Sideband {
		max = MaxPackedSize
	}

	return &Demuxer{t: t, r: r, max: max}
}

// Read implements io.Reader, returning pack data demultiplexed from
// the underlying stream. It keeps filling p across as many packets as
// necessary, stopping only once p is full or the next packet can't be
// read or decoded.
func (d *Demuxer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(d.pending) == 0 {
			if err := d.fill(); err != nil {
				return n, err
			}
		}

		c := copy(p[n:], d.pending)
		d.pending = d.pending[c:]
		n += c
	}

	return n, nil
}

// fill reads packets from the underlying stream until a PackData
// packet is found (stashed in d.pending for Read to consume),
// consuming and dispatching any ProgressMessage packets along the
// way, and returning an error if an ErrorMessage packet or read
// failure is encountered first.
func (d *Demuxer) fill() error {
	for {
		_, p, err := pktline.ReadPacket(d.r)
		if err != nil {
			return err
		}

		if len(p) == 0 {
			continue
		}

		if len(p) > d.max {
			return ErrMaxPackedExceeded
		}

		ch := Channel(p[0])
		content := p[1:]

		switch ch {
		case PackData:
			d.pending = content
			return nil
		case ProgressMessage:
			if d.Progress != nil {
				if _, err := d.Progress.Write(content); err != nil {
					return err
				}
			}
		case ErrorMessage:
			return fmt.Errorf("unexpected error: %s", content)
		default:
			return fmt.Errorf("unknown channel %s", p)
		}
	}
}
