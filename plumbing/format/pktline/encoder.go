package pktline

import "io"

// Encoder writes a series of pkt-lines to an underlying io.Writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Flush writes a flush-pkt.
func (e *Encoder) Flush() error {
	return WriteFlush(e.w)
}

// Encode writes one pkt-line per payload given.
func (e *Encoder) Encode(payloads ...[]byte) error {
	for _, p := range payloads {
		if len(p) > MaxPayloadSize {
			return ErrPayloadTooLong
		}
		if _, err := WritePacket(e.w, p); err != nil {
			return err
		}
	}
	return nil
}

// EncodeString is Encode, but taking string payloads.
func (e *Encoder) EncodeString(payloads ...string) error {
	for _, p := range payloads {
		if err := e.Encode([]byte(p)); err != nil {
			return err
		}
	}
	return nil
}

// Encodef writes a single pkt-line built from a format string.
func (e *Encoder) Encodef(format string, a ...interface{}) error {
	_, err := WritePacketf(e.w, format, a...)
	return err
}
