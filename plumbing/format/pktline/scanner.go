package pktline

import (
	"errors"
	"io"
)

// PktType classifies the pkt-line most recently read by a Scanner:
// a regular payload line, or one of the three zero-length control
// lines (flush, delimiter, response-end).
type PktType int

const (
	PayloadType PktType = iota
	FlushType
	DelimType
	ResponseEndType
)

// Scanner provides a convenient interface for reading the payloads of a
// series of pkt-lines.  It takes an io.Reader providing the source,
// which then can be tokenized through repeated calls to the Scan
// method.
//
// After each Scan call, the Bytes method will return the payload of the
// corresponding pkt-line on a shared buffer, which will be 65516 bytes
// or smaller.  Flush, delimiter and response-end pkt-lines are
// represented by empty byte slices; PktType distinguishes them.
//
// Scanning stops at EOF or the first I/O error.
type Scanner struct {
	r       io.Reader     // The reader provided by the client
	err     error         // Sticky error
	buf     [MaxSize]byte // Buffer used to read the pktlines
	n       int           // Number of bytes held in buf for the last packet
	l       int           // Length of the last packet, including its prefix
	pktType PktType
}

// NewScanner returns a new Scanner to read from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r: r,
	}
}

// Err returns the first error encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// Scan advances the Scanner to the next pkt-line, whose payload will
// then be available through the Bytes method.  Scanning stops at EOF
// or the first I/O error.  After Scan returns false, the Err method
// will return any error that occurred during scanning, except that if
// it was io.EOF, Err will return nil.
func (s *Scanner) Scan() bool {
	if s.r == nil {
		return false
	}

	length, p, err := ReadPacket(s.r)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return false
	}

	s.l = length
	switch length {
	case Flush:
		s.pktType, s.n = FlushType, 0
	case Delim:
		s.pktType, s.n = DelimType, 0
	case ResponseEnd:
		s.pktType, s.n = ResponseEndType, 0
	default:
		s.pktType = PayloadType
		s.n = copy(s.buf[:], p)
	}

	return true
}

// Bytes returns the most recent packet generated by a call to Scan.
// The underlying array may point to data that will be overwritten by a
// subsequent call to Scan. It does no allocation.
func (s *Scanner) Bytes() []byte {
	return s.buf[:s.n]
}

// Text returns the most recent packet generated by a call to Scan.
func (s *Scanner) Text() string {
	return string(s.Bytes())
}

// Len returns the length of the most recent packet generated by a call to
// Scan, as given by its four-digit prefix (so including the prefix itself);
// flush, delimiter and response-end packets give 0, 1 and 2.
func (s *Scanner) Len() int {
	return s.l
}

// PktType reports what kind of pkt-line was produced by the most recent
// call to Scan.
func (s *Scanner) PktType() PktType {
	return s.pktType
}
