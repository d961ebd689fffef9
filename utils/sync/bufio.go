package sync

import (
	"bufio"
	"io"
	gosync "sync"
)

var bufioReader = gosync.Pool{
	New: func() any {
		return bufio.NewReader(nil)
	},
}

// GetBufioReader returns a *bufio.Reader that is managed by a sync.Pool,
// reset to read from r.
//
// After use, the *bufio.Reader should be put back into the sync.Pool by
// calling PutBufioReader.
func GetBufioReader(r io.Reader) *bufio.Reader {
	br := bufioReader.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

// PutBufioReader puts r back into its sync.Pool.
func PutBufioReader(r *bufio.Reader) {
	bufioReader.Put(r)
}
