package packfile

import "github.com/wit-vcs/wit/plumbing"

type ScannerOption func(*Scanner)

// WithSHA256 enables the SHA256 hashing while scanning a pack file.
func WithSHA256() ScannerOption {
	return func(s *Scanner) {
		h := plumbing.NewHasher256(plumbing.AnyObject, 0)
		s.hasher256 = &h
	}
}

// WithObjectIDSize sets the byte length used to read REF_DELTA base
// references (20 for SHA-1, 32 for SHA-256). Defaults to SHA-1's size.
func WithObjectIDSize(n int) ScannerOption {
	return func(s *Scanner) {
		s.objectIDSize = n
	}
}
