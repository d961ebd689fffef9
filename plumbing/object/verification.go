package object

import "bytes"

// SignatureType identifies the format of a detached cryptographic
// signature attached to a commit or tag (e.g. a "gpgsig" header).
type SignatureType int8

const (
	// SignatureTypeUnknown is returned when the signature bytes don't
	// match any recognized armor header.
	SignatureTypeUnknown SignatureType = iota
	// SignatureTypeOpenPGP is an ASCII-armored OpenPGP signature.
	SignatureTypeOpenPGP
	// SignatureTypeX509 is an ASCII-armored X.509/SMIME signature.
	SignatureTypeX509
	// SignatureTypeSSH is an SSH signature (SSHSIG armor).
	SignatureTypeSSH
)

var signatureArmorPrefixes = map[string]SignatureType{
	"-----BEGIN PGP SIGNATURE-----":     SignatureTypeOpenPGP,
	"-----BEGIN PGP MESSAGE-----":       SignatureTypeOpenPGP,
	"-----BEGIN SIGNED MESSAGE-----":    SignatureTypeX509,
	"-----BEGIN SSH SIGNATURE-----":     SignatureTypeSSH,
}

// DetectSignatureType inspects a detached signature's armor header to
// classify its format.
func DetectSignatureType(signature []byte) SignatureType {
	trimmed := bytes.TrimSpace(signature)
	for prefix, typ := range signatureArmorPrefixes {
		if bytes.HasPrefix(trimmed, []byte(prefix)) {
			return typ
		}
	}
	return SignatureTypeUnknown
}

// VerificationResult is the outcome of verifying a commit or tag's
// signature against a keyring.
type VerificationResult struct {
	Type                  SignatureType
	Valid                 bool
	TrustLevel            TrustLevel
	KeyID                 string
	PrimaryKeyFingerprint string
	Signer                string
	Error                 error
}

// TrustLevel represents the trust level of a signing key.
// The levels follow Git's trust model, from lowest to highest.
type TrustLevel int8

const (
	// TrustUndefined indicates the trust level is not set or unknown.
	TrustUndefined TrustLevel = iota
	// TrustNever indicates the key should never be trusted.
	TrustNever
	// TrustMarginal indicates marginal trust in the key.
	TrustMarginal
	// TrustFull indicates full trust in the key.
	TrustFull
	// TrustUltimate indicates ultimate trust (typically for own keys).
	TrustUltimate
)

// String returns the string representation of the trust level.
func (t TrustLevel) String() string {
	switch t {
	case TrustNever:
		return "never"
	case TrustMarginal:
		return "marginal"
	case TrustFull:
		return "full"
	case TrustUltimate:
		return "ultimate"
	default:
		return "undefined"
	}
}

// AtLeast returns true if this trust level meets or exceeds the required level.
func (t TrustLevel) AtLeast(required TrustLevel) bool {
	return t >= required
}
