package srp

import (
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// H returns SHA-256 over the concatenation of parts.
func H(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// SH is the salted hash: SH(data, salt) = H(salt | data | salt).
func SH(data, salt []byte) []byte {
	return H(salt, data, salt)
}

// PH1(password, salt1, salt2) = SH(SH(password, salt1), salt2)
func PH1(password, salt1, salt2 []byte) []byte {
	inner := SH(password, salt1)
	defer Wipe(inner)
	return SH(inner, salt2)
}

// PH2 derives the password secret x:
//
//	PH2(password, salt1, salt2) = SH(pbkdf2(sha512, PH1(password, salt1, salt2), salt1, 100000), salt2)
//
// The 32-byte result is interpreted as a big-endian integer by callers.
func PH2(password, salt1, salt2 []byte) []byte {
	hash1 := PH1(password, salt1, salt2)
	dk := pbkdf2.Key(hash1, salt1, PBKDF2Iterations, PBKDF2KeyLen, sha512.New)
	defer Wipe(hash1, dk)
	return SH(dk, salt2)
}
