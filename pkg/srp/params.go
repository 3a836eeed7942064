// Package srp implements the client side of the SRP-based two-factor password
// check: the PH1/PH2 hash chain, safe-prime group validation, the login proof
// (M1, g_a) and new password hashes for setting or rotating a password.
//
// All functions are pure computations of their inputs and are safe for
// concurrent use.
package srp

import (
	"fmt"
)

const (
	// PrimeLen is the required byte length of the group modulus p (2048 bits).
	PrimeLen = 256

	// HashLen is the output size of H (SHA-256).
	HashLen = 32

	// PBKDF2Iterations is the iteration count of the PBKDF2-HMAC-SHA512 step in PH2.
	PBKDF2Iterations = 100000

	// PBKDF2KeyLen is the derived key size of the PBKDF2 step (512 bits).
	PBKDF2KeyLen = 64

	// NewSaltLen is the number of fresh random bytes appended to salt1
	// when a new password is set.
	NewSaltLen = 32

	// AlgorithmName identifies the only supported key derivation algorithm.
	AlgorithmName = "passwordKdfAlgoSHA256SHA256PBKDF2HMACSHA512iter100000SHA256ModPow"
)

// Algorithm holds the server-issued parameters of the password KDF:
// the two salts, the generator g and the 2048-bit modulus p (big-endian).
type Algorithm struct {
	Salt1 []byte `json:"salt1" yaml:"salt1"`
	Salt2 []byte `json:"salt2" yaml:"salt2"`
	G     int32  `json:"g" yaml:"g"`
	P     []byte `json:"p" yaml:"p"`
}

// Clone returns a deep copy of the algorithm.
func (a Algorithm) Clone() Algorithm {
	return Algorithm{
		Salt1: append([]byte(nil), a.Salt1...),
		Salt2: append([]byte(nil), a.Salt2...),
		G:     a.G,
		P:     append([]byte(nil), a.P...),
	}
}

// validateShape checks the parts of the algorithm that can be verified without
// any arithmetic. The group itself is verified by GroupChecker.
func (a Algorithm) validateShape() error {
	if len(a.P) != PrimeLen {
		return fmt.Errorf("%w: modulus is %d bytes, want %d", ErrInvalidGroupParameters, len(a.P), PrimeLen)
	}
	if len(a.Salt1) == 0 {
		return fmt.Errorf("%w: salt1", ErrMissingServerValue)
	}
	if len(a.Salt2) == 0 {
		return fmt.Errorf("%w: salt2", ErrMissingServerValue)
	}
	return nil
}
