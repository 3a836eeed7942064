package srp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// NewPasswordMaterial is what the account settings call needs to set or
// rotate a password: the algorithm with the extended salt1 and the password
// hash x computed under it.
type NewPasswordMaterial struct {
	Algorithm Algorithm
	Hash      []byte
}

// ExtendSalt returns a copy of alg whose Salt1 has NewSaltLen bytes read from
// r appended. A nil reader uses crypto/rand.
func ExtendSalt(alg Algorithm, r io.Reader) (Algorithm, error) {
	if r == nil {
		r = rand.Reader
	}
	fresh := make([]byte, NewSaltLen)
	if _, err := io.ReadFull(r, fresh); err != nil {
		return Algorithm{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	out := alg.Clone()
	out.Salt1 = append(out.Salt1, fresh...)
	return out, nil
}

// ComputePasswordHash returns x = PH2(password, salt1, salt2) for alg as is.
func ComputePasswordHash(alg Algorithm, password []byte) []byte {
	return PH2(password, alg.Salt1, alg.Salt2)
}

// NewPasswordHash validates the group of alg, extends salt1 once with fresh
// randomness from r and hashes password under the new salt.
// A nil checker uses the package default; a nil reader uses crypto/rand.
func NewPasswordHash(alg Algorithm, password []byte, r io.Reader, checker *GroupChecker) (*NewPasswordMaterial, error) {
	if err := alg.validateShape(); err != nil {
		return nil, err
	}
	if checker == nil {
		checker = defaultChecker
	}
	if err := checker.Check(alg.G, alg.P); err != nil {
		return nil, err
	}

	extended, err := ExtendSalt(alg, r)
	if err != nil {
		return nil, err
	}

	return &NewPasswordMaterial{
		Algorithm: extended,
		Hash:      ComputePasswordHash(extended, password),
	}, nil
}

// ComputeVerifier returns v = g^x mod p padded to 256 bytes, where
// x = PH2(password, salt1, salt2). This is the value a server stores.
func ComputeVerifier(alg Algorithm, password []byte) ([]byte, error) {
	if len(alg.P) != PrimeLen {
		return nil, fmt.Errorf("%w: modulus is %d bytes, want %d", ErrInvalidGroupParameters, len(alg.P), PrimeLen)
	}
	return VerifierFromHash(alg, ComputePasswordHash(alg, password))
}

// VerifierFromHash returns g^x mod p padded to 256 bytes for a precomputed x.
func VerifierFromHash(alg Algorithm, hash []byte) ([]byte, error) {
	x := intFromBytes(hash)
	defer WipeInt(x)
	v := ModPow(big.NewInt(int64(alg.G)), x, intFromBytes(alg.P))
	return padInt(v)
}
