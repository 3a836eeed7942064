// Package auth implements an in-memory account service: the server side of
// the SRP password check, password settings updates, srp_id storage, rate
// limiting and session issuance.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

// ephemeralLen is the size of the server's secret b in bytes.
const ephemeralLen = 32

var errProofMismatch = errors.New("authentication failed: invalid proof M1")

// SRPServer is the server-side state of one pending password check.
type SRPServer struct {
	alg      srp.Algorithm
	verifier *big.Int
	p        *big.Int
	gPadded  []byte
	b        *big.Int // Server ephemeral private value
	B        []byte   // Server ephemeral public value, padded to 256 bytes
}

// NewSRPServer prepares a check against the stored verifier. It draws b from
// r and computes B = (k*v + g^b) mod p.
func NewSRPServer(alg srp.Algorithm, verifier []byte, r io.Reader) (*SRPServer, error) {
	if len(alg.P) != srp.PrimeLen {
		return nil, fmt.Errorf("%w: modulus is %d bytes, want %d", srp.ErrInvalidGroupParameters, len(alg.P), srp.PrimeLen)
	}
	p := new(big.Int).SetBytes(alg.P)
	if p.Bit(0) == 0 || p.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and at least 3", srp.ErrInvalidGroupParameters)
	}
	g := big.NewInt(int64(alg.G))
	gPadded, err := srp.PadTo256([]byte{byte(alg.G)})
	if err != nil {
		return nil, err
	}

	s := &SRPServer{
		alg:      alg.Clone(),
		verifier: new(big.Int).SetBytes(verifier),
		p:        p,
		gPadded:  gPadded,
	}

	// k = H(p | g)
	k := new(big.Int).SetBytes(srp.H(alg.P, gPadded))

	bBytes := make([]byte, ephemeralLen)
	for {
		if _, err := io.ReadFull(r, bBytes); err != nil {
			return nil, fmt.Errorf("failed to generate random b: %w", err)
		}
		s.b = new(big.Int).SetBytes(bBytes)

		// B = (k*v + g^b) mod p
		B := new(big.Int).Mul(k, s.verifier)
		B.Add(B, srp.ModPow(g, s.b, p))
		B.Mod(B, p)

		if B.Sign() != 0 {
			s.B = B.FillBytes(make([]byte, srp.PrimeLen))
			break
		}
	}
	srp.Wipe(bBytes)

	return s, nil
}

// Verify checks the client's proof for this pending check.
// S = (A * v^u)^b mod p, k_a = H(S) and M1 is recomputed from the public
// values and compared in constant time.
func (s *SRPServer) Verify(check *protocol.InputCheckPasswordSRP) error {
	if s.b == nil {
		return fmt.Errorf("server secret already cleared")
	}

	aPadded, err := srp.PadTo256(check.A)
	if err != nil {
		return fmt.Errorf("invalid A: %w", err)
	}
	A := new(big.Int).SetBytes(aPadded)
	if new(big.Int).Mod(A, s.p).Sign() == 0 {
		return fmt.Errorf("invalid A: A mod p == 0")
	}

	// u = H(A | B)
	u := new(big.Int).SetBytes(srp.H(aPadded, s.B))

	// S = (A * v^u)^b mod p
	S := srp.ModPow(s.verifier, u, s.p)
	S.Mul(S, A)
	S.Mod(S, s.p)
	S = srp.ModPow(S, s.b, s.p)
	defer srp.WipeInt(S)

	sPadded := S.FillBytes(make([]byte, srp.PrimeLen))
	kA := srp.H(sPadded)
	defer srp.Wipe(sPadded, kA)

	pXorG, err := srp.XOR(srp.H(s.alg.P), srp.H(s.gPadded))
	if err != nil {
		return err
	}
	expected := srp.H(pXorG, srp.H(s.alg.Salt1), srp.H(s.alg.Salt2), aPadded, s.B, kA)

	if subtle.ConstantTimeCompare(check.M1, expected) != 1 {
		return errProofMismatch
	}
	return nil
}

// ClearSecrets clears sensitive values from memory.
func (s *SRPServer) ClearSecrets() {
	srp.WipeInt(s.b, s.verifier)
	s.b = nil
}
