package srp

import (
	"fmt"
	"math/big"
)

// Proof is the client's answer to a password check: the proof M1 and the
// ephemeral public value A = g^a mod p, padded to 256 bytes.
type Proof struct {
	M1 []byte
	A  []byte
}

// Calculate2FA computes the login proof for password against the server's
// parameters. a is the client's ephemeral secret; the caller is responsible
// for its freshness. The result depends only on the inputs.
//
// The group (g, p) is not validated here; run GroupChecker.Check first.
func Calculate2FA(salt1, salt2 []byte, g int32, p, gB, a, password []byte) (*Proof, error) {
	if len(p) != PrimeLen {
		return nil, fmt.Errorf("%w: modulus is %d bytes, want %d", ErrInvalidGroupParameters, len(p), PrimeLen)
	}
	if g <= 0 || g > 0xff {
		return nil, fmt.Errorf("%w: %w: g=%d", ErrInvalidGroupParameters, ErrUnsupportedGenerator, g)
	}
	if len(gB) == 0 {
		return nil, fmt.Errorf("%w: g_b", ErrMissingServerValue)
	}
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: ephemeral secret a", ErrMissingServerValue)
	}

	bigP := intFromBytes(p)
	if bigP.Bit(0) == 0 || bigP.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and at least 3", ErrInvalidGroupParameters)
	}
	bigG := big.NewInt(int64(g))

	gBPadded, err := PadTo256(gB)
	if err != nil {
		return nil, fmt.Errorf("g_b: %w", err)
	}
	bigGB := intFromBytes(gBPadded)
	if new(big.Int).Mod(bigGB, bigP).Sign() == 0 {
		return nil, ErrInvalidServerEphemeral
	}

	aPadded, err := PadTo256(a)
	if err != nil {
		return nil, fmt.Errorf("ephemeral secret: %w", err)
	}
	bigA := intFromBytes(aPadded)
	Wipe(aPadded)

	gForHash := make([]byte, PrimeLen)
	gForHash[PrimeLen-1] = byte(g)

	// k := H(p | g)
	bigK := intFromBytes(H(p, gForHash))

	// g_a := pow(g, a) mod p
	gA, err := padInt(ModPow(bigG, bigA, bigP))
	if err != nil {
		return nil, err
	}

	// u := H(g_a | g_b)
	u := intFromBytes(H(gA, gBPadded))

	// x := PH2(password, salt1, salt2)
	xBytes := PH2(password, salt1, salt2)
	x := intFromBytes(xBytes)
	Wipe(xBytes)

	// v := pow(g, x) mod p
	v := ModPow(bigG, x, bigP)

	// k_v := (k * v) mod p
	kv := new(big.Int).Mul(bigK, v)
	kv.Mod(kv, bigP)

	// t := (g_b - k_v) mod p
	t := ModSub(bigGB, kv, bigP)

	// s_a := pow(t, a + u * x) mod p
	exponent := new(big.Int).Mul(u, x)
	exponent.Add(exponent, bigA)
	sA := ModPow(t, exponent, bigP)
	defer WipeInt(bigA, x, v, kv, t, exponent, sA)

	sAPadded, err := padInt(sA)
	if err != nil {
		return nil, err
	}

	// k_a := H(s_a)
	kA := H(sAPadded)
	defer Wipe(sAPadded, kA)

	// M1 := H(H(p) xor H(g) | H(salt1) | H(salt2) | g_a | g_b | k_a)
	pXorG, err := XOR(H(p), H(gForHash))
	if err != nil {
		return nil, err
	}
	m1 := H(pXorG, H(salt1), H(salt2), gA, gBPadded, kA)

	return &Proof{M1: m1, A: gA}, nil
}
