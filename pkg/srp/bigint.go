package srp

import (
	"fmt"
	"math/big"
)

// ModPow returns base^exponent mod modulus. All operands are treated as unsigned.
func ModPow(base, exponent, modulus *big.Int) *big.Int {
	return new(big.Int).Exp(base, exponent, modulus)
}

// ModSub returns (a - b) mod m in the range [0, m).
func ModSub(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	// big.Int.Mod is Euclidean, so the result is never negative.
	return r.Mod(r, m)
}

// PadTo256 left-pads a big-endian value with zero bytes to exactly 256 bytes.
// The result never aliases the input. Inputs longer than 256 bytes are
// rejected rather than truncated.
func PadTo256(data []byte) ([]byte, error) {
	if len(data) > PrimeLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPaddingOverflow, len(data))
	}
	padded := make([]byte, PrimeLen)
	copy(padded[PrimeLen-len(data):], data)
	return padded, nil
}

// padInt encodes n as a 256-byte big-endian value.
func padInt(n *big.Int) ([]byte, error) {
	if n.BitLen() > PrimeLen*8 {
		return nil, fmt.Errorf("%w: got %d bits", ErrPaddingOverflow, n.BitLen())
	}
	return n.FillBytes(make([]byte, PrimeLen)), nil
}

// XOR returns the byte-wise exclusive or of two equal-length inputs.
func XOR(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

func intFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
