package srp

import (
	"math/big"
	"runtime"
)

// Wipe overwrites each slice with zeros.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
		runtime.KeepAlive(b)
	}
}

// WipeInt zeroes the words backing each big integer and resets it to 0.
// Nil entries are ignored.
func WipeInt(ints ...*big.Int) {
	for _, n := range ints {
		if n == nil {
			continue
		}
		words := n.Bits()
		clear(words)
		runtime.KeepAlive(words)
		n.SetInt64(0)
	}
}
