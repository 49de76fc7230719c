// Package bits provides the 64-bit arithmetic used to map hashes to buckets.
package bits

import "math/bits"

// FastRange maps a 64-bit hash uniformly to [0, n) by taking the high word
// of hash*n. It avoids the division of a modulo reduction and is the right
// choice when the hash is already well mixed.
func FastRange(hash uint64, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, n)
	return hi
}

// MulAddMod returns (a*b + c) mod m using a 128-bit intermediate, so the
// result is exact for any 64-bit operands. m must be non-zero.
func MulAddMod(a, b, c, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	var carry uint64
	lo, carry = bits.Add64(lo, c, 0)
	hi += carry
	// Div64 panics unless hi < m; reducing hi first keeps the value congruent.
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}
