// Package prime sizes hash tables to prime capacities.
package prime

// IsPrime reports whether k is prime, by trial division up to floor(sqrt(k)).
func IsPrime(k uint64) bool {
	if k < 2 {
		return false
	}
	if k < 4 {
		return true
	}
	if k%2 == 0 {
		return false
	}
	// i <= k/i avoids overflowing i*i near MaxUint64.
	for i := uint64(3); i <= k/i; i += 2 {
		if k%i == 0 {
			return false
		}
	}
	return true
}

// Next returns the smallest prime >= n. Inputs below 2 return 2.
func Next(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	for !IsPrime(n) {
		n++
	}
	return n
}
