package labdup

import (
	"fmt"

	duperrors "github.com/tamirms/labdup/errors"
)

// HashKind identifies the hash function a HashDetector buckets records with.
// The set is closed: every kind is listed by HashKinds.
type HashKind uint8

const (
	// HashPolynomial evaluates the record as a base-31 polynomial mod M.
	HashPolynomial HashKind = iota

	// HashMultiplicative scales the fractional part of sum(record)*phi by M.
	// It ignores value order, so permutations of a record always collide.
	HashMultiplicative

	// HashSHA256 reduces the SHA-256 digest of the dash-joined record mod M.
	HashSHA256

	// HashXXHash64 reduces xxHash64 of the little-endian record encoding.
	HashXXHash64

	// HashXXH3 reduces XXH3-64 of the little-endian record encoding.
	HashXXH3

	// HashMurmur3 reduces MurmurHash3 (x64, low 64 bits) of the
	// little-endian record encoding.
	HashMurmur3

	numHashKinds
)

var hashKindNames = [numHashKinds]string{
	HashPolynomial:     "polynomial",
	HashMultiplicative: "multiplicative",
	HashSHA256:         "sha256",
	HashXXHash64:       "xxhash",
	HashXXH3:           "xxh3",
	HashMurmur3:        "murmur3",
}

// HashKinds returns every supported kind in declaration order.
func HashKinds() []HashKind {
	kinds := make([]HashKind, 0, numHashKinds)
	for k := range numHashKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k HashKind) Valid() bool {
	return k < numHashKinds
}

// String returns the kind's name.
func (k HashKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return hashKindNames[k]
}

// ParseHashKind maps a name as returned by String back to its kind.
func ParseHashKind(name string) (HashKind, error) {
	for k, n := range hashKindNames {
		if n == name {
			return HashKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", duperrors.ErrUnknownHashKind, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k HashKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", duperrors.ErrUnknownHashKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HashKind) UnmarshalText(text []byte) error {
	parsed, err := ParseHashKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
