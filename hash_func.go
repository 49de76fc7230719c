package labdup

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	duperrors "github.com/tamirms/labdup/errors"
	intbits "github.com/tamirms/labdup/internal/bits"
)

const (
	polynomialBase = 31

	// knuthA is the fractional part of the golden ratio.
	knuthA = 0.6180339887
)

// hashFunction maps a record to a bucket in [0, tableSize).
//
// Implementations are deterministic and carry no seed. They may keep a
// scratch buffer, so one instance must not be shared between goroutines;
// each Detect call creates its own.
type hashFunction interface {
	Bucket(r Record) uint64
}

// newHashFunction returns the hash function for kind bound to tableSize.
// tableSize must be non-zero.
func newHashFunction(kind HashKind, tableSize uint64) (hashFunction, error) {
	switch kind {
	case HashPolynomial:
		return &polynomialHash{m: tableSize}, nil
	case HashMultiplicative:
		return &multiplicativeHash{m: tableSize}, nil
	case HashSHA256:
		return &sha256Hash{m: tableSize}, nil
	case HashXXHash64:
		return &encodedHash{m: tableSize, sum: xxhash.Sum64}, nil
	case HashXXH3:
		return &encodedHash{m: tableSize, sum: xxh3.Hash}, nil
	case HashMurmur3:
		return &encodedHash{m: tableSize, sum: murmur3.Sum64}, nil
	}
	return nil, fmt.Errorf("%w: %d", duperrors.ErrUnknownHashKind, uint8(kind))
}

type polynomialHash struct {
	m uint64
}

// Bucket accumulates (v+1)*31^i mod M. The +1 keeps leading zeros from
// contributing nothing. v is reduced before the increment so it cannot wrap.
// The running power is reduced mod M at each step.
func (p *polynomialHash) Bucket(r Record) uint64 {
	var h uint64
	pow := uint64(1)
	for _, v := range r {
		h = intbits.MulAddMod(v%p.m+1, pow, h, p.m)
		pow = intbits.MulAddMod(pow, polynomialBase, 0, p.m)
	}
	return h
}

type multiplicativeHash struct {
	m uint64
}

func (h *multiplicativeHash) Bucket(r Record) uint64 {
	// The sum is kept in 128 bits so it rounds to float64 without wrapping.
	var hi, lo, carry uint64
	for _, v := range r {
		lo, carry = bits.Add64(lo, v, 0)
		hi += carry
	}
	sum := float64(hi)*0x1p64 + float64(lo)
	_, frac := math.Modf(sum * knuthA)
	b := uint64(float64(h.m) * frac)
	// frac < 1, but rounding in the product can still land on m.
	if b >= h.m {
		b = h.m - 1
	}
	return b
}

type sha256Hash struct {
	m   uint64
	buf []byte
}

// Bucket hashes the values joined by '-' and reduces the digest, read as a
// big-endian integer, mod M one byte at a time.
func (s *sha256Hash) Bucket(r Record) uint64 {
	s.buf = s.buf[:0]
	for i, v := range r {
		if i > 0 {
			s.buf = append(s.buf, '-')
		}
		s.buf = strconv.AppendUint(s.buf, v, 10)
	}
	digest := sha256.Sum256(s.buf)
	var h uint64
	for _, b := range digest {
		h = intbits.MulAddMod(h, 256, uint64(b), s.m)
	}
	return h
}

// encodedHash hashes the record as consecutive little-endian uint64 values
// and maps the 64-bit result to a bucket with FastRange.
type encodedHash struct {
	m   uint64
	sum func([]byte) uint64
	buf []byte
}

func (e *encodedHash) Bucket(r Record) uint64 {
	e.buf = e.buf[:0]
	for _, v := range r {
		e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	}
	return intbits.FastRange(e.sum(e.buf), e.m)
}
