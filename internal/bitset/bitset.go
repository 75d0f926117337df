// Package bitset implements the bit-level primitives the mask engine
// is built on: a fixed-length, byte-packed bitset addressed with
// modular wraparound, a base64 codec over its packed bytes, and the
// optimal-size formula used to size CLKRBF and RBF filters.
package bitset

import (
	"encoding/base64"
	"fmt"
	"math"
)

// Bitset is a fixed-length sequence of bits packed little-endian into
// bytes: bit i lives at byte i/8, bit position i%8 (least significant
// bit first).
type Bitset struct {
	data []byte
	n    int
}

// New allocates a zeroed Bitset of n bits. n must be positive.
func New(n int) *Bitset {
	if n <= 0 {
		panic(fmt.Sprintf("bitset: length must be positive, got %d", n))
	}
	return &Bitset{data: make([]byte, (n+7)/8), n: n}
}

// FromBytes wraps raw packed bytes as a Bitset of len(b)*8 bits. The
// slice is used directly, not copied.
func FromBytes(b []byte) *Bitset {
	return &Bitset{data: b, n: len(b) * 8}
}

// Len returns the number of bits in the set.
func (b *Bitset) Len() int {
	return b.n
}

// Bytes returns the packed backing bytes (length ceil(Len()/8)).
func (b *Bitset) Bytes() []byte {
	return b.data
}

// index converts an arbitrary integer into a valid bit position by
// flipping all bits of negative values (Go's ^i, equivalent to
// Python's ~i for an unbounded integer) and reducing modulo the
// bitset's length.
func index(i int64, n int) int {
	if i < 0 {
		i = ^i
	}
	return int(i % int64(n))
}

// Set sets the bit addressed by i, wrapping i into range per index.
func (b *Bitset) Set(i int64) {
	idx := index(i, b.n)
	b.data[idx/8] |= 1 << uint(idx%8)
}

// Test reports whether the bit addressed by i is set, wrapping i into
// range per index.
func (b *Bitset) Test(i int64) bool {
	idx := index(i, b.n)
	return b.data[idx/8]&(1<<uint(idx%8)) != 0
}

// Get reports the bit at an already-in-range position (no wraparound).
func (b *Bitset) Get(pos int) bool {
	return b.data[pos/8]&(1<<uint(pos%8)) != 0
}

// SetAt sets or clears the bit at an already-in-range position (no
// wraparound).
func (b *Bitset) SetAt(pos int, v bool) {
	if v {
		b.data[pos/8] |= 1 << uint(pos%8)
	} else {
		b.data[pos/8] &^= 1 << uint(pos%8)
	}
}

// Clone returns an independent copy of b.
func (b *Bitset) Clone() *Bitset {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Bitset{data: data, n: b.n}
}

// Popcount returns the number of set bits, ignoring any padding bits
// beyond Len() in the final byte.
func (b *Bitset) Popcount() int {
	count := 0
	for i := 0; i < b.n; i++ {
		if b.Get(i) {
			count++
		}
	}
	return count
}

// CountAnd returns the popcount of the bitwise AND of a and b over
// their shared prefix (min of the two lengths) — bits beyond the
// shorter bitset's length are treated as unset.
func CountAnd(a, b *Bitset) int {
	n := a.n
	if b.n < n {
		n = b.n
	}
	count := 0
	for i := 0; i < n; i++ {
		if a.Get(i) && b.Get(i) {
			count++
		}
	}
	return count
}

// ToBase64 encodes the packed bytes of b as standard base64.
func ToBase64(b *Bitset) string {
	return base64.StdEncoding.EncodeToString(b.data)
}

// FromBase64 decodes a base64 string into a Bitset whose length is the
// decoded byte count times 8 (truncated to byte granularity, as the
// encoding carries no separate bit-length field).
func FromBase64(s string) (*Bitset, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return FromBytes(raw), nil
}

// OptimalSize computes the smallest bitset length such that a fraction
// p of all bits are expected to be set after n independent random
// insertions.
func OptimalSize(p float64, n float64) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("amount of expected insertions must be positive, is %v", n)
	}
	if p < 0 || p >= 1 {
		return 0, fmt.Errorf("percentage of set bits must be in range of [0,1), is %v", p)
	}
	return int(math.Ceil(1 / (1 - math.Pow(p, 1/n)))), nil
}
