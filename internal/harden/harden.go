// Package harden implements the six bitset-hardening transforms that
// can be chained, in configured order, onto a finished mask filter to
// diffuse its statistical structure.
package harden

import (
	"encoding/binary"
	"math/rand"

	"github.com/ul-mds/pprl-go/internal/bitset"
)

// Fn hardens a bitset, returning a new one. Implementations never
// mutate their input.
type Fn func(*bitset.Bitset) *bitset.Bitset

// Balance appends the bitwise complement of the input, doubling its
// length and fixing popcount at exactly half the new length.
func Balance() Fn {
	return func(ba *bitset.Bitset) *bitset.Bitset {
		n := ba.Len()
		out := bitset.New(2 * n)
		for i := 0; i < n; i++ {
			out.SetAt(i, ba.Get(i))
			out.SetAt(n+i, !ba.Get(i))
		}
		return out
	}
}

// XORFold splits the bitset into two equal halves and merges them with
// a bitwise XOR. An odd-length input gets one zero bit appended first.
func XORFold() Fn {
	return func(ba *bitset.Bitset) *bitset.Bitset {
		n := ba.Len()
		get := func(pos int) bool {
			if pos >= n {
				return false
			}
			return ba.Get(pos)
		}

		effLen := n
		if effLen&1 == 1 {
			effLen++
		}
		m := effLen / 2

		out := bitset.New(m)
		for i := 0; i < m; i++ {
			out.SetAt(i, get(i) != get(m+i))
		}
		return out
	}
}

// Permute randomly shuffles the bits of the input via a Fisher-Yates
// shuffle seeded deterministically from seed.
func Permute(seed int64) Fn {
	return func(ba *bitset.Bitset) *bitset.Bitset {
		out := ba.Clone()
		rng := rand.New(rand.NewSource(seed))

		for i := out.Len() - 1; i > 0; i-- {
			j := rng.Intn(i)
			bi, bj := out.Get(i), out.Get(j)
			out.SetAt(i, bj)
			out.SetAt(j, bi)
		}
		return out
	}
}

// Rule90 sets every output bit to the XOR of its left and right
// neighbor in the cyclically extended input (index -1 wraps to the
// last bit, index len wraps to the first).
func Rule90() Fn {
	return func(ba *bitset.Bitset) *bitset.Bitset {
		n := ba.Len()
		out := bitset.New(n)
		for i := 0; i < n; i++ {
			left := ba.Get((i - 1 + n) % n)
			right := ba.Get((i + 1) % n)
			out.SetAt(i, left != right)
		}
		return out
	}
}

// RandomizedResponse flips each bit to a fresh Bernoulli(1/2) draw with
// probability p, leaving it unmodified the rest of the time.
func RandomizedResponse(probability float64, seed int64) Fn {
	pHalf := probability / 2

	return func(ba *bitset.Bitset) *bitset.Bitset {
		out := ba.Clone()
		rng := rand.New(rand.NewSource(seed))

		for i := 0; i < out.Len(); i++ {
			d := rng.Float64()
			if d > probability {
				continue
			}
			out.SetAt(i, d < pHalf)
		}
		return out
	}
}

// Rehash slides a window across the input, uses its bits as a PRNG
// seed, and sets samples randomly chosen bits per window in a copy of
// the input. Windows accumulate: bits are only ever set, never
// cleared, and every window reads from the original input regardless
// of what earlier windows have set.
func Rehash(windowSize, windowStep, samples int) Fn {
	return func(ba *bitset.Bitset) *bitset.Bitset {
		out := ba.Clone()
		n := ba.Len()

		for start := 0; start <= n-windowSize; start += windowStep {
			seed := windowSeed(ba, start, windowSize)
			rng := rand.New(rand.NewSource(int64(seed)))

			for i := 0; i < samples; i++ {
				out.SetAt(rng.Intn(n), true)
			}
		}

		return out
	}
}

// windowSeed reads `size` bits starting at `start` as little-endian
// packed bytes, zero-pads them to 4 bytes, and interprets the result
// as a signed 32-bit little-endian integer.
func windowSeed(ba *bitset.Bitset, start, size int) int32 {
	nBytes := (size + 7) / 8
	buf := make([]byte, nBytes)
	for b := 0; b < size; b++ {
		if ba.Get(start + b) {
			buf[b/8] |= 1 << uint(b%8)
		}
	}

	padded := make([]byte, 4)
	copy(padded, buf)

	return int32(binary.LittleEndian.Uint32(padded))
}
