// Package strategy implements the four hash-strategy bit setters that
// turn a token's destructured digest into k set bits in a filter.
//
// Index arithmetic is carried out in int64, not wrapped to 32 bits:
// the reference implementation computes these indices with Python's
// arbitrary-precision integers and only reduces modulo the filter
// size at the very end (see internal/bitset's wraparound semantics).
// For the hash-value counts used in practice (low hundreds at most),
// i*h2 and similar terms stay comfortably within int64, so computing
// in int64 reproduces the same exact integer the reference
// implementation would before reduction — no separate 32-bit wrapping
// step is needed or desired.
package strategy

import (
	"math/rand"

	"github.com/ul-mds/pprl-go/internal/bitset"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// Digest bundles the four integers a token's digest is destructured
// into.
type Digest struct {
	I0, I1, I2, I3 int32
}

// Apply sets k bits in ba according to the named strategy, using the
// digest's four destructured integers as hash values.
func Apply(ba *bitset.Bitset, name model.HashStrategyName, k int, d Digest) error {
	switch name {
	case model.HashStrategyDoubleHash:
		doubleHash(ba, k, int64(d.I0^d.I1), int64(d.I2^d.I3))
	case model.HashStrategyEnhancedDoubleHash:
		enhancedDoubleHash(ba, k, int64(d.I0^d.I1), int64(d.I2^d.I3))
	case model.HashStrategyTripleHash:
		tripleHash(ba, k, int64(d.I0), int64(d.I1), int64(d.I2^d.I3))
	case model.HashStrategyRandomHash:
		randomHash(ba, k, int64(d.I0^d.I1^d.I2^d.I3))
	default:
		return pprlerr.Capability("unimplemented hash strategy `%s`", name)
	}
	return nil
}

func doubleHash(ba *bitset.Bitset, k int, h1, h2 int64) {
	for i := int64(1); i <= int64(k); i++ {
		ba.Set(h1 + i*h2)
	}
}

func enhancedDoubleHash(ba *bitset.Bitset, k int, h1, h2 int64) {
	for i := int64(1); i <= int64(k); i++ {
		ba.Set(h1 + i*h2 + (i*i*i-i)/6)
	}
}

func tripleHash(ba *bitset.Bitset, k int, h1, h2, h3 int64) {
	for i := int64(1); i <= int64(k); i++ {
		ba.Set(h1 + i*h2 + h3*(i*(i-1)/2))
	}
}

func randomHash(ba *bitset.Bitset, k int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < k; i++ {
		ba.Set(int64(rng.Intn(ba.Len())))
	}
}
