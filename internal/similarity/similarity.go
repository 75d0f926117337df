// Package similarity implements the set-similarity measures used to
// score pairs of bit vectors once decoded from their Base64 wire form.
package similarity

import (
	"math"

	"github.com/ul-mds/pprl-go/internal/bitset"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// Fn scores two bitsets in [0, 1].
type Fn func(a, b *bitset.Bitset) float64

// Resolve returns the scoring function for the named measure.
func Resolve(measure model.SimilarityMeasure) (Fn, error) {
	switch measure {
	case model.SimilarityMeasureDice:
		return dice, nil
	case model.SimilarityMeasureCosine:
		return cosine, nil
	case model.SimilarityMeasureJaccard:
		return jaccard, nil
	default:
		return nil, pprlerr.Capability("unimplemented similarity measure `%s`", measure)
	}
}

// dice is 2|A∩B| / (|A|+|B|). Two empty vectors are defined as
// identical (similarity 1) rather than raising a division error,
// matching how an all-zero vector trivially matches another all-zero
// vector under every measure below.
func dice(a, b *bitset.Bitset) float64 {
	ca, cb := a.Popcount(), b.Popcount()
	if ca+cb == 0 {
		return 1
	}
	return 2 * float64(bitset.CountAnd(a, b)) / float64(ca+cb)
}

// cosine is |A∩B| / sqrt(|A|*|B|).
func cosine(a, b *bitset.Bitset) float64 {
	ca, cb := a.Popcount(), b.Popcount()
	if ca == 0 || cb == 0 {
		if ca == 0 && cb == 0 {
			return 1
		}
		return 0
	}
	return float64(bitset.CountAnd(a, b)) / math.Sqrt(float64(ca)*float64(cb))
}

// jaccard is |A∩B| / |A∪B|.
func jaccard(a, b *bitset.Bitset) float64 {
	and := bitset.CountAnd(a, b)
	or := a.Popcount() + b.Popcount() - and
	if or == 0 {
		return 1
	}
	return float64(and) / float64(or)
}
