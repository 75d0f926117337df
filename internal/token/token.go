// Package token implements q-gram tokenization of attribute values and
// extraction of the four little-endian integers a hash digest is
// destructured into for the bit-setting strategies in internal/strategy.
package token

import "encoding/binary"

// Tokenize splits value into the set of distinct length-q substrings
// of padding^(q-1) + value + padding^(q-1). Uniqueness is guaranteed
// by set semantics: a repeated substring only appears once.
func Tokenize(value string, q int, padding string) map[string]struct{} {
	pad := ""
	for i := 0; i < q-1; i++ {
		pad += padding
	}

	padded := pad + value + pad
	tokens := make(map[string]struct{})

	runes := []rune(padded)
	for i := 0; i+q <= len(runes); i++ {
		tokens[string(runes[i:i+q])] = struct{}{}
	}

	return tokens
}

// DestructureDigest reads bytes 0..16 of digest as four little-endian
// signed 32-bit integers.
func DestructureDigest(digest []byte) (i0, i1, i2, i3 int32) {
	i0 = int32(binary.LittleEndian.Uint32(digest[0:4]))
	i1 = int32(binary.LittleEndian.Uint32(digest[4:8]))
	i2 = int32(binary.LittleEndian.Uint32(digest[8:12]))
	i3 = int32(binary.LittleEndian.Uint32(digest[12:16]))
	return
}
