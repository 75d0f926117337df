package harden

import (
	"testing"

	"github.com/ul-mds/pprl-go/internal/bitset"
)

func bitsFromString(s string) *bitset.Bitset {
	ba := bitset.New(len(s))
	for i, c := range s {
		if c == '1' {
			ba.SetAt(i, true)
		}
	}
	return ba
}

func stringFromBits(ba *bitset.Bitset) string {
	out := make([]byte, ba.Len())
	for i := 0; i < ba.Len(); i++ {
		if ba.Get(i) {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

func TestRule90MatchesVectors(t *testing.T) {
	cases := []struct{ in, want string }{
		{"10010", "01100"},
		{"0110101", "0110000"},
	}

	fn := Rule90()
	for _, c := range cases {
		got := stringFromBits(fn(bitsFromString(c.in)))
		if got != c.want {
			t.Errorf("Rule90(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestBalanceDoublesLengthAndAppendsComplement(t *testing.T) {
	in := bitsFromString("1010")
	out := Balance()(in)

	if out.Len() != 8 {
		t.Fatalf("expected length 8, got %d", out.Len())
	}
	got := stringFromBits(out)
	if got != "10100101" {
		t.Errorf("Balance(1010) = %s, want 10100101", got)
	}
	if out.Popcount() != out.Len()/2 {
		t.Errorf("balanced popcount should be exactly half the length")
	}
}

func TestXORFoldEvenLength(t *testing.T) {
	in := bitsFromString("11001010")
	out := XORFold()(in)

	if out.Len() != 4 {
		t.Fatalf("expected length 4, got %d", out.Len())
	}
	if got := stringFromBits(out); got != "0110" {
		t.Errorf("XORFold(11001010) = %s, want 0110", got)
	}
}

func TestXORFoldOddLengthPadsWithZero(t *testing.T) {
	in := bitsFromString("101")
	out := XORFold()(in)

	if out.Len() != 2 {
		t.Fatalf("expected length 2, got %d", out.Len())
	}
	if got := stringFromBits(out); got != "00" {
		t.Errorf("XORFold(101) = %s, want 00", got)
	}
}

func TestPermutePreservesPopcount(t *testing.T) {
	in := bitsFromString("1100110011")
	out := Permute(42)(in)

	if out.Len() != in.Len() {
		t.Fatalf("permute must not change length")
	}
	if out.Popcount() != in.Popcount() {
		t.Errorf("permute must preserve popcount, got %d want %d", out.Popcount(), in.Popcount())
	}
}

func TestPermuteIsDeterministicForSameSeed(t *testing.T) {
	in := bitsFromString("110010011101")
	a := Permute(7)(in)
	b := Permute(7)(in)

	if stringFromBits(a) != stringFromBits(b) {
		t.Error("same seed should produce same permutation")
	}
}

func TestRandomizedResponseZeroProbabilityIsIdentity(t *testing.T) {
	in := bitsFromString("110010011101")
	out := RandomizedResponse(0, 1)(in)

	if stringFromBits(out) != stringFromBits(in) {
		t.Error("probability 0 should never flip a bit")
	}
}

func TestRandomizedResponseIsDeterministicForSameSeed(t *testing.T) {
	in := bitsFromString("1100100111010110")
	a := RandomizedResponse(0.3, 99)(in)
	b := RandomizedResponse(0.3, 99)(in)

	if stringFromBits(a) != stringFromBits(b) {
		t.Error("same seed should produce same randomized response output")
	}
}

func TestRehashOnlySetsBitsNeverClears(t *testing.T) {
	in := bitsFromString("1111000011110000111100001111000011110000")
	out := Rehash(8, 4, 2)(in)

	for i := 0; i < in.Len(); i++ {
		if in.Get(i) && !out.Get(i) {
			t.Fatalf("rehash cleared bit %d that was set in the input", i)
		}
	}
}

func TestRehashIsDeterministicForSameInput(t *testing.T) {
	in := bitsFromString("1111000011110000111100001111000011110000")
	a := Rehash(8, 4, 2)(in)
	b := Rehash(8, 4, 2)(in)

	if stringFromBits(a) != stringFromBits(b) {
		t.Error("rehash should be deterministic for identical input")
	}
}
