package bitset

import "testing"

func TestSetTestBit(t *testing.T) {
	b := New(10)

	for _, i := range []int64{0, 3, 9, 10, 20, -1, -11} {
		b2 := New(10)
		b2.Set(i)
		if !b2.Test(i) {
			t.Errorf("Set(%d) then Test(%d) should be true", i, i)
		}
	}

	_ = b
}

func TestSetBitModularWrap(t *testing.T) {
	n := 10
	b1 := New(n)
	b1.Set(23)

	b2 := New(n)
	b2.Set(23 % int64(n))

	if b1.Bytes()[0] != b2.Bytes()[0] {
		t.Errorf("Set(23) should equal Set(23 mod 10)")
	}
}

func TestSetBitNegativeFlipsBits(t *testing.T) {
	n := 10
	b1 := New(n)
	b1.Set(-1)

	b2 := New(n)
	// ^(-1) == 0
	b2.Set(0 % int64(n))

	if b1.Bytes()[0] != b2.Bytes()[0] {
		t.Errorf("Set(-1) should equal Set(^(-1) mod n) == Set(0)")
	}
}

func TestBase64RoundTrip(t *testing.T) {
	b := New(16)
	b.Set(0)
	b.Set(15)

	s := ToBase64(b)
	decoded, err := FromBase64(s)
	if err != nil {
		t.Fatalf("FromBase64: %v", err)
	}

	if decoded.Len() != b.Len() {
		t.Fatalf("round-tripped length = %d, want %d", decoded.Len(), b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		if decoded.Get(i) != b.Get(i) {
			t.Errorf("bit %d mismatch after round trip", i)
		}
	}
}

func TestOptimalSize(t *testing.T) {
	size, err := OptimalSize(0.5, 10)
	if err != nil {
		t.Fatalf("OptimalSize: %v", err)
	}
	if size <= 0 {
		t.Errorf("OptimalSize(0.5, 10) = %d, want > 0", size)
	}
}

func TestOptimalSizeRejectsInvalidInput(t *testing.T) {
	if _, err := OptimalSize(0.5, 0); err == nil {
		t.Error("expected error for n <= 0")
	}
	if _, err := OptimalSize(0.5, -1); err == nil {
		t.Error("expected error for n <= 0")
	}
	if _, err := OptimalSize(1, 10); err == nil {
		t.Error("expected error for p >= 1")
	}
	if _, err := OptimalSize(-0.1, 10); err == nil {
		t.Error("expected error for p < 0")
	}
}

func TestCountAnd(t *testing.T) {
	x := New(40)
	for i := 0; i < 40; i++ {
		x.SetAt(i, true)
	}

	y := New(40)
	for i := 0; i < 10; i++ {
		y.SetAt(i, true)
	}

	if got := CountAnd(x, y); got != 10 {
		t.Errorf("CountAnd = %d, want 10", got)
	}
}

func TestPopcount(t *testing.T) {
	b := New(40)
	for i := 0; i < 10; i++ {
		b.SetAt(i, true)
	}
	if got := b.Popcount(); got != 10 {
		t.Errorf("Popcount = %d, want 10", got)
	}
}
