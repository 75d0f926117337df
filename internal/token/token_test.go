package token

import (
	"sort"
	"testing"
)

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestTokenizeFoobar(t *testing.T) {
	got := Tokenize("foobar", 2, "_")
	want := map[string]struct{}{
		"_f": {}, "fo": {}, "oo": {}, "ob": {}, "ba": {}, "ar": {}, "r_": {},
	}

	if len(got) != len(want) {
		t.Fatalf("Tokenize(foobar, 2, _) = %v, want %v", keys(got), keys(want))
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("missing token %q", k)
		}
	}
}

func TestTokenizeEmptyValueEmptyPadding(t *testing.T) {
	got := Tokenize("", 2, "")
	if len(got) != 0 {
		t.Errorf("Tokenize(\"\", 2, \"\") = %v, want empty set", keys(got))
	}
}

func TestTokenizeUniquenessBySetSemantics(t *testing.T) {
	got := Tokenize("aaaa", 2, "")
	if len(got) != 1 {
		t.Errorf("Tokenize(aaaa, 2, \"\") = %v, want single distinct token", keys(got))
	}
}

func TestDestructureDigest(t *testing.T) {
	digest := []byte{
		0x01, 0x01, 0x01, 0x01,
		0x23, 0x23, 0x23, 0x23,
		0x45, 0x45, 0x45, 0x45,
		0x67, 0x67, 0x67, 0x67,
	}

	i0, i1, i2, i3 := DestructureDigest(digest)

	if i0 != 0x01010101 {
		t.Errorf("i0 = %#x, want 0x01010101", i0)
	}
	if i1 != 0x23232323 {
		t.Errorf("i1 = %#x, want 0x23232323", i1)
	}
	if i2 != 0x45454545 {
		t.Errorf("i2 = %#x, want 0x45454545", i2)
	}
	if i3 != 0x67676767 {
		t.Errorf("i3 = %#x, want 0x67676767", i3)
	}
}
