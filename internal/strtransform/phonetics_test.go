package strtransform

import (
	"testing"

	"github.com/ul-mds/pprl-go/pkg/model"
)

func TestCologneMatchesKnownVectors(t *testing.T) {
	cases := []struct{ word, want string }{
		{"Müller", "657"},
		{"müller", "657"},
		{"schmidt", "862"},
		{"ph", "3"},
		{"schäfer", "837"},
		{"schÄfer", "837"},
		{"deutsch", "28"},
		{"x", "48"},
		{"h", ""},
		{"ß", "8"},
	}

	for _, c := range cases {
		got, err := cologne(c.word)
		if err != nil {
			t.Fatalf("cologne(%s): %v", c.word, err)
		}
		if got != c.want {
			t.Errorf("cologne(%s) = %q, want %q", c.word, got, c.want)
		}
	}
}

func TestSoundexUSEnglishMatchesKnownVectors(t *testing.T) {
	cases := []struct{ word, want string }{
		{"Robert", "R163"},
		{"Rupert", "R163"},
		{"Ashcraft", "A261"},
		{"Tymczak", "T522"},
		{"Washington", "W252"},
		{"Pfister", "P236"},
	}

	for _, c := range cases {
		got, err := soundexUSEnglish.phonetics(c.word)
		if err != nil {
			t.Fatalf("soundex(%s): %v", c.word, err)
		}
		if got != c.want {
			t.Errorf("soundex(%s) = %q, want %q", c.word, got, c.want)
		}
	}
}

func TestPhoneticCodeRejectsUnimplementedAlgorithms(t *testing.T) {
	for _, alg := range []model.PhoneticCodeAlgorithm{
		model.PhoneticAlgorithmMetaphone,
		model.PhoneticAlgorithmRefinedSoundex,
		model.PhoneticAlgorithmFuzzySoundex,
	} {
		if _, err := PhoneticCode(alg); err == nil {
			t.Errorf("expected capability error for %s", alg)
		}
	}
}

func TestPhoneticCodeResolvesImplementedAlgorithms(t *testing.T) {
	for _, alg := range []model.PhoneticCodeAlgorithm{
		model.PhoneticAlgorithmCologne,
		model.PhoneticAlgorithmSoundex,
	} {
		if _, err := PhoneticCode(alg); err != nil {
			t.Errorf("PhoneticCode(%s): %v", alg, err)
		}
	}
}
