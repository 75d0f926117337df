package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"testing"

	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

func TestResolvePlainSingleStage(t *testing.T) {
	fn, err := Resolve(model.HashFunction{Algorithms: []model.HashAlgorithm{model.HashAlgorithmMD5}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := md5.Sum([]byte("hello"))
	got := fn([]byte("hello"))

	if string(got) != string(want[:]) {
		t.Errorf("digest mismatch")
	}
}

func TestResolveChainsMultipleStages(t *testing.T) {
	fn, err := Resolve(model.HashFunction{
		Algorithms: []model.HashAlgorithm{model.HashAlgorithmMD5, model.HashAlgorithmSHA256},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	mid := md5.Sum([]byte("hello"))
	want := sha256.Sum256(mid[:])
	got := fn([]byte("hello"))

	if string(got) != string(want[:]) {
		t.Errorf("chained digest mismatch")
	}
}

func TestResolveRejectsUnimplementedAlgorithm(t *testing.T) {
	_, err := Resolve(model.HashFunction{Algorithms: []model.HashAlgorithm{"blake2b"}})
	if err == nil {
		t.Fatal("expected error for unimplemented algorithm")
	}
	pe, ok := pprlerr.As(err)
	if !ok || pe.Kind != pprlerr.KindCapability {
		t.Errorf("expected KindCapability, got %v", err)
	}
}

func TestResolveHMACKeyedChain(t *testing.T) {
	key := "s3cr3t"
	fn, err := Resolve(model.HashFunction{
		Algorithms: []model.HashAlgorithm{model.HashAlgorithmSHA256},
		Key:        &key,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	a := fn([]byte("hello"))
	b := fn([]byte("hello"))

	if string(a) != string(b) {
		t.Error("HMAC digest should be deterministic for identical input")
	}

	plain, _ := Resolve(model.HashFunction{Algorithms: []model.HashAlgorithm{model.HashAlgorithmSHA256}})
	if string(plain([]byte("hello"))) == string(a) {
		t.Error("HMAC digest should differ from plain digest")
	}
}
