package mask

import (
	"strings"
	"testing"

	"github.com/ul-mds/pprl-go/internal/bitset"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

func clkConfig() model.MaskConfig {
	return model.MaskConfig{
		TokenSize: 2,
		Hash: model.HashConfig{
			Function: model.HashFunction{Algorithms: []model.HashAlgorithm{model.HashAlgorithmSHA1}},
			Strategy: model.HashStrategy{Name: model.HashStrategyDoubleHash},
		},
		Filter:  model.Filter{Type: model.FilterTypeCLK, FilterSize: 512, HashValues: 5},
		Padding: "_",
	}
}

func TestMaskCLKIsDeterministicForSameInput(t *testing.T) {
	req := model.EntityMaskRequest{
		Config: clkConfig(),
		Entities: []model.AttributeValueEntity{
			{ID: "1", Attributes: map[string]string{"name": "john"}},
		},
	}

	a, err := Mask(req)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	b, err := Mask(req)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if a.Entities[0].Value != b.Entities[0].Value {
		t.Error("masking the same input twice should produce the same bit vector")
	}
}

func TestMaskCLKRejectsEmptyTokenSet(t *testing.T) {
	req := model.EntityMaskRequest{
		Config: clkConfig(),
		Entities: []model.AttributeValueEntity{
			{ID: "abc", Attributes: map[string]string{"gender": "m"}},
		},
	}
	req.Config.Padding = ""

	_, err := Mask(req)
	if err == nil {
		t.Fatal("expected error for value too short to tokenize without padding")
	}
	pe, ok := pprlerr.As(err)
	if !ok || pe.Kind != pprlerr.KindValue {
		t.Fatalf("expected KindValue, got %v", err)
	}
	if !strings.Contains(err.Error(), "did not produce any tokens") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestMaskRejectsUnimplementedFilterType(t *testing.T) {
	req := model.EntityMaskRequest{
		Config: model.MaskConfig{
			Filter: model.Filter{Type: "bloom9000"},
		},
	}

	_, err := Mask(req)
	if err == nil {
		t.Fatal("expected capability error")
	}
	pe, ok := pprlerr.As(err)
	if !ok || pe.Kind != pprlerr.KindCapability {
		t.Fatalf("expected KindCapability, got %v", err)
	}
}

func TestMaskCLKRBFScalesHashValuesByWeight(t *testing.T) {
	cfg := clkConfig()
	cfg.Filter = model.Filter{Type: model.FilterTypeCLKRBF, HashValues: 5}

	req := model.EntityMaskRequest{
		Config: cfg,
		Entities: []model.AttributeValueEntity{
			{ID: "1", Attributes: map[string]string{"first": "john", "last": "doe"}},
		},
		Attributes: []model.AttributeConfig{
			{AttributeName: "first", Weight: 1, AverageTokenCount: 5},
			{AttributeName: "last", Weight: 2, AverageTokenCount: 5},
		},
	}

	resp, err := Mask(req)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if len(resp.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(resp.Entities))
	}

	// "first" keeps 5 hash values and "last", at twice the minimum
	// weight, gets 10, so the filter is sized for 5*5 + 10*5 insertions.
	wantSize, err := bitset.OptimalSize(0.5, 5*5+10*5)
	if err != nil {
		t.Fatalf("OptimalSize: %v", err)
	}
	ba, err := bitset.FromBase64(resp.Entities[0].Value)
	if err != nil {
		t.Fatalf("FromBase64: %v", err)
	}
	if got, want := len(ba.Bytes()), (wantSize+7)/8; got != want {
		t.Errorf("filter has %d bytes, want %d", got, want)
	}
}

func TestMaskRBFProducesOneBitVectorPerEntity(t *testing.T) {
	cfg := clkConfig()
	cfg.Filter = model.Filter{Type: model.FilterTypeRBF, HashValues: 5, Seed: 727}

	req := model.EntityMaskRequest{
		Config: cfg,
		Entities: []model.AttributeValueEntity{
			{ID: "1", Attributes: map[string]string{"first": "john", "last": "doe"}},
			{ID: "2", Attributes: map[string]string{"first": "jane", "last": "roe"}},
		},
		Attributes: []model.AttributeConfig{
			{AttributeName: "first", Weight: 1, AverageTokenCount: 5},
			{AttributeName: "last", Weight: 1, AverageTokenCount: 5},
		},
	}

	resp, err := Mask(req)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if len(resp.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(resp.Entities))
	}
	if resp.Entities[0].Value == "" || resp.Entities[1].Value == "" {
		t.Error("expected non-empty bit vector values")
	}
}

func TestMaskAppliesHardenerChain(t *testing.T) {
	cfg := clkConfig()
	cfg.Hardeners = []model.Hardener{{Name: model.HardenerBalance}}

	req := model.EntityMaskRequest{
		Config: cfg,
		Entities: []model.AttributeValueEntity{
			{ID: "1", Attributes: map[string]string{"name": "john"}},
		},
	}

	resp, err := Mask(req)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if resp.Entities[0].Value == "" {
		t.Fatal("expected non-empty bit vector value")
	}

	// balance doubles the 512-bit CLK filter to 1024 bits.
	ba, err := bitset.FromBase64(resp.Entities[0].Value)
	if err != nil {
		t.Fatalf("FromBase64: %v", err)
	}
	if ba.Len() != 1024 {
		t.Errorf("expected hardened length 1024, got %d", ba.Len())
	}
}
