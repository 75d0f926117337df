// Package mask runs the mask engine: CLK, RBF and CLKRBF filter
// construction from tokenized, salted, hashed attribute values,
// followed by the configured hardener chain.
package mask

import (
	"math"
	"math/rand"
	"sort"

	"github.com/ul-mds/pprl-go/internal/bitset"
	"github.com/ul-mds/pprl-go/internal/digest"
	"github.com/ul-mds/pprl-go/internal/harden"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/internal/strategy"
	"github.com/ul-mds/pprl-go/internal/token"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// resolveHardeners composes a MaskConfig's hardener list into a single
// chained function.
func resolveHardeners(hardeners []model.Hardener) (harden.Fn, error) {
	fns := make([]harden.Fn, 0, len(hardeners))

	for _, h := range hardeners {
		var fn harden.Fn

		switch h.Name {
		case model.HardenerBalance:
			fn = harden.Balance()
		case model.HardenerXORFold:
			fn = harden.XORFold()
		case model.HardenerPermute:
			fn = harden.Permute(h.Seed)
		case model.HardenerRandomizedResponse:
			fn = harden.RandomizedResponse(h.Probability, h.Seed)
		case model.HardenerRule90:
			fn = harden.Rule90()
		case model.HardenerRehash:
			fn = harden.Rehash(h.WindowSize, h.WindowStep, h.Samples)
		default:
			return nil, pprlerr.Capability("unimplemented hardener `%s`", h.Name)
		}

		fns = append(fns, fn)
	}

	return func(ba *bitset.Bitset) *bitset.Bitset {
		for _, fn := range fns {
			ba = fn(ba)
		}
		return ba
	}, nil
}

func attributeConfigsByName(attrs []model.AttributeConfig) map[string]model.AttributeConfig {
	out := make(map[string]model.AttributeConfig, len(attrs))
	for _, a := range attrs {
		out[a.AttributeName] = a
	}
	return out
}

// resolveSalt returns the literal or cross-attribute salt value
// configured for an attribute, or "" if none is configured.
func resolveSalt(entity model.AttributeValueEntity, attrConf model.AttributeConfig, hasConf bool) string {
	if !hasConf || attrConf.Salt == nil {
		return ""
	}
	if attrConf.Salt.Value != nil {
		return *attrConf.Salt.Value
	}
	return entity.Attributes[*attrConf.Salt.Attribute]
}

// populate tokenizes value, hashes each (optionally attribute-name
// prefixed and salted) token and sets hashValues bits per token in ba.
// It reports an error if the value produces no tokens at all.
func populate(
	ba *bitset.Bitset,
	entityID, attrName, value, salt string,
	tokenSize int,
	padding string,
	prependAttrName bool,
	hashFn digest.Fn,
	strategyName model.HashStrategyName,
	hashValues int,
) error {
	tokens := token.Tokenize(value, tokenSize, padding)
	if len(tokens) == 0 {
		return pprlerr.Value(
			"value for `%s` on entity with ID `%s` did not produce any tokens - decrease the token size or add sufficient padding",
			attrName, entityID,
		)
	}

	for t := range tokens {
		if prependAttrName {
			t = attrName + t
		}

		digestBytes := hashFn([]byte(salt + t))
		i0, i1, i2, i3 := token.DestructureDigest(digestBytes)
		d := strategy.Digest{I0: i0, I1: i1, I2: i2, I3: i3}

		if err := strategy.Apply(ba, strategyName, hashValues, d); err != nil {
			return err
		}
	}

	return nil
}

// Mask runs the configured filter scheme over every entity and
// applies the configured hardener chain to each resulting bitset.
func Mask(req model.EntityMaskRequest) (model.EntityMaskResponse, error) {
	hashFn, err := digest.Resolve(req.Config.Hash.Function)
	if err != nil {
		return model.EntityMaskResponse{}, err
	}

	hardenFn, err := resolveHardeners(req.Config.Hardeners)
	if err != nil {
		return model.EntityMaskResponse{}, err
	}

	var bitsets []*bitset.Bitset

	switch req.Config.Filter.Type {
	case model.FilterTypeCLK:
		bitsets, err = maskCLK(req, hashFn)
	case model.FilterTypeRBF:
		bitsets, err = maskRBF(req, hashFn)
	case model.FilterTypeCLKRBF:
		bitsets, err = maskCLKRBF(req, hashFn)
	default:
		err = pprlerr.Capability("unimplemented filter type `%s`", req.Config.Filter.Type)
	}
	if err != nil {
		return model.EntityMaskResponse{}, err
	}

	entitiesOut := make([]model.BitVectorEntity, len(req.Entities))
	for i, entity := range req.Entities {
		entitiesOut[i] = model.BitVectorEntity{
			ID:    entity.ID,
			Value: bitset.ToBase64(hardenFn(bitsets[i])),
		}
	}

	return model.EntityMaskResponse{Config: req.Config, Entities: entitiesOut}, nil
}

func maskCLK(req model.EntityMaskRequest, hashFn digest.Fn) ([]*bitset.Bitset, error) {
	attrConfigs := attributeConfigsByName(req.Attributes)

	cfg := req.Config
	strategyName := cfg.Hash.Strategy.Name

	bitsets := make([]*bitset.Bitset, len(req.Entities))

	for ei, entity := range req.Entities {
		ba := bitset.New(cfg.Filter.FilterSize)

		for attrName, attrValue := range entity.Attributes {
			attrConf, hasConf := attrConfigs[attrName]
			salt := resolveSalt(entity, attrConf, hasConf)

			if err := populate(
				ba, entity.ID, attrName, attrValue, salt,
				cfg.TokenSize, cfg.Padding, cfg.PrependsAttributeName(),
				hashFn, strategyName, cfg.Filter.HashValues,
			); err != nil {
				return nil, err
			}
		}

		bitsets[ei] = ba
	}

	return bitsets, nil
}

func maskCLKRBF(req model.EntityMaskRequest, hashFn digest.Fn) ([]*bitset.Bitset, error) {
	cfg := req.Config
	strategyName := cfg.Hash.Strategy.Name
	attrConfigs := attributeConfigsByName(req.Attributes)

	minWeight := math.Inf(1)
	for _, a := range req.Attributes {
		if a.Weight < minWeight {
			minWeight = a.Weight
		}
	}

	baseHashValues := cfg.Filter.HashValues
	attrHashValues := make(map[string]int, len(req.Attributes))
	totalAvgInsertions := 0.0

	for _, a := range req.Attributes {
		hv := int(math.Ceil(float64(baseHashValues) * a.Weight / minWeight))
		attrHashValues[a.AttributeName] = hv
		totalAvgInsertions += float64(hv) * a.AverageTokenCount
	}

	baSize, err := bitset.OptimalSize(0.5, totalAvgInsertions)
	if err != nil {
		return nil, pprlerr.Validation("could not compute clkrbf filter size: %s", err.Error())
	}

	bitsets := make([]*bitset.Bitset, len(req.Entities))

	for ei, entity := range req.Entities {
		ba := bitset.New(baSize)

		for attrName, attrValue := range entity.Attributes {
			attrConf, hasConf := attrConfigs[attrName]
			salt := resolveSalt(entity, attrConf, hasConf)
			hv := attrHashValues[attrName]

			if err := populate(
				ba, entity.ID, attrName, attrValue, salt,
				cfg.TokenSize, cfg.Padding, cfg.PrependsAttributeName(),
				hashFn, strategyName, hv,
			); err != nil {
				return nil, err
			}
		}

		bitsets[ei] = ba
	}

	return bitsets, nil
}

func maskRBF(req model.EntityMaskRequest, hashFn digest.Fn) ([]*bitset.Bitset, error) {
	cfg := req.Config
	strategyName := cfg.Hash.Strategy.Name
	attrConfigs := attributeConfigsByName(req.Attributes)
	hashValues := cfg.Filter.HashValues

	totalWeight := 0.0
	for _, a := range req.Attributes {
		totalWeight += a.Weight
	}

	attrBitsetSize := make(map[string]int, len(req.Attributes))
	for _, a := range req.Attributes {
		size, err := bitset.OptimalSize(0.5, a.AverageTokenCount*float64(hashValues))
		if err != nil {
			return nil, pprlerr.Validation("could not compute rbf filter size for attribute `%s`: %s", a.AttributeName, err.Error())
		}
		attrBitsetSize[a.AttributeName] = size
	}

	sortedNames := make([]string, 0, len(req.Attributes))
	for _, a := range req.Attributes {
		sortedNames = append(sortedNames, a.AttributeName)
	}
	sort.Strings(sortedNames)

	parentSize := 0
	for _, a := range req.Attributes {
		size := int(math.Ceil(float64(attrBitsetSize[a.AttributeName]) * totalWeight / a.Weight))
		if size > parentSize {
			parentSize = size
		}
	}

	bitsets := make([]*bitset.Bitset, len(req.Entities))

	for ei, entity := range req.Entities {
		attrBitsets := make(map[string]*bitset.Bitset, len(sortedNames))

		for _, attrName := range sortedNames {
			attrValue := entity.Attributes[attrName]
			attrConf, hasConf := attrConfigs[attrName]

			attrBa := bitset.New(attrBitsetSize[attrName])
			salt := resolveSalt(entity, attrConf, hasConf)

			if err := populate(
				attrBa, entity.ID, attrName, attrValue, salt,
				cfg.TokenSize, cfg.Padding, cfg.PrependsAttributeName(),
				hashFn, strategyName, hashValues,
			); err != nil {
				return nil, err
			}

			attrBitsets[attrName] = attrBa
		}

		parentBa := bitset.New(parentSize)
		rng := rand.New(rand.NewSource(cfg.Filter.Seed))
		offset := 0

		for _, attrName := range sortedNames {
			attrConf := attrConfigs[attrName]
			attrBa := attrBitsets[attrName]
			relWeight := attrConf.Weight / totalWeight
			bitsInParent := int(math.Floor(relWeight * float64(parentSize)))

			for i := 0; i < bitsInParent; i++ {
				idx := rng.Intn(attrBa.Len())
				if attrBa.Get(idx) {
					parentBa.SetAt(offset+idx, true)
				}
			}

			offset += bitsInParent
		}

		bitsets[ei] = parentBa
	}

	return bitsets, nil
}
