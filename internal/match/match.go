// Package match runs the match engine: decoding domain and range bit
// vectors, scoring pairs with the configured similarity measure, and
// keeping only the pairs that clear the configured threshold.
package match

import (
	"sort"
	"strings"

	"github.com/ul-mds/pprl-go/internal/bitset"
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/internal/similarity"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// decodeAll base64-decodes every distinct bit vector value appearing
// across domain and range, caching by value so a repeated vector is
// only decoded once. It reports every entity whose value failed to
// decode in a single error, matching how the reference service
// collects every bad entity before failing instead of failing on the
// first one found.
func decodeAll(domain, rang []model.BitVectorEntity) (map[string]*bitset.Bitset, error) {
	lookup := make(map[string]*bitset.Bitset)
	failedIDs := make([]string, 0)
	seenFailed := make(map[string]bool)

	for _, e := range append(append([]model.BitVectorEntity{}, domain...), rang...) {
		if _, ok := lookup[e.Value]; ok {
			continue
		}

		ba, err := bitset.FromBase64(e.Value)
		if err != nil {
			if !seenFailed[e.ID] {
				failedIDs = append(failedIDs, e.ID)
				seenFailed[e.ID] = true
			}
			continue
		}

		lookup[e.Value] = ba
	}

	if len(failedIDs) > 0 {
		sort.Strings(failedIDs)
		return nil, pprlerr.Value(
			"invalid Base64 encoded bit vectors on entities with IDs %s", strings.Join(failedIDs, ", "),
		)
	}

	return lookup, nil
}

// Match runs the configured match request and returns every domain
// and range pair whose similarity met the configured threshold.
func Match(req model.VectorMatchRequest) (model.VectorMatchResponse, error) {
	simFn, err := similarity.Resolve(req.Config.Measure)
	if err != nil {
		return model.VectorMatchResponse{}, err
	}

	lookup, err := decodeAll(req.Domain, req.Range)
	if err != nil {
		return model.VectorMatchResponse{}, err
	}

	var pairs [][2]model.BitVectorEntity

	switch req.Config.EffectiveMethod() {
	case model.MatchMethodPairwise:
		if len(req.Domain) != len(req.Range) {
			return model.VectorMatchResponse{}, pprlerr.Validation(
				"length of domain and range lists do not match: domain has length of %d, range has length of %d",
				len(req.Domain), len(req.Range),
			)
		}
		for i := range req.Domain {
			pairs = append(pairs, [2]model.BitVectorEntity{req.Domain[i], req.Range[i]})
		}
	default:
		for _, d := range req.Domain {
			for _, r := range req.Range {
				pairs = append(pairs, [2]model.BitVectorEntity{d, r})
			}
		}
	}

	matches := make([]model.Match, 0)

	for _, pair := range pairs {
		domainEntity, rangeEntity := pair[0], pair[1]
		sim := simFn(lookup[domainEntity.Value], lookup[rangeEntity.Value])

		if sim >= req.Config.Threshold {
			matches = append(matches, model.Match{
				Domain:     domainEntity,
				Range:      rangeEntity,
				Similarity: sim,
			})
		}
	}

	return model.VectorMatchResponse{Config: req.Config, Matches: matches}, nil
}
