package model

// MatchMethod selects how domain and range vectors are paired up.
type MatchMethod string

const (
	MatchMethodCrosswise MatchMethod = "crosswise"
	MatchMethodPairwise  MatchMethod = "pairwise"
)

// SimilarityMeasure selects the set-similarity function applied to a
// pair of bitsets.
type SimilarityMeasure string

const (
	SimilarityMeasureDice    SimilarityMeasure = "dice"
	SimilarityMeasureCosine  SimilarityMeasure = "cosine"
	SimilarityMeasureJaccard SimilarityMeasure = "jaccard"
)

// MatchConfig configures a single match request. Method defaults to
// crosswise when empty, matching the reference service.
type MatchConfig struct {
	Measure   SimilarityMeasure `json:"measure"`
	Threshold float64           `json:"threshold"`
	Method    MatchMethod       `json:"method,omitempty"`
}

// EffectiveMethod returns Method, or MatchMethodCrosswise if unset.
func (c MatchConfig) EffectiveMethod() MatchMethod {
	if c.Method == "" {
		return MatchMethodCrosswise
	}
	return c.Method
}

// VectorMatchRequest is the input to the match engine.
type VectorMatchRequest struct {
	Config MatchConfig       `json:"config"`
	Domain []BitVectorEntity `json:"domain"`
	Range  []BitVectorEntity `json:"range"`
}

// Match is a single domain/range pair whose similarity met the
// configured threshold.
type Match struct {
	Domain     BitVectorEntity `json:"domain"`
	Range      BitVectorEntity `json:"range"`
	Similarity float64         `json:"similarity"`
}

// VectorMatchResponse is the output of the match engine.
type VectorMatchResponse struct {
	Config  MatchConfig `json:"config"`
	Matches []Match     `json:"matches"`
}
