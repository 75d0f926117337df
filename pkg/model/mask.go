package model

// HashAlgorithm names a digest algorithm usable in a hash chain.
type HashAlgorithm string

const (
	HashAlgorithmMD5    HashAlgorithm = "md5"
	HashAlgorithmSHA1   HashAlgorithm = "sha1"
	HashAlgorithmSHA256 HashAlgorithm = "sha256"
	HashAlgorithmSHA512 HashAlgorithm = "sha512"
)

// HashFunction is an ordered chain of digest algorithms, optionally
// keyed. When Key is non-nil every stage of the chain is an HMAC under
// that key instead of a plain digest.
type HashFunction struct {
	Algorithms []HashAlgorithm `json:"algorithms"`
	Key        *string         `json:"key,omitempty"`
}

// HashStrategyName selects which of the four bit-setting schemes a
// mask request uses.
type HashStrategyName string

const (
	HashStrategyDoubleHash         HashStrategyName = "double_hash"
	HashStrategyTripleHash         HashStrategyName = "triple_hash"
	HashStrategyEnhancedDoubleHash HashStrategyName = "enhanced_double_hash"
	HashStrategyRandomHash         HashStrategyName = "random_hash"
)

// HashStrategy carries no parameters of its own — the bit count comes
// from the enclosing Filter.
type HashStrategy struct {
	Name HashStrategyName `json:"name"`
}

// HashConfig composes the digest chain with the bit-setting strategy
// applied to each token's digest.
type HashConfig struct {
	Function HashFunction `json:"function"`
	Strategy HashStrategy `json:"strategy"`
}

// FilterType selects the overall masking scheme.
type FilterType string

const (
	FilterTypeCLK    FilterType = "clk"
	FilterTypeRBF    FilterType = "rbf"
	FilterTypeCLKRBF FilterType = "clkrbf"
)

// Filter is a discriminated union over the three filter schemes. Which
// fields apply is determined by Type:
//
//	clk:    FilterSize, HashValues
//	rbf:    HashValues, Seed
//	clkrbf: HashValues
type Filter struct {
	Type       FilterType `json:"type"`
	FilterSize int        `json:"filter_size,omitempty"`
	HashValues int        `json:"hash_values"`
	Seed       int64      `json:"seed,omitempty"`
}

// HardenerName selects a post-processing transform applied to a
// finished bitset.
type HardenerName string

const (
	HardenerBalance             HardenerName = "balance"
	HardenerXORFold             HardenerName = "xor_fold"
	HardenerPermute             HardenerName = "permute"
	HardenerRandomizedResponse  HardenerName = "randomized_response"
	HardenerRule90              HardenerName = "rule_90"
	HardenerRehash              HardenerName = "rehash"
)

// Hardener is a discriminated union over the six hardening schemes.
// Which fields apply is determined by Name:
//
//	balance, xor_fold, rule_90: none
//	permute:                    Seed
//	randomized_response:        Probability, Seed
//	rehash:                     WindowSize, WindowStep, Samples
type Hardener struct {
	Name        HardenerName `json:"name"`
	Seed        int64        `json:"seed,omitempty"`
	Probability float64      `json:"probability,omitempty"`
	WindowSize  int          `json:"window_size,omitempty"`
	WindowStep  int          `json:"window_step,omitempty"`
	Samples     int          `json:"samples,omitempty"`
}

// MaskConfig configures a single mask request: how values are
// tokenized, how tokens are hashed into bits, which filter scheme
// builds the bitset, and which hardeners run afterward.
type MaskConfig struct {
	TokenSize            int        `json:"token_size"`
	Hash                 HashConfig `json:"hash"`
	PrependAttributeName *bool      `json:"prepend_attribute_name,omitempty"`
	Filter               Filter     `json:"filter"`
	Padding              string     `json:"padding"`
	Hardeners            []Hardener `json:"hardeners"`
}

// PrependsAttributeName reports whether tokens are prefixed with their
// attribute name before hashing. Defaults to true when unset, matching
// the reference service.
func (c MaskConfig) PrependsAttributeName() bool {
	return c.PrependAttributeName == nil || *c.PrependAttributeName
}

// AttributeSalt is either a literal salt value or a reference to
// another attribute on the same entity whose value supplies the salt.
// Exactly one of Value or Attribute must be set.
type AttributeSalt struct {
	Value     *string `json:"value,omitempty"`
	Attribute *string `json:"attribute,omitempty"`
}

// AttributeConfig describes how one attribute participates in a mask
// request. Weight and AverageTokenCount are zero-valued (unset) for a
// static (CLK) configuration; RBF and CLKRBF require both to be
// positive. A single struct shape covers both
// StaticAttributeConfig and WeightedAttributeConfig from the
// specification: the distinction is which fields are populated, not a
// separate Go type, which keeps JSON binding simple since the wire
// format never tags the variant explicitly — it is implied by the
// enclosing filter type.
type AttributeConfig struct {
	AttributeName     string         `json:"attribute_name"`
	Salt              *AttributeSalt `json:"salt,omitempty"`
	Weight            float64        `json:"weight,omitempty"`
	AverageTokenCount float64        `json:"average_token_count,omitempty"`
}

// IsWeighted reports whether this configuration carries weighted
// (RBF/CLKRBF) fields rather than being a plain static (CLK) entry.
func (a AttributeConfig) IsWeighted() bool {
	return a.Weight > 0 || a.AverageTokenCount > 0
}

// EntityMaskRequest is the input to the mask engine.
type EntityMaskRequest struct {
	Config     MaskConfig            `json:"config"`
	Entities   []AttributeValueEntity `json:"entities"`
	Attributes []AttributeConfig     `json:"attributes"`
}

// EntityMaskResponse is the output of the mask engine.
type EntityMaskResponse struct {
	Config   MaskConfig        `json:"config"`
	Entities []BitVectorEntity `json:"entities"`
}
