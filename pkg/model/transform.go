package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EmptyValueHandling selects how the transform engine treats an empty
// attribute value before each transformer stage.
type EmptyValueHandling string

const (
	EmptyValueIgnore EmptyValueHandling = "ignore"
	EmptyValueError  EmptyValueHandling = "error"
	EmptyValueSkip   EmptyValueHandling = "skip"
)

// TransformConfig configures a single transform request.
type TransformConfig struct {
	EmptyValue EmptyValueHandling `json:"empty_value"`
}

// TransformerName selects which string transform a Transformer value
// applies.
type TransformerName string

const (
	TransformerNormalization   TransformerName = "normalization"
	TransformerDateTime        TransformerName = "date_time"
	TransformerCharacterFilter TransformerName = "character_filter"
	TransformerMapping         TransformerName = "mapping"
	TransformerNumber          TransformerName = "number"
	TransformerPhoneticCode    TransformerName = "phonetic_code"
)

// PhoneticCodeAlgorithm names a phonetic encoding algorithm.
type PhoneticCodeAlgorithm string

const (
	PhoneticAlgorithmSoundex        PhoneticCodeAlgorithm = "soundex"
	PhoneticAlgorithmMetaphone      PhoneticCodeAlgorithm = "metaphone"
	PhoneticAlgorithmRefinedSoundex PhoneticCodeAlgorithm = "refined_soundex"
	PhoneticAlgorithmFuzzySoundex   PhoneticCodeAlgorithm = "fuzzy_soundex"
	PhoneticAlgorithmCologne        PhoneticCodeAlgorithm = "cologne"
)

// Transformer is a discriminated union over the six transformer kinds.
// Which fields apply is determined by Name:
//
//	normalization:    none
//	date_time:        InputFormat, OutputFormat
//	character_filter: Characters (optional)
//	mapping:          Mapping, DefaultValue, Inline
//	number:           DecimalPlaces
//	phonetic_code:    Algorithm
type Transformer struct {
	Name          TransformerName       `json:"name"`
	InputFormat   string                `json:"input_format,omitempty"`
	OutputFormat  string                `json:"output_format,omitempty"`
	Characters    *string               `json:"characters,omitempty"`
	Mapping       Mapping               `json:"mapping,omitempty"`
	DefaultValue  *string               `json:"default_value,omitempty"`
	Inline        bool                  `json:"inline,omitempty"`
	DecimalPlaces int                   `json:"decimal_places,omitempty"`
	Algorithm     PhoneticCodeAlgorithm `json:"algorithm,omitempty"`
}

// MappingEntry is one source/target pair of a character mapping, in
// the order it was declared.
type MappingEntry struct {
	Key   string
	Value string
}

// Mapping is an order-preserving character-mapping table. A plain
// map[string]string loses the JSON object's key order on decode;
// InlineMapping's overlap detection depends on that declared order
// (the source it's ported from walks a Python dict in insertion
// order), so Mapping decodes and re-encodes its entries by hand to
// keep it.
type Mapping []MappingEntry

// Get returns the value mapped to key, and whether key is present.
func (m Mapping) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("model: mapping must be a JSON object")
	}

	var out Mapping
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("model: mapping key must be a string")
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}

		out = append(out, MappingEntry{Key: key, Value: value})
	}

	*m = out
	return nil
}

func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		valBytes, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AttributeTransformerConfig binds an ordered transformer list to one
// attribute name.
type AttributeTransformerConfig struct {
	AttributeName string        `json:"attribute_name"`
	Transformers  []Transformer `json:"transformers"`
}

// GlobalTransformerConfig holds transformer lists applied to every
// attribute before (Before) and after (After) its attribute-specific
// transformers.
type GlobalTransformerConfig struct {
	Before []Transformer `json:"before"`
	After  []Transformer `json:"after"`
}

// EntityTransformRequest is the input to the transform engine.
type EntityTransformRequest struct {
	Config                TransformConfig              `json:"config"`
	Entities              []AttributeValueEntity       `json:"entities"`
	AttributeTransformers []AttributeTransformerConfig `json:"attribute_transformers"`
	GlobalTransformers    GlobalTransformerConfig      `json:"global_transformers"`
}

// EntityTransformResponse is the output of the transform engine.
type EntityTransformResponse struct {
	Config   TransformConfig        `json:"config"`
	Entities []AttributeValueEntity `json:"entities"`
}
