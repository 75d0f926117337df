// Package transform runs the transform engine: resolving a request's
// transformer configuration into callable functions and applying them
// to every attribute of every entity in global-before, attribute
// specific, and global-after order.
package transform

import (
	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/internal/strtransform"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// defaultFilterCharacters mirrors Python's string.punctuation, used by
// character_filter when no explicit character set is configured.
const defaultFilterCharacters = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Resolve builds the Fn a single Transformer configuration describes.
func Resolve(tf model.Transformer) (strtransform.Fn, error) {
	switch tf.Name {
	case model.TransformerNormalization:
		return strtransform.Normalize(), nil
	case model.TransformerCharacterFilter:
		chars := defaultFilterCharacters
		if tf.Characters != nil && *tf.Characters != "" {
			chars = *tf.Characters
		}
		return strtransform.CharacterFilter(chars), nil
	case model.TransformerNumber:
		return strtransform.Number(tf.DecimalPlaces), nil
	case model.TransformerDateTime:
		return strtransform.DateTime(tf.InputFormat, tf.OutputFormat), nil
	case model.TransformerMapping:
		return strtransform.NewMapping(tf), nil
	case model.TransformerPhoneticCode:
		return strtransform.PhoneticCode(tf.Algorithm)
	default:
		return nil, pprlerr.Capability("unimplemented transformer `%s`", tf.Name)
	}
}

// resolveAll resolves a whole ordered transformer list. An empty list
// resolves to no functions; Transform itself rejects an attribute
// entry whose list is empty, while empty global lists are allowed.
func resolveAll(transformers []model.Transformer) ([]strtransform.Fn, error) {
	fns := make([]strtransform.Fn, 0, len(transformers))
	for _, tf := range transformers {
		fn, err := Resolve(tf)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// tryApply runs one transform stage against one attribute value,
// applying the empty-value policy first.
func tryApply(emptyValue model.EmptyValueHandling, entityID, value string, fn strtransform.Fn) (string, error) {
	if value == "" {
		switch emptyValue {
		case model.EmptyValueError:
			return "", pprlerr.Value("entity with ID `%s` contains empty field", entityID)
		case model.EmptyValueSkip:
			return value, nil
		}
	}

	out, err := fn(value)
	if err != nil {
		return "", pprlerr.Value("entity with ID `%s` could not be processed: %s", entityID, err.Error())
	}
	return out, nil
}

// Transform runs every entity's attributes through the configured
// transformer pipeline and returns the transformed entities.
func Transform(req model.EntityTransformRequest) (model.EntityTransformResponse, error) {
	attrTransformers := make(map[string][]strtransform.Fn, len(req.AttributeTransformers))

	for _, at := range req.AttributeTransformers {
		if len(at.Transformers) == 0 {
			return model.EntityTransformResponse{}, pprlerr.Validation(
				"at least one transformer must be present for attribute `%s`", at.AttributeName,
			)
		}
		fns, err := resolveAll(at.Transformers)
		if err != nil {
			return model.EntityTransformResponse{}, err
		}
		attrTransformers[at.AttributeName] = fns
	}

	globalBefore, err := resolveAll(req.GlobalTransformers.Before)
	if err != nil {
		return model.EntityTransformResponse{}, err
	}
	globalAfter, err := resolveAll(req.GlobalTransformers.After)
	if err != nil {
		return model.EntityTransformResponse{}, err
	}

	entitiesOut := make([]model.AttributeValueEntity, 0, len(req.Entities))

	for _, entity := range req.Entities {
		outAttrs := make(map[string]string, len(entity.Attributes))

		for attr, value := range entity.Attributes {
			for _, fn := range globalBefore {
				value, err = tryApply(req.Config.EmptyValue, entity.ID, value, fn)
				if err != nil {
					return model.EntityTransformResponse{}, err
				}
			}

			for _, fn := range attrTransformers[attr] {
				value, err = tryApply(req.Config.EmptyValue, entity.ID, value, fn)
				if err != nil {
					return model.EntityTransformResponse{}, err
				}
			}

			for _, fn := range globalAfter {
				value, err = tryApply(req.Config.EmptyValue, entity.ID, value, fn)
				if err != nil {
					return model.EntityTransformResponse{}, err
				}
			}

			outAttrs[attr] = value
		}

		entitiesOut = append(entitiesOut, model.AttributeValueEntity{ID: entity.ID, Attributes: outAttrs})
	}

	return model.EntityTransformResponse{Config: req.Config, Entities: entitiesOut}, nil
}
