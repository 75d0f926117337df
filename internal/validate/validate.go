// Package validate checks a request's cross-field preconditions
// before it reaches an engine: attribute configurations must match the
// filter type they're used with, and every attribute or salt
// attribute they name must actually appear on every entity.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ul-mds/pprl-go/internal/pprlerr"
	"github.com/ul-mds/pprl-go/pkg/model"
)

// MaskRequest validates an EntityMaskRequest's attribute
// configuration against its filter type and its entities.
func MaskRequest(req model.EntityMaskRequest) error {
	if len(req.Entities) == 0 {
		return pprlerr.Validation("at least one entity must be present")
	}

	if err := validateAttributeType(req); err != nil {
		return err
	}
	if err := validateConfiguredAttributesPresent(req); err != nil {
		return err
	}
	if err := validateSaltAttributesPresent(req); err != nil {
		return err
	}

	for _, a := range req.Attributes {
		if a.Salt == nil {
			continue
		}
		if err := AttributeSalt(*a.Salt); err != nil {
			return pprlerr.Validation("invalid salt configuration for attribute `%s`: %s", a.AttributeName, err.Error())
		}
	}

	return nil
}

func validateAttributeType(req model.EntityMaskRequest) error {
	isCLK := req.Config.Filter.Type == model.FilterTypeCLK

	if isCLK {
		if len(req.Attributes) == 0 {
			return nil
		}
		for _, a := range req.Attributes {
			if a.IsWeighted() {
				return pprlerr.Validation(
					"`%s` filters require static attribute configurations, but weighted ones were found",
					req.Config.Filter.Type,
				)
			}
		}
		return nil
	}

	if len(req.Attributes) == 0 {
		return pprlerr.Validation(
			"`%s` filters require weighted attribute configurations, but none were found", req.Config.Filter.Type,
		)
	}
	for _, a := range req.Attributes {
		if !a.IsWeighted() {
			return pprlerr.Validation(
				"`%s` filters require weighted attribute configurations, but static ones were found",
				req.Config.Filter.Type,
			)
		}
	}
	return nil
}

// attributeNotPresentOn returns the IDs of every entity lacking attrName.
func attributeNotPresentOn(entities []model.AttributeValueEntity, attrName string) []string {
	var missing []string
	for _, e := range entities {
		if _, ok := e.Attributes[attrName]; !ok {
			missing = append(missing, e.ID)
		}
	}
	return missing
}

func formatMissingAttributes(missingByAttr map[string][]string) string {
	names := make([]string, 0, len(missingByAttr))
	for name := range missingByAttr {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("`%s` on entities with ID `%s`", name, strings.Join(missingByAttr[name], "`, `")))
	}
	return strings.Join(parts, ",")
}

func validateConfiguredAttributesPresent(req model.EntityMaskRequest) error {
	if len(req.Attributes) == 0 {
		return nil
	}

	missingByAttr := make(map[string][]string)
	for _, a := range req.Attributes {
		if missing := attributeNotPresentOn(req.Entities, a.AttributeName); len(missing) > 0 {
			missingByAttr[a.AttributeName] = missing
		}
	}

	if len(missingByAttr) == 0 {
		return nil
	}
	return pprlerr.Validation("some configured attributes are not present on entities: %s", formatMissingAttributes(missingByAttr))
}

func validateSaltAttributesPresent(req model.EntityMaskRequest) error {
	if len(req.Attributes) == 0 {
		return nil
	}

	missingByAttr := make(map[string][]string)
	for _, a := range req.Attributes {
		if a.Salt == nil || a.Salt.Attribute == nil {
			continue
		}
		attrName := *a.Salt.Attribute
		if missing := attributeNotPresentOn(req.Entities, attrName); len(missing) > 0 {
			missingByAttr[attrName] = missing
		}
	}

	if len(missingByAttr) == 0 {
		return nil
	}
	return pprlerr.Validation("some configured attribute salts are not present on entities: %s", formatMissingAttributes(missingByAttr))
}

// AttributeSalt validates that exactly one of Value or Attribute is
// set on a salt configuration.
func AttributeSalt(salt model.AttributeSalt) error {
	hasValue := salt.Value != nil && *salt.Value != ""
	hasAttribute := salt.Attribute != nil && *salt.Attribute != ""

	if hasValue && hasAttribute {
		return pprlerr.Validation("value and attribute cannot be set at the same time")
	}
	if !hasValue && !hasAttribute {
		return pprlerr.Validation("neither value nor attribute is set")
	}
	return nil
}

// TransformRequest validates an EntityTransformRequest's shape before
// it reaches the transform engine.
func TransformRequest(req model.EntityTransformRequest) error {
	if len(req.AttributeTransformers) == 0 &&
		len(req.GlobalTransformers.Before)+len(req.GlobalTransformers.After) == 0 {
		return pprlerr.Validation("attribute and global transformers are empty: must contain at least one")
	}

	for _, at := range req.AttributeTransformers {
		if len(at.Transformers) == 0 {
			return pprlerr.Validation("at least one transformer must be present for attribute `%s`", at.AttributeName)
		}
	}
	return nil
}

// MatchRequest validates a VectorMatchRequest's shape before it
// reaches the match engine.
func MatchRequest(req model.VectorMatchRequest) error {
	if req.Config.EffectiveMethod() == model.MatchMethodPairwise && len(req.Domain) != len(req.Range) {
		return pprlerr.Validation(
			"length of domain and range lists do not match: domain has length of %d, range has length of %d",
			len(req.Domain), len(req.Range),
		)
	}
	return nil
}
