// Package variant resolves template-driven BOM lines against the variant
// being produced and applies per-line variant restrictions.
package variant

import "github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"

// Matcher picks the variant of a template line that fits the product being produced
type Matcher struct{}

// NewMatcher creates a new variant matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// MatchVariant returns the first active variant of the line's template that
// agrees with current on every attribute both of them define. Attributes
// current does not define are ignored. Returns nil when no variant agrees.
func (m *Matcher) MatchVariant(line *entities.BOMTemplateLine, current *entities.Product) *entities.Product {
	if line == nil || line.ProductTemplate == nil {
		return nil
	}

	variants := line.ProductTemplate.ActiveVariants()
	if len(variants) == 0 {
		return nil
	}
	if current == nil {
		if len(variants) == 1 {
			return variants[0]
		}
		return nil
	}

	currentValues := make(map[int64]int64, len(current.AttributeValues))
	for _, v := range current.AttributeValues {
		currentValues[v.AttributeID] = v.ID
	}

	for _, candidate := range variants {
		if agrees(candidate, currentValues) {
			return candidate
		}
	}
	return nil
}

func agrees(candidate *entities.Product, currentValues map[int64]int64) bool {
	for _, v := range candidate.AttributeValues {
		want, ok := currentValues[v.AttributeID]
		if ok && want != v.ID {
			return false
		}
	}
	return true
}

// Skipper drops lines whose variant restrictions exclude the product being produced
type Skipper struct{}

// NewSkipper creates a new line skipper
func NewSkipper() *Skipper {
	return &Skipper{}
}

// SkipLine reports whether line must be ignored when producing current
func (s *Skipper) SkipLine(line entities.Line, current *entities.Product) bool {
	if current == nil || line == nil {
		return false
	}
	return !current.MatchAllVariantValues(line.VariantRestrictions())
}
