package explosion

import (
	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/variant"
)

// BOMResolver returns the BOM applicable to a product in a routing context.
// A nil BOM with a nil error means the product is bought, not produced.
type BOMResolver interface {
	ResolveBOM(product *entities.Product, pickingType entities.PickingTypeID, company entities.CompanyID) (*entities.BillOfMaterials, error)
}

// BOMResolverFunc adapts a function to BOMResolver
type BOMResolverFunc func(product *entities.Product, pickingType entities.PickingTypeID, company entities.CompanyID) (*entities.BillOfMaterials, error)

// ResolveBOM calls f
func (f BOMResolverFunc) ResolveBOM(product *entities.Product, pickingType entities.PickingTypeID, company entities.CompanyID) (*entities.BillOfMaterials, error) {
	return f(product, pickingType, company)
}

// VariantMatcher resolves a template line to a concrete variant for the product being produced
type VariantMatcher interface {
	MatchVariant(line *entities.BOMTemplateLine, current *entities.Product) *entities.Product
}

// LineSkipper decides whether a line is ignored for the product being produced
type LineSkipper interface {
	SkipLine(line entities.Line, current *entities.Product) bool
}

// QuantityConverter converts a quantity between units of measure
type QuantityConverter interface {
	ConvertQuantity(qty decimal.Decimal, from, to *entities.UoM) (decimal.Decimal, error)
}

// Rounder rounds a quantity up to a precision
type Rounder interface {
	RoundUp(qty, precision decimal.Decimal) decimal.Decimal
}

type uomConverter struct{}

func (uomConverter) ConvertQuantity(qty decimal.Decimal, from, to *entities.UoM) (decimal.Decimal, error) {
	return from.ComputeQuantity(qty, to)
}

type ceilingRounder struct{}

func (ceilingRounder) RoundUp(qty, precision decimal.Decimal) decimal.Decimal {
	return entities.RoundUp(qty, precision)
}

var (
	_ VariantMatcher    = (*variant.Matcher)(nil)
	_ LineSkipper       = (*variant.Skipper)(nil)
	_ QuantityConverter = uomConverter{}
	_ Rounder           = ceilingRounder{}
)
