package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductTemplateID identifies a product template
type ProductTemplateID int64

// ProductID identifies a product variant
type ProductID int64

// AttributeValue is one value of a product attribute (Color: Red, Size: M)
type AttributeValue struct {
	ID          int64
	AttributeID int64
	Name        string
}

// ProductTemplate groups the variants of a product
type ProductTemplate struct {
	ID            ProductTemplateID
	Name          string
	DefaultCode   string
	UoM           *UoM
	StandardPrice decimal.Decimal
	Active        bool
	Variants      []*Product
}

// NewProductTemplate creates a validated product template
func NewProductTemplate(id ProductTemplateID, name, defaultCode string, uom *UoM) (*ProductTemplate, error) {
	if name == "" {
		return nil, fmt.Errorf("product template name cannot be empty")
	}
	if uom == nil {
		return nil, fmt.Errorf("product template %s: unit of measure is required", name)
	}

	return &ProductTemplate{
		ID:            id,
		Name:          name,
		DefaultCode:   defaultCode,
		UoM:           uom,
		StandardPrice: decimal.Zero,
		Active:        true,
	}, nil
}

// AddVariant attaches a variant to the template and back-links it
func (t *ProductTemplate) AddVariant(p *Product) {
	p.Template = t
	t.Variants = append(t.Variants, p)
}

// ActiveVariants returns the active variants in declaration order
func (t *ProductTemplate) ActiveVariants() []*Product {
	variants := make([]*Product, 0, len(t.Variants))
	for _, v := range t.Variants {
		if v.Active {
			variants = append(variants, v)
		}
	}
	return variants
}

// Product is a concrete variant of a product template
type Product struct {
	ID              ProductID
	Template        *ProductTemplate
	DefaultCode     string
	AttributeValues []AttributeValue
	StandardPrice   decimal.Decimal
	Active          bool
}

// TemplateID returns the id of the owning template, or 0 when unset
func (p *Product) TemplateID() ProductTemplateID {
	if p == nil || p.Template == nil {
		return 0
	}
	return p.Template.ID
}

// UoM returns the template unit of measure
func (p *Product) UoM() *UoM {
	if p == nil || p.Template == nil {
		return nil
	}
	return p.Template.UoM
}

// Cost returns the variant price, falling back to the template price
func (p *Product) Cost() decimal.Decimal {
	if !p.StandardPrice.IsZero() || p.Template == nil {
		return p.StandardPrice
	}
	return p.Template.StandardPrice
}

// DisplayName returns "[CODE] Name" the way product lists render it
func (p *Product) DisplayName() string {
	name := ""
	if p.Template != nil {
		name = p.Template.Name
	}
	if len(p.AttributeValues) > 0 {
		name += " ("
		for i, v := range p.AttributeValues {
			if i > 0 {
				name += ", "
			}
			name += v.Name
		}
		name += ")"
	}
	if p.DefaultCode != "" {
		return fmt.Sprintf("[%s] %s", p.DefaultCode, name)
	}
	return name
}

// HasAttributeValue reports whether the variant carries the given value
func (p *Product) HasAttributeValue(valueID int64) bool {
	for _, v := range p.AttributeValues {
		if v.ID == valueID {
			return true
		}
	}
	return false
}

// MatchAllVariantValues reports whether the variant satisfies a restriction set.
// For every attribute mentioned in values the variant must carry one of the
// listed values of that attribute. An empty restriction matches every variant.
func (p *Product) MatchAllVariantValues(values []AttributeValue) bool {
	if len(values) == 0 {
		return true
	}

	byAttribute := make(map[int64][]int64)
	for _, v := range values {
		byAttribute[v.AttributeID] = append(byAttribute[v.AttributeID], v.ID)
	}

	for _, allowed := range byAttribute {
		found := false
		for _, id := range allowed {
			if p.HasAttributeValue(id) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
