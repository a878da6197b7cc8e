package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMID identifies a bill of materials
type BOMID int64

// LineID identifies a BOM line or BOM template line
type LineID int64

// PickingTypeID identifies the operation type a BOM is restricted to
type PickingTypeID int64

// CompanyID identifies the company owning a BOM
type CompanyID int64

// BOMType tells how a BOM is consumed during explosion
type BOMType string

const (
	// BOMNormal produces its product as a tracked item
	BOMNormal BOMType = "normal"
	// BOMPhantom is a kit: its components are substituted into the parent
	BOMPhantom BOMType = "phantom"
)

// ParseBOMType parses a BOM type, accepting "kit" as an alias of phantom
func ParseBOMType(s string) (BOMType, error) {
	switch s {
	case "", "normal":
		return BOMNormal, nil
	case "phantom", "kit":
		return BOMPhantom, nil
	default:
		return "", fmt.Errorf("unknown BOM type: %q", s)
	}
}

// BillOfMaterials is the recipe of components needed to produce a product.
// Product is set only for variant-specific BOMs.
type BillOfMaterials struct {
	ID                   BOMID
	Code                 string
	ProductTemplate      *ProductTemplate
	Product              *Product
	Type                 BOMType
	Quantity             decimal.Decimal
	UoM                  *UoM
	Sequence             int
	PickingTypeID        PickingTypeID
	CompanyID            CompanyID
	Lines                []*BOMLine
	TemplateLines        []*BOMTemplateLine
	WorkcenterParameters []WorkcenterParameter
	Checked              bool
	ToolProduct          *Product
}

// NewBillOfMaterials creates a validated BOM header without lines
func NewBillOfMaterials(id BOMID, template *ProductTemplate, bomType BOMType, qty decimal.Decimal, uom *UoM) (*BillOfMaterials, error) {
	if template == nil {
		return nil, fmt.Errorf("bill of materials %d: product template is required", id)
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("bill of materials %d: quantity must be positive, got %s", id, qty)
	}
	if uom == nil {
		uom = template.UoM
	}

	return &BillOfMaterials{
		ID:              id,
		ProductTemplate: template,
		Type:            bomType,
		Quantity:        qty,
		UoM:             uom,
	}, nil
}

// IsPhantom reports whether the BOM is a kit
func (b *BillOfMaterials) IsPhantom() bool {
	return b != nil && b.Type == BOMPhantom
}

// AddLine appends a direct product line
func (b *BillOfMaterials) AddLine(line *BOMLine) {
	line.BOMID = b.ID
	b.Lines = append(b.Lines, line)
}

// AddTemplateLine appends a template-driven line
func (b *BillOfMaterials) AddTemplateLine(line *BOMTemplateLine) {
	line.BOMID = b.ID
	b.TemplateLines = append(b.TemplateLines, line)
}

// AllLines returns the direct lines followed by the template lines
func (b *BillOfMaterials) AllLines() []Line {
	lines := make([]Line, 0, len(b.Lines)+len(b.TemplateLines))
	for _, l := range b.Lines {
		lines = append(lines, l)
	}
	for _, l := range b.TemplateLines {
		lines = append(lines, l)
	}
	return lines
}

// DisplayName returns the BOM code or its product name
func (b *BillOfMaterials) DisplayName() string {
	name := ""
	if b.Product != nil {
		name = b.Product.DisplayName()
	} else if b.ProductTemplate != nil {
		name = b.ProductTemplate.Name
	}
	if b.Code != "" {
		return fmt.Sprintf("%s: %s", b.Code, name)
	}
	return name
}

// LineKind tags the two line shapes a BOM can hold
type LineKind string

const (
	KindBOMLine      LineKind = "bom_line"
	KindTemplateLine LineKind = "tmpl_line"
)

// Line is implemented by *BOMLine and *BOMTemplateLine only
type Line interface {
	Kind() LineKind
	LineID() LineID
	QtyPerUnit() decimal.Decimal
	LineUoM() *UoM
	VariantRestrictions() []AttributeValue
	// TargetTemplateID is the product template the line points at
	TargetTemplateID() ProductTemplateID

	sealedLine()
}

// BOMLine consumes a fixed product variant
type BOMLine struct {
	ID              LineID
	BOMID           BOMID
	Product         *Product
	Quantity        decimal.Decimal
	UoM             *UoM
	Sequence        int
	ApplyOnVariants []AttributeValue
}

// NewBOMLine creates a validated BOMLine. A nil uom defaults to the product unit.
func NewBOMLine(id LineID, product *Product, qty decimal.Decimal, uom *UoM) (*BOMLine, error) {
	if product == nil {
		return nil, fmt.Errorf("bom line %d: product is required", id)
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("bom line %d: quantity cannot be negative, got %s", id, qty)
	}
	if uom == nil {
		uom = product.UoM()
	}

	return &BOMLine{
		ID:       id,
		Product:  product,
		Quantity: qty,
		UoM:      uom,
	}, nil
}

func (l *BOMLine) Kind() LineKind { return KindBOMLine }
func (l *BOMLine) LineID() LineID { return l.ID }
func (l *BOMLine) QtyPerUnit() decimal.Decimal { return l.Quantity }
func (l *BOMLine) LineUoM() *UoM { return l.UoM }
func (l *BOMLine) VariantRestrictions() []AttributeValue { return l.ApplyOnVariants }
func (l *BOMLine) TargetTemplateID() ProductTemplateID { return l.Product.TemplateID() }
func (l *BOMLine) sealedLine() {}

// BOMTemplateLine consumes a variant of a template, picked per explosion
// from the variant being produced
type BOMTemplateLine struct {
	ID              LineID
	BOMID           BOMID
	ProductTemplate *ProductTemplate
	Quantity        decimal.Decimal
	UoM             *UoM
	Sequence        int
	ApplyOnVariants []AttributeValue
}

// NewBOMTemplateLine creates a validated BOMTemplateLine. A nil uom defaults to the template unit.
func NewBOMTemplateLine(id LineID, template *ProductTemplate, qty decimal.Decimal, uom *UoM) (*BOMTemplateLine, error) {
	if template == nil {
		return nil, fmt.Errorf("bom template line %d: product template is required", id)
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("bom template line %d: quantity cannot be negative, got %s", id, qty)
	}
	if uom == nil {
		uom = template.UoM
	}

	return &BOMTemplateLine{
		ID:              id,
		ProductTemplate: template,
		Quantity:        qty,
		UoM:             uom,
	}, nil
}

func (l *BOMTemplateLine) Kind() LineKind { return KindTemplateLine }
func (l *BOMTemplateLine) LineID() LineID { return l.ID }
func (l *BOMTemplateLine) QtyPerUnit() decimal.Decimal { return l.Quantity }
func (l *BOMTemplateLine) LineUoM() *UoM { return l.UoM }
func (l *BOMTemplateLine) VariantRestrictions() []AttributeValue { return l.ApplyOnVariants }
func (l *BOMTemplateLine) TargetTemplateID() ProductTemplateID { return l.ProductTemplate.ID }
func (l *BOMTemplateLine) sealedLine() {}
