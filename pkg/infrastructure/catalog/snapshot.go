// Package catalog turns flat catalog records, as read from CSV or TOML
// files, into linked domain entities and loads them into repositories.
package catalog

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// UoMRecord is one unit of measure row
type UoMRecord struct {
	ID       int64           `toml:"id" validate:"required,gt=0"`
	Name     string          `toml:"name" validate:"required"`
	Category string          `toml:"category" validate:"required"`
	Type     string          `toml:"type" validate:"omitempty,oneof=reference bigger smaller"`
	Ratio    decimal.Decimal `toml:"ratio" validate:"gt=0"`
	Rounding decimal.Decimal `toml:"rounding" validate:"gte=0"`
}

// ProductRecord is one product variant row. Rows sharing TemplateID form one template;
// the first row of a template supplies its name, unit and price.
type ProductRecord struct {
	TemplateID   int64           `toml:"template_id" validate:"required,gt=0"`
	TemplateName string          `toml:"template" validate:"required"`
	ProductID    int64           `toml:"id" validate:"required,gt=0"`
	Code         string          `toml:"code"`
	UoM          string          `toml:"uom" validate:"required"`
	Attributes   string          `toml:"attributes"`
	Price        decimal.Decimal `toml:"price" validate:"gte=0"`
	Archived     bool            `toml:"archived"`
}

// BOMRecord is one bill of materials header row
type BOMRecord struct {
	ID            int64           `toml:"id" validate:"required,gt=0"`
	Code          string          `toml:"code"`
	TemplateID    int64           `toml:"template_id" validate:"required,gt=0"`
	ProductCode   string          `toml:"product_code"`
	Type          string          `toml:"type" validate:"omitempty,oneof=normal phantom kit"`
	Quantity      decimal.Decimal `toml:"quantity" validate:"gt=0"`
	UoM           string          `toml:"uom"`
	Sequence      int             `toml:"sequence"`
	PickingTypeID int64           `toml:"picking_type_id" validate:"gte=0"`
	CompanyID     int64           `toml:"company_id" validate:"gte=0"`
	Checked       bool            `toml:"checked"`
	ToolCode      string          `toml:"tool_code"`
}

// BOMLineRecord is one direct BOM line row
type BOMLineRecord struct {
	ID          int64           `toml:"id" validate:"required,gt=0"`
	BOMID       int64           `toml:"bom_id" validate:"required,gt=0"`
	ProductCode string          `toml:"product_code" validate:"required"`
	Quantity    decimal.Decimal `toml:"quantity" validate:"gte=0"`
	UoM         string          `toml:"uom"`
	Sequence    int             `toml:"sequence"`
	ApplyOn     string          `toml:"apply_on"`
}

// TemplateLineRecord is one template-driven BOM line row
type TemplateLineRecord struct {
	ID         int64           `toml:"id" validate:"required,gt=0"`
	BOMID      int64           `toml:"bom_id" validate:"required,gt=0"`
	TemplateID int64           `toml:"template_id" validate:"required,gt=0"`
	Quantity   decimal.Decimal `toml:"quantity" validate:"gte=0"`
	UoM        string          `toml:"uom"`
	Sequence   int             `toml:"sequence"`
	ApplyOn    string          `toml:"apply_on"`
}

// WorkcenterRecord is one workcenter parameter row
type WorkcenterRecord struct {
	BOMID       int64           `toml:"bom_id" validate:"required,gt=0"`
	Workcenter  string          `toml:"workcenter" validate:"required"`
	CycleNumber decimal.Decimal `toml:"cycle_nbr" validate:"gte=0"`
	HourNumber  decimal.Decimal `toml:"hour_nbr" validate:"gte=0"`
	TimeStart   decimal.Decimal `toml:"time_start" validate:"gte=0"`
	TimeStop    decimal.Decimal `toml:"time_stop" validate:"gte=0"`
}

// Snapshot is a complete catalog in record form
type Snapshot struct {
	UoMs          []UoMRecord          `toml:"uom" validate:"dive"`
	Products      []ProductRecord      `toml:"product" validate:"dive"`
	BOMs          []BOMRecord          `toml:"bom" validate:"dive"`
	BOMLines      []BOMLineRecord      `toml:"bom_line" validate:"dive"`
	TemplateLines []TemplateLineRecord `toml:"bom_template_line" validate:"dive"`
	Workcenters   []WorkcenterRecord   `toml:"workcenter" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks every record's field constraints
func (s *Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	return nil
}

// Catalog is a linked set of domain entities built from a Snapshot
type Catalog struct {
	UoMs      []*entities.UoM
	Templates []*entities.ProductTemplate
	BOMs      []*entities.BillOfMaterials
}

// Product returns the variant with the given code, or nil
func (c *Catalog) Product(code string) *entities.Product {
	for _, tmpl := range c.Templates {
		for _, p := range tmpl.Variants {
			if p.DefaultCode == code {
				return p
			}
		}
	}
	return nil
}

// Load saves every entity of the catalog into the given repositories
func (c *Catalog) Load(ctx context.Context, uoms repositories.UoMRepository, products repositories.ProductRepository, boms repositories.BOMRepository) error {
	for _, u := range c.UoMs {
		if err := uoms.SaveUoM(ctx, u); err != nil {
			return fmt.Errorf("failed to save unit of measure %s: %w", u.Name, err)
		}
	}
	for _, tmpl := range c.Templates {
		if err := products.SaveTemplate(ctx, tmpl); err != nil {
			return fmt.Errorf("failed to save product template %s: %w", tmpl.Name, err)
		}
	}
	for _, bom := range c.BOMs {
		if err := boms.SaveBOM(ctx, bom); err != nil {
			return fmt.Errorf("failed to save bill of materials %s: %w", bom.DisplayName(), err)
		}
	}
	return nil
}

// builder resolves record references while building a Catalog
type builder struct {
	catalog    *Catalog
	uoms       map[string]*entities.UoM
	templates  map[int64]*entities.ProductTemplate
	products   map[string]*entities.Product
	boms       map[int64]*entities.BillOfMaterials
	attributes map[string]int64
	values     map[string]entities.AttributeValue
}

// Build validates the snapshot and links its records into entities
func (s *Snapshot) Build() (*Catalog, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		catalog:    &Catalog{},
		uoms:       make(map[string]*entities.UoM),
		templates:  make(map[int64]*entities.ProductTemplate),
		products:   make(map[string]*entities.Product),
		boms:       make(map[int64]*entities.BillOfMaterials),
		attributes: make(map[string]int64),
		values:     make(map[string]entities.AttributeValue),
	}

	if err := b.buildUoMs(s.UoMs); err != nil {
		return nil, err
	}
	if err := b.buildProducts(s.Products); err != nil {
		return nil, err
	}
	if err := b.buildBOMs(s.BOMs); err != nil {
		return nil, err
	}
	if err := b.buildLines(s.BOMLines); err != nil {
		return nil, err
	}
	if err := b.buildTemplateLines(s.TemplateLines); err != nil {
		return nil, err
	}
	if err := b.buildWorkcenters(s.Workcenters); err != nil {
		return nil, err
	}
	return b.catalog, nil
}

func (b *builder) buildUoMs(records []UoMRecord) error {
	categories := make(map[string]entities.UoMCategory)
	for _, rec := range records {
		if _, exists := b.uoms[rec.Name]; exists {
			return fmt.Errorf("duplicate unit of measure: %s", rec.Name)
		}

		category, ok := categories[rec.Category]
		if !ok {
			category = entities.UoMCategory{ID: int64(len(categories) + 1), Name: rec.Category}
			categories[rec.Category] = category
		}

		uomType := entities.UoMType(rec.Type)
		if uomType == "" {
			uomType = entities.UoMReference
			if !rec.Ratio.Equal(decimal.NewFromInt(1)) {
				uomType = entities.UoMBigger
				if rec.Ratio.LessThan(decimal.NewFromInt(1)) {
					uomType = entities.UoMSmaller
				}
			}
		}

		u, err := entities.NewUoM(entities.UoMID(rec.ID), rec.Name, category, uomType, rec.Ratio, rec.Rounding)
		if err != nil {
			return err
		}
		b.uoms[rec.Name] = u
		b.catalog.UoMs = append(b.catalog.UoMs, u)
	}
	return nil
}

func (b *builder) uom(name string) (*entities.UoM, error) {
	if name == "" {
		return nil, nil
	}
	u, ok := b.uoms[name]
	if !ok {
		return nil, fmt.Errorf("unknown unit of measure: %s", name)
	}
	return u, nil
}

func (b *builder) buildProducts(records []ProductRecord) error {
	for _, rec := range records {
		tmpl, ok := b.templates[rec.TemplateID]
		if !ok {
			u, err := b.uom(rec.UoM)
			if err != nil {
				return fmt.Errorf("product %s: %w", rec.Code, err)
			}
			tmpl, err = entities.NewProductTemplate(entities.ProductTemplateID(rec.TemplateID), rec.TemplateName, rec.Code, u)
			if err != nil {
				return err
			}
			tmpl.StandardPrice = rec.Price
			b.templates[rec.TemplateID] = tmpl
			b.catalog.Templates = append(b.catalog.Templates, tmpl)
		}

		values, err := b.parseAttributes(rec.Attributes)
		if err != nil {
			return fmt.Errorf("product %s: %w", rec.Code, err)
		}

		code := rec.Code
		if code == "" {
			code = fmt.Sprintf("P%d", rec.ProductID)
		}
		if _, exists := b.products[code]; exists {
			return fmt.Errorf("duplicate product code: %s", code)
		}

		p := &entities.Product{
			ID:              entities.ProductID(rec.ProductID),
			DefaultCode:     code,
			AttributeValues: values,
			StandardPrice:   rec.Price,
			Active:          !rec.Archived,
		}
		tmpl.AddVariant(p)
		b.products[code] = p
	}
	return nil
}

// parseAttributes reads "Color:Red,Size:M" into attribute values with stable ids
func (b *builder) parseAttributes(raw string) ([]entities.AttributeValue, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var values []entities.AttributeValue
	for _, part := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected Attribute:Value", part)
		}

		attrID, ok := b.attributes[name]
		if !ok {
			attrID = int64(len(b.attributes) + 1)
			b.attributes[name] = attrID
		}

		key := name + ":" + value
		v, ok := b.values[key]
		if !ok {
			v = entities.AttributeValue{ID: int64(len(b.values) + 1), AttributeID: attrID, Name: value}
			b.values[key] = v
		}
		values = append(values, v)
	}
	return values, nil
}

func (b *builder) buildBOMs(records []BOMRecord) error {
	for _, rec := range records {
		if _, exists := b.boms[rec.ID]; exists {
			return fmt.Errorf("duplicate bill of materials id: %d", rec.ID)
		}

		tmpl, ok := b.templates[rec.TemplateID]
		if !ok {
			return fmt.Errorf("bill of materials %d: unknown product template %d", rec.ID, rec.TemplateID)
		}
		bomType, err := entities.ParseBOMType(rec.Type)
		if err != nil {
			return fmt.Errorf("bill of materials %d: %w", rec.ID, err)
		}
		u, err := b.uom(rec.UoM)
		if err != nil {
			return fmt.Errorf("bill of materials %d: %w", rec.ID, err)
		}

		bom, err := entities.NewBillOfMaterials(entities.BOMID(rec.ID), tmpl, bomType, rec.Quantity, u)
		if err != nil {
			return err
		}
		bom.Code = rec.Code
		bom.Sequence = rec.Sequence
		bom.PickingTypeID = entities.PickingTypeID(rec.PickingTypeID)
		bom.CompanyID = entities.CompanyID(rec.CompanyID)
		bom.Checked = rec.Checked

		if rec.ProductCode != "" {
			p, ok := b.products[rec.ProductCode]
			if !ok || p.Template != tmpl {
				return fmt.Errorf("bill of materials %d: product %s is not a variant of template %d", rec.ID, rec.ProductCode, rec.TemplateID)
			}
			bom.Product = p
		}
		if rec.ToolCode != "" {
			tool, ok := b.products[rec.ToolCode]
			if !ok {
				return fmt.Errorf("bill of materials %d: unknown tool product %s", rec.ID, rec.ToolCode)
			}
			bom.ToolProduct = tool
		}

		b.boms[rec.ID] = bom
		b.catalog.BOMs = append(b.catalog.BOMs, bom)
	}
	return nil
}

func (b *builder) bom(id int64) (*entities.BillOfMaterials, error) {
	bom, ok := b.boms[id]
	if !ok {
		return nil, fmt.Errorf("unknown bill of materials %d", id)
	}
	return bom, nil
}

func (b *builder) buildLines(records []BOMLineRecord) error {
	for _, rec := range records {
		bom, err := b.bom(rec.BOMID)
		if err != nil {
			return fmt.Errorf("bom line %d: %w", rec.ID, err)
		}
		p, ok := b.products[rec.ProductCode]
		if !ok {
			return fmt.Errorf("bom line %d: unknown product %s", rec.ID, rec.ProductCode)
		}
		u, err := b.uom(rec.UoM)
		if err != nil {
			return fmt.Errorf("bom line %d: %w", rec.ID, err)
		}
		applyOn, err := b.parseAttributes(rec.ApplyOn)
		if err != nil {
			return fmt.Errorf("bom line %d: %w", rec.ID, err)
		}

		line, err := entities.NewBOMLine(entities.LineID(rec.ID), p, rec.Quantity, u)
		if err != nil {
			return err
		}
		line.Sequence = rec.Sequence
		line.ApplyOnVariants = applyOn
		bom.AddLine(line)
	}
	return nil
}

func (b *builder) buildTemplateLines(records []TemplateLineRecord) error {
	for _, rec := range records {
		bom, err := b.bom(rec.BOMID)
		if err != nil {
			return fmt.Errorf("bom template line %d: %w", rec.ID, err)
		}
		tmpl, ok := b.templates[rec.TemplateID]
		if !ok {
			return fmt.Errorf("bom template line %d: unknown product template %d", rec.ID, rec.TemplateID)
		}
		u, err := b.uom(rec.UoM)
		if err != nil {
			return fmt.Errorf("bom template line %d: %w", rec.ID, err)
		}
		applyOn, err := b.parseAttributes(rec.ApplyOn)
		if err != nil {
			return fmt.Errorf("bom template line %d: %w", rec.ID, err)
		}

		line, err := entities.NewBOMTemplateLine(entities.LineID(rec.ID), tmpl, rec.Quantity, u)
		if err != nil {
			return err
		}
		line.Sequence = rec.Sequence
		line.ApplyOnVariants = applyOn
		bom.AddTemplateLine(line)
	}
	return nil
}

func (b *builder) buildWorkcenters(records []WorkcenterRecord) error {
	for _, rec := range records {
		bom, err := b.bom(rec.BOMID)
		if err != nil {
			return fmt.Errorf("workcenter %s: %w", rec.Workcenter, err)
		}
		bom.WorkcenterParameters = append(bom.WorkcenterParameters, entities.WorkcenterParameter{
			BOMID:       bom.ID,
			Workcenter:  rec.Workcenter,
			CycleNumber: rec.CycleNumber,
			HourNumber:  rec.HourNumber,
			TimeStart:   rec.TimeStart,
			TimeStop:    rec.TimeStop,
		})
	}
	return nil
}
