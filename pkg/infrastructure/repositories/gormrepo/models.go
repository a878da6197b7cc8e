package gormrepo

import (
	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// UoMModel is the persistence model for a unit of measure
type UoMModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement:false"`
	Name         string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	CategoryID   int64           `gorm:"not null"`
	CategoryName string          `gorm:"type:varchar(64);not null"`
	Type         string          `gorm:"type:varchar(16);not null;default:'reference'"`
	Ratio        decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Rounding     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (UoMModel) TableName() string {
	return "uoms"
}

// ToDomain converts the persistence model to a domain UoM
func (m *UoMModel) ToDomain() *entities.UoM {
	return &entities.UoM{
		ID:       entities.UoMID(m.ID),
		Name:     m.Name,
		Category: entities.UoMCategory{ID: m.CategoryID, Name: m.CategoryName},
		Type:     entities.UoMType(m.Type),
		Ratio:    m.Ratio,
		Rounding: m.Rounding,
	}
}

func uomModelFrom(u *entities.UoM) UoMModel {
	return UoMModel{
		ID:           int64(u.ID),
		Name:         u.Name,
		CategoryID:   u.Category.ID,
		CategoryName: u.Category.Name,
		Type:         string(u.Type),
		Ratio:        u.Ratio,
		Rounding:     u.Rounding,
	}
}

// ProductTemplateModel is the persistence model for a product template
type ProductTemplateModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	Name          string          `gorm:"type:varchar(200);not null"`
	DefaultCode   string          `gorm:"type:varchar(64)"`
	UoMID         int64           `gorm:"column:uom_id;not null"`
	StandardPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductTemplateModel) TableName() string {
	return "product_templates"
}

// ProductModel is the persistence model for a product variant
type ProductModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	TemplateID    int64           `gorm:"not null;index"`
	DefaultCode   string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	StandardPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active        bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// AttributeValueModel is the persistence model for an attribute value
type AttributeValueModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	AttributeID int64  `gorm:"not null;index"`
	Name        string `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "attribute_values"
}

// ToDomain converts the persistence model to a domain AttributeValue
func (m *AttributeValueModel) ToDomain() entities.AttributeValue {
	return entities.AttributeValue{ID: m.ID, AttributeID: m.AttributeID, Name: m.Name}
}

// ProductAttributeValueModel links a variant to one of its attribute values
type ProductAttributeValueModel struct {
	ProductID int64 `gorm:"primaryKey;autoIncrement:false"`
	ValueID   int64 `gorm:"primaryKey;autoIncrement:false"`
}

// TableName returns the table name for GORM
func (ProductAttributeValueModel) TableName() string {
	return "product_attribute_values"
}

// BOMModel is the persistence model for a bill of materials header
type BOMModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	Code          string          `gorm:"type:varchar(64);index"`
	TemplateID    int64           `gorm:"not null;index"`
	ProductID     *int64          `gorm:"index"`
	Type          string          `gorm:"type:varchar(16);not null;default:'normal'"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UoMID         int64           `gorm:"column:uom_id;not null"`
	Sequence      int             `gorm:"not null;default:0"`
	PickingTypeID int64           `gorm:"not null;default:0"`
	CompanyID     int64           `gorm:"not null;default:0"`
	Checked       bool            `gorm:"not null;default:false"`
	ToolProductID *int64
}

// TableName returns the table name for GORM
func (BOMModel) TableName() string {
	return "boms"
}

// BOMLineModel is the persistence model for a direct BOM line
type BOMLineModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false"`
	BOMID     int64           `gorm:"column:bom_id;not null;index"`
	ProductID int64           `gorm:"not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UoMID     int64           `gorm:"column:uom_id;not null"`
	Sequence  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BOMLineModel) TableName() string {
	return "bom_lines"
}

// BOMTemplateLineModel is the persistence model for a template-driven BOM line
type BOMTemplateLineModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement:false"`
	BOMID      int64           `gorm:"column:bom_id;not null;index"`
	TemplateID int64           `gorm:"not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UoMID      int64           `gorm:"column:uom_id;not null"`
	Sequence   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BOMTemplateLineModel) TableName() string {
	return "bom_template_lines"
}

// LineRestrictionModel stores one attribute value a BOM line is restricted to
type LineRestrictionModel struct {
	BOMID    int64  `gorm:"column:bom_id;not null;index"`
	LineKind string `gorm:"type:varchar(16);primaryKey"`
	LineID   int64  `gorm:"primaryKey;autoIncrement:false"`
	ValueID  int64  `gorm:"primaryKey;autoIncrement:false"`
}

// TableName returns the table name for GORM
func (LineRestrictionModel) TableName() string {
	return "bom_line_restrictions"
}

// WorkcenterParameterModel is the persistence model for a BOM workcenter parameter
type WorkcenterParameterModel struct {
	ID          int64           `gorm:"primaryKey"`
	BOMID       int64           `gorm:"column:bom_id;not null;index"`
	Workcenter  string          `gorm:"type:varchar(64);not null"`
	CycleNumber decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	HourNumber  decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TimeStart   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TimeStop    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (WorkcenterParameterModel) TableName() string {
	return "bom_workcenter_params"
}

// ToDomain converts the persistence model to a domain WorkcenterParameter
func (m *WorkcenterParameterModel) ToDomain() entities.WorkcenterParameter {
	return entities.WorkcenterParameter{
		BOMID:       entities.BOMID(m.BOMID),
		Workcenter:  m.Workcenter,
		CycleNumber: m.CycleNumber,
		HourNumber:  m.HourNumber,
		TimeStart:   m.TimeStart,
		TimeStop:    m.TimeStop,
	}
}

// AllModels lists every model managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UoMModel{},
		&ProductTemplateModel{},
		&ProductModel{},
		&AttributeValueModel{},
		&ProductAttributeValueModel{},
		&BOMModel{},
		&BOMLineModel{},
		&BOMTemplateLineModel{},
		&LineRestrictionModel{},
		&WorkcenterParameterModel{},
	}
}
