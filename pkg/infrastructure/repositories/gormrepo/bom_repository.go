package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// SaveBOM inserts or replaces a BOM with its lines and workcenter parameters
func (s *Store) SaveBOM(ctx context.Context, bom *entities.BillOfMaterials) error {
	if bom == nil {
		return fmt.Errorf("bill of materials cannot be nil")
	}
	if bom.ProductTemplate == nil || bom.UoM == nil {
		return fmt.Errorf("bill of materials %d: product template and unit of measure are required", bom.ID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := BOMModel{
			ID:            int64(bom.ID),
			Code:          bom.Code,
			TemplateID:    int64(bom.ProductTemplate.ID),
			ProductID:     productIDPtr(bom.Product),
			Type:          string(bom.Type),
			Quantity:      bom.Quantity,
			UoMID:         int64(bom.UoM.ID),
			Sequence:      bom.Sequence,
			PickingTypeID: int64(bom.PickingTypeID),
			CompanyID:     int64(bom.CompanyID),
			Checked:       bom.Checked,
			ToolProductID: productIDPtr(bom.ToolProduct),
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error; err != nil {
			return err
		}

		for _, child := range []interface{}{&BOMLineModel{}, &BOMTemplateLineModel{}, &LineRestrictionModel{}, &WorkcenterParameterModel{}} {
			if err := tx.Where("bom_id = ?", model.ID).Delete(child).Error; err != nil {
				return err
			}
		}

		for _, l := range bom.Lines {
			row := BOMLineModel{
				ID:        int64(l.ID),
				BOMID:     model.ID,
				ProductID: int64(l.Product.ID),
				Quantity:  l.Quantity,
				UoMID:     lineUoMID(l.UoM, l.Product.UoM()),
				Sequence:  l.Sequence,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			if err := saveRestrictions(tx, model.ID, l); err != nil {
				return err
			}
		}

		for _, l := range bom.TemplateLines {
			row := BOMTemplateLineModel{
				ID:         int64(l.ID),
				BOMID:      model.ID,
				TemplateID: int64(l.ProductTemplate.ID),
				Quantity:   l.Quantity,
				UoMID:      lineUoMID(l.UoM, l.ProductTemplate.UoM),
				Sequence:   l.Sequence,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			if err := saveRestrictions(tx, model.ID, l); err != nil {
				return err
			}
		}

		for _, p := range bom.WorkcenterParameters {
			row := WorkcenterParameterModel{
				BOMID:       model.ID,
				Workcenter:  p.Workcenter,
				CycleNumber: p.CycleNumber,
				HourNumber:  p.HourNumber,
				TimeStart:   p.TimeStart,
				TimeStop:    p.TimeStop,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save bill of materials %s: %w", bom.DisplayName(), err)
	}
	return nil
}

func saveRestrictions(tx *gorm.DB, bomID int64, line entities.Line) error {
	values := line.VariantRestrictions()
	if err := saveAttributeValues(tx, values); err != nil {
		return err
	}
	for _, v := range values {
		row := LineRestrictionModel{
			BOMID:    bomID,
			LineKind: string(line.Kind()),
			LineID:   int64(line.LineID()),
			ValueID:  v.ID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func productIDPtr(p *entities.Product) *int64 {
	if p == nil {
		return nil
	}
	id := int64(p.ID)
	return &id
}

func lineUoMID(u, fallback *entities.UoM) int64 {
	if u != nil {
		return int64(u.ID)
	}
	if fallback != nil {
		return int64(fallback.ID)
	}
	return 0
}

// GetBOM returns the BOM with the given id
func (s *Store) GetBOM(ctx context.Context, id entities.BOMID) (*entities.BillOfMaterials, error) {
	return s.getBOM(ctx, "id = ?", int64(id), id)
}

// GetBOMByCode returns the first BOM with the given reference
func (s *Store) GetBOMByCode(ctx context.Context, code string) (*entities.BillOfMaterials, error) {
	return s.getBOM(ctx, "code = ?", code, code)
}

func (s *Store) getBOM(ctx context.Context, query string, arg, label interface{}) (*entities.BillOfMaterials, error) {
	db := s.db.WithContext(ctx)
	var model BOMModel
	if err := db.Where(query, arg).Order("id").First(&model).Error; err != nil {
		return nil, fmt.Errorf("bill of materials %v: %w", label, notFound(err))
	}
	bom, err := newHydrator(db).bom(&model)
	if err != nil {
		return nil, fmt.Errorf("bill of materials %v: %w", label, err)
	}
	return bom, nil
}

// ListBOMs returns every BOM ordered by id
func (s *Store) ListBOMs(ctx context.Context) ([]*entities.BillOfMaterials, error) {
	db := s.db.WithContext(ctx)
	var models []BOMModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills of materials: %w", err)
	}

	h := newHydrator(db)
	boms := make([]*entities.BillOfMaterials, 0, len(models))
	for i := range models {
		bom, err := h.bom(&models[i])
		if err != nil {
			return nil, fmt.Errorf("bill of materials %d: %w", models[i].ID, err)
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

// FindBOM returns the BOM applicable to product, or nil when none applies.
// The query mirrors the in-memory selection: variant BOM or template BOM
// without variant, routing and company equal or unset.
func (s *Store) FindBOM(ctx context.Context, product *entities.Product, opts repositories.FindOptions) (*entities.BillOfMaterials, error) {
	if product == nil {
		return nil, nil
	}

	db := s.db.WithContext(ctx)
	query := db.Where("(product_id = ? OR (template_id = ? AND product_id IS NULL))", int64(product.ID), int64(product.TemplateID()))
	if opts.PickingTypeID != 0 {
		query = query.Where("picking_type_id IN ?", []int64{0, int64(opts.PickingTypeID)})
	}
	if opts.CompanyID != 0 {
		query = query.Where("company_id IN ?", []int64{0, int64(opts.CompanyID)})
	}

	var model BOMModel
	err := query.
		Order("sequence").
		Order("CASE WHEN product_id IS NULL THEN 1 ELSE 0 END").
		Order("id").
		Limit(1).
		Find(&model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find bill of materials for %s: %w", product.DisplayName(), err)
	}
	if model.ID == 0 {
		return nil, nil
	}

	bom, err := newHydrator(db).bom(&model)
	if err != nil {
		return nil, fmt.Errorf("bill of materials %d: %w", model.ID, err)
	}
	return bom, nil
}
