package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// SaveTemplate inserts or replaces a template with all its variants
func (s *Store) SaveTemplate(ctx context.Context, tmpl *entities.ProductTemplate) error {
	if tmpl == nil {
		return fmt.Errorf("product template cannot be nil")
	}
	if tmpl.UoM == nil {
		return fmt.Errorf("product template %s: unit of measure is required", tmpl.Name)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})

		model := ProductTemplateModel{
			ID:            int64(tmpl.ID),
			Name:          tmpl.Name,
			DefaultCode:   tmpl.DefaultCode,
			UoMID:         int64(tmpl.UoM.ID),
			StandardPrice: tmpl.StandardPrice,
			Active:        tmpl.Active,
		}
		if err := upsert.Create(&model).Error; err != nil {
			return err
		}

		var oldIDs []int64
		if err := tx.Model(&ProductModel{}).Where("template_id = ?", model.ID).Pluck("id", &oldIDs).Error; err != nil {
			return err
		}
		if len(oldIDs) > 0 {
			if err := tx.Where("product_id IN ?", oldIDs).Delete(&ProductAttributeValueModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("template_id = ?", model.ID).Delete(&ProductModel{}).Error; err != nil {
				return err
			}
		}

		for _, p := range tmpl.Variants {
			variant := ProductModel{
				ID:            int64(p.ID),
				TemplateID:    model.ID,
				DefaultCode:   p.DefaultCode,
				StandardPrice: p.StandardPrice,
				Active:        p.Active,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			if err := saveAttributeValues(tx, p.AttributeValues); err != nil {
				return err
			}
			for _, v := range p.AttributeValues {
				link := ProductAttributeValueModel{ProductID: variant.ID, ValueID: v.ID}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save product template %s: %w", tmpl.Name, err)
	}
	return nil
}

func saveAttributeValues(tx *gorm.DB, values []entities.AttributeValue) error {
	for _, v := range values {
		model := AttributeValueModel{ID: v.ID, AttributeID: v.AttributeID, Name: v.Name}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetProduct returns the variant with the given id
func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	h := newHydrator(s.db.WithContext(ctx))
	p, err := h.product(int64(id))
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// GetProductByCode returns the variant with the given internal reference
func (s *Store) GetProductByCode(ctx context.Context, code string) (*entities.Product, error) {
	db := s.db.WithContext(ctx)
	var model ProductModel
	if err := db.First(&model, "default_code = ?", code).Error; err != nil {
		return nil, fmt.Errorf("product %s: %w", code, notFound(err))
	}
	p, err := newHydrator(db).product(model.ID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", code, err)
	}
	return p, nil
}

// GetTemplate returns the template with the given id and its variants
func (s *Store) GetTemplate(ctx context.Context, id entities.ProductTemplateID) (*entities.ProductTemplate, error) {
	tmpl, err := newHydrator(s.db.WithContext(ctx)).template(int64(id))
	if err != nil {
		return nil, fmt.Errorf("product template %d: %w", id, err)
	}
	return tmpl, nil
}

// ListTemplates returns every template ordered by id
func (s *Store) ListTemplates(ctx context.Context) ([]*entities.ProductTemplate, error) {
	db := s.db.WithContext(ctx)
	var ids []int64
	if err := db.Model(&ProductTemplateModel{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list product templates: %w", err)
	}

	h := newHydrator(db)
	templates := make([]*entities.ProductTemplate, 0, len(ids))
	for _, id := range ids {
		tmpl, err := h.template(id)
		if err != nil {
			return nil, fmt.Errorf("product template %d: %w", id, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
