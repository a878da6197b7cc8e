package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// SaveUoM inserts or replaces a unit of measure
func (s *Store) SaveUoM(ctx context.Context, uom *entities.UoM) error {
	if uom == nil {
		return fmt.Errorf("unit of measure cannot be nil")
	}
	model := uomModelFrom(uom)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save unit of measure %s: %w", uom.Name, err)
	}
	return nil
}

// GetUoM returns the unit with the given id
func (s *Store) GetUoM(ctx context.Context, id entities.UoMID) (*entities.UoM, error) {
	var model UoMModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", int64(id)).Error; err != nil {
		return nil, fmt.Errorf("unit of measure %d: %w", id, notFound(err))
	}
	return model.ToDomain(), nil
}

// GetUoMByName returns the unit with the given name
func (s *Store) GetUoMByName(ctx context.Context, name string) (*entities.UoM, error) {
	var model UoMModel
	if err := s.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		return nil, fmt.Errorf("unit of measure %s: %w", name, notFound(err))
	}
	return model.ToDomain(), nil
}

// ListUoMs returns every unit ordered by id
func (s *Store) ListUoMs(ctx context.Context) ([]*entities.UoM, error) {
	var models []UoMModel
	if err := s.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list units of measure: %w", err)
	}
	uoms := make([]*entities.UoM, len(models))
	for i := range models {
		uoms[i] = models[i].ToDomain()
	}
	return uoms, nil
}
