package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// UoMRepository provides in-memory unit of measure storage
type UoMRepository struct {
	mu     sync.RWMutex
	uoms   []*entities.UoM
	byID   map[entities.UoMID]int
	byName map[string]int
}

// NewUoMRepository creates a new in-memory unit of measure repository
func NewUoMRepository() *UoMRepository {
	return &UoMRepository{
		byID:   make(map[entities.UoMID]int),
		byName: make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.UoMRepository = (*UoMRepository)(nil)

// SaveUoM stores a unit, replacing any unit with the same id
func (r *UoMRepository) SaveUoM(_ context.Context, uom *entities.UoM) error {
	if uom == nil {
		return fmt.Errorf("unit of measure cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.byID[uom.ID]; exists {
		delete(r.byName, r.uoms[index].Name)
		r.uoms[index] = uom
		r.byName[uom.Name] = index
		return nil
	}

	r.byID[uom.ID] = len(r.uoms)
	r.byName[uom.Name] = len(r.uoms)
	r.uoms = append(r.uoms, uom)
	return nil
}

// GetUoM returns a unit by id
func (r *UoMRepository) GetUoM(_ context.Context, id entities.UoMID) (*entities.UoM, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("unit of measure %d: %w", id, repositories.ErrNotFound)
	}
	return r.uoms[index], nil
}

// GetUoMByName returns a unit by name
func (r *UoMRepository) GetUoMByName(_ context.Context, name string) (*entities.UoM, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("unit of measure %q: %w", name, repositories.ErrNotFound)
	}
	return r.uoms[index], nil
}

// ListUoMs returns all units in insertion order
func (r *UoMRepository) ListUoMs(_ context.Context) ([]*entities.UoM, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uoms := make([]*entities.UoM, len(r.uoms))
	copy(uoms, r.uoms)
	return uoms, nil
}
