package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage
type BOMRepository struct {
	mu         sync.RWMutex
	boms       []*entities.BillOfMaterials
	bomsByID   map[entities.BOMID]int
	bomsByCode map[string]int
	byTemplate map[entities.ProductTemplateID][]int
}

// NewBOMRepository creates an in-memory BOM repository sized for expectedBOMs
func NewBOMRepository(expectedBOMs int) *BOMRepository {
	return &BOMRepository{
		boms:       make([]*entities.BillOfMaterials, 0, expectedBOMs),
		bomsByID:   make(map[entities.BOMID]int, expectedBOMs),
		bomsByCode: make(map[string]int, expectedBOMs),
		byTemplate: make(map[entities.ProductTemplateID][]int, expectedBOMs),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMs loads BOMs into the repository
func (r *BOMRepository) LoadBOMs(boms []*entities.BillOfMaterials) error {
	for _, bom := range boms {
		if err := r.SaveBOM(context.Background(), bom); err != nil {
			return err
		}
	}
	return nil
}

// SaveBOM stores a BOM, replacing any BOM with the same id
func (r *BOMRepository) SaveBOM(_ context.Context, bom *entities.BillOfMaterials) error {
	if bom == nil || bom.ProductTemplate == nil {
		return fmt.Errorf("bill of materials must reference a product template")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.bomsByID[bom.ID]; exists {
		old := r.boms[index]
		r.boms[index] = bom
		if old.Code != "" {
			delete(r.bomsByCode, old.Code)
		}
		if old.ProductTemplate.ID != bom.ProductTemplate.ID {
			r.unindexTemplate(old.ProductTemplate.ID, index)
			r.byTemplate[bom.ProductTemplate.ID] = append(r.byTemplate[bom.ProductTemplate.ID], index)
		}
		if bom.Code != "" {
			r.bomsByCode[bom.Code] = index
		}
		return nil
	}

	index := len(r.boms)
	r.boms = append(r.boms, bom)
	r.bomsByID[bom.ID] = index
	if bom.Code != "" {
		r.bomsByCode[bom.Code] = index
	}
	r.byTemplate[bom.ProductTemplate.ID] = append(r.byTemplate[bom.ProductTemplate.ID], index)
	return nil
}

func (r *BOMRepository) unindexTemplate(id entities.ProductTemplateID, index int) {
	indexes := r.byTemplate[id]
	for i, idx := range indexes {
		if idx == index {
			r.byTemplate[id] = append(indexes[:i], indexes[i+1:]...)
			return
		}
	}
}

// GetBOM returns a BOM by id
func (r *BOMRepository) GetBOM(_ context.Context, id entities.BOMID) (*entities.BillOfMaterials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.bomsByID[id]
	if !exists {
		return nil, fmt.Errorf("bill of materials %d: %w", id, repositories.ErrNotFound)
	}
	return r.boms[index], nil
}

// GetBOMByCode returns a BOM by its reference code
func (r *BOMRepository) GetBOMByCode(_ context.Context, code string) (*entities.BillOfMaterials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.bomsByCode[code]
	if !exists {
		return nil, fmt.Errorf("bill of materials %q: %w", code, repositories.ErrNotFound)
	}
	return r.boms[index], nil
}

// ListBOMs returns all BOMs in insertion order
func (r *BOMRepository) ListBOMs(_ context.Context) ([]*entities.BillOfMaterials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	boms := make([]*entities.BillOfMaterials, len(r.boms))
	copy(boms, r.boms)
	return boms, nil
}

// FindBOM returns the BOM applicable to product, or nil when none applies
func (r *BOMRepository) FindBOM(_ context.Context, product *entities.Product, opts repositories.FindOptions) (*entities.BillOfMaterials, error) {
	if product == nil {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*entities.BillOfMaterials
	for _, index := range r.byTemplate[product.TemplateID()] {
		bom := r.boms[index]
		if Applies(bom, product, opts) {
			candidates = append(candidates, bom)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	SortCandidates(candidates)
	return candidates[0], nil
}

// Applies reports whether bom can produce product under opts
func Applies(bom *entities.BillOfMaterials, product *entities.Product, opts repositories.FindOptions) bool {
	if bom.Product != nil {
		if bom.Product.ID != product.ID {
			return false
		}
	} else if bom.ProductTemplate.ID != product.TemplateID() {
		return false
	}
	if opts.PickingTypeID != 0 && bom.PickingTypeID != 0 && bom.PickingTypeID != opts.PickingTypeID {
		return false
	}
	if opts.CompanyID != 0 && bom.CompanyID != 0 && bom.CompanyID != opts.CompanyID {
		return false
	}
	return true
}

// SortCandidates orders BOMs by preference: lowest sequence first; on equal
// sequence a variant-specific BOM beats a template BOM, then lowest id wins
func SortCandidates(boms []*entities.BillOfMaterials) {
	sort.SliceStable(boms, func(i, j int) bool {
		a, b := boms[i], boms[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if (a.Product != nil) != (b.Product != nil) {
			return a.Product != nil
		}
		return a.ID < b.ID
	})
}
