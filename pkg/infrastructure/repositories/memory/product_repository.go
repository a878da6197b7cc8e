package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// ProductRepository provides in-memory product storage
type ProductRepository struct {
	mu             sync.RWMutex
	templates      []*entities.ProductTemplate
	templatesByID  map[entities.ProductTemplateID]int
	products       map[entities.ProductID]*entities.Product
	productsByCode map[string]*entities.Product
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedTemplates int) *ProductRepository {
	return &ProductRepository{
		templates:      make([]*entities.ProductTemplate, 0, expectedTemplates),
		templatesByID:  make(map[entities.ProductTemplateID]int, expectedTemplates),
		products:       make(map[entities.ProductID]*entities.Product, expectedTemplates),
		productsByCode: make(map[string]*entities.Product, expectedTemplates),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadTemplates loads templates and their variants into the repository
func (r *ProductRepository) LoadTemplates(templates []*entities.ProductTemplate) error {
	for _, tmpl := range templates {
		if err := r.SaveTemplate(context.Background(), tmpl); err != nil {
			return err
		}
	}
	return nil
}

// SaveTemplate stores a template and indexes its variants
func (r *ProductRepository) SaveTemplate(_ context.Context, tmpl *entities.ProductTemplate) error {
	if tmpl == nil {
		return fmt.Errorf("product template cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.templatesByID[tmpl.ID]; exists {
		for _, old := range r.templates[index].Variants {
			delete(r.products, old.ID)
			if old.DefaultCode != "" {
				delete(r.productsByCode, old.DefaultCode)
			}
		}
		r.templates[index] = tmpl
	} else {
		r.templatesByID[tmpl.ID] = len(r.templates)
		r.templates = append(r.templates, tmpl)
	}

	for _, variant := range tmpl.Variants {
		variant.Template = tmpl
		r.products[variant.ID] = variant
		if variant.DefaultCode != "" {
			r.productsByCode[variant.DefaultCode] = variant
		}
	}
	return nil
}

// GetProduct returns a variant by id
func (r *ProductRepository) GetProduct(_ context.Context, id entities.ProductID) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, fmt.Errorf("product %d: %w", id, repositories.ErrNotFound)
	}
	return product, nil
}

// GetProductByCode returns a variant by its internal reference
func (r *ProductRepository) GetProductByCode(_ context.Context, code string) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.productsByCode[code]
	if !exists {
		return nil, fmt.Errorf("product %q: %w", code, repositories.ErrNotFound)
	}
	return product, nil
}

// GetTemplate returns a template by id
func (r *ProductRepository) GetTemplate(_ context.Context, id entities.ProductTemplateID) (*entities.ProductTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.templatesByID[id]
	if !exists {
		return nil, fmt.Errorf("product template %d: %w", id, repositories.ErrNotFound)
	}
	return r.templates[index], nil
}

// ListTemplates returns all templates in insertion order
func (r *ProductRepository) ListTemplates(_ context.Context) ([]*entities.ProductTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*entities.ProductTemplate, len(r.templates))
	copy(templates, r.templates)
	return templates, nil
}
