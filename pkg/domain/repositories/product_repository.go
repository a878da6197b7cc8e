package repositories

import (
	"context"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// ProductRepository provides access to product templates and their variants
type ProductRepository interface {
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	GetProductByCode(ctx context.Context, code string) (*entities.Product, error)
	GetTemplate(ctx context.Context, id entities.ProductTemplateID) (*entities.ProductTemplate, error)
	ListTemplates(ctx context.Context) ([]*entities.ProductTemplate, error)
	// SaveTemplate stores the template together with its variants
	SaveTemplate(ctx context.Context, template *entities.ProductTemplate) error
}
