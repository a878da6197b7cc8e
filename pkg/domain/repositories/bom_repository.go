package repositories

import (
	"context"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// FindOptions narrows BOM resolution to a routing and a company.
// Zero values mean "any".
type FindOptions struct {
	PickingTypeID entities.PickingTypeID
	CompanyID     entities.CompanyID
}

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	// FindBOM returns the BOM applicable to a product variant, or nil when none applies.
	// Variant-specific BOMs win over template BOMs, then lower sequence, then lower id.
	FindBOM(ctx context.Context, product *entities.Product, opts FindOptions) (*entities.BillOfMaterials, error)
	GetBOM(ctx context.Context, id entities.BOMID) (*entities.BillOfMaterials, error)
	GetBOMByCode(ctx context.Context, code string) (*entities.BillOfMaterials, error)
	ListBOMs(ctx context.Context) ([]*entities.BillOfMaterials, error)
	SaveBOM(ctx context.Context, bom *entities.BillOfMaterials) error
}
