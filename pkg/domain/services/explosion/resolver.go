package explosion

import (
	"context"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// RepositoryResolver resolves BOMs through a BOMRepository.
// The catalog must be loaded before the explosion starts; ctx only bounds
// the repository calls.
type RepositoryResolver struct {
	ctx  context.Context
	repo repositories.BOMRepository
}

// NewRepositoryResolver binds a repository to a context
func NewRepositoryResolver(ctx context.Context, repo repositories.BOMRepository) *RepositoryResolver {
	return &RepositoryResolver{ctx: ctx, repo: repo}
}

var _ BOMResolver = (*RepositoryResolver)(nil)

// ResolveBOM implements BOMResolver
func (r *RepositoryResolver) ResolveBOM(product *entities.Product, pickingType entities.PickingTypeID, company entities.CompanyID) (*entities.BillOfMaterials, error) {
	return r.repo.FindBOM(r.ctx, product, repositories.FindOptions{
		PickingTypeID: pickingType,
		CompanyID:     company,
	})
}
