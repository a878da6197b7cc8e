package repositories

import (
	"context"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// UoMRepository provides access to units of measure
type UoMRepository interface {
	GetUoM(ctx context.Context, id entities.UoMID) (*entities.UoM, error)
	GetUoMByName(ctx context.Context, name string) (*entities.UoM, error)
	ListUoMs(ctx context.Context) ([]*entities.UoM, error)
	SaveUoM(ctx context.Context, uom *entities.UoM) error
}
