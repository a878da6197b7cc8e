package gormrepo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
)

// Store implements the catalog repositories on top of GORM.
// Entities are rebuilt from rows on every read, so callers never share
// mutable state through the store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over an opened and migrated database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ repositories.BOMRepository     = (*Store)(nil)
	_ repositories.ProductRepository = (*Store)(nil)
	_ repositories.UoMRepository     = (*Store)(nil)
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
