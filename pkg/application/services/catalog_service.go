package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/bom_validator"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/events"
)

// CatalogService answers read-only questions about a loaded catalog
type CatalogService struct {
	products  repositories.ProductRepository
	boms      repositories.BOMRepository
	validator *bom_validator.BOMValidator
	events    events.EventStore
	logger    *zap.Logger
}

// NewCatalogService creates a catalog service over the given repositories
func NewCatalogService(products repositories.ProductRepository, boms repositories.BOMRepository, opts ...ServiceOption) *CatalogService {
	o := applyOptions(opts)
	return &CatalogService{
		products:  products,
		boms:      boms,
		validator: bom_validator.NewBOMValidator(),
		events:    o.events,
		logger:    o.logger,
	}
}

// Validate checks every BOM of the catalog for cycles, duplicate lines,
// bad quantities, unit mismatches and orphaned lines
func (s *CatalogService) Validate(ctx context.Context) (*bom_validator.ValidationResult, error) {
	boms, err := s.boms.ListBOMs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	templates, err := s.products.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	result := s.validator.ValidateBOMs(boms, templates)

	s.logger.Info("catalog validated",
		zap.Int("boms", len(boms)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Bool("valid", result.Valid()))
	for _, w := range result.Warnings {
		s.logger.Warn("catalog warning", zap.String("issue", w))
	}

	if s.events != nil {
		event := events.NewCatalogValidatedEvent(events.CatalogValidated{
			BOMs:     len(boms),
			Errors:   len(result.Errors),
			Warnings: len(result.Warnings),
			Cycles:   len(result.CyclePaths),
			Valid:    result.Valid(),
		})
		if err := s.events.AppendEvent(events.CatalogStream, event); err != nil {
			s.logger.Warn("failed to publish event", zap.String("type", event.Type()), zap.Error(err))
		}
	}

	return result, nil
}

// LookupBOM finds a BOM by its code, falling back to the BOM that applies
// to the product with that code
func (s *CatalogService) LookupBOM(ctx context.Context, ref string, opts repositories.FindOptions) (*entities.BillOfMaterials, error) {
	bom, err := s.boms.GetBOMByCode(ctx, ref)
	if err == nil {
		return bom, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	product, err := s.products.GetProductByCode(ctx, ref)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%q is neither a bill of materials nor a product code: %w", ref, repositories.ErrNotFound)
		}
		return nil, err
	}

	bom, err = s.boms.FindBOM(ctx, product, opts)
	if err != nil {
		return nil, fmt.Errorf("find bom for %s: %w", product.DisplayName(), err)
	}
	if bom == nil {
		return nil, fmt.Errorf("%s: %w", product.DisplayName(), ErrNoBOM)
	}
	return bom, nil
}

// ListBOMs returns every BOM in the catalog
func (s *CatalogService) ListBOMs(ctx context.Context) ([]*entities.BillOfMaterials, error) {
	return s.boms.ListBOMs(ctx)
}
