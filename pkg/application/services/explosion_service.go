package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/dto"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/explosion"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/events"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/logger"
)

// ExplodeRequest describes one explosion run
type ExplodeRequest struct {
	ProductCode string
	Quantity    decimal.Decimal
	// BOMCode forces a BOM instead of resolving one for the product
	BOMCode       string
	PickingTypeID entities.PickingTypeID
	CompanyID     entities.CompanyID
}

// ExplosionService resolves a product's BOM, explodes it and summarizes
// material requirements, cost and workcenter time
type ExplosionService struct {
	products repositories.ProductRepository
	boms     repositories.BOMRepository
	events   events.EventStore
	logger   *zap.Logger
}

// ServiceOption configures the application services
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	events events.EventStore
	logger *zap.Logger
}

// WithEventStore publishes run events to store
func WithEventStore(store events.EventStore) ServiceOption {
	return func(o *serviceOptions) { o.events = store }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []ServiceOption) serviceOptions {
	o := serviceOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewExplosionService creates an explosion service over the given repositories
func NewExplosionService(products repositories.ProductRepository, boms repositories.BOMRepository, opts ...ServiceOption) *ExplosionService {
	o := applyOptions(opts)
	return &ExplosionService{
		products: products,
		boms:     boms,
		events:   o.events,
		logger:   o.logger,
	}
}

// Explode runs one explosion. A cyclic structure returns a wrapped
// *entities.CyclicBOMError and publishes a cycle event.
func (s *ExplosionService) Explode(ctx context.Context, req ExplodeRequest) (*dto.ExplosionResult, error) {
	started := time.Now()

	product, err := s.products.GetProductByCode(ctx, req.ProductCode)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", req.ProductCode, err)
	}

	bom, err := s.selectBOM(ctx, product, req)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	ctx, log := logger.WithRunID(ctx, s.logger, runID.String())
	log.Info("exploding bill of materials",
		zap.String("product", product.DisplayName()),
		zap.String("bom", bom.DisplayName()),
		zap.String("quantity", req.Quantity.String()))

	var opts []explosion.ExplodeOption
	if req.PickingTypeID != 0 {
		opts = append(opts, explosion.WithPickingType(req.PickingTypeID))
	}
	if req.CompanyID != 0 {
		opts = append(opts, explosion.WithCompany(req.CompanyID))
	}

	engine := explosion.NewEngine(explosion.NewRepositoryResolver(ctx, s.boms), explosion.WithLogger(log))
	exploded, err := engine.Explode(bom, product, req.Quantity, opts...)
	if err != nil {
		var cyclic *entities.CyclicBOMError
		if errors.As(err, &cyclic) {
			s.publish(log, product.DefaultCode, events.NewBOMCycleDetectedEvent(events.BOMCycleDetected{
				RunID:       runID.String(),
				ProductCode: product.DefaultCode,
				BOMCode:     bom.Code,
				Chain:       chainIDs(cyclic.Chain),
			}))
		}
		return nil, fmt.Errorf("explode %s: %w", product.DisplayName(), err)
	}

	result := &dto.ExplosionResult{
		RunID:      runID,
		Product:    product,
		BOM:        bom,
		Quantity:   req.Quantity,
		Assemblies: exploded.Assemblies,
		Components: exploded.Components,
		StartedAt:  started,
	}
	if result.Requirements, err = aggregateRequirements(exploded.Components); err != nil {
		return nil, fmt.Errorf("explode %s: %w", product.DisplayName(), err)
	}
	result.Operations = planOperations(exploded.Assemblies)

	result.MaterialCost = decimal.Zero
	for _, r := range result.Requirements {
		result.MaterialCost = result.MaterialCost.Add(r.Cost)
	}
	result.OperationHours = decimal.Zero
	for _, op := range result.Operations {
		result.OperationHours = result.OperationHours.Add(op.Hours)
	}
	result.Duration = time.Since(started)

	log.Info("explosion complete",
		zap.Int("assemblies", len(result.Assemblies)),
		zap.Int("components", len(result.Components)),
		zap.String("material_cost", result.MaterialCost.String()),
		zap.String("operation_hours", result.OperationHours.String()),
		zap.Duration("duration", result.Duration))

	s.publish(log, product.DefaultCode, events.NewBOMExplodedEvent(events.BOMExploded{
		RunID:          runID.String(),
		ProductCode:    product.DefaultCode,
		BOMCode:        bom.Code,
		Quantity:       req.Quantity.String(),
		Assemblies:     len(result.Assemblies),
		Components:     len(result.Components),
		MaterialCost:   result.MaterialCost.String(),
		OperationHours: result.OperationHours.String(),
		Duration:       result.Duration,
	}))

	return result, nil
}

func (s *ExplosionService) selectBOM(ctx context.Context, product *entities.Product, req ExplodeRequest) (*entities.BillOfMaterials, error) {
	if req.BOMCode != "" {
		bom, err := s.boms.GetBOMByCode(ctx, req.BOMCode)
		if err != nil {
			return nil, err
		}
		if bom.ProductTemplate == nil || bom.ProductTemplate.ID != product.TemplateID() {
			return nil, fmt.Errorf("bill of materials %s does not produce %s", bom.DisplayName(), product.DisplayName())
		}
		if bom.Product != nil && bom.Product.ID != product.ID {
			return nil, fmt.Errorf("bill of materials %s is specific to %s", bom.DisplayName(), bom.Product.DisplayName())
		}
		return bom, nil
	}

	bom, err := s.boms.FindBOM(ctx, product, repositories.FindOptions{
		PickingTypeID: req.PickingTypeID,
		CompanyID:     req.CompanyID,
	})
	if err != nil {
		return nil, fmt.Errorf("find bom for %s: %w", product.DisplayName(), err)
	}
	if bom == nil {
		return nil, fmt.Errorf("%s: %w", product.DisplayName(), ErrNoBOM)
	}
	return bom, nil
}

func (s *ExplosionService) publish(log *zap.Logger, stream string, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(stream, event); err != nil {
		log.Warn("failed to publish event", zap.String("type", event.Type()), zap.Error(err))
	}
}

type requirementKey struct {
	product entities.ProductID
	uom     entities.UoMID
}

// aggregateRequirements sums component lines per product and line unit,
// keeping the order in which each pair first appears
func aggregateRequirements(components []entities.ComponentUse) ([]dto.Requirement, error) {
	index := make(map[requirementKey]int, len(components))
	var out []dto.Requirement

	for _, c := range components {
		uom := c.Line.LineUoM()
		key := requirementKey{product: c.TargetProduct.ID}
		if uom != nil {
			key.uom = uom.ID
		}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, dto.Requirement{
				Product:  c.TargetProduct,
				UoM:      uom,
				Quantity: decimal.Zero,
				UnitCost: c.TargetProduct.Cost(),
			})
		}
		out[i].Quantity = out[i].Quantity.Add(c.Qty)
		out[i].Lines++
	}

	for i := range out {
		r := &out[i]
		r.ProductQty = r.Quantity
		if target := r.Product.UoM(); r.UoM != nil && target != nil {
			qty, err := r.UoM.ComputeQuantity(r.Quantity, target)
			if err != nil {
				return nil, fmt.Errorf("requirement %s: %w", r.Product.DisplayName(), err)
			}
			r.ProductQty = qty
		}
		r.Cost = r.ProductQty.Mul(r.UnitCost)
	}
	return out, nil
}

// planOperations computes workcenter time for every assembly. The root runs
// quantity / BOM quantity cycles; a phantom runs its consumed quantity.
func planOperations(assemblies []entities.AssemblyUse) []dto.Operation {
	var ops []dto.Operation
	for i, a := range assemblies {
		cycles := a.ConsumedQty
		if i == 0 && a.BOM.Quantity.IsPositive() {
			cycles = a.ConsumedQty.Div(a.BOM.Quantity)
		}
		for _, wc := range a.BOM.WorkcenterParameters {
			ops = append(ops, dto.Operation{
				BOM:        a.BOM,
				Workcenter: wc.Workcenter,
				Cycles:     cycles,
				Hours:      wc.Duration(cycles),
			})
		}
	}
	return ops
}

func chainIDs(chain []entities.ProductTemplateID) []int64 {
	ids := make([]int64, len(chain))
	for i, id := range chain {
		ids[i] = int64(id)
	}
	return ids
}
