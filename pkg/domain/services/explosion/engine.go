// Package explosion flattens a bill of materials into the components it
// consumes, substituting phantom (kit) BOMs in place and rejecting BOM
// structures where a product reaches itself.
package explosion

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/variant"
)

// ErrInvalidQuantity is returned when the requested quantity is not positive
var ErrInvalidQuantity = errors.New("explosion quantity must be positive")

// Result holds the outcome of one explosion
type Result struct {
	// Assemblies lists the root BOM followed by every phantom BOM in discovery order
	Assemblies []entities.AssemblyUse
	// Components lists every leaf line consumed
	Components []entities.ComponentUse
}

// Engine explodes BOMs. It keeps no state between calls and may be shared.
type Engine struct {
	resolver  BOMResolver
	matcher   VariantMatcher
	skipper   LineSkipper
	converter QuantityConverter
	rounder   Rounder
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithVariantMatcher replaces the default template line matcher
func WithVariantMatcher(m VariantMatcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithLineSkipper replaces the default variant restriction check
func WithLineSkipper(s LineSkipper) Option {
	return func(e *Engine) { e.skipper = s }
}

// WithQuantityConverter replaces the default UoM conversion
func WithQuantityConverter(c QuantityConverter) Option {
	return func(e *Engine) { e.converter = c }
}

// WithRounder replaces the default ceiling rounding of leaf quantities
func WithRounder(r Rounder) Option {
	return func(e *Engine) { e.rounder = r }
}

// WithLogger sets the logger used for debug traces
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an explosion engine around a BOM resolver
func NewEngine(resolver BOMResolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:  resolver,
		matcher:   variant.NewMatcher(),
		skipper:   variant.NewSkipper(),
		converter: uomConverter{},
		rounder:   ceilingRounder{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type explodeParams struct {
	pickingType entities.PickingTypeID
	company     entities.CompanyID
}

// ExplodeOption sets the routing context of one explosion
type ExplodeOption func(*explodeParams)

// WithPickingType resolves nested BOMs for the given operation type
// instead of the root BOM's own one
func WithPickingType(id entities.PickingTypeID) ExplodeOption {
	return func(p *explodeParams) { p.pickingType = id }
}

// WithCompany resolves nested BOMs for the given company
// instead of the root BOM's own one
func WithCompany(id entities.CompanyID) ExplodeOption {
	return func(p *explodeParams) { p.company = id }
}

// Explode flattens bom for quantity units of product.
//
// Lines are processed breadth-first; the lines of a phantom BOM are pushed to
// the front of the queue so a kit is fully expanded before its siblings.
// Leaf quantities are rounded up to the line unit rounding. A product template
// that reaches itself through phantom BOMs yields a *entities.CyclicBOMError
// and no result.
func (e *Engine) Explode(
	bom *entities.BillOfMaterials,
	product *entities.Product,
	quantity decimal.Decimal,
	opts ...ExplodeOption,
) (*Result, error) {
	if bom == nil {
		return nil, fmt.Errorf("explode: bill of materials is required")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("explode %s: %w, got %s", bom.DisplayName(), ErrInvalidQuantity, quantity)
	}

	params := explodeParams{pickingType: bom.PickingTypeID, company: bom.CompanyID}
	for _, opt := range opts {
		opt(&params)
	}

	graph := newTraversalGraph()
	result := &Result{
		Assemblies: []entities.AssemblyUse{{
			BOM:           bom,
			ConsumedQty:   quantity,
			SourceProduct: product,
			OriginalQty:   quantity,
		}},
	}

	rootTemplate := product.TemplateID()
	graph.visit(rootTemplate)

	var queue deque.Deque[entities.ExplosionFrame]
	for _, line := range bom.AllLines() {
		queue.PushBack(entities.ExplosionFrame{Line: line, Product: product, Quantity: quantity})
		graph.visit(line.TargetTemplateID())
		graph.addEdge(rootTemplate, line.TargetTemplateID())
	}

	for queue.Len() > 0 {
		frame := queue.PopFront()
		line := frame.Line

		if e.skipper.SkipLine(line, frame.Product) {
			e.logger.Debug("skipping bom line",
				zap.Int64("line_id", int64(line.LineID())),
				zap.String("kind", string(line.Kind())))
			continue
		}

		lineQty := frame.Quantity.Mul(line.QtyPerUnit())

		var lineProduct *entities.Product
		switch l := line.(type) {
		case *entities.BOMLine:
			lineProduct = l.Product
		case *entities.BOMTemplateLine:
			lineProduct = e.matcher.MatchVariant(l, frame.Product)
			if lineProduct == nil {
				e.logger.Debug("no variant matches template line",
					zap.Int64("line_id", int64(l.ID)),
					zap.String("template", l.ProductTemplate.Name))
				continue
			}
		default:
			return nil, fmt.Errorf("explode %s: unsupported line type %T", bom.DisplayName(), line)
		}

		childBOM, err := e.resolver.ResolveBOM(lineProduct, params.pickingType, params.company)
		if err != nil {
			return nil, fmt.Errorf("explode %s: resolve bom for %s: %w", bom.DisplayName(), lineProduct.DisplayName(), err)
		}

		if !childBOM.IsPhantom() {
			result.Components = append(result.Components, entities.ComponentUse{
				Line:          line,
				TargetProduct: lineProduct,
				Qty:           e.roundLeaf(lineQty, line.LineUoM()),
				SourceProduct: frame.Product,
				OriginalQty:   quantity,
				ParentLine:    frame.ParentLine,
			})
			continue
		}

		convertedQty, err := e.converter.ConvertQuantity(lineQty.Div(childBOM.Quantity), line.LineUoM(), childBOM.UoM)
		if err != nil {
			return nil, fmt.Errorf("explode %s: phantom %s: %w", bom.DisplayName(), childBOM.DisplayName(), err)
		}

		children := childBOM.AllLines()
		parentTemplate := lineProduct.TemplateID()
		for _, child := range children {
			childTemplate := child.TargetTemplateID()
			graph.addEdge(parentTemplate, childTemplate)
			if graph.isVisited(childTemplate) {
				if chain := graph.findCycle(childTemplate); chain != nil {
					e.logger.Warn("cyclic bill of materials",
						zap.String("bom", bom.DisplayName()),
						zap.String("phantom", childBOM.DisplayName()),
						zap.Int64s("chain", templateIDs(chain)))
					return nil, &entities.CyclicBOMError{Chain: chain}
				}
			}
			graph.visit(childTemplate)
		}

		for i := len(children) - 1; i >= 0; i-- {
			queue.PushFront(entities.ExplosionFrame{
				Line:       children[i],
				Product:    lineProduct,
				Quantity:   convertedQty,
				ParentLine: line,
			})
		}

		e.logger.Debug("expanding phantom bom",
			zap.String("phantom", childBOM.DisplayName()),
			zap.String("quantity", convertedQty.String()),
			zap.Int("lines", len(children)))

		result.Assemblies = append(result.Assemblies, entities.AssemblyUse{
			BOM:           childBOM,
			ConsumedQty:   convertedQty,
			SourceProduct: frame.Product,
			OriginalQty:   quantity,
			ParentLine:    line,
		})
	}

	return result, nil
}

func (e *Engine) roundLeaf(qty decimal.Decimal, uom *entities.UoM) decimal.Decimal {
	if uom == nil {
		return qty
	}
	return e.rounder.RoundUp(qty, uom.Rounding)
}

func templateIDs(chain []entities.ProductTemplateID) []int64 {
	ids := make([]int64, len(chain))
	for i, id := range chain {
		ids[i] = int64(id)
	}
	return ids
}
