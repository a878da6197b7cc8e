package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// ExplosionResult contains the complete output of one explosion run
type ExplosionResult struct {
	RunID    uuid.UUID
	Product  *entities.Product
	BOM      *entities.BillOfMaterials
	Quantity decimal.Decimal

	Assemblies []entities.AssemblyUse
	Components []entities.ComponentUse

	// Requirements sums Components per product and unit, in first-seen order
	Requirements []Requirement
	Operations   []Operation

	OperationHours decimal.Decimal
	MaterialCost   decimal.Decimal

	StartedAt time.Time
	Duration  time.Duration
}

// Requirement is the total need of one component in one unit
type Requirement struct {
	Product *entities.Product
	UoM     *entities.UoM
	// Quantity is expressed in UoM
	Quantity decimal.Decimal
	// ProductQty is Quantity converted to the product's own unit
	ProductQty decimal.Decimal
	UnitCost   decimal.Decimal
	Cost       decimal.Decimal
	Lines      int
}

// Operation is the time one workcenter spends on one assembly
type Operation struct {
	BOM        *entities.BillOfMaterials
	Workcenter string
	Cycles     decimal.Decimal
	Hours      decimal.Decimal
}
