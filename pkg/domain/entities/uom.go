package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUoMCategoryMismatch is returned when converting between units of different categories
var ErrUoMCategoryMismatch = errors.New("unit of measure categories differ")

// UoMID identifies a unit of measure
type UoMID int64

// UoMType tells whether a unit is the reference of its category or a multiple of it
type UoMType string

const (
	UoMReference UoMType = "reference"
	UoMBigger    UoMType = "bigger"
	UoMSmaller   UoMType = "smaller"
)

// UoMCategory groups units that can be converted into each other
type UoMCategory struct {
	ID   int64
	Name string
}

// UoM represents a unit of measure.
// Ratio is the number of reference units contained in one of this unit
// (Dozen = 12, Gram = 0.001 when Kg is the reference). Rounding is the
// smallest representable step of a quantity in this unit.
type UoM struct {
	ID       UoMID
	Name     string
	Category UoMCategory
	Type     UoMType
	Ratio    decimal.Decimal
	Rounding decimal.Decimal
}

// NewUoM creates a validated UoM
func NewUoM(id UoMID, name string, category UoMCategory, uomType UoMType, ratio, rounding decimal.Decimal) (*UoM, error) {
	if name == "" {
		return nil, fmt.Errorf("unit of measure name cannot be empty")
	}
	if !ratio.IsPositive() {
		return nil, fmt.Errorf("unit of measure %s: ratio must be positive, got %s", name, ratio)
	}
	if rounding.IsNegative() {
		return nil, fmt.Errorf("unit of measure %s: rounding cannot be negative, got %s", name, rounding)
	}
	if uomType == UoMReference && !ratio.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("unit of measure %s: reference unit must have ratio 1, got %s", name, ratio)
	}

	return &UoM{
		ID:       id,
		Name:     name,
		Category: category,
		Type:     uomType,
		Ratio:    ratio,
		Rounding: rounding,
	}, nil
}

// ComputeQuantity converts qty expressed in u into the unit to.
// The result is rounded up to the rounding of the target unit.
func (u *UoM) ComputeQuantity(qty decimal.Decimal, to *UoM) (decimal.Decimal, error) {
	if u == nil || qty.IsZero() {
		return qty, nil
	}
	if to == nil {
		return qty, nil
	}
	if u.ID != to.ID && u.Category.ID != to.Category.ID {
		return decimal.Zero, fmt.Errorf("convert %s %s to %s: %w", qty, u.Name, to.Name, ErrUoMCategoryMismatch)
	}

	amount := qty
	if u.ID != to.ID {
		amount = qty.Mul(u.Ratio).Div(to.Ratio)
	}
	return RoundUp(amount, to.Rounding), nil
}

// RoundUp rounds qty up to the next multiple of precision.
// A zero or negative precision leaves qty untouched.
func RoundUp(qty, precision decimal.Decimal) decimal.Decimal {
	if !precision.IsPositive() {
		return qty
	}
	steps := qty.Div(precision)
	if qty.IsNegative() {
		return steps.Floor().Mul(precision)
	}
	return steps.Ceil().Mul(precision)
}

// RoundHalfUp rounds qty to the nearest multiple of precision, halves away from zero
func RoundHalfUp(qty, precision decimal.Decimal) decimal.Decimal {
	if !precision.IsPositive() {
		return qty
	}
	return qty.Div(precision).Round(0).Mul(precision)
}

// String returns the unit name
func (u *UoM) String() string {
	if u == nil {
		return ""
	}
	return u.Name
}
