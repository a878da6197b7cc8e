package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExplosionFrame is a pending line during BOM explosion.
// Product is the variant being produced by the BOM the line belongs to;
// ParentLine is the phantom line that brought the frame in, nil at the root.
type ExplosionFrame struct {
	Line       Line
	Product    *Product
	Quantity   decimal.Decimal
	ParentLine Line
}

// AssemblyUse records a BOM traversed during explosion: the root and every phantom
type AssemblyUse struct {
	BOM           *BillOfMaterials
	ConsumedQty   decimal.Decimal
	SourceProduct *Product
	OriginalQty   decimal.Decimal
	ParentLine    Line
}

// ComponentUse records a leaf line consumed during explosion
type ComponentUse struct {
	Line          Line
	TargetProduct *Product
	Qty           decimal.Decimal
	SourceProduct *Product
	OriginalQty   decimal.Decimal
	ParentLine    Line
}

// ErrCyclicBOM matches any *CyclicBOMError with errors.Is
var ErrCyclicBOM = errors.New("cyclic bill of materials")

// CyclicBOMError is returned when a product template reaches itself
// through phantom BOMs. Chain starts and ends with the same template.
type CyclicBOMError struct {
	Chain []ProductTemplateID
}

func (e *CyclicBOMError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("recursion error: a product with a bill of materials should not have itself in its BoM or child BoMs (templates %s)",
		strings.Join(parts, " -> "))
}

// Is lets errors.Is(err, ErrCyclicBOM) match
func (e *CyclicBOMError) Is(target error) bool {
	return target == ErrCyclicBOM
}
