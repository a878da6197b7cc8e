package events

import (
	"time"
)

const (
	BOMExplodedEvent      = "bom.exploded"
	BOMCycleDetectedEvent = "bom.cycle_detected"
	CatalogValidatedEvent = "catalog.validated"
)

// BOMExploded is recorded after every successful explosion
type BOMExploded struct {
	RunID          string        `json:"run_id"`
	ProductCode    string        `json:"product_code"`
	BOMCode        string        `json:"bom_code"`
	Quantity       string        `json:"quantity"`
	Assemblies     int           `json:"assemblies"`
	Components     int           `json:"components"`
	MaterialCost   string        `json:"material_cost"`
	OperationHours string        `json:"operation_hours"`
	Duration       time.Duration `json:"duration"`
}

// BOMCycleDetected is recorded when an explosion stops on a cyclic BOM
type BOMCycleDetected struct {
	RunID       string  `json:"run_id"`
	ProductCode string  `json:"product_code"`
	BOMCode     string  `json:"bom_code"`
	Chain       []int64 `json:"chain"`
}

// CatalogValidated is recorded after a static catalog check
type CatalogValidated struct {
	BOMs     int  `json:"boms"`
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Cycles   int  `json:"cycles"`
	Valid    bool `json:"valid"`
}

func NewBOMExplodedEvent(data BOMExploded) Event {
	return NewEvent(BOMExplodedEvent, data.ProductCode, data)
}

func NewBOMCycleDetectedEvent(data BOMCycleDetected) Event {
	return NewEvent(BOMCycleDetectedEvent, data.ProductCode, data)
}

// CatalogStream is the stream catalog-wide events are appended to
const CatalogStream = "catalog"

func NewCatalogValidatedEvent(data CatalogValidated) Event {
	return NewEvent(CatalogValidatedEvent, CatalogStream, data)
}
