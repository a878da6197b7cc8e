// Package testing provides sample catalogs for service and CLI tests.
package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/memory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// FurnitureSnapshot is a small chair catalog with two phantom kits, a
// template line, a variant-restricted line and workcenter parameters.
//
// Exploding 2 x CHAIR-R yields LEG 8, SCREW 16 + 8, GLUE 100 g, BOX 2 and
// SEAT-R 2; FELT is Blue only.
func FurnitureSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		UoMs: []catalog.UoMRecord{
			{ID: 1, Name: "Units", Category: "Unit", Type: "reference", Ratio: d("1"), Rounding: d("1")},
			{ID: 2, Name: "Dozens", Category: "Unit", Type: "bigger", Ratio: d("12"), Rounding: d("1")},
			{ID: 3, Name: "kg", Category: "Weight", Type: "reference", Ratio: d("1"), Rounding: d("0.001")},
			{ID: 4, Name: "g", Category: "Weight", Type: "smaller", Ratio: d("0.001"), Rounding: d("0.01")},
		},
		Products: []catalog.ProductRecord{
			{TemplateID: 10, TemplateName: "Chair", ProductID: 100, Code: "CHAIR-R", UoM: "Units", Attributes: "Color:Red", Price: d("80")},
			{TemplateID: 10, TemplateName: "Chair", ProductID: 101, Code: "CHAIR-B", UoM: "Units", Attributes: "Color:Blue", Price: d("80")},
			{TemplateID: 11, TemplateName: "Seat", ProductID: 110, Code: "SEAT-R", UoM: "Units", Attributes: "Color:Red", Price: d("12")},
			{TemplateID: 11, TemplateName: "Seat", ProductID: 111, Code: "SEAT-B", UoM: "Units", Attributes: "Color:Blue", Price: d("12")},
			{TemplateID: 12, TemplateName: "Leg", ProductID: 120, Code: "LEG", UoM: "Units", Price: d("3.5")},
			{TemplateID: 13, TemplateName: "Screw Kit", ProductID: 130, Code: "SKIT", UoM: "Units"},
			{TemplateID: 14, TemplateName: "Screw", ProductID: 140, Code: "SCREW", UoM: "Units", Price: d("0.05")},
			{TemplateID: 15, TemplateName: "Glue", ProductID: 150, Code: "GLUE", UoM: "kg", Price: d("8")},
			{TemplateID: 16, TemplateName: "Felt Pad", ProductID: 160, Code: "FELT", UoM: "Units", Price: d("0.2")},
			{TemplateID: 17, TemplateName: "Packaging Kit", ProductID: 170, Code: "PKIT", UoM: "Units"},
			{TemplateID: 18, TemplateName: "Box", ProductID: 180, Code: "BOX", UoM: "Units", Price: d("1.2")},
			{TemplateID: 19, TemplateName: "Assembly Jig", ProductID: 190, Code: "JIG", UoM: "Units"},
		},
		BOMs: []catalog.BOMRecord{
			{ID: 1, Code: "CHAIR", TemplateID: 10, Type: "normal", Quantity: d("1"), Sequence: 1, Checked: true, ToolCode: "JIG"},
			{ID: 2, Code: "SKIT", TemplateID: 13, Type: "phantom", Quantity: d("1")},
			{ID: 3, Code: "PKIT", TemplateID: 17, Type: "phantom", Quantity: d("1")},
		},
		BOMLines: []catalog.BOMLineRecord{
			{ID: 1, BOMID: 1, ProductCode: "LEG", Quantity: d("4"), Sequence: 1},
			{ID: 2, BOMID: 1, ProductCode: "SKIT", Quantity: d("1"), Sequence: 2},
			{ID: 3, BOMID: 1, ProductCode: "SCREW", Quantity: d("4"), Sequence: 3},
			{ID: 4, BOMID: 1, ProductCode: "GLUE", Quantity: d("50"), UoM: "g", Sequence: 4},
			{ID: 5, BOMID: 1, ProductCode: "FELT", Quantity: d("4"), Sequence: 5, ApplyOn: "Color:Blue"},
			{ID: 6, BOMID: 1, ProductCode: "PKIT", Quantity: d("1"), Sequence: 6},
			{ID: 7, BOMID: 2, ProductCode: "SCREW", Quantity: d("8"), Sequence: 1},
			{ID: 8, BOMID: 3, ProductCode: "BOX", Quantity: d("1"), Sequence: 1},
		},
		TemplateLines: []catalog.TemplateLineRecord{
			{ID: 20, BOMID: 1, TemplateID: 11, Quantity: d("1"), Sequence: 7},
		},
		Workcenters: []catalog.WorkcenterRecord{
			{BOMID: 1, Workcenter: "Assembly", CycleNumber: d("1"), HourNumber: d("0.25"), TimeStart: d("0.1"), TimeStop: d("0.05")},
			{BOMID: 1, Workcenter: "Painting", HourNumber: d("0.1")},
		},
	}
}

// CyclicSnapshot holds a table whose two kits contain each other
func CyclicSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		UoMs: []catalog.UoMRecord{
			{ID: 1, Name: "Units", Category: "Unit", Ratio: d("1"), Rounding: d("1")},
		},
		Products: []catalog.ProductRecord{
			{TemplateID: 1, TemplateName: "Table", ProductID: 1, Code: "TABLE", UoM: "Units"},
			{TemplateID: 2, TemplateName: "Kit A", ProductID: 2, Code: "KIT-A", UoM: "Units"},
			{TemplateID: 3, TemplateName: "Kit B", ProductID: 3, Code: "KIT-B", UoM: "Units"},
		},
		BOMs: []catalog.BOMRecord{
			{ID: 1, Code: "TABLE", TemplateID: 1, Quantity: d("1")},
			{ID: 2, Code: "KIT-A", TemplateID: 2, Type: "phantom", Quantity: d("1")},
			{ID: 3, Code: "KIT-B", TemplateID: 3, Type: "phantom", Quantity: d("1")},
		},
		BOMLines: []catalog.BOMLineRecord{
			{ID: 1, BOMID: 1, ProductCode: "KIT-A", Quantity: d("1")},
			{ID: 2, BOMID: 2, ProductCode: "KIT-B", Quantity: d("1")},
			{ID: 3, BOMID: 3, ProductCode: "KIT-A", Quantity: d("1")},
		},
	}
}

// MustLoad builds snap into a fresh in-memory catalog, panicking on error
func MustLoad(snap *catalog.Snapshot) *memory.Catalog {
	built, err := snap.Build()
	if err != nil {
		panic(err)
	}
	repos := memory.NewCatalog()
	if err := built.Load(context.Background(), repos.UoMs, repos.Products, repos.BOMs); err != nil {
		panic(err)
	}
	return repos
}

// BuildFurnitureCatalog loads FurnitureSnapshot into memory repositories
func BuildFurnitureCatalog() *memory.Catalog {
	return MustLoad(FurnitureSnapshot())
}
