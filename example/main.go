package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/explosion"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Build a small bicycle catalog
	built, err := bicycleCatalog().Build()
	if err != nil {
		fmt.Printf("❌ Catalog is invalid: %v\n", err)
		return
	}

	repos := memory.NewCatalog()
	if err := built.Load(ctx, repos.UoMs, repos.Products, repos.BOMs); err != nil {
		fmt.Printf("❌ Failed to load catalog: %v\n", err)
		return
	}

	bike, err := repos.Products.GetProductByCode(ctx, "BIKE-M")
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	bom, err := repos.BOMs.GetBOMByCode(ctx, "BIKE")
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	engine := explosion.NewEngine(explosion.NewRepositoryResolver(ctx, repos.BOMs))

	fmt.Printf("🚲 Exploding %s x 5\n\n", bike.DisplayName())
	result, err := engine.Explode(bom, bike, decimal.NewFromInt(5))
	if err != nil {
		fmt.Printf("❌ Explosion failed: %v\n", err)
		return
	}

	fmt.Println("📋 Assemblies:")
	for _, a := range result.Assemblies {
		fmt.Printf("  %-30s x %s\n", a.BOM.DisplayName(), a.ConsumedQty)
	}
	fmt.Println()

	fmt.Println("🔩 Components:")
	for _, c := range result.Components {
		via := ""
		if line, ok := c.ParentLine.(*entities.BOMLine); ok {
			via = " (kit " + line.Product.DefaultCode + ")"
		}
		fmt.Printf("  %-30s %6s %s%s\n", c.TargetProduct.DisplayName(), c.Qty, c.Line.LineUoM(), via)
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// bicycleCatalog has a frame matched by size, a wheel kit and cable sold per meter
func bicycleCatalog() *catalog.Snapshot {
	return &catalog.Snapshot{
		UoMs: []catalog.UoMRecord{
			{ID: 1, Name: "Units", Category: "Unit", Ratio: d("1"), Rounding: d("1")},
			{ID: 2, Name: "m", Category: "Length", Ratio: d("1"), Rounding: d("0.01")},
			{ID: 3, Name: "cm", Category: "Length", Type: "smaller", Ratio: d("0.01"), Rounding: d("1")},
		},
		Products: []catalog.ProductRecord{
			{TemplateID: 1, TemplateName: "Bicycle", ProductID: 1, Code: "BIKE-M", UoM: "Units", Attributes: "Size:M"},
			{TemplateID: 1, TemplateName: "Bicycle", ProductID: 2, Code: "BIKE-L", UoM: "Units", Attributes: "Size:L"},
			{TemplateID: 2, TemplateName: "Frame", ProductID: 3, Code: "FRAME-M", UoM: "Units", Attributes: "Size:M", Price: d("120")},
			{TemplateID: 2, TemplateName: "Frame", ProductID: 4, Code: "FRAME-L", UoM: "Units", Attributes: "Size:L", Price: d("135")},
			{TemplateID: 3, TemplateName: "Wheel Kit", ProductID: 5, Code: "WKIT", UoM: "Units"},
			{TemplateID: 4, TemplateName: "Wheel", ProductID: 6, Code: "WHEEL", UoM: "Units", Price: d("45")},
			{TemplateID: 5, TemplateName: "Inner Tube", ProductID: 7, Code: "TUBE", UoM: "Units", Price: d("6")},
			{TemplateID: 6, TemplateName: "Brake Cable", ProductID: 8, Code: "CABLE", UoM: "m", Price: d("2.5")},
		},
		BOMs: []catalog.BOMRecord{
			{ID: 1, Code: "BIKE", TemplateID: 1, Quantity: d("1")},
			{ID: 2, Code: "WKIT", TemplateID: 3, Type: "phantom", Quantity: d("1")},
		},
		BOMLines: []catalog.BOMLineRecord{
			{ID: 1, BOMID: 1, ProductCode: "WKIT", Quantity: d("1"), Sequence: 2},
			{ID: 2, BOMID: 1, ProductCode: "CABLE", Quantity: d("180"), UoM: "cm", Sequence: 3},
			{ID: 3, BOMID: 2, ProductCode: "WHEEL", Quantity: d("2"), Sequence: 1},
			{ID: 4, BOMID: 2, ProductCode: "TUBE", Quantity: d("2"), Sequence: 2},
		},
		TemplateLines: []catalog.TemplateLineRecord{
			{ID: 10, BOMID: 1, TemplateID: 2, Quantity: d("1"), Sequence: 1},
		},
	}
}
