package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/bom_validator"
)

// WriteBOM prints a BOM header followed by its lines and workcenters
func WriteBOM(w io.Writer, bom *entities.BillOfMaterials) error {
	fmt.Fprintf(w, "📋 %s\n", bom.DisplayName())
	fmt.Fprintf(w, "Type: %s  Quantity: %s %s  Sequence: %d\n", bom.Type, bom.Quantity, uomName(bom.UoM), bom.Sequence)
	if bom.Product != nil {
		fmt.Fprintf(w, "Variant: %s\n", bom.Product.DisplayName())
	}
	if bom.PickingTypeID != 0 || bom.CompanyID != 0 {
		fmt.Fprintf(w, "Picking Type: %d  Company: %d\n", bom.PickingTypeID, bom.CompanyID)
	}
	if bom.ToolProduct != nil {
		fmt.Fprintf(w, "Tool: %s\n", bom.ToolProduct.DisplayName())
	}
	fmt.Fprintln(w)

	lines := bom.AllLines()
	if len(lines) > 0 {
		fmt.Fprintf(w, "%-4s %-8s %-30s %12s %-8s %s\n", "Seq", "Kind", "Component", "Qty", "UoM", "Applies To")
		fmt.Fprintf(w, "%-4s %-8s %-30s %12s %-8s %s\n",
			"----", "--------", "------------------------------", "------------", "--------", "----------")
	}
	for _, line := range lines {
		var seq int
		var component, kind string
		switch l := line.(type) {
		case *entities.BOMLine:
			seq, component, kind = l.Sequence, l.Product.DisplayName(), "product"
		case *entities.BOMTemplateLine:
			seq, component, kind = l.Sequence, l.ProductTemplate.Name, "template"
		}
		fmt.Fprintf(w, "%-4d %-8s %-30s %12s %-8s %s\n",
			seq, kind, truncate(component, 30), line.QtyPerUnit(), uomName(line.LineUoM()),
			restrictionNames(line.VariantRestrictions()))
	}

	if len(bom.WorkcenterParameters) > 0 {
		fmt.Fprintf(w, "\n%-20s %8s %8s %8s %8s\n", "Workcenter", "Cycles", "Hours", "Start", "Stop")
		for _, wc := range bom.WorkcenterParameters {
			fmt.Fprintf(w, "%-20s %8s %8s %8s %8s\n",
				truncate(wc.Workcenter, 20), wc.CycleNumber, wc.HourNumber, wc.TimeStart, wc.TimeStop)
		}
	}
	return nil
}

// WriteValidation prints a catalog validation report
func WriteValidation(w io.Writer, result *bom_validator.ValidationResult) error {
	if result.Valid() {
		fmt.Fprintln(w, "✅ Catalog is valid")
	} else {
		fmt.Fprintf(w, "❌ Catalog has %d error(s)\n", len(result.Errors))
	}

	for _, e := range result.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	return nil
}

func restrictionNames(values []entities.AttributeValue) string {
	if len(values) == 0 {
		return "all variants"
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}
