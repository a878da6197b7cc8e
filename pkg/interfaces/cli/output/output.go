// Package output renders explosion results, BOM structures and validation
// reports for the command line.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/dto"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatSVG  = "svg"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate writes result in the configured format. With an output directory
// the result is saved to files there instead of w.
func Generate(w io.Writer, result *dto.ExplosionResult, config Config) error {
	switch config.Format {
	case FormatText, "":
		return emit(w, config, "explosion.txt", func(out io.Writer) error {
			return writeText(out, result)
		})
	case FormatJSON:
		return emit(w, config, "explosion.json", func(out io.Writer) error {
			return writeJSON(out, result)
		})
	case FormatCSV:
		return generateCSVOutput(w, result, config)
	case FormatSVG:
		return emit(w, config, "operations.svg", func(out io.Writer) error {
			_, err := io.WriteString(out, NewGanttChart(result).GenerateSVG(result)+"\n")
			return err
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// emit renders to w, or to name inside the output directory
func emit(w io.Writer, config Config, name string, render func(io.Writer) error) error {
	if config.OutputDir == "" {
		return render(w)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	filename, err := writeOutputFile(config.OutputDir, name, buf.Bytes())
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
	}
	return nil
}

func writeOutputFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

func writeText(w io.Writer, result *dto.ExplosionResult) error {
	fmt.Fprintf(w, "📊 Explosion of %s x %s\n", result.Product.DisplayName(), result.Quantity)
	fmt.Fprintf(w, "======================\n\n")

	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Bill of Materials: %s\n", result.BOM.DisplayName())
	fmt.Fprintf(w, "Assemblies: %d\n", len(result.Assemblies))
	fmt.Fprintf(w, "Components: %d\n", len(result.Components))
	fmt.Fprintf(w, "Explosion Time: %v\n\n", result.Duration)

	if len(result.Components) > 0 {
		fmt.Fprintf(w, "🔩 Components:\n")
		fmt.Fprintf(w, "%-30s %12s %-8s %-20s %-20s\n", "Product", "Qty", "UoM", "Produces", "Via Kit")
		fmt.Fprintf(w, "%-30s %12s %-8s %-20s %-20s\n",
			"------------------------------", "------------", "--------", "--------------------", "--------------------")
		for _, c := range result.Components {
			fmt.Fprintf(w, "%-30s %12s %-8s %-20s %-20s\n",
				truncate(c.TargetProduct.DisplayName(), 30),
				c.Qty,
				uomName(c.Line.LineUoM()),
				truncate(productCode(c.SourceProduct), 20),
				truncate(parentName(c.ParentLine), 20))
		}
		fmt.Fprintln(w)
	}

	if len(result.Requirements) > 0 {
		fmt.Fprintf(w, "📦 Requirements:\n")
		fmt.Fprintf(w, "%-30s %12s %-8s %12s %12s %6s\n", "Product", "Qty", "UoM", "Unit Cost", "Cost", "Lines")
		fmt.Fprintf(w, "%-30s %12s %-8s %12s %12s %6s\n",
			"------------------------------", "------------", "--------", "------------", "------------", "------")
		for _, r := range result.Requirements {
			fmt.Fprintf(w, "%-30s %12s %-8s %12s %12s %6d\n",
				truncate(r.Product.DisplayName(), 30),
				r.Quantity,
				uomName(r.UoM),
				r.UnitCost,
				r.Cost.StringFixed(2),
				r.Lines)
		}
		fmt.Fprintln(w)
	}

	if len(result.Operations) > 0 {
		fmt.Fprintf(w, "⏱️  Operations:\n")
		fmt.Fprintf(w, "%-20s %-30s %10s %10s\n", "Workcenter", "Bill of Materials", "Cycles", "Hours")
		fmt.Fprintf(w, "%-20s %-30s %10s %10s\n",
			"--------------------", "------------------------------", "----------", "----------")
		for _, op := range result.Operations {
			fmt.Fprintf(w, "%-20s %-30s %10s %10s\n",
				truncate(op.Workcenter, 20),
				truncate(op.BOM.DisplayName(), 30),
				op.Cycles,
				op.Hours.StringFixed(2))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Material Cost: %s\n", result.MaterialCost.StringFixed(2))
	_, err := fmt.Fprintf(w, "Operation Hours: %s\n", result.OperationHours.StringFixed(2))
	return err
}

type jsonComponent struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	UoM      string          `json:"uom"`
	LineKind string          `json:"line_kind"`
	LineID   int64           `json:"line_id"`
	Produces string          `json:"produces"`
	ViaKit   string          `json:"via_kit,omitempty"`
}

type jsonRequirement struct {
	Product    string          `json:"product"`
	Quantity   decimal.Decimal `json:"quantity"`
	UoM        string          `json:"uom"`
	ProductQty decimal.Decimal `json:"product_qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Cost       decimal.Decimal `json:"cost"`
	Lines      int             `json:"lines"`
}

type jsonOperation struct {
	Workcenter string          `json:"workcenter"`
	BOM        string          `json:"bom"`
	Cycles     decimal.Decimal `json:"cycles"`
	Hours      decimal.Decimal `json:"hours"`
}

type jsonResult struct {
	RunID          string            `json:"run_id"`
	Product        string            `json:"product"`
	BOM            string            `json:"bom"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Assemblies     []string          `json:"assemblies"`
	Components     []jsonComponent   `json:"components"`
	Requirements   []jsonRequirement `json:"requirements"`
	Operations     []jsonOperation   `json:"operations"`
	MaterialCost   decimal.Decimal   `json:"material_cost"`
	OperationHours decimal.Decimal   `json:"operation_hours"`
	Duration       string            `json:"duration"`
}

func writeJSON(w io.Writer, result *dto.ExplosionResult) error {
	view := jsonResult{
		RunID:          result.RunID.String(),
		Product:        productCode(result.Product),
		BOM:            result.BOM.DisplayName(),
		Quantity:       result.Quantity,
		Assemblies:     make([]string, 0, len(result.Assemblies)),
		Components:     make([]jsonComponent, 0, len(result.Components)),
		Requirements:   make([]jsonRequirement, 0, len(result.Requirements)),
		Operations:     make([]jsonOperation, 0, len(result.Operations)),
		MaterialCost:   result.MaterialCost,
		OperationHours: result.OperationHours,
		Duration:       result.Duration.String(),
	}
	for _, a := range result.Assemblies {
		view.Assemblies = append(view.Assemblies, a.BOM.DisplayName())
	}
	for _, c := range result.Components {
		view.Components = append(view.Components, jsonComponent{
			Product:  productCode(c.TargetProduct),
			Quantity: c.Qty,
			UoM:      uomName(c.Line.LineUoM()),
			LineKind: string(c.Line.Kind()),
			LineID:   int64(c.Line.LineID()),
			Produces: productCode(c.SourceProduct),
			ViaKit:   parentName(c.ParentLine),
		})
	}
	for _, r := range result.Requirements {
		view.Requirements = append(view.Requirements, jsonRequirement{
			Product:    productCode(r.Product),
			Quantity:   r.Quantity,
			UoM:        uomName(r.UoM),
			ProductQty: r.ProductQty,
			UnitCost:   r.UnitCost,
			Cost:       r.Cost,
			Lines:      r.Lines,
		})
	}
	for _, op := range result.Operations {
		view.Operations = append(view.Operations, jsonOperation{
			Workcenter: op.Workcenter,
			BOM:        op.BOM.DisplayName(),
			Cycles:     op.Cycles,
			Hours:      op.Hours,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// generateCSVOutput writes components to w, or components, requirements and
// operations files to the output directory
func generateCSVOutput(w io.Writer, result *dto.ExplosionResult, config Config) error {
	if config.OutputDir == "" {
		return writeComponentsCSV(w, result.Components)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"components.csv", func(out io.Writer) error { return writeComponentsCSV(out, result.Components) }},
		{"requirements.csv", func(out io.Writer) error { return writeRequirementsCSV(out, result.Requirements) }},
		{"operations.csv", func(out io.Writer) error { return writeOperationsCSV(out, result.Operations) }},
	}
	for _, f := range files {
		if err := emit(w, config, f.name, f.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}
	return nil
}

func writeComponentsCSV(w io.Writer, components []entities.ComponentUse) error {
	rows := [][]string{{"product", "quantity", "uom", "line_kind", "line_id", "produces", "via_kit"}}
	for _, c := range components {
		rows = append(rows, []string{
			productCode(c.TargetProduct),
			c.Qty.String(),
			uomName(c.Line.LineUoM()),
			string(c.Line.Kind()),
			fmt.Sprintf("%d", c.Line.LineID()),
			productCode(c.SourceProduct),
			parentName(c.ParentLine),
		})
	}
	return writeCSV(w, rows)
}

func writeRequirementsCSV(w io.Writer, requirements []dto.Requirement) error {
	rows := [][]string{{"product", "quantity", "uom", "product_qty", "unit_cost", "cost", "lines"}}
	for _, r := range requirements {
		rows = append(rows, []string{
			productCode(r.Product),
			r.Quantity.String(),
			uomName(r.UoM),
			r.ProductQty.String(),
			r.UnitCost.String(),
			r.Cost.String(),
			fmt.Sprintf("%d", r.Lines),
		})
	}
	return writeCSV(w, rows)
}

func writeOperationsCSV(w io.Writer, ops []dto.Operation) error {
	rows := [][]string{{"workcenter", "bom", "cycles", "hours"}}
	for _, op := range ops {
		rows = append(rows, []string{op.Workcenter, op.BOM.DisplayName(), op.Cycles.String(), op.Hours.String()})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func productCode(p *entities.Product) string {
	if p == nil {
		return ""
	}
	if p.DefaultCode != "" {
		return p.DefaultCode
	}
	return p.DisplayName()
}

func uomName(u *entities.UoM) string {
	if u == nil {
		return ""
	}
	return u.Name
}

// parentName names the phantom line a component was reached through
func parentName(line entities.Line) string {
	switch l := line.(type) {
	case *entities.BOMLine:
		return productCode(l.Product)
	case *entities.BOMTemplateLine:
		return l.ProductTemplate.Name
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
