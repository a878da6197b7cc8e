package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
)

// WriteDir writes snap as a catalog directory LoadDir can read back.
// The optional files are written only when they have rows.
func WriteDir(dir string, snap *catalog.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	uoms := make([][]string, 0, len(snap.UoMs))
	for _, u := range snap.UoMs {
		uoms = append(uoms, []string{i64(u.ID), u.Name, u.Category, u.Type, dec(u.Ratio), dec(u.Rounding)})
	}
	products := make([][]string, 0, len(snap.Products))
	for _, p := range snap.Products {
		products = append(products, []string{
			i64(p.TemplateID), p.TemplateName, i64(p.ProductID), p.Code, p.UoM, p.Attributes, dec(p.Price), boolean(p.Archived),
		})
	}
	boms := make([][]string, 0, len(snap.BOMs))
	for _, b := range snap.BOMs {
		boms = append(boms, []string{
			i64(b.ID), b.Code, i64(b.TemplateID), b.ProductCode, b.Type, dec(b.Quantity), b.UoM,
			strconv.Itoa(b.Sequence), optional(b.PickingTypeID), optional(b.CompanyID), boolean(b.Checked), b.ToolCode,
		})
	}
	lines := make([][]string, 0, len(snap.BOMLines))
	for _, l := range snap.BOMLines {
		lines = append(lines, []string{
			i64(l.ID), i64(l.BOMID), l.ProductCode, dec(l.Quantity), l.UoM, strconv.Itoa(l.Sequence), l.ApplyOn,
		})
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{UoMsFile, uomHeader, uoms},
		{ProductsFile, productHeader, products},
		{BOMsFile, bomHeader, boms},
		{BOMLinesFile, bomLineHeader, lines},
	}

	if len(snap.TemplateLines) > 0 {
		rows := make([][]string, 0, len(snap.TemplateLines))
		for _, l := range snap.TemplateLines {
			rows = append(rows, []string{
				i64(l.ID), i64(l.BOMID), i64(l.TemplateID), dec(l.Quantity), l.UoM, strconv.Itoa(l.Sequence), l.ApplyOn,
			})
		}
		tables = append(tables, struct {
			name   string
			header []string
			rows   [][]string
		}{TemplateLinesFile, templateLineHeader, rows})
	}
	if len(snap.Workcenters) > 0 {
		rows := make([][]string, 0, len(snap.Workcenters))
		for _, w := range snap.Workcenters {
			rows = append(rows, []string{
				i64(w.BOMID), w.Workcenter, dec(w.CycleNumber), dec(w.HourNumber), dec(w.TimeStart), dec(w.TimeStop),
			})
		}
		tables = append(tables, struct {
			name   string
			header []string
			rows   [][]string
		}{WorkcentersFile, workcenterHeader, rows})
	}

	for _, t := range tables {
		if err := writeTable(filepath.Join(dir, t.name), t.header, t.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

func i64(v int64) string { return strconv.FormatInt(v, 10) }

func optional(v int64) string {
	if v == 0 {
		return ""
	}
	return i64(v)
}

func dec(d decimal.Decimal) string { return d.String() }

func boolean(b bool) string {
	if b {
		return "true"
	}
	return ""
}
