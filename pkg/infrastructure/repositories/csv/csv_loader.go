package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
)

// File names read by LoadDir
const (
	UoMsFile          = "uoms.csv"
	ProductsFile      = "products.csv"
	BOMsFile          = "boms.csv"
	BOMLinesFile      = "bom_lines.csv"
	TemplateLinesFile = "bom_template_lines.csv"
	WorkcentersFile   = "workcenters.csv"
)

var (
	uomHeader          = []string{"id", "name", "category", "type", "ratio", "rounding"}
	productHeader      = []string{"template_id", "template", "id", "code", "uom", "attributes", "price", "archived"}
	bomHeader          = []string{"id", "code", "template_id", "product_code", "type", "quantity", "uom", "sequence", "picking_type_id", "company_id", "checked", "tool_code"}
	bomLineHeader      = []string{"id", "bom_id", "product_code", "quantity", "uom", "sequence", "apply_on"}
	templateLineHeader = []string{"id", "bom_id", "template_id", "quantity", "uom", "sequence", "apply_on"}
	workcenterHeader   = []string{"bom_id", "workcenter", "cycle_nbr", "hour_nbr", "time_start", "time_stop"}
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir reads a catalog directory into a snapshot. Template lines and
// workcenters are optional.
func (l *Loader) LoadDir(dir string) (*catalog.Snapshot, error) {
	var (
		snap catalog.Snapshot
		err  error
	)

	if snap.UoMs, err = l.LoadUoMs(filepath.Join(dir, UoMsFile)); err != nil {
		return nil, err
	}
	if snap.Products, err = l.LoadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, err
	}
	if snap.BOMs, err = l.LoadBOMs(filepath.Join(dir, BOMsFile)); err != nil {
		return nil, err
	}
	if snap.BOMLines, err = l.LoadBOMLines(filepath.Join(dir, BOMLinesFile)); err != nil {
		return nil, err
	}
	if snap.TemplateLines, err = l.LoadTemplateLines(filepath.Join(dir, TemplateLinesFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if snap.Workcenters, err = l.LoadWorkcenters(filepath.Join(dir, WorkcentersFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &snap, nil
}

// LoadUoMs loads units of measure from a CSV file
func (l *Loader) LoadUoMs(filename string) ([]catalog.UoMRecord, error) {
	var out []catalog.UoMRecord
	err := readTable(filename, "units of measure", uomHeader, true, func(record []string) error {
		id, err := parseInt64("id", record[0])
		if err != nil {
			return err
		}
		ratio, err := parseDecimal("ratio", record[4], decimal.NewFromInt(1))
		if err != nil {
			return err
		}
		rounding, err := parseDecimal("rounding", record[5], decimal.RequireFromString("0.01"))
		if err != nil {
			return err
		}
		out = append(out, catalog.UoMRecord{
			ID:       id,
			Name:     record[1],
			Category: record[2],
			Type:     strings.ToLower(record[3]),
			Ratio:    ratio,
			Rounding: rounding,
		})
		return nil
	})
	return out, err
}

// LoadProducts loads product variants from a CSV file
func (l *Loader) LoadProducts(filename string) ([]catalog.ProductRecord, error) {
	var out []catalog.ProductRecord
	err := readTable(filename, "products", productHeader, true, func(record []string) error {
		templateID, err := parseInt64("template_id", record[0])
		if err != nil {
			return err
		}
		id, err := parseInt64("id", record[2])
		if err != nil {
			return err
		}
		price, err := parseDecimal("price", record[6], decimal.Zero)
		if err != nil {
			return err
		}
		archived, err := parseBool("archived", record[7])
		if err != nil {
			return err
		}
		out = append(out, catalog.ProductRecord{
			TemplateID:   templateID,
			TemplateName: record[1],
			ProductID:    id,
			Code:         record[3],
			UoM:          record[4],
			Attributes:   record[5],
			Price:        price,
			Archived:     archived,
		})
		return nil
	})
	return out, err
}

// LoadBOMs loads bill of materials headers from a CSV file
func (l *Loader) LoadBOMs(filename string) ([]catalog.BOMRecord, error) {
	var out []catalog.BOMRecord
	err := readTable(filename, "BOM", bomHeader, true, func(record []string) error {
		id, err := parseInt64("id", record[0])
		if err != nil {
			return err
		}
		templateID, err := parseInt64("template_id", record[2])
		if err != nil {
			return err
		}
		qty, err := parseDecimal("quantity", record[5], decimal.NewFromInt(1))
		if err != nil {
			return err
		}
		sequence, err := parseInt("sequence", record[7])
		if err != nil {
			return err
		}
		pickingType, err := parseOptionalInt64("picking_type_id", record[8])
		if err != nil {
			return err
		}
		company, err := parseOptionalInt64("company_id", record[9])
		if err != nil {
			return err
		}
		checked, err := parseBool("checked", record[10])
		if err != nil {
			return err
		}
		out = append(out, catalog.BOMRecord{
			ID:            id,
			Code:          record[1],
			TemplateID:    templateID,
			ProductCode:   record[3],
			Type:          strings.ToLower(record[4]),
			Quantity:      qty,
			UoM:           record[6],
			Sequence:      sequence,
			PickingTypeID: pickingType,
			CompanyID:     company,
			Checked:       checked,
			ToolCode:      record[11],
		})
		return nil
	})
	return out, err
}

// LoadBOMLines loads direct BOM lines from a CSV file
func (l *Loader) LoadBOMLines(filename string) ([]catalog.BOMLineRecord, error) {
	var out []catalog.BOMLineRecord
	err := readTable(filename, "BOM lines", bomLineHeader, false, func(record []string) error {
		id, err := parseInt64("id", record[0])
		if err != nil {
			return err
		}
		bomID, err := parseInt64("bom_id", record[1])
		if err != nil {
			return err
		}
		qty, err := parseDecimal("quantity", record[3], decimal.NewFromInt(1))
		if err != nil {
			return err
		}
		sequence, err := parseInt("sequence", record[5])
		if err != nil {
			return err
		}
		out = append(out, catalog.BOMLineRecord{
			ID:          id,
			BOMID:       bomID,
			ProductCode: record[2],
			Quantity:    qty,
			UoM:         record[4],
			Sequence:    sequence,
			ApplyOn:     record[6],
		})
		return nil
	})
	return out, err
}

// LoadTemplateLines loads template-driven BOM lines from a CSV file
func (l *Loader) LoadTemplateLines(filename string) ([]catalog.TemplateLineRecord, error) {
	var out []catalog.TemplateLineRecord
	err := readTable(filename, "BOM template lines", templateLineHeader, false, func(record []string) error {
		id, err := parseInt64("id", record[0])
		if err != nil {
			return err
		}
		bomID, err := parseInt64("bom_id", record[1])
		if err != nil {
			return err
		}
		templateID, err := parseInt64("template_id", record[2])
		if err != nil {
			return err
		}
		qty, err := parseDecimal("quantity", record[3], decimal.NewFromInt(1))
		if err != nil {
			return err
		}
		sequence, err := parseInt("sequence", record[5])
		if err != nil {
			return err
		}
		out = append(out, catalog.TemplateLineRecord{
			ID:         id,
			BOMID:      bomID,
			TemplateID: templateID,
			Quantity:   qty,
			UoM:        record[4],
			Sequence:   sequence,
			ApplyOn:    record[6],
		})
		return nil
	})
	return out, err
}

// LoadWorkcenters loads BOM workcenter parameters from a CSV file
func (l *Loader) LoadWorkcenters(filename string) ([]catalog.WorkcenterRecord, error) {
	var out []catalog.WorkcenterRecord
	err := readTable(filename, "workcenters", workcenterHeader, false, func(record []string) error {
		bomID, err := parseInt64("bom_id", record[0])
		if err != nil {
			return err
		}
		values := make([]decimal.Decimal, 4)
		for i, field := range workcenterHeader[2:] {
			if values[i], err = parseDecimal(field, record[i+2], decimal.Zero); err != nil {
				return err
			}
		}
		out = append(out, catalog.WorkcenterRecord{
			BOMID:       bomID,
			Workcenter:  record[1],
			CycleNumber: values[0],
			HourNumber:  values[1],
			TimeStart:   values[2],
			TimeStop:    values[3],
		})
		return nil
	})
	return out, err
}

// Helper functions for parsing CSV records

// readTable opens filename, checks its header and hands each data row to parse.
// Row numbers in errors count the header as row 1.
func readTable(filename, name string, expectedHeader []string, requireRows bool, parse func([]string) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) == 0 || (requireRows && len(records) < 2) {
		return fmt.Errorf("%s CSV must have header and at least one data row", name)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
		for j := range record {
			record[j] = strings.TrimSpace(record[j])
		}
		if err := parse(record); err != nil {
			return fmt.Errorf("%s CSV row %d: %w", name, i+2, err)
		}
	}

	return nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseInt64(field, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseOptionalInt64(field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return parseInt64(field, s)
}

func parseInt(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseDecimal(field, s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseBool(field, s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", field, s)
	}
	return v, nil
}
