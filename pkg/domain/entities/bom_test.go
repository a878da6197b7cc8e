package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T, id ProductTemplateID, name string) *ProductTemplate {
	t.Helper()
	units := &UoM{ID: 1, Name: "Units", Ratio: d("1"), Rounding: d("1")}
	tmpl, err := NewProductTemplate(id, name, name, units)
	require.NoError(t, err)
	tmpl.AddVariant(&Product{ID: ProductID(id), DefaultCode: name, Active: true})
	return tmpl
}

func TestParseBOMType(t *testing.T) {
	tests := []struct {
		in      string
		want    BOMType
		wantErr bool
	}{
		{"", BOMNormal, false},
		{"normal", BOMNormal, false},
		{"phantom", BOMPhantom, false},
		{"kit", BOMPhantom, false},
		{"subcontract", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBOMType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBillOfMaterials_Validation(t *testing.T) {
	box := newTestTemplate(t, 1, "BOX")

	_, err := NewBillOfMaterials(1, nil, BOMNormal, d("1"), nil)
	assert.EqualError(t, err, "bill of materials 1: product template is required")

	_, err = NewBillOfMaterials(1, box, BOMNormal, d("0"), nil)
	assert.EqualError(t, err, "bill of materials 1: quantity must be positive, got 0")

	bom, err := NewBillOfMaterials(1, box, BOMPhantom, d("2"), nil)
	require.NoError(t, err)
	assert.Same(t, box.UoM, bom.UoM, "defaults to the template unit")
	assert.True(t, bom.IsPhantom())

	var none *BillOfMaterials
	assert.False(t, none.IsPhantom())
}

func TestBillOfMaterials_AllLines(t *testing.T) {
	box := newTestTemplate(t, 1, "BOX")
	panel := newTestTemplate(t, 2, "PANEL")
	paint := newTestTemplate(t, 3, "PAINT")

	bom, err := NewBillOfMaterials(7, box, BOMNormal, d("1"), nil)
	require.NoError(t, err)
	bom.Code = "BOX-01"

	tmplLine, err := NewBOMTemplateLine(2, paint, d("0.5"), nil)
	require.NoError(t, err)
	bom.AddTemplateLine(tmplLine)

	line, err := NewBOMLine(1, panel.Variants[0], d("4"), nil)
	require.NoError(t, err)
	bom.AddLine(line)

	lines := bom.AllLines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindBOMLine, lines[0].Kind())
	assert.Equal(t, KindTemplateLine, lines[1].Kind())
	assert.Equal(t, BOMID(7), line.BOMID)
	assert.Equal(t, BOMID(7), tmplLine.BOMID)

	assert.Equal(t, ProductTemplateID(2), lines[0].TargetTemplateID())
	assert.Equal(t, ProductTemplateID(3), lines[1].TargetTemplateID())
	assert.Equal(t, "4", lines[0].QtyPerUnit().String())
	assert.Same(t, paint.UoM, lines[1].LineUoM())

	assert.Equal(t, "BOX-01: BOX", bom.DisplayName())
}

func TestBOMLine_Validation(t *testing.T) {
	panel := newTestTemplate(t, 2, "PANEL")

	_, err := NewBOMLine(1, nil, d("1"), nil)
	assert.EqualError(t, err, "bom line 1: product is required")
	_, err = NewBOMLine(1, panel.Variants[0], d("-1"), nil)
	assert.EqualError(t, err, "bom line 1: quantity cannot be negative, got -1")

	_, err = NewBOMTemplateLine(3, nil, d("1"), nil)
	assert.EqualError(t, err, "bom template line 3: product template is required")
	_, err = NewBOMTemplateLine(3, panel, d("-2"), nil)
	assert.EqualError(t, err, "bom template line 3: quantity cannot be negative, got -2")
}

func TestCyclicBOMError(t *testing.T) {
	err := fmt.Errorf("planning: %w", &CyclicBOMError{Chain: []ProductTemplateID{1, 2, 1}})

	assert.True(t, errors.Is(err, ErrCyclicBOM))
	assert.Contains(t, err.Error(), "templates 1 -> 2 -> 1")

	var cyclic *CyclicBOMError
	require.True(t, errors.As(err, &cyclic))
	assert.Equal(t, []ProductTemplateID{1, 2, 1}, cyclic.Chain)
}

func TestWorkcenterParameter_Duration(t *testing.T) {
	w := WorkcenterParameter{Workcenter: "Press", CycleNumber: d("2"), HourNumber: d("0.5"), TimeStart: d("0.25"), TimeStop: d("0.25")}
	assert.Equal(t, "5.5", w.Duration(d("5")).String())

	w.CycleNumber = d("0")
	assert.Equal(t, "3", w.Duration(d("5")).String(), "cycle number defaults to one")
}
