package variant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

var (
	red   = entities.AttributeValue{ID: 1, AttributeID: 10, Name: "Red"}
	blue  = entities.AttributeValue{ID: 2, AttributeID: 10, Name: "Blue"}
	small = entities.AttributeValue{ID: 3, AttributeID: 20, Name: "S"}
	large = entities.AttributeValue{ID: 4, AttributeID: 20, Name: "L"}
)

func newTemplate(t *testing.T, id entities.ProductTemplateID, name string, variants ...[]entities.AttributeValue) *entities.ProductTemplate {
	t.Helper()
	unit := &entities.UoM{ID: 1, Name: "Units", Ratio: decimal.NewFromInt(1), Rounding: decimal.NewFromInt(1)}
	tmpl, err := entities.NewProductTemplate(id, name, "", unit)
	require.NoError(t, err)
	for i, values := range variants {
		tmpl.AddVariant(&entities.Product{
			ID:              entities.ProductID(int64(id)*100 + int64(i)),
			AttributeValues: values,
			Active:          true,
		})
	}
	return tmpl
}

func TestMatcher_MatchVariant(t *testing.T) {
	cover := newTemplate(t, 1, "Cover",
		[]entities.AttributeValue{red},
		[]entities.AttributeValue{blue},
	)
	screw := newTemplate(t, 2, "Screw", nil)
	box := newTemplate(t, 3, "Box",
		[]entities.AttributeValue{red, small},
		[]entities.AttributeValue{blue, large},
	)

	line := func(tmpl *entities.ProductTemplate) *entities.BOMTemplateLine {
		l, err := entities.NewBOMTemplateLine(1, tmpl, decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		return l
	}

	tests := []struct {
		name    string
		line    *entities.BOMTemplateLine
		current *entities.Product
		want    *entities.Product
	}{
		{
			name:    "matches on shared attribute",
			line:    line(cover),
			current: box.Variants[1],
			want:    cover.Variants[1],
		},
		{
			name:    "single variant without attributes always matches",
			line:    line(screw),
			current: box.Variants[0],
			want:    screw.Variants[0],
		},
		{
			name:    "no agreeing variant",
			line:    line(box),
			current: &entities.Product{AttributeValues: []entities.AttributeValue{red, large}},
			want:    nil,
		},
		{
			name:    "nil current with several variants",
			line:    line(cover),
			current: nil,
			want:    nil,
		},
	}

	m := NewMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, m.MatchVariant(tt.line, tt.current))
		})
	}
}

func TestMatcher_IgnoresArchivedVariants(t *testing.T) {
	cover := newTemplate(t, 1, "Cover",
		[]entities.AttributeValue{red},
		[]entities.AttributeValue{red},
	)
	cover.Variants[0].Active = false

	l, err := entities.NewBOMTemplateLine(1, cover, decimal.NewFromInt(1), nil)
	require.NoError(t, err)

	current := &entities.Product{AttributeValues: []entities.AttributeValue{red}}
	assert.Same(t, cover.Variants[1], NewMatcher().MatchVariant(l, current))
}

func TestSkipper_SkipLine(t *testing.T) {
	screw := newTemplate(t, 2, "Screw", nil)
	line, err := entities.NewBOMLine(1, screw.Variants[0], decimal.NewFromInt(2), nil)
	require.NoError(t, err)

	redSmall := &entities.Product{AttributeValues: []entities.AttributeValue{red, small}}
	blueSmall := &entities.Product{AttributeValues: []entities.AttributeValue{blue, small}}

	s := NewSkipper()

	assert.False(t, s.SkipLine(line, redSmall), "unrestricted line is never skipped")

	line.ApplyOnVariants = []entities.AttributeValue{red}
	assert.False(t, s.SkipLine(line, redSmall))
	assert.True(t, s.SkipLine(line, blueSmall))
	assert.False(t, s.SkipLine(line, nil), "nil product never skips")

	line.ApplyOnVariants = []entities.AttributeValue{red, blue, large}
	assert.True(t, s.SkipLine(line, redSmall), "size restriction not satisfied")
}
