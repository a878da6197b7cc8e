package gormrepo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/explosion"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewStore(db)
}

func loadSample(t *testing.T, s *Store) *catalog.Catalog {
	t.Helper()
	snap := &catalog.Snapshot{
		UoMs: []catalog.UoMRecord{
			{ID: 1, Name: "Units", Category: "Unit", Ratio: d("1"), Rounding: d("1")},
			{ID: 2, Name: "Dozens", Category: "Unit", Ratio: d("12"), Rounding: d("1")},
		},
		Products: []catalog.ProductRecord{
			{TemplateID: 10, TemplateName: "Lamp", ProductID: 100, Code: "LAMP-R", UoM: "Units", Attributes: "Color:Red", Price: d("40")},
			{TemplateID: 10, TemplateName: "Lamp", ProductID: 101, Code: "LAMP-B", UoM: "Units", Attributes: "Color:Blue", Price: d("42")},
			{TemplateID: 11, TemplateName: "Shade", ProductID: 110, Code: "SHADE-R", UoM: "Units", Attributes: "Color:Red", Price: d("9")},
			{TemplateID: 11, TemplateName: "Shade", ProductID: 111, Code: "SHADE-B", UoM: "Units", Attributes: "Color:Blue", Price: d("9")},
			{TemplateID: 12, TemplateName: "Bulb Kit", ProductID: 120, Code: "BULBKIT", UoM: "Units"},
			{TemplateID: 13, TemplateName: "Bulb", ProductID: 130, Code: "BULB", UoM: "Units", Price: d("1.5")},
			{TemplateID: 14, TemplateName: "Screw", ProductID: 140, Code: "SCREW", UoM: "Units", Price: d("0.02")},
		},
		BOMs: []catalog.BOMRecord{
			{ID: 1, Code: "LAMP", TemplateID: 10, Quantity: d("1"), Sequence: 10, CompanyID: 1},
			{ID: 2, Code: "LAMP-B", TemplateID: 10, ProductCode: "LAMP-B", Quantity: d("1"), Sequence: 20},
			{ID: 3, Code: "KIT", TemplateID: 12, Type: "phantom", Quantity: d("1")},
		},
		BOMLines: []catalog.BOMLineRecord{
			{ID: 1, BOMID: 1, ProductCode: "BULBKIT", Quantity: d("1")},
			{ID: 2, BOMID: 1, ProductCode: "SCREW", Quantity: d("0.5"), UoM: "Dozens", ApplyOn: "Color:Red"},
			{ID: 3, BOMID: 3, ProductCode: "BULB", Quantity: d("2")},
			{ID: 4, BOMID: 2, ProductCode: "BULB", Quantity: d("1")},
		},
		TemplateLines: []catalog.TemplateLineRecord{
			{ID: 5, BOMID: 1, TemplateID: 11, Quantity: d("1")},
		},
		Workcenters: []catalog.WorkcenterRecord{
			{BOMID: 1, Workcenter: "Assembly", CycleNumber: d("1"), HourNumber: d("0.25")},
		},
	}
	cat, err := snap.Build()
	require.NoError(t, err)
	require.NoError(t, cat.Load(context.Background(), s, s, s))
	return cat
}

func TestStore_UoMs(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	dozens, err := s.GetUoMByName(ctx, "Dozens")
	require.NoError(t, err)
	assert.Equal(t, entities.UoMID(2), dozens.ID)
	assert.True(t, dozens.Ratio.Equal(d("12")))
	assert.Equal(t, entities.UoMBigger, dozens.Type)

	all, err := s.ListUoMs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.GetUoM(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_Products(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	red, err := s.GetProductByCode(ctx, "LAMP-R")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", red.Template.Name)
	assert.Len(t, red.Template.Variants, 2)
	require.Len(t, red.AttributeValues, 1)
	assert.Equal(t, "Red", red.AttributeValues[0].Name)
	assert.True(t, red.StandardPrice.Equal(d("40")))

	byID, err := s.GetProduct(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "LAMP-B", byID.DefaultCode)

	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 5)

	_, err = s.GetProductByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_SaveTemplateReplacesVariants(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	tmpl, err := s.GetTemplate(ctx, 10)
	require.NoError(t, err)
	tmpl.Variants = tmpl.Variants[:1]
	tmpl.Name = "Desk Lamp"
	require.NoError(t, s.SaveTemplate(ctx, tmpl))

	reloaded, err := s.GetTemplate(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", reloaded.Name)
	require.Len(t, reloaded.Variants, 1)
	assert.Equal(t, "LAMP-R", reloaded.Variants[0].DefaultCode)

	_, err = s.GetProductByCode(ctx, "LAMP-B")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_GetBOM(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	bom, err := s.GetBOMByCode(ctx, "LAMP")
	require.NoError(t, err)
	assert.Equal(t, entities.BOMNormal, bom.Type)
	assert.Equal(t, entities.CompanyID(1), bom.CompanyID)
	require.Len(t, bom.Lines, 2)
	assert.Equal(t, "Dozens", bom.Lines[1].UoM.Name)
	assert.True(t, bom.Lines[1].Quantity.Equal(d("0.5")))
	require.Len(t, bom.Lines[1].ApplyOnVariants, 1)
	assert.Equal(t, "Red", bom.Lines[1].ApplyOnVariants[0].Name)
	require.Len(t, bom.TemplateLines, 1)
	assert.Equal(t, "Shade", bom.TemplateLines[0].ProductTemplate.Name)
	require.Len(t, bom.WorkcenterParameters, 1)
	assert.True(t, bom.WorkcenterParameters[0].HourNumber.Equal(d("0.25")))

	kit, err := s.GetBOM(ctx, 3)
	require.NoError(t, err)
	assert.True(t, kit.IsPhantom())

	all, err := s.ListBOMs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.GetBOM(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_FindBOM(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	tests := []struct {
		name   string
		code   string
		opts   repositories.FindOptions
		wantID entities.BOMID
	}{
		{name: "template bom", code: "LAMP-R", wantID: 1},
		{name: "lower sequence beats variant bom", code: "LAMP-B", wantID: 1},
		{name: "variant bom when template bom is filtered out", code: "LAMP-B", opts: repositories.FindOptions{CompanyID: 2}, wantID: 2},
		{name: "matching company", code: "LAMP-R", opts: repositories.FindOptions{CompanyID: 1}, wantID: 1},
		{name: "other company", code: "LAMP-R", opts: repositories.FindOptions{CompanyID: 2}, wantID: 0},
		{name: "no bom", code: "SCREW", wantID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.GetProductByCode(ctx, tt.code)
			require.NoError(t, err)

			bom, err := s.FindBOM(ctx, p, tt.opts)
			require.NoError(t, err)
			if tt.wantID == 0 {
				assert.Nil(t, bom)
				return
			}
			require.NotNil(t, bom)
			assert.Equal(t, tt.wantID, bom.ID)
		})
	}
}

func TestStore_SaveBOMReplacesLines(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	bom, err := s.GetBOM(ctx, 1)
	require.NoError(t, err)
	bom.Lines = bom.Lines[:1]
	bom.WorkcenterParameters = nil
	require.NoError(t, s.SaveBOM(ctx, bom))

	reloaded, err := s.GetBOM(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reloaded.Lines, 1)
	assert.Len(t, reloaded.TemplateLines, 1)
	assert.Empty(t, reloaded.WorkcenterParameters)
}

func TestStore_ExplodeThroughResolver(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	loadSample(t, s)

	red, err := s.GetProductByCode(ctx, "LAMP-R")
	require.NoError(t, err)
	bom, err := s.FindBOM(ctx, red, repositories.FindOptions{})
	require.NoError(t, err)

	engine := explosion.NewEngine(explosion.NewRepositoryResolver(ctx, s))
	result, err := engine.Explode(bom, red, d("3"))
	require.NoError(t, err)

	require.Len(t, result.Assemblies, 2)
	assert.Equal(t, "KIT", result.Assemblies[1].BOM.Code)

	got := make(map[string]string)
	for _, c := range result.Components {
		got[c.TargetProduct.DefaultCode] = c.Qty.String()
	}
	assert.Equal(t, map[string]string{
		"BULB":    "6",
		"SCREW":   "2",
		"SHADE-R": "3",
	}, got)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}
