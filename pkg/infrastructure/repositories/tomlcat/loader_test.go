package tomlcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
[[uom]]
id = 1
name = "Units"
category = "Unit"
ratio = 1
rounding = 1

[[uom]]
id = 2
name = "Dozens"
category = "Unit"
type = "bigger"
ratio = 12
rounding = 1

[[product]]
template_id = 10
template = "Table"
id = 100
code = "TABLE"
uom = "Units"
price = 250

[[product]]
template_id = 11
template = "Screw"
id = 110
code = "SCREW"
uom = "Units"
price = "0.05"

[[bom]]
id = 1
code = "TBL"
template_id = 10
quantity = 1

[[bom_line]]
id = 1
bom_id = 1
product_code = "SCREW"
quantity = 0.333
uom = "Dozens"

[[workcenter]]
bom_id = 1
workcenter = "Assembly"
cycle_nbr = 1
hour_nbr = 0.5
`

func TestParse(t *testing.T) {
	snap, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, snap.UoMs, 2)
	assert.Equal(t, "bigger", snap.UoMs[1].Type)
	assert.True(t, snap.UoMs[1].Ratio.Equal(decimal.NewFromInt(12)))

	require.Len(t, snap.Products, 2)
	assert.True(t, snap.Products[1].Price.Equal(decimal.RequireFromString("0.05")))

	require.Len(t, snap.BOMLines, 1)
	assert.Equal(t, "0.333", snap.BOMLines[0].Quantity.String())
	require.Len(t, snap.Workcenters, 1)
	assert.Equal(t, "0.5", snap.Workcenters[0].HourNumber.String())

	catalog, err := snap.Build()
	require.NoError(t, err)
	require.Len(t, catalog.BOMs, 1)
	assert.Equal(t, "Dozens", catalog.BOMs[0].Lines[0].UoM.Name)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("[[uom]\nid = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing catalog")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteThenLoad(t *testing.T) {
	snap, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, Write(path, snap))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(snap.Products), len(loaded.Products))
	assert.True(t, loaded.BOMLines[0].Quantity.Equal(snap.BOMLines[0].Quantity))
	assert.Equal(t, snap.Workcenters[0].Workcenter, loaded.Workcenters[0].Workcenter)
}
