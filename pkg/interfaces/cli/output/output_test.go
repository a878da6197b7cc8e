package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/dto"
	"github.com/altinkaya-opensource/odoo-addons/pkg/application/services"
	testhelpers "github.com/altinkaya-opensource/odoo-addons/pkg/application/services/testing"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/bom_validator"
)

func explodeChair(t *testing.T) *dto.ExplosionResult {
	t.Helper()
	repos := testhelpers.BuildFurnitureCatalog()
	svc := services.NewExplosionService(repos.Products, repos.BOMs)
	result, err := svc.Explode(context.Background(), services.ExplodeRequest{
		ProductCode: "CHAIR-R",
		Quantity:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	return result
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, explodeChair(t), Config{Format: FormatText}))

	out := buf.String()
	assert.Contains(t, out, "[CHAIR-R] Chair (Red)")
	assert.Contains(t, out, "[SCREW] Screw")
	assert.Contains(t, out, "Assembly")
	assert.Contains(t, out, "Material Cost: 56.40")
	assert.Contains(t, out, "Operation Hours: 0.85")
}

func TestGenerate_JSON(t *testing.T) {
	result := explodeChair(t)
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, result, Config{Format: FormatJSON}))

	var view jsonResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, result.RunID.String(), view.RunID)
	assert.Equal(t, "CHAIR-R", view.Product)
	assert.Len(t, view.Components, 6)
	assert.Equal(t, "SKIT", view.Components[1].ViaKit)
	assert.Empty(t, view.Components[0].ViaKit)
	assert.True(t, view.MaterialCost.Equal(decimal.RequireFromString("56.4")))
	assert.Len(t, view.Assemblies, 3)
}

func TestGenerate_CSVToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, explodeChair(t), Config{Format: FormatCSV}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "product,quantity,uom,line_kind,line_id,produces,via_kit", lines[0])
	assert.Equal(t, "LEG,8,Units,bom_line,1,CHAIR-R,", lines[1])
}

func TestGenerate_CSVToDirectory(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, explodeChair(t), Config{Format: FormatCSV, OutputDir: dir}))

	for _, name := range []string{"components.csv", "requirements.csv", "operations.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "requirements.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SCREW,24,Units,24,0.05,1.2,2")
	assert.Empty(t, buf.String())
}

func TestGenerate_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, explodeChair(t), Config{Format: FormatSVG}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, ">Assembly<")
	assert.Contains(t, out, ">Painting<")
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(&bytes.Buffer{}, explodeChair(t), Config{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestWriteBOM(t *testing.T) {
	repos := testhelpers.BuildFurnitureCatalog()
	bom, err := repos.BOMs.GetBOMByCode(context.Background(), "CHAIR")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBOM(&buf, bom))

	out := buf.String()
	assert.Contains(t, out, "CHAIR: Chair")
	assert.Contains(t, out, "Tool: [JIG] Assembly Jig")
	assert.Contains(t, out, "Seat")
	assert.Contains(t, out, "Blue")
	assert.Contains(t, out, "all variants")
	assert.Contains(t, out, "Painting")
}

func TestWriteValidation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteValidation(&buf, &bom_validator.ValidationResult{
		Errors:   []string{"cycle detected"},
		Warnings: []string{"orphaned line"},
	}))

	out := buf.String()
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "error: cycle detected")
	assert.Contains(t, out, "warning: orphaned line")
}
