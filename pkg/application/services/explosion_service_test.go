package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	testhelpers "github.com/altinkaya-opensource/odoo-addons/pkg/application/services/testing"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/services/explosion"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/events"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFurnitureService(opts ...ServiceOption) *ExplosionService {
	repos := testhelpers.BuildFurnitureCatalog()
	return NewExplosionService(repos.Products, repos.BOMs, opts...)
}

func TestExplosionService_Explode_Chair(t *testing.T) {
	service := newFurnitureService()

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("2")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	if result.BOM.Code != "CHAIR" {
		t.Errorf("Expected BOM CHAIR, got %s", result.BOM.Code)
	}
	if len(result.Assemblies) != 3 {
		t.Errorf("Expected 3 assemblies (chair and two kits), got %d", len(result.Assemblies))
	}

	wantComponents := []struct {
		code string
		qty  string
	}{
		{"LEG", "8"},
		{"SCREW", "16"},
		{"SCREW", "8"},
		{"GLUE", "100"},
		{"BOX", "2"},
		{"SEAT-R", "2"},
	}
	if len(result.Components) != len(wantComponents) {
		t.Fatalf("Expected %d components, got %d", len(wantComponents), len(result.Components))
	}
	for i, want := range wantComponents {
		got := result.Components[i]
		if got.TargetProduct.DefaultCode != want.code || !got.Qty.Equal(dec(want.qty)) {
			t.Errorf("Component %d: expected %s x %s, got %s x %s",
				i, want.code, want.qty, got.TargetProduct.DefaultCode, got.Qty)
		}
		if !got.OriginalQty.Equal(dec("2")) {
			t.Errorf("Component %d: expected original quantity 2, got %s", i, got.OriginalQty)
		}
	}
}

func TestExplosionService_Explode_Requirements(t *testing.T) {
	service := newFurnitureService()

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("2")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	want := []struct {
		code       string
		uom        string
		qty        string
		productQty string
		cost       string
		lines      int
	}{
		{"LEG", "Units", "8", "8", "28", 1},
		{"SCREW", "Units", "24", "24", "1.2", 2},
		{"GLUE", "g", "100", "0.1", "0.8", 1},
		{"BOX", "Units", "2", "2", "2.4", 1},
		{"SEAT-R", "Units", "2", "2", "24", 1},
	}
	if len(result.Requirements) != len(want) {
		t.Fatalf("Expected %d requirements, got %d", len(want), len(result.Requirements))
	}
	for i, w := range want {
		r := result.Requirements[i]
		if r.Product.DefaultCode != w.code || r.UoM.Name != w.uom {
			t.Errorf("Requirement %d: expected %s in %s, got %s in %s", i, w.code, w.uom, r.Product.DefaultCode, r.UoM.Name)
			continue
		}
		if !r.Quantity.Equal(dec(w.qty)) {
			t.Errorf("%s: expected quantity %s, got %s", w.code, w.qty, r.Quantity)
		}
		if !r.ProductQty.Equal(dec(w.productQty)) {
			t.Errorf("%s: expected product quantity %s, got %s", w.code, w.productQty, r.ProductQty)
		}
		if !r.Cost.Equal(dec(w.cost)) {
			t.Errorf("%s: expected cost %s, got %s", w.code, w.cost, r.Cost)
		}
		if r.Lines != w.lines {
			t.Errorf("%s: expected %d lines, got %d", w.code, w.lines, r.Lines)
		}
	}

	if !result.MaterialCost.Equal(dec("56.4")) {
		t.Errorf("Expected material cost 56.4, got %s", result.MaterialCost)
	}
}

func TestExplosionService_Explode_Operations(t *testing.T) {
	service := newFurnitureService()

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("2")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	if len(result.Operations) != 2 {
		t.Fatalf("Expected 2 operations, got %d", len(result.Operations))
	}
	assembly := result.Operations[0]
	if assembly.Workcenter != "Assembly" || !assembly.Cycles.Equal(dec("2")) || !assembly.Hours.Equal(dec("0.65")) {
		t.Errorf("Unexpected assembly operation: %s cycles=%s hours=%s", assembly.Workcenter, assembly.Cycles, assembly.Hours)
	}
	painting := result.Operations[1]
	if painting.Workcenter != "Painting" || !painting.Hours.Equal(dec("0.2")) {
		t.Errorf("Unexpected painting operation: %s hours=%s", painting.Workcenter, painting.Hours)
	}
	if !result.OperationHours.Equal(dec("0.85")) {
		t.Errorf("Expected 0.85 operation hours, got %s", result.OperationHours)
	}
}

func TestExplosionService_Explode_VariantRestriction(t *testing.T) {
	service := newFurnitureService()

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-B", Quantity: dec("1")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	codes := make(map[string]decimal.Decimal)
	for _, r := range result.Requirements {
		codes[r.Product.DefaultCode] = r.Quantity
	}
	if qty, ok := codes["FELT"]; !ok || !qty.Equal(dec("4")) {
		t.Errorf("Expected 4 felt pads on the blue chair, got %v", codes["FELT"])
	}
	if _, ok := codes["SEAT-B"]; !ok {
		t.Error("Expected the blue seat to be matched by the template line")
	}
	if _, ok := codes["SEAT-R"]; ok {
		t.Error("Red seat must not be used on the blue chair")
	}
}

func TestExplosionService_Explode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     ExplodeRequest
		wantIs  error
		wantMsg string
	}{
		{
			name:   "unknown product",
			req:    ExplodeRequest{ProductCode: "NOPE", Quantity: dec("1")},
			wantIs: repositories.ErrNotFound,
		},
		{
			name:   "product without bom",
			req:    ExplodeRequest{ProductCode: "LEG", Quantity: dec("1")},
			wantIs: ErrNoBOM,
		},
		{
			name:   "zero quantity",
			req:    ExplodeRequest{ProductCode: "CHAIR-R", Quantity: decimal.Zero},
			wantIs: explosion.ErrInvalidQuantity,
		},
		{
			name:   "unknown forced bom",
			req:    ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("1"), BOMCode: "NOPE"},
			wantIs: repositories.ErrNotFound,
		},
		{
			name:    "forced bom for another product",
			req:     ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("1"), BOMCode: "SKIT"},
			wantMsg: "does not produce",
		},
	}

	service := newFurnitureService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Explode(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Expected error matching %v, got %v", tt.wantIs, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestExplosionService_Explode_ForcedBOM(t *testing.T) {
	service := newFurnitureService()

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-B", Quantity: dec("1"), BOMCode: "CHAIR"})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	if result.BOM.Code != "CHAIR" {
		t.Errorf("Expected forced BOM CHAIR, got %s", result.BOM.Code)
	}
}

func TestExplosionService_Explode_PublishesEvents(t *testing.T) {
	store := events.NewInMemoryEventStore(zap.NewNop())
	service := newFurnitureService(WithEventStore(store))

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("2")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	stream, err := store.ReadEvents("CHAIR-R", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(stream) != 1 || stream[0].Type() != events.BOMExplodedEvent {
		t.Fatalf("Expected one %s event, got %d", events.BOMExplodedEvent, len(stream))
	}
	data, ok := stream[0].Data().(events.BOMExploded)
	if !ok {
		t.Fatalf("Unexpected event payload %T", stream[0].Data())
	}
	if data.RunID != result.RunID.String() || data.Components != 6 || data.MaterialCost != "56.4" {
		t.Errorf("Unexpected event payload: %+v", data)
	}
}

func TestExplosionService_Explode_Cycle(t *testing.T) {
	store := events.NewInMemoryEventStore(zap.NewNop())
	repos := testhelpers.MustLoad(testhelpers.CyclicSnapshot())
	service := NewExplosionService(repos.Products, repos.BOMs, WithEventStore(store))

	_, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "TABLE", Quantity: dec("1")})
	if !errors.Is(err, entities.ErrCyclicBOM) {
		t.Fatalf("Expected cyclic BOM error, got %v", err)
	}
	var cyclic *entities.CyclicBOMError
	if !errors.As(err, &cyclic) {
		t.Fatalf("Expected *CyclicBOMError in chain, got %T", err)
	}

	stream, _ := store.ReadEvents("TABLE", 0)
	if len(stream) != 1 || stream[0].Type() != events.BOMCycleDetectedEvent {
		t.Fatalf("Expected one cycle event, got %d", len(stream))
	}
	data := stream[0].Data().(events.BOMCycleDetected)
	if len(data.Chain) != 3 || data.Chain[0] != 2 || data.Chain[1] != 3 || data.Chain[2] != 2 {
		t.Errorf("Expected chain [2 3 2], got %v", data.Chain)
	}
}

func TestExplosionService_Explode_LogsRunID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	service := newFurnitureService(WithLogger(zap.New(core)))

	result, err := service.Explode(context.Background(), ExplodeRequest{ProductCode: "CHAIR-R", Quantity: dec("1")})
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	done := logs.FilterMessage("explosion complete").All()
	if len(done) != 1 {
		t.Fatalf("Expected one completion log, got %d", len(done))
	}
	if got := done[0].ContextMap()["run_id"]; got != result.RunID.String() {
		t.Errorf("Expected run_id %s, got %v", result.RunID, got)
	}
}
