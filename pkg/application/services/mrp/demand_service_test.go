package mrp

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	testhelpers "github.com/visualrobotics/mrp/pkg/application/services/testing"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
)

func newTestDemandService(partRepo *memory.PartRepository, bomRepo *memory.BOMRepository) *DemandService {
	return NewDemandService(partRepo, bomRepo, zerolog.Nop())
}

func TestDemandService_Analyze_MultiLevel(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildHeadsetTestData())

	report, err := service.Analyze(ctx, "SUB-HEADSET", 5)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// 5 wanted, 2 on hand: 3 must be built
	if report.Target.Need != 3 {
		t.Errorf("Expected target need 3, got %d", report.Target.Need)
	}
	if report.Target.Stock != 2 {
		t.Errorf("Expected target stock 2, got %d", report.Target.Stock)
	}
	if report.Target.Description != "VR headset" {
		t.Errorf("Expected target description 'VR headset', got %q", report.Target.Description)
	}

	// SUB-OPTICS: 3 needed, 1 on hand, build 2 -> 4 lenses, 8 screws
	// SUB-FRAME: 3 needed, none on hand, build 3 -> 9 plastic, 18 screws
	expected := []entities.Requirement{
		{SKU: "RAW-LENS", Description: "Fresnel lens", Need: 4, Stock: 10},
		{SKU: "RAW-PLASTIC", Description: "ABS shell blank", Need: 9, Stock: 5},
		{SKU: "RAW-SCREW", Description: "M2 screw", Need: 26, Stock: 20},
		{SKU: "RAW-STRAP", Description: "Head strap", Need: 3, Stock: 3},
	}

	if len(report.Components) != len(expected) {
		t.Fatalf("Expected %d components, got %d: %+v", len(expected), len(report.Components), report.Components)
	}
	for i, want := range expected {
		if report.Components[i] != want {
			t.Errorf("Component %d: expected %+v, got %+v", i, want, report.Components[i])
		}
	}

	shortages := report.Shortages()
	if len(shortages) != 2 {
		t.Fatalf("Expected 2 shortages, got %d", len(shortages))
	}
	if shortages[0].SKU != "RAW-PLASTIC" || shortages[0].Shortfall() != 4 {
		t.Errorf("Expected RAW-PLASTIC short by 4, got %s short by %d", shortages[0].SKU, shortages[0].Shortfall())
	}
	if shortages[1].SKU != "RAW-SCREW" || shortages[1].Shortfall() != 6 {
		t.Errorf("Expected RAW-SCREW short by 6, got %s short by %d", shortages[1].SKU, shortages[1].Shortfall())
	}
	if report.Buildable() {
		t.Error("Expected report not to be buildable")
	}
}

func TestDemandService_Analyze_CoveredByStock(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildHeadsetTestData())

	report, err := service.Analyze(ctx, "SUB-HEADSET", 2)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Target.Need != 0 {
		t.Errorf("Expected target need 0, got %d", report.Target.Need)
	}
	if len(report.Components) != 0 {
		t.Errorf("Expected no components when stock covers demand, got %d", len(report.Components))
	}
	if !report.Buildable() {
		t.Error("Expected report to be buildable")
	}
}

func TestDemandService_Analyze_SharedSubAssemblyStockUsedOnce(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildSharedSubAssemblyTestData())

	report, err := service.Analyze(ctx, "SUB-TOP", 1)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// SUB-CORE is needed twice; its single unit covers one branch only
	if len(report.Components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(report.Components))
	}
	if report.Components[0].SKU != "RAW-CHIP" || report.Components[0].Need != 1 {
		t.Errorf("Expected RAW-CHIP need 1, got %+v", report.Components[0])
	}
}

func TestDemandService_Analyze_LeafTarget(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildHeadsetTestData())

	report, err := service.Analyze(ctx, "RAW-STRAP", 8)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Target.Need != 5 {
		t.Errorf("Expected target need 5, got %d", report.Target.Need)
	}
	if len(report.Components) != 0 {
		t.Errorf("Expected a part without BOM to have no components, got %d", len(report.Components))
	}
}

func TestDemandService_Analyze_MissingChildPart(t *testing.T) {
	ctx := context.Background()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	bomRepo.AddBOMLine(entities.BOMLine{ParentSKU: "SUB-FRAME", ChildSKU: "RAW-GHOST", QtyPer: 2})
	service := newTestDemandService(partRepo, bomRepo)

	report, err := service.Analyze(ctx, "SUB-FRAME", 1)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	var ghost *entities.Requirement
	for i := range report.Components {
		if report.Components[i].SKU == "RAW-GHOST" {
			ghost = &report.Components[i]
		}
	}
	if ghost == nil {
		t.Fatal("Expected RAW-GHOST in components")
	}
	if ghost.Need != 2 || ghost.Stock != 0 || ghost.Description != "" {
		t.Errorf("Expected RAW-GHOST need 2 with no stock or description, got %+v", *ghost)
	}
}

func TestDemandService_Analyze_Errors(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildHeadsetTestData())

	tests := []struct {
		name     string
		sku      entities.SKU
		quantity entities.Quantity
		want     error
	}{
		{"zero quantity", "SUB-HEADSET", 0, entities.ErrInvalidQuantity},
		{"quantity above limit", "SUB-HEADSET", entities.MaxDemandQuantity + 1, entities.ErrInvalidQuantity},
		{"unknown part", "SUB-NOPE", 1, entities.ErrPartNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Analyze(ctx, tt.sku, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDemandService_Analyze_Cycle(t *testing.T) {
	ctx := context.Background()
	service := newTestDemandService(testhelpers.BuildCyclicTestData())

	_, err := service.Analyze(ctx, "SUB-LOOP-A", 1)
	if !errors.Is(err, entities.ErrBOMCycle) {
		t.Fatalf("Expected ErrBOMCycle, got %v", err)
	}
}

type recordingVisitor struct {
	visited []BOMNodeContext
}

func (v *recordingVisitor) VisitNode(_ context.Context, node BOMNodeContext) (entities.Quantity, error) {
	v.visited = append(v.visited, node)
	return node.Quantity, nil
}

func TestBOMTraverser_VisitsInChildOrderWithScaledQuantities(t *testing.T) {
	ctx := context.Background()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	traverser := NewBOMTraverser(partRepo, bomRepo)
	visitor := &recordingVisitor{}

	if err := traverser.TraverseBOM(ctx, "SUB-OPTICS", 3, visitor); err != nil {
		t.Fatalf("TraverseBOM failed: %v", err)
	}

	want := []struct {
		sku   entities.SKU
		qty   entities.Quantity
		level int
	}{
		{"SUB-OPTICS", 3, 0},
		{"RAW-LENS", 6, 1},
		{"RAW-SCREW", 12, 1},
	}

	if len(visitor.visited) != len(want) {
		t.Fatalf("Expected %d visits, got %d", len(want), len(visitor.visited))
	}
	for i, w := range want {
		got := visitor.visited[i]
		if got.SKU != w.sku || got.Quantity != w.qty || got.Level != w.level {
			t.Errorf("Visit %d: expected %s x%d at level %d, got %s x%d at level %d",
				i, w.sku, w.qty, w.level, got.SKU, got.Quantity, got.Level)
		}
	}
	if visitor.visited[0].IsLeaf() || !visitor.visited[1].IsLeaf() {
		t.Error("Expected SUB-OPTICS to have components and RAW-LENS to be a leaf")
	}
}
