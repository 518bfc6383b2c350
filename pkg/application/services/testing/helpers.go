package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
)

// mustCreatePart is a helper for tests - panics on validation error
func mustCreatePart(sku, description, price string, stock entities.Quantity) *entities.Part {
	part, err := entities.NewPart(
		entities.SKU(sku),
		description,
		decimal.RequireFromString(price),
		stock,
	)
	if err != nil {
		panic(err)
	}
	return part
}

// mustCreateBOMLine is a helper for tests - panics on validation error
func mustCreateBOMLine(parentSKU, childSKU string, qtyPer entities.Quantity) *entities.BOMLine {
	bomLine, err := entities.NewBOMLine(
		entities.SKU(parentSKU),
		entities.SKU(childSKU),
		qtyPer,
	)
	if err != nil {
		panic(err)
	}
	return bomLine
}

// BuildRepositories loads parts and BOM lines into fresh memory repositories
func BuildRepositories(parts []*entities.Part, lines []*entities.BOMLine) (*memory.PartRepository, *memory.BOMRepository) {
	ctx := context.Background()

	partRepo := memory.NewPartRepository(len(parts))
	for _, part := range parts {
		if err := partRepo.SavePart(ctx, part); err != nil {
			panic(err)
		}
	}

	bomRepo := memory.NewBOMRepository(len(lines))
	if err := bomRepo.LoadBOMLines(ctx, lines); err != nil {
		panic(err)
	}

	return partRepo, bomRepo
}

// BuildHeadsetTestData builds a three level headset factory:
//
//	SUB-HEADSET (2)  = SUB-OPTICS x1 + SUB-FRAME x1 + RAW-STRAP x1
//	SUB-OPTICS  (1)  = RAW-LENS x2 + RAW-SCREW x4
//	SUB-FRAME   (0)  = RAW-PLASTIC x3 + RAW-SCREW x6
//
// Stock on hand is shown in parentheses; raw stock is RAW-LENS 10,
// RAW-SCREW 20, RAW-STRAP 3, RAW-PLASTIC 5.
func BuildHeadsetTestData() (*memory.PartRepository, *memory.BOMRepository) {
	parts := []*entities.Part{
		mustCreatePart("SUB-HEADSET", "VR headset", "249.990", 2),
		mustCreatePart("SUB-OPTICS", "Optics module", "59.500", 1),
		mustCreatePart("SUB-FRAME", "Headset frame", "18.250", 0),
		mustCreatePart("RAW-LENS", "Fresnel lens", "7.125", 10),
		mustCreatePart("RAW-SCREW", "M2 screw", "0.040", 20),
		mustCreatePart("RAW-STRAP", "Head strap", "4.000", 3),
		mustCreatePart("RAW-PLASTIC", "ABS shell blank", "2.300", 5),
	}

	lines := []*entities.BOMLine{
		mustCreateBOMLine("SUB-HEADSET", "SUB-OPTICS", 1),
		mustCreateBOMLine("SUB-HEADSET", "SUB-FRAME", 1),
		mustCreateBOMLine("SUB-HEADSET", "RAW-STRAP", 1),
		mustCreateBOMLine("SUB-OPTICS", "RAW-LENS", 2),
		mustCreateBOMLine("SUB-OPTICS", "RAW-SCREW", 4),
		mustCreateBOMLine("SUB-FRAME", "RAW-PLASTIC", 3),
		mustCreateBOMLine("SUB-FRAME", "RAW-SCREW", 6),
	}

	return BuildRepositories(parts, lines)
}

// BuildSharedSubAssemblyTestData builds a diamond where SUB-CORE, holding one
// unit of stock, is used by both SUB-LEFT and SUB-RIGHT under SUB-TOP
func BuildSharedSubAssemblyTestData() (*memory.PartRepository, *memory.BOMRepository) {
	parts := []*entities.Part{
		mustCreatePart("SUB-TOP", "Top assembly", "10.000", 0),
		mustCreatePart("SUB-LEFT", "Left arm", "3.000", 0),
		mustCreatePart("SUB-RIGHT", "Right arm", "3.000", 0),
		mustCreatePart("SUB-CORE", "Core board", "5.000", 1),
		mustCreatePart("RAW-CHIP", "Controller chip", "1.500", 0),
	}

	lines := []*entities.BOMLine{
		mustCreateBOMLine("SUB-TOP", "SUB-LEFT", 1),
		mustCreateBOMLine("SUB-TOP", "SUB-RIGHT", 1),
		mustCreateBOMLine("SUB-LEFT", "SUB-CORE", 1),
		mustCreateBOMLine("SUB-RIGHT", "SUB-CORE", 1),
		mustCreateBOMLine("SUB-CORE", "RAW-CHIP", 1),
	}

	return BuildRepositories(parts, lines)
}

// BuildCyclicTestData builds SUB-LOOP-A -> SUB-LOOP-B -> SUB-LOOP-A with no stock
func BuildCyclicTestData() (*memory.PartRepository, *memory.BOMRepository) {
	parts := []*entities.Part{
		mustCreatePart("SUB-LOOP-A", "Loop A", "1.000", 0),
		mustCreatePart("SUB-LOOP-B", "Loop B", "1.000", 0),
	}

	lines := []*entities.BOMLine{
		mustCreateBOMLine("SUB-LOOP-A", "SUB-LOOP-B", 1),
		mustCreateBOMLine("SUB-LOOP-B", "SUB-LOOP-A", 1),
	}

	return BuildRepositories(parts, lines)
}
