package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/visualrobotics/mrp/pkg/application/services/testing"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
)

func TestCatalogService_ImportIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	partRepo := memory.NewPartRepository(4)
	bomRepo := memory.NewBOMRepository(4)
	store := events.NewInMemoryEventStore()
	service := NewCatalogService(partRepo, bomRepo, store, zerolog.Nop())

	err := service.Import(ctx, Dataset{
		Parts: []*entities.Part{
			{SKU: "SUB-A", Description: "Assembly", Stock: 0},
			{SKU: "RAW-B", Description: "Bolt", Stock: 12},
		},
		BOMLines: []*entities.BOMLine{
			{ParentSKU: "SUB-A", ChildSKU: "RAW-B", QtyPer: 4},
		},
	})
	require.NoError(t, err)

	exported, err := service.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, exported.Parts, 2)
	assert.Len(t, exported.BOMLines, 1)

	movements, err := partRepo.GetMovements(ctx, "RAW-B", 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entities.Import, movements[0].Kind)

	published, _ := store.ReadAllEvents(0)
	require.Len(t, published, 1)
	assert.Equal(t, events.PartsImported{Parts: 2, BOMLines: 1}, published[0].Data())
}

func TestCatalogService_ImportRejectsCycleWithStoredBOM(t *testing.T) {
	ctx := context.Background()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	service := NewCatalogService(partRepo, bomRepo, nil, zerolog.Nop())

	err := service.Import(ctx, Dataset{
		BOMLines: []*entities.BOMLine{
			{ParentSKU: "SUB-OPTICS", ChildSKU: "SUB-HEADSET", QtyPer: 1},
		},
	})
	require.ErrorIs(t, err, ErrInvalidDataset)
	assert.Contains(t, err.Error(), "cycle")

	lines, _ := bomRepo.GetBOMLines(ctx, "SUB-OPTICS")
	assert.Len(t, lines, 2, "nothing written on a rejected import")
}

func TestCatalogService_ImportRejectsUnknownPartsAndDuplicates(t *testing.T) {
	ctx := context.Background()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	service := NewCatalogService(partRepo, bomRepo, nil, zerolog.Nop())

	err := service.Import(ctx, Dataset{
		BOMLines: []*entities.BOMLine{
			{ParentSKU: "SUB-FRAME", ChildSKU: "RAW-GLUE", QtyPer: 1},
		},
	})
	require.ErrorIs(t, err, ErrInvalidDataset)
	assert.Contains(t, err.Error(), "RAW-GLUE")

	err = service.Import(ctx, Dataset{
		BOMLines: []*entities.BOMLine{
			{ParentSKU: "SUB-FRAME", ChildSKU: "RAW-SCREW", QtyPer: 8},
			{ParentSKU: "SUB-FRAME", ChildSKU: "RAW-SCREW", QtyPer: 9},
		},
	})
	require.ErrorIs(t, err, ErrInvalidDataset)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestCatalogService_ImportReplacesStoredLine(t *testing.T) {
	ctx := context.Background()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	service := NewCatalogService(partRepo, bomRepo, nil, zerolog.Nop())

	err := service.Import(ctx, Dataset{
		BOMLines: []*entities.BOMLine{
			{ParentSKU: "SUB-FRAME", ChildSKU: "RAW-SCREW", QtyPer: 8},
		},
	})
	require.NoError(t, err)

	lines, err := bomRepo.GetBOMLines(ctx, "SUB-FRAME")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, entities.Quantity(8), lines[1].QtyPer)
}

func TestCatalogService_Check(t *testing.T) {
	ctx := context.Background()

	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	result, err := NewCatalogService(partRepo, bomRepo, nil, zerolog.Nop()).Check(ctx)
	require.NoError(t, err)
	assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors)

	partRepo, bomRepo = testhelpers.BuildCyclicTestData()
	result, err = NewCatalogService(partRepo, bomRepo, nil, zerolog.Nop()).Check(ctx)
	require.NoError(t, err)
	assert.True(t, result.HasCycles)
}
