package bundle

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

func newTestBundleService() (*BundleService, *memory.PartRepository, *memory.BOMRepository, *events.InMemoryEventStore) {
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	store := events.NewInMemoryEventStore()
	return NewBundleService(partRepo, bomRepo, store, zerolog.Nop()), partRepo, bomRepo, store
}

func stockOf(t *testing.T, repo *memory.PartRepository, sku entities.SKU) entities.Quantity {
	t.Helper()
	part, err := repo.GetPart(context.Background(), sku)
	require.NoError(t, err)
	return part.Stock
}

func TestBundleService_Plan(t *testing.T) {
	service, _, _, _ := newTestBundleService()

	plan, err := service.Plan(context.Background(), "SUB-OPTICS")
	require.NoError(t, err)

	assert.Equal(t, entities.SKU("SUB-OPTICS"), plan.Parent.SKU)
	require.Len(t, plan.Components, 2)
	assert.Equal(t, entities.SKU("RAW-LENS"), plan.Components[0].SKU)
	assert.Equal(t, entities.Quantity(2), plan.Components[0].Required)
	assert.Equal(t, entities.Quantity(10), plan.Components[0].Stock)
	assert.Equal(t, "Fresnel lens", plan.Components[0].Description)
	assert.True(t, plan.CanBundle())
}

func TestBundleService_Bundle_Commits(t *testing.T) {
	ctx := context.Background()
	service, partRepo, _, store := newTestBundleService()

	result, err := service.Bundle(ctx, "SUB-OPTICS")
	require.NoError(t, err)

	assert.Equal(t, entities.Quantity(2), stockOf(t, partRepo, "SUB-OPTICS"))
	assert.Equal(t, entities.Quantity(8), stockOf(t, partRepo, "RAW-LENS"))
	assert.Equal(t, entities.Quantity(16), stockOf(t, partRepo, "RAW-SCREW"))

	assert.Len(t, result.Movements, 3)
	assert.Equal(t, entities.Quantity(2), result.Plan.Parent.Stock, "returned plan is refreshed")
	assert.Equal(t, entities.Quantity(8), result.Plan.Components[0].Stock)

	published, err := store.ReadEvents("SUB-OPTICS", 1)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, events.PartBundledEvent, published[0].Type())
}

func TestBundleService_Bundle_InsufficientStockChangesNothing(t *testing.T) {
	ctx := context.Background()
	service, partRepo, _, store := newTestBundleService()

	// SUB-FRAME needs 3 plastic and 6 screws; drain the plastic first
	_, err := partRepo.ApplyStockChanges(ctx, "test", []entities.StockChange{
		{SKU: "RAW-PLASTIC", Delta: -4, Kind: entities.ManualUpdate},
	})
	require.NoError(t, err)

	plan, err := service.Plan(ctx, "SUB-FRAME")
	require.NoError(t, err)
	assert.False(t, plan.CanBundle())

	_, err = service.Bundle(ctx, "SUB-FRAME")
	require.ErrorIs(t, err, entities.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "RAW-PLASTIC (need 3, have 1)")

	assert.Equal(t, entities.Quantity(0), stockOf(t, partRepo, "SUB-FRAME"))
	assert.Equal(t, entities.Quantity(1), stockOf(t, partRepo, "RAW-PLASTIC"))
	assert.Equal(t, entities.Quantity(20), stockOf(t, partRepo, "RAW-SCREW"))

	all, _ := store.ReadAllEvents(0)
	assert.Empty(t, all)
}

func TestBundleService_Bundle_MissingComponentBlocks(t *testing.T) {
	ctx := context.Background()
	service, partRepo, bomRepo, _ := newTestBundleService()
	bomRepo.AddBOMLine(entities.BOMLine{ParentSKU: "SUB-OPTICS", ChildSKU: "RAW-GHOST", QtyPer: 1})

	plan, err := service.Plan(ctx, "SUB-OPTICS")
	require.NoError(t, err)
	require.Len(t, plan.Components, 3)
	// Components come back in child SKU order
	assert.Equal(t, entities.SKU("RAW-GHOST"), plan.Components[0].SKU)
	for _, c := range plan.Components {
		assert.Equal(t, c.SKU == "RAW-GHOST", c.Missing, "component %s", c.SKU)
	}
	assert.False(t, plan.CanBundle())

	_, err = service.Bundle(ctx, "SUB-OPTICS")
	require.ErrorIs(t, err, entities.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "RAW-GHOST (no such part)")
	assert.Equal(t, entities.Quantity(10), stockOf(t, partRepo, "RAW-LENS"))
}

func TestBundleService_Bundle_ParentWithNegativeStock(t *testing.T) {
	ctx := context.Background()
	service, partRepo, _, _ := newTestBundleService()
	// Older databases can hold negative stock
	partRepo.AddPart(entities.Part{SKU: "SUB-OPTICS", Description: "Optics module", Stock: -2})

	plan, err := service.Plan(ctx, "SUB-OPTICS")
	require.NoError(t, err)
	require.True(t, plan.CanBundle())

	result, err := service.Bundle(ctx, "SUB-OPTICS")
	require.NoError(t, err)
	assert.Equal(t, entities.Quantity(-1), result.Plan.Parent.Stock)
	assert.Equal(t, entities.Quantity(8), stockOf(t, partRepo, "RAW-LENS"))
}

func TestBundleService_Bundle_Errors(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestBundleService()

	_, err := service.Bundle(ctx, "RAW-LENS")
	assert.ErrorIs(t, err, entities.ErrNoComponents)

	_, err = service.Bundle(ctx, "SUB-NOPE")
	assert.ErrorIs(t, err, entities.ErrPartNotFound)
}
