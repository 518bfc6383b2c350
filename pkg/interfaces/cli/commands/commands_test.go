package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/visualrobotics/mrp/pkg/application/services/testing"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/services"
	"github.com/visualrobotics/mrp/pkg/infrastructure/config"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/csv"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DBPath:            filepath.Join(dir, "VR-Factory.db"),
		SubPrefix:         "SUB-",
		LogLevel:          "info",
		LogFormat:         "console",
		ReportRowsPerPage: 40,
	}
}

func newHeadsetApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	partRepo, bomRepo := testhelpers.BuildHeadsetTestData()
	app, err := NewInMemoryApp(testConfig(t), zerolog.Nop(), partRepo, bomRepo)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.Out = out
	app.In = strings.NewReader("")
	return app, out
}

func TestPartsCommand(t *testing.T) {
	ctx := context.Background()
	app, out := newHeadsetApp(t)

	require.NoError(t, NewPartsCommand(app, PartsConfig{SubAssemblies: true}).Execute(ctx))
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
	assert.NotContains(t, out.String(), "RAW-")

	out.Reset()
	require.NoError(t, NewPartsCommand(app, PartsConfig{}).Execute(ctx))
	assert.Equal(t, 7, strings.Count(out.String(), "\n"))
}

func TestUpdateStockAndHistory(t *testing.T) {
	ctx := context.Background()
	app, out := newHeadsetApp(t)

	err := NewUpdateStockCommand(app, UpdateStockConfig{SKU: "RAW-LENS", Price: "7.5", Stock: 14}).Execute(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Updated RAW-LENS: price 7.500, stock 14")

	out.Reset()
	require.NoError(t, NewShowCommand(app, "RAW-LENS").Execute(ctx))
	assert.Contains(t, out.String(), "Stock:       14")

	out.Reset()
	require.NoError(t, NewHistoryCommand(app, HistoryConfig{SKU: "RAW-LENS", Limit: 10}).Execute(ctx))
	assert.Contains(t, out.String(), "update")
	assert.Contains(t, out.String(), "+4")

	published, _ := app.Events.ReadAllEvents(0)
	require.Len(t, published, 1)
	assert.Equal(t, events.StockUpdatedEvent, published[0].Type())
}

func TestUpdateStockCommand_Errors(t *testing.T) {
	ctx := context.Background()
	app, _ := newHeadsetApp(t)

	err := NewUpdateStockCommand(app, UpdateStockConfig{SKU: "RAW-LENS", Price: "cheap", Stock: 1}).Execute(ctx)
	assert.EqualError(t, err, `invalid price "cheap"`)

	err = NewUpdateStockCommand(app, UpdateStockConfig{SKU: "RAW-NOPE", Price: "1", Stock: 1}).Execute(ctx)
	assert.ErrorIs(t, err, entities.ErrPartNotFound)

	err = NewUpdateStockCommand(app, UpdateStockConfig{SKU: "RAW-LENS", Price: "1", Stock: -1}).Execute(ctx)
	assert.Error(t, err)
}

func TestReportCommand_PDF(t *testing.T) {
	ctx := context.Background()
	app, out := newHeadsetApp(t)

	require.NoError(t, NewReportCommand(app, ReportConfig{Format: "pdf"}).Execute(ctx))
	assert.Contains(t, out.String(), "Report written to")

	matches, err := filepath.Glob(filepath.Join(app.Config.ReportDirectory(), "VR-StockReport-*.pdf"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestDemandCommand(t *testing.T) {
	ctx := context.Background()
	app, out := newHeadsetApp(t)

	require.NoError(t, NewDemandCommand(app, DemandConfig{SKU: "SUB-HEADSET", Quantity: 5, Format: "text"}).Execute(ctx))
	assert.Contains(t, out.String(), "Desired Quantity: 5")
	assert.Contains(t, out.String(), "RAW-SCREW")

	err := NewDemandCommand(app, DemandConfig{SKU: "SUB-HEADSET", Quantity: 0}).Execute(ctx)
	assert.ErrorIs(t, err, entities.ErrInvalidQuantity)

	path := filepath.Join(t.TempDir(), "headset")
	require.NoError(t, NewDemandCommand(app, DemandConfig{SKU: "SUB-HEADSET", Quantity: 5, Format: "pdf", OutputPath: path}).Execute(ctx))
	assert.FileExists(t, path+".pdf")
}

func TestBundleCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		app, out := newHeadsetApp(t)
		app.In = strings.NewReader("y\n")

		require.NoError(t, NewBundleCommand(app, BundleConfig{SKU: "SUB-OPTICS"}).Execute(ctx))
		assert.Contains(t, out.String(), "Bundled one SUB-OPTICS")

		part, err := app.Stock.GetPart(ctx, "SUB-OPTICS")
		require.NoError(t, err)
		assert.Equal(t, entities.Quantity(2), part.Stock)
	})

	t.Run("declined", func(t *testing.T) {
		app, out := newHeadsetApp(t)
		app.In = strings.NewReader("n\n")

		require.NoError(t, NewBundleCommand(app, BundleConfig{SKU: "SUB-OPTICS"}).Execute(ctx))
		assert.Contains(t, out.String(), "Bundle cancelled")

		part, err := app.Stock.GetPart(ctx, "SUB-OPTICS")
		require.NoError(t, err)
		assert.Equal(t, entities.Quantity(1), part.Stock)
	})

	t.Run("short", func(t *testing.T) {
		app, _ := newHeadsetApp(t)

		// SUB-HEADSET needs SUB-FRAME, which has no stock
		err := NewBundleCommand(app, BundleConfig{SKU: "SUB-HEADSET", Yes: true}).Execute(ctx)
		assert.ErrorIs(t, err, entities.ErrInsufficientStock)
	})

	t.Run("no components", func(t *testing.T) {
		app, _ := newHeadsetApp(t)

		err := NewBundleCommand(app, BundleConfig{SKU: "RAW-LENS", Yes: true}).Execute(ctx)
		assert.ErrorIs(t, err, entities.ErrNoComponents)
	})
}

func TestImportExportCheck(t *testing.T) {
	ctx := context.Background()
	app, err := NewInMemoryApp(testConfig(t), zerolog.Nop(), memory.NewPartRepository(0), memory.NewBOMRepository(0))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	app.Out = out

	dir := t.TempDir()
	require.NoError(t, NewGenerateCommand(GenerateConfig{
		Items: 60, MaxDepth: 3, OutputDir: dir, Seed: 7, Out: out,
	}).Execute(ctx))

	err = NewImportCommand(app, ImportConfig{
		PartsFile: filepath.Join(dir, PartsFile),
		BOMFile:   filepath.Join(dir, BOMFile),
	}).Execute(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Imported 60 parts")

	out.Reset()
	require.NoError(t, NewCheckCommand(app).Execute(ctx))
	assert.Contains(t, out.String(), "BOM is consistent")

	exportDir := filepath.Join(t.TempDir(), "export")
	require.NoError(t, NewExportCommand(app, exportDir).Execute(ctx))
	exported, err := csv.NewLoader().LoadParts(filepath.Join(exportDir, PartsFile))
	require.NoError(t, err)
	assert.Len(t, exported, 60)

	assert.Error(t, NewImportCommand(app, ImportConfig{}).Execute(ctx))
}

func TestCheckCommand_ReportsCycle(t *testing.T) {
	partRepo, bomRepo := testhelpers.BuildCyclicTestData()
	app, err := NewInMemoryApp(testConfig(t), zerolog.Nop(), partRepo, bomRepo)
	require.NoError(t, err)
	app.Out = &bytes.Buffer{}

	err = NewCheckCommand(app).Execute(context.Background())
	assert.Error(t, err)
}

func TestGenerateCommand_AcyclicAndReproducible(t *testing.T) {
	ctx := context.Background()
	first, second := t.TempDir(), t.TempDir()

	for _, dir := range []string{first, second} {
		require.NoError(t, NewGenerateCommand(GenerateConfig{
			Items: 150, MaxDepth: 4, OutputDir: dir, Seed: 42, Out: &bytes.Buffer{},
		}).Execute(ctx))
	}

	for _, name := range []string{PartsFile, BOMFile} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "%s differs for the same seed", name)
	}

	loader := csv.NewLoader()
	parts, err := loader.LoadParts(filepath.Join(first, PartsFile))
	require.NoError(t, err)
	assert.Len(t, parts, 150)
	lines, err := loader.LoadBOM(filepath.Join(first, BOMFile))
	require.NoError(t, err)

	partValues := make([]entities.Part, 0, len(parts))
	for _, p := range parts {
		partValues = append(partValues, *p)
	}
	lineValues := make([]entities.BOMLine, 0, len(lines))
	for _, l := range lines {
		lineValues = append(lineValues, *l)
		assert.True(t, strings.HasPrefix(string(l.ParentSKU), "SUB-"))
	}

	validator := services.NewBOMValidator()
	result := validator.ValidateBOM(lineValues)
	result.Merge(validator.ValidateBOMPartConsistency(lineValues, partValues))
	assert.True(t, result.IsValid(), "unexpected problems: %v", result.Errors)
}

func TestGenerateCommand_Errors(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, NewGenerateCommand(GenerateConfig{Items: 1, MaxDepth: 2, OutputDir: t.TempDir()}).Execute(ctx))
	assert.Error(t, NewGenerateCommand(GenerateConfig{Items: 10, MaxDepth: 0, OutputDir: t.TempDir()}).Execute(ctx))
}
