package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/application/services/bundle"
	"github.com/visualrobotics/mrp/pkg/application/services/mrp"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
	"github.com/visualrobotics/mrp/pkg/infrastructure/logging"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	logger, err := logging.New(os.Stderr, "info", "console")
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	// Create repositories
	partRepo := memory.NewPartRepository(8)
	bomRepo := memory.NewBOMRepository(8)

	// Set up a small headset BOM
	setupHeadsetBOM(partRepo, bomRepo)

	store := events.NewInMemoryEventStore()
	if err := store.Subscribe(events.StockEventTypes, events.NewLogHandler(logger)); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	demand := mrp.NewDemandService(partRepo, bomRepo, logger)
	bundler := bundle.NewBundleService(partRepo, bomRepo, store, logger)

	fmt.Println("🥽 Demand for 10 headsets")
	report, err := demand.Analyze(ctx, "SUB-HEADSET", 10)
	if err != nil {
		fmt.Printf("❌ Demand analysis failed: %v\n", err)
		return
	}
	if _, err := output.GenerateDemandReport(report, output.Config{Format: "text", Out: os.Stdout}); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Println()

	// Build one optics module, then one headset from it
	for _, sku := range []entities.SKU{"SUB-OPTICS", "SUB-HEADSET"} {
		result, err := bundler.Bundle(ctx, sku)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			continue
		}
		output.WriteBundlePlan(os.Stdout, result.Plan)
		fmt.Println()
	}

	all, _ := store.ReadAllEvents(0)
	fmt.Printf("📋 %d events published\n", len(all))
}

func setupHeadsetBOM(partRepo *memory.PartRepository, bomRepo *memory.BOMRepository) {
	parts := []entities.Part{
		{SKU: "SUB-HEADSET", Description: "VR headset", Price: decimal.RequireFromString("249.99"), Stock: 1},
		{SKU: "SUB-OPTICS", Description: "Optics module", Price: decimal.RequireFromString("59.5"), Stock: 0},
		{SKU: "RAW-LENS", Description: "Fresnel lens", Price: decimal.RequireFromString("7.125"), Stock: 6},
		{SKU: "RAW-SCREW", Description: "M2 screw", Price: decimal.RequireFromString("0.04"), Stock: 40},
		{SKU: "RAW-STRAP", Description: "Head strap", Price: decimal.RequireFromString("4"), Stock: 3},
		{SKU: "RAW-FOAM", Description: "Face foam", Price: decimal.RequireFromString("1.2"), Stock: 12},
	}
	for _, p := range parts {
		partRepo.AddPart(p)
	}

	lines := []entities.BOMLine{
		{ParentSKU: "SUB-HEADSET", ChildSKU: "SUB-OPTICS", QtyPer: 1},
		{ParentSKU: "SUB-HEADSET", ChildSKU: "RAW-STRAP", QtyPer: 1},
		{ParentSKU: "SUB-HEADSET", ChildSKU: "RAW-FOAM", QtyPer: 2},
		{ParentSKU: "SUB-OPTICS", ChildSKU: "RAW-LENS", QtyPer: 2},
		{ParentSKU: "SUB-OPTICS", ChildSKU: "RAW-SCREW", QtyPer: 6},
	}
	for _, l := range lines {
		bomRepo.AddBOMLine(l)
	}
}
