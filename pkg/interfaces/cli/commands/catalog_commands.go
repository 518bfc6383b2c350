package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/visualrobotics/mrp/pkg/application/services/catalog"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/csv"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

// File names used by export and generate
const (
	PartsFile = "parts.csv"
	BOMFile   = "bom.csv"
)

// ImportConfig holds configuration for the import command
type ImportConfig struct {
	PartsFile string
	BOMFile   string
}

// ImportCommand loads parts and BOM lines from CSV into the store
type ImportCommand struct {
	app    *App
	config ImportConfig
}

func NewImportCommand(app *App, config ImportConfig) *ImportCommand {
	return &ImportCommand{app: app, config: config}
}

func (c *ImportCommand) Execute(ctx context.Context) error {
	if c.config.PartsFile == "" && c.config.BOMFile == "" {
		return fmt.Errorf("nothing to import: give --parts and/or --bom")
	}

	loader := csv.NewLoader()
	var data catalog.Dataset

	if c.config.PartsFile != "" {
		parts, err := loader.LoadParts(c.config.PartsFile)
		if err != nil {
			return fmt.Errorf("error loading parts: %w", err)
		}
		data.Parts = parts
	}
	if c.config.BOMFile != "" {
		lines, err := loader.LoadBOM(c.config.BOMFile)
		if err != nil {
			return fmt.Errorf("error loading BOM: %w", err)
		}
		data.BOMLines = lines
	}

	if err := c.app.Catalog.Import(ctx, data); err != nil {
		return err
	}

	fmt.Fprintf(c.app.Out, "✅ Imported %d parts and %d BOM lines\n", len(data.Parts), len(data.BOMLines))
	return nil
}

// ExportCommand writes every part and BOM line to parts.csv and bom.csv
type ExportCommand struct {
	app *App
	dir string
}

func NewExportCommand(app *App, dir string) *ExportCommand {
	return &ExportCommand{app: app, dir: dir}
}

func (c *ExportCommand) Execute(ctx context.Context) error {
	data, err := c.app.Catalog.Export(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := csv.WriteParts(filepath.Join(c.dir, PartsFile), data.Parts); err != nil {
		return err
	}
	if err := csv.WriteBOM(filepath.Join(c.dir, BOMFile), data.BOMLines); err != nil {
		return err
	}

	fmt.Fprintf(c.app.Out, "💾 Exported %d parts and %d BOM lines to %s\n", len(data.Parts), len(data.BOMLines), c.dir)
	return nil
}

// CheckCommand validates the stored BOM and fails when problems are found
type CheckCommand struct {
	app *App
}

func NewCheckCommand(app *App) *CheckCommand {
	return &CheckCommand{app: app}
}

func (c *CheckCommand) Execute(ctx context.Context) error {
	result, err := c.app.Catalog.Check(ctx)
	if err != nil {
		return err
	}

	output.WriteValidation(c.app.Out, result)
	if !result.IsValid() {
		return fmt.Errorf("BOM check found %d problems", len(result.Errors))
	}
	return nil
}
