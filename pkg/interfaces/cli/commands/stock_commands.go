package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

// PartsConfig holds configuration for the parts command
type PartsConfig struct {
	SubAssemblies bool // only parts carrying the sub-assembly prefix
}

// PartsCommand lists part SKUs and descriptions
type PartsCommand struct {
	app    *App
	config PartsConfig
}

func NewPartsCommand(app *App, config PartsConfig) *PartsCommand {
	return &PartsCommand{app: app, config: config}
}

func (c *PartsCommand) Execute(ctx context.Context) error {
	var (
		parts []*entities.Part
		err   error
	)
	if c.config.SubAssemblies {
		parts, err = c.app.Stock.ListSubAssemblies(ctx)
	} else {
		parts, err = c.app.Stock.ListParts(ctx)
	}
	if err != nil {
		return err
	}

	output.WriteParts(c.app.Out, parts)
	return nil
}

// ShowCommand prints one part
type ShowCommand struct {
	app *App
	sku entities.SKU
}

func NewShowCommand(app *App, sku string) *ShowCommand {
	return &ShowCommand{app: app, sku: entities.SKU(sku)}
}

func (c *ShowCommand) Execute(ctx context.Context) error {
	part, err := c.app.Stock.GetPart(ctx, c.sku)
	if err != nil {
		return err
	}
	output.WritePart(c.app.Out, part)
	return nil
}

// UpdateStockConfig holds configuration for the update-stock command
type UpdateStockConfig struct {
	SKU   string
	Price string
	Stock int64
}

// UpdateStockCommand sets the price and stock of an existing part
type UpdateStockCommand struct {
	app    *App
	config UpdateStockConfig
}

func NewUpdateStockCommand(app *App, config UpdateStockConfig) *UpdateStockCommand {
	return &UpdateStockCommand{app: app, config: config}
}

func (c *UpdateStockCommand) Execute(ctx context.Context) error {
	price, err := decimal.NewFromString(c.config.Price)
	if err != nil {
		return fmt.Errorf("invalid price %q", c.config.Price)
	}

	part, err := c.app.Stock.UpdatePart(ctx, entities.SKU(c.config.SKU), price, entities.Quantity(c.config.Stock))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.Out, "✅ Updated %s: price %s, stock %d\n", part.SKU, part.FormattedPrice(), part.Stock)
	return nil
}

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	Format     string
	OutputPath string
}

// ReportCommand renders the stock report
type ReportCommand struct {
	app    *App
	config ReportConfig
}

func NewReportCommand(app *App, config ReportConfig) *ReportCommand {
	return &ReportCommand{app: app, config: config}
}

func (c *ReportCommand) Execute(ctx context.Context) error {
	report, err := c.app.Stock.StockReport(ctx)
	if err != nil {
		return err
	}

	path, err := output.GenerateStockReport(report, c.app.outputConfig(c.config.Format, c.config.OutputPath))
	if err != nil {
		return fmt.Errorf("failed to generate stock report: %w", err)
	}
	c.app.reportWritten(path)
	return nil
}

// HistoryConfig holds configuration for the history command
type HistoryConfig struct {
	SKU   string
	Limit int
}

// HistoryCommand prints the stock ledger of a part
type HistoryCommand struct {
	app    *App
	config HistoryConfig
}

func NewHistoryCommand(app *App, config HistoryConfig) *HistoryCommand {
	return &HistoryCommand{app: app, config: config}
}

func (c *HistoryCommand) Execute(ctx context.Context) error {
	sku := entities.SKU(c.config.SKU)
	movements, err := c.app.Stock.Movements(ctx, sku, c.config.Limit)
	if err != nil {
		return err
	}
	output.WriteMovements(c.app.Out, sku, movements)
	return nil
}

func (a *App) outputConfig(format, path string) output.Config {
	return output.Config{
		Format:      format,
		Out:         a.Out,
		OutputPath:  path,
		ReportDir:   a.Config.ReportDirectory(),
		RowsPerPage: a.Config.ReportRowsPerPage,
	}
}

func (a *App) reportWritten(path string) {
	if path == "" {
		return
	}
	fmt.Fprintf(a.Out, "💾 Report written to %s\n", path)
	a.Logger.Info().Str("path", path).Msg("report written")
}
