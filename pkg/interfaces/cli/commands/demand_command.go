package commands

import (
	"context"
	"fmt"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

// DemandConfig holds configuration for the demand command
type DemandConfig struct {
	SKU        string
	Quantity   int64
	Format     string
	OutputPath string
}

// DemandCommand explodes a desired quantity of a part into the leaf
// components needed to build the shortfall
type DemandCommand struct {
	app    *App
	config DemandConfig
}

func NewDemandCommand(app *App, config DemandConfig) *DemandCommand {
	return &DemandCommand{app: app, config: config}
}

func (c *DemandCommand) Execute(ctx context.Context) error {
	report, err := c.app.Demand.Analyze(ctx, entities.SKU(c.config.SKU), entities.Quantity(c.config.Quantity))
	if err != nil {
		return err
	}

	path, err := output.GenerateDemandReport(report, c.app.outputConfig(c.config.Format, c.config.OutputPath))
	if err != nil {
		return fmt.Errorf("failed to generate demand report: %w", err)
	}
	c.app.reportWritten(path)
	return nil
}
