package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/interfaces/cli/output"
)

// BundleConfig holds configuration for the bundle command
type BundleConfig struct {
	SKU string
	Yes bool // skip the confirmation prompt
}

// BundleCommand shows what bundling one unit of a part consumes, asks for
// confirmation and commits the stock changes
type BundleCommand struct {
	app    *App
	config BundleConfig
}

func NewBundleCommand(app *App, config BundleConfig) *BundleCommand {
	return &BundleCommand{app: app, config: config}
}

func (c *BundleCommand) Execute(ctx context.Context) error {
	sku := entities.SKU(c.config.SKU)

	plan, err := c.app.Bundle.Plan(ctx, sku)
	if err != nil {
		return err
	}
	output.WriteBundlePlan(c.app.Out, plan)

	if len(plan.Components) == 0 {
		return fmt.Errorf("%w: %s", entities.ErrNoComponents, sku)
	}
	if !plan.CanBundle() {
		return fmt.Errorf("%w to bundle %s", entities.ErrInsufficientStock, sku)
	}

	if !c.config.Yes && !c.confirm(fmt.Sprintf("Bundle one %s? [y/N]: ", sku)) {
		fmt.Fprintln(c.app.Out, "Bundle cancelled")
		return nil
	}

	result, err := c.app.Bundle.Bundle(ctx, sku)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.Out, "\n✅ Bundled one %s\n", sku)
	for _, m := range result.Movements {
		fmt.Fprintf(c.app.Out, "  %-20s %+6d  (%d -> %d)\n", m.SKU, m.Delta, m.StockBefore, m.StockAfter)
	}
	fmt.Fprintln(c.app.Out)
	output.WriteBundlePlan(c.app.Out, result.Plan)
	return nil
}

func (c *BundleCommand) confirm(prompt string) bool {
	fmt.Fprint(c.app.Out, prompt)
	answer, err := bufio.NewReader(c.app.In).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
