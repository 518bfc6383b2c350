package mrp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// BOMNodeContext provides context information during BOM traversal
type BOMNodeContext struct {
	SKU      entities.SKU
	Part     *entities.Part // nil when a BOM line names a part with no part row
	Quantity entities.Quantity
	Level    int
	Lines    []*entities.BOMLine // the node's own components
}

// IsLeaf reports whether the node has no components
func (n BOMNodeContext) IsLeaf() bool {
	return len(n.Lines) == 0
}

// Stock returns the stock on hand, 0 for a missing part
func (n BOMNodeContext) Stock() entities.Quantity {
	if n.Part == nil {
		return 0
	}
	return n.Part.Stock
}

// Description returns the part description, empty for a missing part
func (n BOMNodeContext) Description() string {
	if n.Part == nil {
		return ""
	}
	return n.Part.Description
}

// BOMNodeVisitor defines the interface for processing nodes during BOM traversal
type BOMNodeVisitor interface {
	// VisitNode is called for each node reached and returns how many units of
	// the node must be built from its components. Zero stops the descent.
	VisitNode(ctx context.Context, node BOMNodeContext) (entities.Quantity, error)
}

// BOMTraverser walks a BOM depth first, children in SKU order
type BOMTraverser struct {
	partRepo repositories.PartRepository
	bomRepo  repositories.BOMRepository
}

// NewBOMTraverser creates a new BOM traverser
func NewBOMTraverser(
	partRepo repositories.PartRepository,
	bomRepo repositories.BOMRepository,
) *BOMTraverser {
	return &BOMTraverser{
		partRepo: partRepo,
		bomRepo:  bomRepo,
	}
}

// TraverseBOM visits sku for quantity units and descends into the components
// of whatever the visitor decides to build. A part reached again below itself
// fails with entities.ErrBOMCycle.
func (bt *BOMTraverser) TraverseBOM(
	ctx context.Context,
	sku entities.SKU,
	quantity entities.Quantity,
	visitor BOMNodeVisitor,
) error {
	return bt.traverse(ctx, sku, quantity, 0, nil, visitor)
}

func (bt *BOMTraverser) traverse(
	ctx context.Context,
	sku entities.SKU,
	quantity entities.Quantity,
	level int,
	path []entities.SKU,
	visitor BOMNodeVisitor,
) error {
	for _, ancestor := range path {
		if ancestor == sku {
			return fmt.Errorf("%w: %s", entities.ErrBOMCycle, formatPath(append(path, sku)))
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	part, err := bt.partRepo.GetPart(ctx, sku)
	if err != nil {
		if !errors.Is(err, entities.ErrPartNotFound) {
			return fmt.Errorf("failed to get part %s: %w", sku, err)
		}
		part = nil
	}

	lines, err := bt.bomRepo.GetBOMLines(ctx, sku)
	if err != nil {
		return fmt.Errorf("failed to get BOM lines for %s: %w", sku, err)
	}

	build, err := visitor.VisitNode(ctx, BOMNodeContext{
		SKU:      sku,
		Part:     part,
		Quantity: quantity,
		Level:    level,
		Lines:    lines,
	})
	if err != nil {
		return fmt.Errorf("failed to visit node %s: %w", sku, err)
	}
	if build <= 0 {
		return nil
	}

	// Full slice expression so siblings never share a backing array
	childPath := append(path[:len(path):len(path)], sku)
	for _, line := range lines {
		if err := bt.traverse(ctx, line.ChildSKU, line.QtyPer*build, level+1, childPath, visitor); err != nil {
			return err
		}
	}

	return nil
}

func formatPath(path []entities.SKU) string {
	parts := make([]string, len(path))
	for i, sku := range path {
		parts[i] = string(sku)
	}
	return strings.Join(parts, " -> ")
}
