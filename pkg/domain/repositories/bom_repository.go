package repositories

import (
	"context"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	// GetBOMLines returns the component lines of a parent, ordered by child SKU
	GetBOMLines(ctx context.Context, parentSKU entities.SKU) ([]*entities.BOMLine, error)
	GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error)
	SaveBOMLine(ctx context.Context, line *entities.BOMLine) error
	LoadBOMLines(ctx context.Context, lines []*entities.BOMLine) error
}
