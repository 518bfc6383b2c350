package repositories

import (
	"context"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// MovementRepository provides read access to the stock movement ledger
type MovementRepository interface {
	// GetMovements returns the newest movements for a part first; limit <= 0 means all
	GetMovements(ctx context.Context, sku entities.SKU, limit int) ([]*entities.StockMovement, error)
}
