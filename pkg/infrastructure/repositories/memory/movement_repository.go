package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// GetMovements returns the newest movements for a SKU first
func (r *PartRepository) GetMovements(_ context.Context, sku entities.SKU, limit int) ([]*entities.StockMovement, error) {
	var movements []*entities.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].SKU != sku {
			continue
		}
		movement := r.movements[i]
		movements = append(movements, &movement)
		if limit > 0 && len(movements) == limit {
			break
		}
	}
	return movements, nil
}

// record appends a ledger entry for a change already applied to the part
func (r *PartRepository) record(
	sku entities.SKU,
	kind entities.MovementKind,
	delta, before entities.Quantity,
	reference string,
) entities.StockMovement {
	movement := entities.StockMovement{
		ID:          uuid.NewString(),
		SKU:         sku,
		Kind:        kind,
		Delta:       delta,
		StockBefore: before,
		StockAfter:  before + delta,
		Reference:   reference,
		CreatedAt:   r.now(),
	}
	r.movements = append(r.movements, movement)
	return movement
}
