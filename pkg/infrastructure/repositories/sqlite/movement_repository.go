package sqlite

import (
	"context"
	"fmt"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// GetMovements returns the newest movements for a SKU first
func (r *PartRepository) GetMovements(ctx context.Context, sku entities.SKU, limit int) ([]*entities.StockMovement, error) {
	q := r.db.WithContext(ctx).
		Where("sku = ?", string(sku)).
		Order("created_at DESC").
		Order("rowid DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []movementRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read movements for %s: %w", sku, err)
	}

	movements := make([]*entities.StockMovement, 0, len(rows))
	for _, row := range rows {
		movement, err := row.toEntity()
		if err != nil {
			return nil, fmt.Errorf("movement %s: %w", row.ID, err)
		}
		movements = append(movements, movement)
	}
	return movements, nil
}
