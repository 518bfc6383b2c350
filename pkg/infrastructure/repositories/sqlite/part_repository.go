package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// PartRepository stores parts in the part table and writes every stock
// change to the stock_movement ledger in the same transaction
type PartRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPartRepository creates a part repository on an open database
func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db, now: time.Now}
}

// Verify interface compliance
var _ repositories.PartRepository = (*PartRepository)(nil)
var _ repositories.MovementRepository = (*PartRepository)(nil)

// GetPart returns the part for a SKU
func (r *PartRepository) GetPart(ctx context.Context, sku entities.SKU) (*entities.Part, error) {
	row, err := findPart(r.db.WithContext(ctx), sku)
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// GetAllParts returns all parts ordered by SKU
func (r *PartRepository) GetAllParts(ctx context.Context) ([]*entities.Part, error) {
	return r.GetPartsByPrefix(ctx, "")
}

// GetPartsByPrefix returns the parts whose SKU starts with prefix, ordered by SKU.
// The match is case sensitive, unlike LIKE.
func (r *PartRepository) GetPartsByPrefix(ctx context.Context, prefix string) ([]*entities.Part, error) {
	q := r.db.WithContext(ctx).Model(&partRow{})
	if prefix != "" {
		q = q.Where("substr(sku, 1, length(?)) = ?", prefix, prefix)
	}

	var rows []partRow
	if err := q.Order("sku ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}

	parts := make([]*entities.Part, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.toEntity())
	}
	return parts, nil
}

// SavePart inserts a part or overwrites the existing row with the same SKU
func (r *PartRepository) SavePart(ctx context.Context, part *entities.Part) error {
	if part == nil {
		return fmt.Errorf("part cannot be nil")
	}
	row := newPartRow(part)
	if err := upsertPart(r.db.WithContext(ctx), &row); err != nil {
		return fmt.Errorf("failed to save part %s: %w", part.SKU, err)
	}
	return nil
}

// LoadParts upserts all parts in one transaction
func (r *PartRepository) LoadParts(ctx context.Context, parts []*entities.Part) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, part := range parts {
			if part == nil {
				return fmt.Errorf("part cannot be nil")
			}

			var before entities.Quantity
			existing, err := findPart(tx, part.SKU)
			switch {
			case err == nil:
				before = entities.Quantity(existing.Stock)
			case !errors.Is(err, entities.ErrPartNotFound):
				return err
			}

			row := newPartRow(part)
			if err := upsertPart(tx, &row); err != nil {
				return fmt.Errorf("failed to load part %s: %w", part.SKU, err)
			}

			if part.Stock != before {
				if _, err := r.record(tx, part.SKU, entities.Import, part.Stock-before, before, "import"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// UpdatePart overwrites price and stock of an existing part
func (r *PartRepository) UpdatePart(
	ctx context.Context,
	sku entities.SKU,
	price decimal.Decimal,
	stock entities.Quantity,
) (*entities.StockMovement, error) {
	var movement *entities.StockMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findPart(tx, sku)
		if err != nil {
			return err
		}

		result := tx.Model(&partRow{}).Where("sku = ?", string(sku)).Updates(map[string]interface{}{
			"price": price,
			"stock": int64(stock),
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update part %s: %w", sku, result.Error)
		}

		before := entities.Quantity(row.Stock)
		if before == stock {
			return nil
		}

		m, err := r.record(tx, sku, entities.ManualUpdate, stock-before, before, "manual update")
		if err != nil {
			return err
		}
		movement = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// ApplyStockChanges applies all changes in one transaction. Each decrement
// is guarded in SQL so stock cannot go negative even if it moved since it
// was read; increments are not guarded. Any failure rolls the whole batch back.
func (r *PartRepository) ApplyStockChanges(
	ctx context.Context,
	reference string,
	changes []entities.StockChange,
) ([]entities.StockMovement, error) {
	movements := make([]entities.StockMovement, 0, len(changes))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			row, err := findPart(tx, change.SKU)
			if err != nil {
				return err
			}

			q := tx.Model(&partRow{}).Where("sku = ?", string(change.SKU))
			if change.Delta < 0 {
				q = q.Where("stock + ? >= 0", int64(change.Delta))
			}
			result := q.Update("stock", gorm.Expr("stock + ?", int64(change.Delta)))
			if result.Error != nil {
				return fmt.Errorf("failed to change stock of %s: %w", change.SKU, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s has %d, change needs %d",
					entities.ErrInsufficientStock, change.SKU, row.Stock, -change.Delta)
			}

			movement, err := r.record(tx, change.SKU, change.Kind, change.Delta, entities.Quantity(row.Stock), reference)
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movements, nil
}

func (r *PartRepository) record(
	tx *gorm.DB,
	sku entities.SKU,
	kind entities.MovementKind,
	delta, before entities.Quantity,
	reference string,
) (entities.StockMovement, error) {
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
	row := newMovementRow(movement)
	if err := tx.Create(&row).Error; err != nil {
		return movement, fmt.Errorf("failed to record movement for %s: %w", sku, err)
	}
	return movement, nil
}

func findPart(db *gorm.DB, sku entities.SKU) (*partRow, error) {
	var row partRow
	err := db.Where("sku = ?", string(sku)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, sku)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", sku, err)
	}
	return &row, nil
}

func upsertPart(db *gorm.DB, row *partRow) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}
