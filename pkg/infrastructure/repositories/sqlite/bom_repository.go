package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// BOMRepository stores BOM lines in the bom table
type BOMRepository struct {
	db *gorm.DB
}

// NewBOMRepository creates a BOM repository on an open database
func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// GetBOMLines returns the lines of a parent ordered by child SKU
func (r *BOMRepository) GetBOMLines(ctx context.Context, parentSKU entities.SKU) ([]*entities.BOMLine, error) {
	var rows []bomRow
	err := r.db.WithContext(ctx).
		Where("parent_sku = ?", string(parentSKU)).
		Order("sku ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read bom of %s: %w", parentSKU, err)
	}
	return toBOMLines(rows), nil
}

// GetAllBOMLines returns every BOM line ordered by parent and child
func (r *BOMRepository) GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	var rows []bomRow
	if err := r.db.WithContext(ctx).Order("parent_sku ASC, sku ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read bom: %w", err)
	}
	return toBOMLines(rows), nil
}

// SaveBOMLine inserts a line or replaces the quantity of an existing parent/child line
func (r *BOMRepository) SaveBOMLine(ctx context.Context, line *entities.BOMLine) error {
	if line == nil {
		return fmt.Errorf("bom line cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveBOMLine(tx, line)
	})
}

// LoadBOMLines saves all lines in one transaction
func (r *BOMRepository) LoadBOMLines(ctx context.Context, lines []*entities.BOMLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			if line == nil {
				return fmt.Errorf("bom line cannot be nil")
			}
			if err := saveBOMLine(tx, line); err != nil {
				return err
			}
		}
		return nil
	})
}

// The bom table has no key, so a replace is delete then insert
func saveBOMLine(tx *gorm.DB, line *entities.BOMLine) error {
	err := tx.Where("parent_sku = ? AND sku = ?", string(line.ParentSKU), string(line.ChildSKU)).
		Delete(&bomRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to replace bom line %s -> %s: %w", line.ParentSKU, line.ChildSKU, err)
	}

	row := bomRow{
		ParentSKU: string(line.ParentSKU),
		SKU:       string(line.ChildSKU),
		Quantity:  int64(line.QtyPer),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save bom line %s -> %s: %w", line.ParentSKU, line.ChildSKU, err)
	}
	return nil
}

func toBOMLines(rows []bomRow) []*entities.BOMLine {
	lines := make([]*entities.BOMLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.toEntity())
	}
	return lines
}
