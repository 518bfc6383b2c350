package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

type partRow struct {
	SKU         string          `gorm:"column:sku;primaryKey"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:real"`
	Stock       int64           `gorm:"column:stock"`
}

func (partRow) TableName() string { return "part" }

func (r partRow) toEntity() *entities.Part {
	return &entities.Part{
		SKU:         entities.SKU(r.SKU),
		Description: r.Description,
		Price:       r.Price.Round(entities.PriceScale),
		Stock:       entities.Quantity(r.Stock),
	}
}

func newPartRow(p *entities.Part) partRow {
	return partRow{
		SKU:         string(p.SKU),
		Description: p.Description,
		Price:       p.Price,
		Stock:       int64(p.Stock),
	}
}

// bomRow.SKU is the child part
type bomRow struct {
	ParentSKU string `gorm:"column:parent_sku;index"`
	SKU       string `gorm:"column:sku"`
	Quantity  int64  `gorm:"column:quantity"`
}

func (bomRow) TableName() string { return "bom" }

func (r bomRow) toEntity() *entities.BOMLine {
	return &entities.BOMLine{
		ParentSKU: entities.SKU(r.ParentSKU),
		ChildSKU:  entities.SKU(r.SKU),
		QtyPer:    entities.Quantity(r.Quantity),
	}
}

type movementRow struct {
	ID          string    `gorm:"column:id;primaryKey"`
	SKU         string    `gorm:"column:sku;index"`
	Kind        string    `gorm:"column:kind"`
	Delta       int64     `gorm:"column:delta"`
	StockBefore int64     `gorm:"column:stock_before"`
	StockAfter  int64     `gorm:"column:stock_after"`
	Reference   string    `gorm:"column:reference"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (movementRow) TableName() string { return "stock_movement" }

func (r movementRow) toEntity() (*entities.StockMovement, error) {
	kind, err := entities.ParseMovementKind(r.Kind)
	if err != nil {
		return nil, err
	}
	return &entities.StockMovement{
		ID:          r.ID,
		SKU:         entities.SKU(r.SKU),
		Kind:        kind,
		Delta:       entities.Quantity(r.Delta),
		StockBefore: entities.Quantity(r.StockBefore),
		StockAfter:  entities.Quantity(r.StockAfter),
		Reference:   r.Reference,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func newMovementRow(m entities.StockMovement) movementRow {
	return movementRow{
		ID:          m.ID,
		SKU:         string(m.SKU),
		Kind:        m.Kind.String(),
		Delta:       int64(m.Delta),
		StockBefore: int64(m.StockBefore),
		StockAfter:  int64(m.StockAfter),
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}
