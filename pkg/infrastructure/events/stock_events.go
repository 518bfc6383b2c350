package events

import (
	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

const (
	StockUpdatedEvent  = "stock.updated"
	PartBundledEvent   = "part.bundled"
	PartsImportedEvent = "parts.imported"
)

// StockEventTypes lists every event type the services publish
var StockEventTypes = []string{StockUpdatedEvent, PartBundledEvent, PartsImportedEvent}

type StockUpdated struct {
	SKU         entities.SKU      `json:"sku"`
	Price       decimal.Decimal   `json:"price"`
	StockBefore entities.Quantity `json:"stock_before"`
	StockAfter  entities.Quantity `json:"stock_after"`
}

type PartBundled struct {
	ParentSKU entities.SKU             `json:"parent_sku"`
	Movements []entities.StockMovement `json:"movements"`
}

type PartsImported struct {
	Parts    int `json:"parts"`
	BOMLines int `json:"bom_lines"`
}

func NewStockUpdatedEvent(sku entities.SKU, price decimal.Decimal, before, after entities.Quantity) Event {
	return NewEvent(StockUpdatedEvent, string(sku), StockUpdated{
		SKU:         sku,
		Price:       price,
		StockBefore: before,
		StockAfter:  after,
	})
}

func NewPartBundledEvent(parentSKU entities.SKU, movements []entities.StockMovement) Event {
	return NewEvent(PartBundledEvent, string(parentSKU), PartBundled{
		ParentSKU: parentSKU,
		Movements: movements,
	})
}

// NewPartsImportedEvent is not tied to one part and uses the "import" stream
func NewPartsImportedEvent(parts, bomLines int) Event {
	return NewEvent(PartsImportedEvent, "import", PartsImported{
		Parts:    parts,
		BOMLines: bomLines,
	})
}
