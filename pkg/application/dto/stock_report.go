package dto

import (
	"time"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// StockReport is every part with its price and stock, ordered by SKU
type StockReport struct {
	Parts       []*entities.Part
	GeneratedAt time.Time
}

// TotalStock sums the stock of all parts
func (r *StockReport) TotalStock() entities.Quantity {
	var total entities.Quantity
	for _, part := range r.Parts {
		total += part.Stock
	}
	return total
}
