package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SKU represents a unique part identifier
type SKU string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// PriceScale is the number of decimal places a part price is stored and shown with
const PriceScale = 3

// DefaultSubAssemblyPrefix marks SKUs that are built from other parts
const DefaultSubAssemblyPrefix = "SUB-"

// Part represents a stocked part with its price and quantity on hand
type Part struct {
	SKU         SKU
	Description string
	Price       decimal.Decimal
	Stock       Quantity
}

// NewPart creates a validated Part
func NewPart(sku SKU, description string, price decimal.Decimal, stock Quantity) (*Part, error) {
	if strings.TrimSpace(string(sku)) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative, got %s", price.String())
	}
	if stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative, got %d", stock)
	}

	return &Part{
		SKU:         sku,
		Description: description,
		Price:       price.Round(PriceScale),
		Stock:       stock,
	}, nil
}

// IsSubAssembly reports whether the part's SKU carries the sub-assembly prefix
func (p *Part) IsSubAssembly(prefix string) bool {
	if prefix == "" {
		prefix = DefaultSubAssemblyPrefix
	}
	return strings.HasPrefix(string(p.SKU), prefix)
}

// FormattedPrice returns the price with the fixed display scale
func (p *Part) FormattedPrice() string {
	return p.Price.StringFixed(PriceScale)
}
