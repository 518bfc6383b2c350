package entities

import "fmt"

// MaxDemandQuantity bounds a single demand request
const MaxDemandQuantity Quantity = 9999

// DemandRequest represents a target quantity of a part that must be on hand
type DemandRequest struct {
	SKU      SKU
	Quantity Quantity
}

// NewDemandRequest creates a validated DemandRequest
func NewDemandRequest(sku SKU, quantity Quantity) (*DemandRequest, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if quantity < 1 || quantity > MaxDemandQuantity {
		return nil, fmt.Errorf("%w: desired quantity must be between 1 and %d, got %d",
			ErrInvalidQuantity, MaxDemandQuantity, quantity)
	}

	return &DemandRequest{
		SKU:      sku,
		Quantity: quantity,
	}, nil
}

// Requirement is the computed need for one part against its stock on hand
type Requirement struct {
	SKU         SKU      `json:"sku"`
	Description string   `json:"description"`
	Need        Quantity `json:"need"`
	Stock       Quantity `json:"stock"`
}

// Shortfall returns how many units the stock falls short of the need
func (r Requirement) Shortfall() Quantity {
	if r.Stock >= r.Need {
		return 0
	}
	return r.Need - r.Stock
}

// Sufficient reports whether stock on hand covers the need
func (r Requirement) Sufficient() bool {
	return r.Stock >= r.Need
}
