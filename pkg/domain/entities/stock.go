package entities

import (
	"fmt"
	"time"
)

// MovementKind represents why a part's stock changed
type MovementKind int

const (
	ManualUpdate MovementKind = iota
	BundleConsume
	BundleProduce
	Import
)

// String method for MovementKind enum
func (k MovementKind) String() string {
	switch k {
	case ManualUpdate:
		return "update"
	case BundleConsume:
		return "bundle-consume"
	case BundleProduce:
		return "bundle-produce"
	case Import:
		return "import"
	default:
		return "unknown"
	}
}

// ParseMovementKind is the inverse of MovementKind.String
func ParseMovementKind(s string) (MovementKind, error) {
	switch s {
	case "update":
		return ManualUpdate, nil
	case "bundle-consume":
		return BundleConsume, nil
	case "bundle-produce":
		return BundleProduce, nil
	case "import":
		return Import, nil
	default:
		return 0, fmt.Errorf("unknown movement kind: %s", s)
	}
}

// StockChange is one signed adjustment to a part's stock
type StockChange struct {
	SKU   SKU
	Delta Quantity
	Kind  MovementKind
}

// NewStockChange creates a validated StockChange
func NewStockChange(sku SKU, delta Quantity, kind MovementKind) (*StockChange, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if delta == 0 {
		return nil, fmt.Errorf("stock change for %s cannot be zero", sku)
	}

	return &StockChange{
		SKU:   sku,
		Delta: delta,
		Kind:  kind,
	}, nil
}

// StockMovement is a ledger entry recording one applied stock change
type StockMovement struct {
	ID          string
	SKU         SKU
	Kind        MovementKind
	Delta       Quantity
	StockBefore Quantity
	StockAfter  Quantity
	Reference   string
	CreatedAt   time.Time
}
