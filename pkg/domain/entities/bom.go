package entities

import "fmt"

// BOMLine represents a single line in a Bill of Materials: QtyPer units of
// ChildSKU are consumed to build one unit of ParentSKU
type BOMLine struct {
	ParentSKU SKU
	ChildSKU  SKU
	QtyPer    Quantity
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(parentSKU, childSKU SKU, qtyPer Quantity) (*BOMLine, error) {
	if string(parentSKU) == "" {
		return nil, fmt.Errorf("parent sku cannot be empty")
	}
	if string(childSKU) == "" {
		return nil, fmt.Errorf("child sku cannot be empty")
	}
	if parentSKU == childSKU {
		return nil, fmt.Errorf("parent and child sku cannot be the same: %s", parentSKU)
	}
	if qtyPer <= 0 {
		return nil, fmt.Errorf("quantity per must be positive, got %d", qtyPer)
	}

	return &BOMLine{
		ParentSKU: parentSKU,
		ChildSKU:  childSKU,
		QtyPer:    qtyPer,
	}, nil
}
