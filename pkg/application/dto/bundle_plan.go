package dto

import (
	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// BundleComponent is one child line of a bundle plan
type BundleComponent struct {
	SKU         entities.SKU
	Description string
	Required    entities.Quantity
	Stock       entities.Quantity
	Missing     bool // no part row exists for the SKU
}

// Sufficient reports whether stock covers one bundle
func (c BundleComponent) Sufficient() bool {
	return !c.Missing && c.Stock >= c.Required
}

// BundlePlan previews building one unit of a parent from its components
type BundlePlan struct {
	Parent     entities.Part
	Components []BundleComponent
}

// CanBundle reports whether the parent has components and all of them are in stock
func (p *BundlePlan) CanBundle() bool {
	if len(p.Components) == 0 {
		return false
	}
	for _, c := range p.Components {
		if !c.Sufficient() {
			return false
		}
	}
	return true
}

// BundleResult is the outcome of a committed bundle
type BundleResult struct {
	Plan      *BundlePlan // refreshed after the commit
	Movements []entities.StockMovement
}
