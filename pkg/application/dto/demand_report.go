package dto

import (
	"time"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// DemandReport contains the result of a demand analysis for one target part
type DemandReport struct {
	Request entities.DemandRequest

	// Target is the requested part: Need is how many units must still be
	// built after its own stock is used
	Target entities.Requirement

	// Components are the leaf parts consumed by building Target.Need units,
	// ordered by SKU
	Components []entities.Requirement

	GeneratedAt time.Time
}

// Shortages returns the components whose stock does not cover the need
func (r *DemandReport) Shortages() []entities.Requirement {
	var shortages []entities.Requirement
	for _, c := range r.Components {
		if !c.Sufficient() {
			shortages = append(shortages, c)
		}
	}
	return shortages
}

// Buildable reports whether every component is in stock for the shortfall
func (r *DemandReport) Buildable() bool {
	return len(r.Shortages()) == 0
}
