package mrp

import (
	"context"
	"sort"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// DemandVisitor implements BOMNodeVisitor for demand analysis. The root is
// netted against its own stock; every sub-assembly below it is netted
// against the stock left over from earlier branches of the same analysis;
// leaf parts accumulate their gross need.
type DemandVisitor struct {
	target    entities.Requirement
	remaining map[entities.SKU]entities.Quantity
	leaves    map[entities.SKU]*entities.Requirement
}

// NewDemandVisitor creates a visitor for a single analysis
func NewDemandVisitor() *DemandVisitor {
	return &DemandVisitor{
		remaining: make(map[entities.SKU]entities.Quantity),
		leaves:    make(map[entities.SKU]*entities.Requirement),
	}
}

// VisitNode returns the number of units of the node that must be built
func (v *DemandVisitor) VisitNode(_ context.Context, node BOMNodeContext) (entities.Quantity, error) {
	if node.Level == 0 {
		build := v.net(node)
		v.target = entities.Requirement{
			SKU:         node.SKU,
			Description: node.Description(),
			Need:        build,
			Stock:       node.Stock(),
		}
		return build, nil
	}

	if node.IsLeaf() {
		req, exists := v.leaves[node.SKU]
		if !exists {
			req = &entities.Requirement{
				SKU:         node.SKU,
				Description: node.Description(),
				Stock:       node.Stock(),
			}
			v.leaves[node.SKU] = req
		}
		req.Need += node.Quantity
		return 0, nil
	}

	return v.net(node), nil
}

// net draws on the node's remaining stock and returns the shortfall
func (v *DemandVisitor) net(node BOMNodeContext) entities.Quantity {
	available, seen := v.remaining[node.SKU]
	if !seen {
		available = node.Stock()
	}

	used := min(available, node.Quantity)
	v.remaining[node.SKU] = available - used
	return node.Quantity - used
}

// Target returns the requirement row of the analysed part
func (v *DemandVisitor) Target() entities.Requirement {
	return v.target
}

// Components returns the accumulated leaf requirements ordered by SKU
func (v *DemandVisitor) Components() []entities.Requirement {
	components := make([]entities.Requirement, 0, len(v.leaves))
	for _, req := range v.leaves {
		components = append(components, *req)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].SKU < components[j].SKU
	})
	return components
}
