package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage indexed by parent SKU
type BOMRepository struct {
	bomLines   []entities.BOMLine
	bomIndexes map[entities.SKU][]int
}

// NewBOMRepository creates an in-memory BOM repository
func NewBOMRepository(expectedBOMLines int) *BOMRepository {
	return &BOMRepository{
		bomLines:   make([]entities.BOMLine, 0, expectedBOMLines),
		bomIndexes: make(map[entities.SKU][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMLines loads BOM lines into the repository
func (r *BOMRepository) LoadBOMLines(ctx context.Context, lines []*entities.BOMLine) error {
	for _, line := range lines {
		if err := r.SaveBOMLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// AddBOMLine adds a BOM line to the repository, replacing an existing line
// for the same parent and child
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	for _, index := range r.bomIndexes[line.ParentSKU] {
		if r.bomLines[index].ChildSKU == line.ChildSKU {
			r.bomLines[index] = line
			return
		}
	}

	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	r.bomIndexes[line.ParentSKU] = append(r.bomIndexes[line.ParentSKU], index)
}

// SaveBOMLine saves a BOM line to the repository
func (r *BOMRepository) SaveBOMLine(_ context.Context, line *entities.BOMLine) error {
	if line == nil {
		return fmt.Errorf("bom line cannot be nil")
	}
	r.AddBOMLine(*line)
	return nil
}

// GetBOMLines returns all BOM lines for a parent SKU ordered by child SKU
func (r *BOMRepository) GetBOMLines(_ context.Context, parentSKU entities.SKU) ([]*entities.BOMLine, error) {
	indexes, exists := r.bomIndexes[parentSKU]
	if !exists {
		return []*entities.BOMLine{}, nil
	}

	lines := make([]*entities.BOMLine, 0, len(indexes))
	for _, index := range indexes {
		line := r.bomLines[index]
		lines = append(lines, &line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ChildSKU < lines[j].ChildSKU
	})

	return lines, nil
}

// GetAllBOMLines returns all BOM lines
func (r *BOMRepository) GetAllBOMLines(_ context.Context) ([]*entities.BOMLine, error) {
	lines := make([]*entities.BOMLine, 0, len(r.bomLines))
	for i := range r.bomLines {
		line := r.bomLines[i]
		lines = append(lines, &line)
	}
	return lines, nil
}
