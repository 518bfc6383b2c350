package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// PartRepository provides in-memory part storage together with the stock
// movement ledger written by its stock operations
type PartRepository struct {
	parts     []entities.Part
	partsMap  map[entities.SKU]int
	movements []entities.StockMovement
	now       func() time.Time
}

// NewPartRepository creates a new in-memory part repository
func NewPartRepository(expectedParts int) *PartRepository {
	return &PartRepository{
		parts:    make([]entities.Part, 0, expectedParts),
		partsMap: make(map[entities.SKU]int, expectedParts),
		now:      time.Now,
	}
}

// Verify interface compliance
var _ repositories.PartRepository = (*PartRepository)(nil)
var _ repositories.MovementRepository = (*PartRepository)(nil)

// LoadParts upserts parts and records an import movement for every stock difference
func (r *PartRepository) LoadParts(_ context.Context, parts []*entities.Part) error {
	for _, part := range parts {
		if part == nil {
			return fmt.Errorf("part cannot be nil")
		}
		var before entities.Quantity
		if index, exists := r.partsMap[part.SKU]; exists {
			before = r.parts[index].Stock
		}
		r.AddPart(*part)
		if part.Stock != before {
			r.record(part.SKU, entities.Import, part.Stock-before, before, "import")
		}
	}
	return nil
}

// AddPart adds a part to the repository, replacing an existing part with the same SKU
func (r *PartRepository) AddPart(part entities.Part) {
	if index, exists := r.partsMap[part.SKU]; exists {
		r.parts[index] = part
		return
	}
	r.partsMap[part.SKU] = len(r.parts)
	r.parts = append(r.parts, part)
}

// SavePart saves a part to the repository
func (r *PartRepository) SavePart(_ context.Context, part *entities.Part) error {
	if part == nil {
		return fmt.Errorf("part cannot be nil")
	}
	r.AddPart(*part)
	return nil
}

// GetPart returns a copy of the part for a SKU
func (r *PartRepository) GetPart(_ context.Context, sku entities.SKU) (*entities.Part, error) {
	index, exists := r.partsMap[sku]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, sku)
	}
	part := r.parts[index]
	return &part, nil
}

// GetAllParts returns all parts ordered by SKU
func (r *PartRepository) GetAllParts(ctx context.Context) ([]*entities.Part, error) {
	return r.GetPartsByPrefix(ctx, "")
}

// GetPartsByPrefix returns the parts whose SKU starts with prefix, ordered by SKU
func (r *PartRepository) GetPartsByPrefix(_ context.Context, prefix string) ([]*entities.Part, error) {
	parts := make([]*entities.Part, 0, len(r.parts))
	for i := range r.parts {
		if !strings.HasPrefix(string(r.parts[i].SKU), prefix) {
			continue
		}
		part := r.parts[i]
		parts = append(parts, &part)
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].SKU < parts[j].SKU
	})
	return parts, nil
}

// UpdatePart overwrites price and stock of an existing part
func (r *PartRepository) UpdatePart(
	_ context.Context,
	sku entities.SKU,
	price decimal.Decimal,
	stock entities.Quantity,
) (*entities.StockMovement, error) {
	index, exists := r.partsMap[sku]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, sku)
	}

	part := &r.parts[index]
	before := part.Stock
	part.Price = price
	part.Stock = stock

	if before == stock {
		return nil, nil
	}

	movement := r.record(sku, entities.ManualUpdate, stock-before, before, "manual update")
	return &movement, nil
}

// ApplyStockChanges validates every change before applying any of them
func (r *PartRepository) ApplyStockChanges(
	_ context.Context,
	reference string,
	changes []entities.StockChange,
) ([]entities.StockMovement, error) {
	// Net the batch per SKU first so a part named twice is checked against its final stock
	pending := make(map[entities.SKU]entities.Quantity, len(changes))
	for _, change := range changes {
		index, exists := r.partsMap[change.SKU]
		if !exists {
			return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, change.SKU)
		}
		current, seen := pending[change.SKU]
		if !seen {
			current = r.parts[index].Stock
		}
		next := current + change.Delta
		// Increments always apply, even onto legacy negative stock
		if change.Delta < 0 && next < 0 {
			return nil, fmt.Errorf("%w: %s has %d, change needs %d",
				entities.ErrInsufficientStock, change.SKU, current, -change.Delta)
		}
		pending[change.SKU] = next
	}

	movements := make([]entities.StockMovement, 0, len(changes))
	for _, change := range changes {
		part := &r.parts[r.partsMap[change.SKU]]
		before := part.Stock
		part.Stock += change.Delta
		movements = append(movements, r.record(change.SKU, change.Kind, change.Delta, before, reference))
	}

	return movements, nil
}
