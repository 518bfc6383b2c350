package bundle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/visualrobotics/mrp/pkg/application/dto"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
)

// BundleService builds one unit of a parent part from its direct components
type BundleService struct {
	partRepo  repositories.PartRepository
	bomRepo   repositories.BOMRepository
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewBundleService creates a new bundle service
func NewBundleService(
	partRepo repositories.PartRepository,
	bomRepo repositories.BOMRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) *BundleService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &BundleService{
		partRepo:  partRepo,
		bomRepo:   bomRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Plan lists the components needed for one unit of parentSKU against their stock
func (s *BundleService) Plan(ctx context.Context, parentSKU entities.SKU) (*dto.BundlePlan, error) {
	parent, err := s.partRepo.GetPart(ctx, parentSKU)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent part: %w", err)
	}

	lines, err := s.bomRepo.GetBOMLines(ctx, parentSKU)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM of %s: %w", parentSKU, err)
	}

	plan := &dto.BundlePlan{
		Parent:     *parent,
		Components: make([]dto.BundleComponent, 0, len(lines)),
	}

	for _, line := range lines {
		component := dto.BundleComponent{
			SKU:      line.ChildSKU,
			Required: line.QtyPer,
		}

		child, err := s.partRepo.GetPart(ctx, line.ChildSKU)
		switch {
		case err == nil:
			component.Description = child.Description
			component.Stock = child.Stock
		case errors.Is(err, entities.ErrPartNotFound):
			component.Missing = true
		default:
			return nil, fmt.Errorf("failed to load component %s: %w", line.ChildSKU, err)
		}

		plan.Components = append(plan.Components, component)
	}

	return plan, nil
}

// Bundle consumes one unit's worth of every component and adds one unit to
// the parent in a single transaction. Nothing changes when any component is
// short, including when stock moved between the plan and the commit.
func (s *BundleService) Bundle(ctx context.Context, parentSKU entities.SKU) (*dto.BundleResult, error) {
	plan, err := s.Plan(ctx, parentSKU)
	if err != nil {
		return nil, err
	}

	if len(plan.Components) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoComponents, parentSKU)
	}

	if !plan.CanBundle() {
		return nil, fmt.Errorf("%w to bundle %s: %s",
			entities.ErrInsufficientStock, parentSKU, describeShortComponents(plan))
	}

	changes := make([]entities.StockChange, 0, len(plan.Components)+1)
	for _, component := range plan.Components {
		changes = append(changes, entities.StockChange{
			SKU:   component.SKU,
			Delta: -component.Required,
			Kind:  entities.BundleConsume,
		})
	}
	changes = append(changes, entities.StockChange{
		SKU:   parentSKU,
		Delta: 1,
		Kind:  entities.BundleProduce,
	})

	movements, err := s.partRepo.ApplyStockChanges(ctx, string(parentSKU), changes)
	if err != nil {
		return nil, fmt.Errorf("failed to bundle %s: %w", parentSKU, err)
	}

	if err := s.publisher.Publish(events.NewPartBundledEvent(parentSKU, movements)); err != nil {
		s.logger.Warn().Err(err).Str("sku", string(parentSKU)).Msg("event handler failed")
	}

	s.logger.Info().
		Str("sku", string(parentSKU)).
		Int("components", len(plan.Components)).
		Msg("part bundled")

	refreshed, err := s.Plan(ctx, parentSKU)
	if err != nil {
		return nil, err
	}

	return &dto.BundleResult{
		Plan:      refreshed,
		Movements: movements,
	}, nil
}

func describeShortComponents(plan *dto.BundlePlan) string {
	var short []string
	for _, c := range plan.Components {
		switch {
		case c.Missing:
			short = append(short, fmt.Sprintf("%s (no such part)", c.SKU))
		case !c.Sufficient():
			short = append(short, fmt.Sprintf("%s (need %d, have %d)", c.SKU, c.Required, c.Stock))
		}
	}
	return strings.Join(short, ", ")
}
