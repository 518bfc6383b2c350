package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/application/dto"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
)

// ErrNoChanges is returned when an update matched no part
var ErrNoChanges = errors.New("no changes made")

// StockService covers the single-part reads and writes and the stock report
type StockService struct {
	partRepo     repositories.PartRepository
	movementRepo repositories.MovementRepository
	publisher    events.Publisher
	subPrefix    string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewStockService creates a stock service. An empty subPrefix selects
// entities.DefaultSubAssemblyPrefix.
func NewStockService(
	partRepo repositories.PartRepository,
	movementRepo repositories.MovementRepository,
	publisher events.Publisher,
	subPrefix string,
	logger zerolog.Logger,
) *StockService {
	if subPrefix == "" {
		subPrefix = entities.DefaultSubAssemblyPrefix
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &StockService{
		partRepo:     partRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
		subPrefix:    subPrefix,
		logger:       logger,
		now:          time.Now,
	}
}

// ListParts returns every part ordered by SKU
func (s *StockService) ListParts(ctx context.Context) ([]*entities.Part, error) {
	parts, err := s.partRepo.GetAllParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	return parts, nil
}

// ListSubAssemblies returns the parts whose SKU carries the sub-assembly prefix
func (s *StockService) ListSubAssemblies(ctx context.Context) ([]*entities.Part, error) {
	parts, err := s.partRepo.GetPartsByPrefix(ctx, s.subPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-assemblies: %w", err)
	}
	return parts, nil
}

// GetPart returns a single part
func (s *StockService) GetPart(ctx context.Context, sku entities.SKU) (*entities.Part, error) {
	part, err := s.partRepo.GetPart(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to load part: %w", err)
	}
	return part, nil
}

// UpdatePart sets price and stock of an existing part. The price is rounded
// to entities.PriceScale places; negative values are rejected.
func (s *StockService) UpdatePart(
	ctx context.Context,
	sku entities.SKU,
	price decimal.Decimal,
	stock entities.Quantity,
) (*entities.Part, error) {
	validated, err := entities.NewPart(sku, "", price, stock)
	if err != nil {
		return nil, fmt.Errorf("invalid update: %w", err)
	}

	before, err := s.partRepo.GetPart(ctx, sku)
	if err != nil {
		if errors.Is(err, entities.ErrPartNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoChanges, err)
		}
		return nil, fmt.Errorf("failed to load part: %w", err)
	}

	if _, err := s.partRepo.UpdatePart(ctx, sku, validated.Price, validated.Stock); err != nil {
		if errors.Is(err, entities.ErrPartNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoChanges, err)
		}
		return nil, fmt.Errorf("failed to update part: %w", err)
	}

	s.publish(events.NewStockUpdatedEvent(sku, validated.Price, before.Stock, validated.Stock))

	s.logger.Info().
		Str("sku", string(sku)).
		Str("price", validated.FormattedPrice()).
		Int64("stock_before", int64(before.Stock)).
		Int64("stock_after", int64(validated.Stock)).
		Msg("part updated")

	return s.GetPart(ctx, sku)
}

// StockReport returns all parts ordered by SKU with the generation time
func (s *StockService) StockReport(ctx context.Context) (*dto.StockReport, error) {
	parts, err := s.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StockReport{
		Parts:       parts,
		GeneratedAt: s.now(),
	}, nil
}

// Movements returns the stock ledger of a part, newest first
func (s *StockService) Movements(ctx context.Context, sku entities.SKU, limit int) ([]*entities.StockMovement, error) {
	if _, err := s.partRepo.GetPart(ctx, sku); err != nil {
		return nil, fmt.Errorf("failed to load part: %w", err)
	}
	movements, err := s.movementRepo.GetMovements(ctx, sku, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	return movements, nil
}

// A failed event handler never undoes a committed change
func (s *StockService) publish(event events.Event) {
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn().Err(err).Str("event", event.Type()).Msg("event handler failed")
	}
}
