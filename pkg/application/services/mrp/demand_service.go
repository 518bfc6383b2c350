package mrp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/visualrobotics/mrp/pkg/application/dto"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
)

// DemandService computes the raw material demand for building a target
// quantity of a part
type DemandService struct {
	partRepo repositories.PartRepository
	bomRepo  repositories.BOMRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDemandService creates a new demand service
func NewDemandService(
	partRepo repositories.PartRepository,
	bomRepo repositories.BOMRepository,
	logger zerolog.Logger,
) *DemandService {
	return &DemandService{
		partRepo: partRepo,
		bomRepo:  bomRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze explodes the shortfall of sku against its stock into leaf part
// requirements. Nothing is written.
func (s *DemandService) Analyze(
	ctx context.Context,
	sku entities.SKU,
	quantity entities.Quantity,
) (*dto.DemandReport, error) {
	request, err := entities.NewDemandRequest(sku, quantity)
	if err != nil {
		return nil, err
	}

	if _, err := s.partRepo.GetPart(ctx, request.SKU); err != nil {
		return nil, fmt.Errorf("failed to load target part: %w", err)
	}

	visitor := NewDemandVisitor()
	traverser := NewBOMTraverser(s.partRepo, s.bomRepo)
	if err := traverser.TraverseBOM(ctx, request.SKU, request.Quantity, visitor); err != nil {
		return nil, fmt.Errorf("failed to explode demand for %s: %w", request.SKU, err)
	}

	report := &dto.DemandReport{
		Request:     *request,
		Target:      visitor.Target(),
		Components:  visitor.Components(),
		GeneratedAt: s.now(),
	}

	s.logger.Debug().
		Str("sku", string(request.SKU)).
		Int64("quantity", int64(request.Quantity)).
		Int64("build", int64(report.Target.Need)).
		Int("components", len(report.Components)).
		Int("shortages", len(report.Shortages())).
		Msg("demand analysed")

	return report, nil
}
