// Package catalog moves whole part and BOM datasets in and out of the store
// and checks the stored BOM for structural problems.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
	"github.com/visualrobotics/mrp/pkg/domain/services"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
)

// ErrInvalidDataset is returned when an import would leave the BOM broken
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is a full set of parts and BOM lines
type Dataset struct {
	Parts    []*entities.Part
	BOMLines []*entities.BOMLine
}

type CatalogService struct {
	partRepo  repositories.PartRepository
	bomRepo   repositories.BOMRepository
	validator *services.BOMValidator
	publisher events.Publisher
	logger    zerolog.Logger
}

func NewCatalogService(
	partRepo repositories.PartRepository,
	bomRepo repositories.BOMRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) *CatalogService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &CatalogService{
		partRepo:  partRepo,
		bomRepo:   bomRepo,
		validator: services.NewBOMValidator(),
		publisher: publisher,
		logger:    logger,
	}
}

// Import upserts the dataset after checking that the stored data merged with
// it has unique SKUs, no BOM cycles and no BOM line naming an unknown part.
// A failed check writes nothing.
func (s *CatalogService) Import(ctx context.Context, data Dataset) error {
	current, err := s.Export(ctx)
	if err != nil {
		return err
	}

	result := s.validator.ValidatePartUniqueness(derefParts(data.Parts))
	merged := mergeDatasets(current, data)
	result.Merge(s.validate(merged))
	if !result.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(result.Errors, "; "))
	}

	if len(data.Parts) > 0 {
		if err := s.partRepo.LoadParts(ctx, data.Parts); err != nil {
			return fmt.Errorf("failed to import parts: %w", err)
		}
	}
	if len(data.BOMLines) > 0 {
		if err := s.bomRepo.LoadBOMLines(ctx, data.BOMLines); err != nil {
			return fmt.Errorf("failed to import BOM lines: %w", err)
		}
	}

	if err := s.publisher.Publish(events.NewPartsImportedEvent(len(data.Parts), len(data.BOMLines))); err != nil {
		s.logger.Warn().Err(err).Msg("event handler failed")
	}

	s.logger.Info().
		Int("parts", len(data.Parts)).
		Int("bom_lines", len(data.BOMLines)).
		Msg("dataset imported")

	return nil
}

// Export returns every stored part and BOM line
func (s *CatalogService) Export(ctx context.Context) (Dataset, error) {
	parts, err := s.partRepo.GetAllParts(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read parts: %w", err)
	}
	lines, err := s.bomRepo.GetAllBOMLines(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read BOM: %w", err)
	}
	return Dataset{Parts: parts, BOMLines: lines}, nil
}

// Check validates the stored BOM
func (s *CatalogService) Check(ctx context.Context) (*services.ValidationResult, error) {
	data, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return s.validate(data), nil
}

func (s *CatalogService) validate(data Dataset) *services.ValidationResult {
	lines := derefLines(data.BOMLines)
	result := s.validator.ValidateBOM(lines)
	result.Merge(s.validator.ValidateBOMPartConsistency(lines, derefParts(data.Parts)))
	return result
}

// mergeDatasets applies incoming on top of current the way the repositories
// upsert: parts by SKU, BOM lines by parent and child
func mergeDatasets(current, incoming Dataset) Dataset {
	parts := make(map[entities.SKU]*entities.Part, len(current.Parts)+len(incoming.Parts))
	var partOrder []entities.SKU
	for _, set := range [][]*entities.Part{current.Parts, incoming.Parts} {
		for _, p := range set {
			if _, seen := parts[p.SKU]; !seen {
				partOrder = append(partOrder, p.SKU)
			}
			parts[p.SKU] = p
		}
	}

	type edge struct{ parent, child entities.SKU }
	lines := make(map[edge]*entities.BOMLine, len(current.BOMLines)+len(incoming.BOMLines))
	var lineOrder []edge
	for _, l := range current.BOMLines {
		key := edge{l.ParentSKU, l.ChildSKU}
		if _, seen := lines[key]; !seen {
			lineOrder = append(lineOrder, key)
		}
		lines[key] = l
	}

	merged := Dataset{}
	for _, sku := range partOrder {
		merged.Parts = append(merged.Parts, parts[sku])
	}
	for _, key := range lineOrder {
		merged.BOMLines = append(merged.BOMLines, lines[key])
	}
	// The first incoming line for a stored pair replaces it; any further
	// line for the same pair is kept so it is reported as a duplicate
	incomingSeen := make(map[edge]bool, len(incoming.BOMLines))
	for _, l := range incoming.BOMLines {
		key := edge{l.ParentSKU, l.ChildSKU}
		_, stored := lines[key]
		first := !incomingSeen[key]
		incomingSeen[key] = true
		if stored && first {
			continue
		}
		merged.BOMLines = append(merged.BOMLines, l)
	}
	return merged
}

func derefParts(parts []*entities.Part) []entities.Part {
	out := make([]entities.Part, 0, len(parts))
	for _, p := range parts {
		out = append(out, *p)
	}
	return out
}

func derefLines(lines []*entities.BOMLine) []entities.BOMLine {
	out := make([]entities.BOMLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	return out
}
