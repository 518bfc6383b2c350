package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// PartRepository provides access to part master and stock data
type PartRepository interface {
	GetPart(ctx context.Context, sku entities.SKU) (*entities.Part, error)
	GetAllParts(ctx context.Context) ([]*entities.Part, error)
	GetPartsByPrefix(ctx context.Context, prefix string) ([]*entities.Part, error)
	SavePart(ctx context.Context, part *entities.Part) error

	// LoadParts upserts a batch of parts; stock differences are written to
	// the ledger as import movements.
	LoadParts(ctx context.Context, parts []*entities.Part) error

	// UpdatePart overwrites price and stock of an existing part and returns
	// the ledger entry for the stock delta (nil when stock did not change).
	UpdatePart(
		ctx context.Context,
		sku entities.SKU,
		price decimal.Decimal,
		stock entities.Quantity,
	) (*entities.StockMovement, error)

	// ApplyStockChanges applies every change or none of them. A change that
	// names an unknown part or would leave stock negative aborts the batch.
	ApplyStockChanges(
		ctx context.Context,
		reference string,
		changes []entities.StockChange,
	) ([]entities.StockMovement, error)
}
