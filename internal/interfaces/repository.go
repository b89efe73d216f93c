package interfaces

import (
	"context"

	"forex-journal/internal/types"
)

// TradeRepository is the persistence boundary for canonical trades.
// Datasets are independent partitions; writes replace a whole partition.
type TradeRepository interface {
	ReplaceDataset(ctx context.Context, dataset string, trades []types.Trade) error
	ListTrades(ctx context.Context, dataset string) ([]types.Trade, error)
	ListDatasets(ctx context.Context) ([]types.DatasetStats, error)
	DeleteDataset(ctx context.Context, dataset string) error
	Close() error
}
