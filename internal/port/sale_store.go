package port

import (
	"context"

	"github.com/storewise/sales-service/internal/core/domain"
)

// SaleStore is the capability both sale backends expose: create a sale and
// read it back. The relational implementation is atomic and adjusts
// inventory; the document-mirror implementation gives no such guarantees.
// Callers must not assume both share the transactional backend's invariants.
type SaleStore interface {
	CreateSale(ctx context.Context, customerID string, items []domain.ItemRequest) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
}

// SaleReader provides the pool-scoped projection queries for sales.
type SaleReader interface {
	// GetSale returns the sale header with its line items in insertion order.
	GetSale(ctx context.Context, id string) (*domain.Sale, error)

	// ListSales returns sale headers only, oldest first.
	ListSales(ctx context.Context) ([]domain.Sale, error)
}
