package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storewise/sales-service/internal/core/domain"
)

// SaleTx is the set of write operations available inside one open database
// transaction. Implementations never commit or roll back; that authority
// belongs to the TransactionScope that handed out the SaleTx.
type SaleTx interface {
	// InsertSale persists the sale header and returns it with its
	// store-assigned identifier and creation timestamp.
	InsertSale(ctx context.Context, customerID string, total decimal.Decimal) (*domain.Sale, error)

	// InsertLineItem persists one line item referencing an already-inserted sale.
	InsertLineItem(ctx context.Context, item domain.LineItem) (*domain.LineItem, error)

	// DecrementStock lowers the available quantity for a product, clamping
	// at zero. A product with no inventory record is a no-op.
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// TransactionScope runs a function inside one transaction: committed when
// the function returns nil, rolled back otherwise. The underlying
// connection is released on every path, including a failed commit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(tx SaleTx) error) error
}
