package port

import (
	"context"

	"github.com/storewise/sales-service/internal/core/domain"
)

// MirrorStore maintains the document-store copies of catalog entities.
// Writes are single documents with no cross-entity consistency.
type MirrorStore interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
