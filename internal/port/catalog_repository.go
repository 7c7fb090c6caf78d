package port

import (
	"context"

	"github.com/storewise/sales-service/internal/core/domain"
)

// CatalogRepository persists customers, products and their inventory
// records in the relational store. All operations are single-statement.
type CatalogRepository interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// GetInventory returns nil without error when the product has no
	// inventory record.
	GetInventory(ctx context.Context, productID string) (*domain.InventoryRecord, error)
	UpsertInventory(ctx context.Context, productID string, quantity int) (*domain.InventoryRecord, error)
}
