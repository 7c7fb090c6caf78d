package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storewise/sales-service/internal/core/domain"
)

const (
	mirrorCustomerPrefix = "mirror:customer:"
	mirrorProductPrefix  = "mirror:product:"
	mirrorSalePrefix     = "mirror:sale:"

	mirrorCustomerIndex = "mirror:customers"
	mirrorProductIndex  = "mirror:products"
	mirrorSaleIndex     = "mirror:sales"
	mirrorEmailIndex    = "mirror:customer_emails"
)

// RedisAdapter is the document-store mirror. Every write is a single
// document plus an index entry; there is no multi-key atomicity and no
// inventory effect. It implements port.SaleStore with strictly weaker
// guarantees than the relational path.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	added, err := r.client.SAdd(ctx, mirrorEmailIndex, c.Email).Result()
	if err != nil {
		return nil, fmt.Errorf("index email: %w", err)
	}
	if added == 0 {
		return nil, domain.ErrEmailExists
	}
	c.ID = uuid.NewString()
	if err := r.putDoc(ctx, mirrorCustomerPrefix+c.ID, mirrorCustomerIndex, c.ID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RedisAdapter) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.listDocs(ctx, mirrorCustomerIndex, mirrorCustomerPrefix, func(raw []byte) error {
		var c domain.Customer
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		customers = append(customers, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *RedisAdapter) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = uuid.NewString()
	if err := r.putDoc(ctx, mirrorProductPrefix+p.ID, mirrorProductIndex, p.ID, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.listDocs(ctx, mirrorProductIndex, mirrorProductPrefix, func(raw []byte) error {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CreateSale stores the sale as one document. No validation, no stock
// adjustment and no rollback; this is the mirror's documented behavior.
func (r *RedisAdapter) CreateSale(ctx context.Context, customerID string, items []domain.ItemRequest) (*domain.Sale, error) {
	sale := domain.Sale{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Total:      domain.SaleTotal(items),
		CreatedAt:  time.Now().UTC(),
	}
	for _, it := range items {
		sale.Items = append(sale.Items, domain.LineItem{
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := r.putDoc(ctx, mirrorSalePrefix+sale.ID, mirrorSaleIndex, sale.ID, sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *RedisAdapter) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	raw, err := r.client.Get(ctx, mirrorSalePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale document: %w", err)
	}
	var sale domain.Sale
	if err := json.Unmarshal(raw, &sale); err != nil {
		return nil, fmt.Errorf("decode sale document: %w", err)
	}
	return &sale, nil
}

func (r *RedisAdapter) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.listDocs(ctx, mirrorSaleIndex, mirrorSalePrefix, func(raw []byte) error {
		var s domain.Sale
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s.Items = nil // headers only, like the relational listing
		sales = append(sales, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *RedisAdapter) putDoc(ctx context.Context, key, index, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	if err := r.client.SAdd(ctx, index, id).Err(); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}

func (r *RedisAdapter) listDocs(ctx context.Context, index, prefix string, decode func(raw []byte) error) error {
	ids, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index entry without a document; the mirror makes no
			// consistency promises, skip it.
			continue
		}
		if err := decode([]byte(s)); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
	}
	return nil
}
