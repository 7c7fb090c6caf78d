package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storewise/sales-service/internal/core/domain"
	"github.com/storewise/sales-service/internal/port"
)

// MySQLAdapter is the relational store: the transactional sale path plus
// catalog and inventory persistence.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Execute implements port.TransactionScope. The transaction commits only
// when fn returns nil; the deferred rollback is a no-op after a successful
// commit and otherwise returns the connection on every path.
func (m *MySQLAdapter) Execute(ctx context.Context, fn func(tx port.SaleTx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&saleTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// saleTx implements port.SaleTx over one open *sql.Tx. The ordinal counter
// preserves line-item input order for read-back.
type saleTx struct {
	tx      *sql.Tx
	ordinal int
}

func (t *saleTx) InsertSale(ctx context.Context, customerID string, total decimal.Decimal) (*domain.Sale, error) {
	sale := &domain.Sale{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Total:      total,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO sale (id, customer_id, total, created_at)
		VALUES (?, ?, ?, ?)`,
		sale.ID, sale.CustomerID, sale.Total, sale.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	return sale, nil
}

func (t *saleTx) InsertLineItem(ctx context.Context, item domain.LineItem) (*domain.LineItem, error) {
	item.ID = uuid.NewString()
	t.ordinal++
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO line_item (id, sale_id, product_id, quantity, unit_price, ordinal)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, t.ordinal,
	)
	if err != nil {
		return nil, fmt.Errorf("insert line item: %w", err)
	}
	return &item, nil
}

func (t *saleTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity_available = GREATEST(quantity_available - ?, 0)
		WHERE product_id = ?`,
		quantity, productID,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	var s domain.Sale
	err := m.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total, created_at
		FROM sale WHERE id = ?`, id,
	).Scan(&s.ID, &s.CustomerID, &s.Total, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query sale: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM line_item WHERE sale_id = ?
		ORDER BY ordinal`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li domain.LineItem
		if err := rows.Scan(&li.ID, &li.SaleID, &li.ProductID, &li.Quantity, &li.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		s.Items = append(s.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return &s, nil
}

func (m *MySQLAdapter) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, customer_id, total, created_at
		FROM sale ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.ID = uuid.NewString()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO customer (id, name, email, phone, address)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Address,
	)
	if isDuplicateKey(err) {
		return nil, domain.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, email, phone, address
		FROM customer ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (m *MySQLAdapter) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address
		FROM customer WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) UpdateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE customer SET name = ?, email = ?, phone = ?, address = ?
		WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.Address, c.ID,
	)
	if isDuplicateKey(err) {
		return nil, domain.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// MySQL also reports zero affected rows for value-identical updates.
		if _, err := m.GetCustomer(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (m *MySQLAdapter) DeleteCustomer(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM customer WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = uuid.NewString()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO product (id, name, description, price, category)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, description, price, category
		FROM product ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, category
		FROM product WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (m *MySQLAdapter) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE product SET name = ?, description = ?, price = ?, category = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Category, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := m.GetProduct(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (m *MySQLAdapter) DeleteProduct(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (m *MySQLAdapter) GetInventory(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id, quantity_available
		FROM inventory WHERE product_id = ?`, productID,
	).Scan(&rec.ProductID, &rec.QuantityAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return &rec, nil
}

func (m *MySQLAdapter) UpsertInventory(ctx context.Context, productID string, quantity int) (*domain.InventoryRecord, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, quantity_available) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE quantity_available = VALUES(quantity_available)`,
		productID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert inventory: %w", err)
	}
	return &domain.InventoryRecord{ProductID: productID, QuantityAvailable: quantity}, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
