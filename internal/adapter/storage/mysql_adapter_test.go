package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/storewise/sales-service/internal/core/domain"
	"github.com/storewise/sales-service/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/sales?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	ensureSchema(t, db)
	return db
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS customer (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		address VARCHAR(512) NOT NULL DEFAULT '')`,
	`CREATE TABLE IF NOT EXISTS product (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description VARCHAR(1024) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL,
		category VARCHAR(255) NOT NULL DEFAULT '')`,
	`CREATE TABLE IF NOT EXISTS sale (
		id VARCHAR(36) PRIMARY KEY,
		customer_id VARCHAR(36) NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		created_at DATETIME NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS line_item (
		id VARCHAR(36) PRIMARY KEY,
		sale_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		ordinal INT NOT NULL,
		KEY idx_line_item_sale (sale_id, ordinal))`,
	`CREATE TABLE IF NOT EXISTS inventory (
		product_id VARCHAR(36) PRIMARY KEY,
		quantity_available INT NOT NULL DEFAULT 0)`,
}

func ensureSchema(t *testing.T, db *sql.DB) {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema setup failed: %v", err)
		}
	}
}

func uniqueEmail() string {
	return fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
}

func TestExecute_CommitPersistsSale(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	product, err := adapter.CreateProduct(ctx, domain.Product{Name: "widget", Price: decimal.RequireFromString("10.00")})
	if err != nil {
		t.Fatalf("setup product failed: %v", err)
	}
	if _, err := adapter.UpsertInventory(ctx, product.ID, 100); err != nil {
		t.Fatalf("setup inventory failed: %v", err)
	}

	var saleID string
	err = adapter.Execute(ctx, func(tx port.SaleTx) error {
		sale, err := tx.InsertSale(ctx, "customer-1", decimal.RequireFromString("20.00"))
		if err != nil {
			return err
		}
		saleID = sale.ID
		if _, err := tx.InsertLineItem(ctx, domain.LineItem{
			SaleID: sale.ID, ProductID: product.ID, Quantity: 2,
			UnitPrice: decimal.RequireFromString("10.00"),
		}); err != nil {
			return err
		}
		return tx.DecrementStock(ctx, product.ID, 2)
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	sale, err := adapter.GetSale(ctx, saleID)
	if err != nil {
		t.Fatalf("GetSale failed: %v", err)
	}
	if !sale.Total.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected total 20.00, got %s", sale.Total)
	}
	if len(sale.Items) != 1 || sale.Items[0].Quantity != 2 {
		t.Errorf("unexpected line items: %+v", sale.Items)
	}

	rec, err := adapter.GetInventory(ctx, product.ID)
	if err != nil || rec == nil {
		t.Fatalf("GetInventory failed: rec=%v err=%v", rec, err)
	}
	if rec.QuantityAvailable != 98 {
		t.Errorf("expected stock 98, got %d", rec.QuantityAvailable)
	}
}

func TestExecute_RollbackDiscardsWrites(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	product, err := adapter.CreateProduct(ctx, domain.Product{Name: "gadget", Price: decimal.RequireFromString("5.00")})
	if err != nil {
		t.Fatalf("setup product failed: %v", err)
	}
	if _, err := adapter.UpsertInventory(ctx, product.ID, 50); err != nil {
		t.Fatalf("setup inventory failed: %v", err)
	}

	boom := errors.New("boom")
	var saleID string
	err = adapter.Execute(ctx, func(tx port.SaleTx) error {
		sale, err := tx.InsertSale(ctx, "customer-1", decimal.RequireFromString("5.00"))
		if err != nil {
			return err
		}
		saleID = sale.ID
		if _, err := tx.InsertLineItem(ctx, domain.LineItem{
			SaleID: sale.ID, ProductID: product.ID, Quantity: 1,
			UnitPrice: decimal.RequireFromString("5.00"),
		}); err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, product.ID, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got: %v", err)
	}

	// Nothing from the scope may be visible.
	if _, err := adapter.GetSale(ctx, saleID); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Errorf("expected ErrSaleNotFound after rollback, got: %v", err)
	}
	var itemCount int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM line_item WHERE sale_id = ?`, saleID).Scan(&itemCount)
	if itemCount != 0 {
		t.Errorf("expected 0 line items after rollback, got %d", itemCount)
	}
	rec, err := adapter.GetInventory(ctx, product.ID)
	if err != nil || rec == nil {
		t.Fatalf("GetInventory failed: rec=%v err=%v", rec, err)
	}
	if rec.QuantityAvailable != 50 {
		t.Errorf("expected stock 50 after rollback, got %d", rec.QuantityAvailable)
	}
}

func TestDecrementStock_ClampsAtZero(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	product, err := adapter.CreateProduct(ctx, domain.Product{Name: "scarce", Price: decimal.RequireFromString("1.00")})
	if err != nil {
		t.Fatalf("setup product failed: %v", err)
	}
	if _, err := adapter.UpsertInventory(ctx, product.ID, 1); err != nil {
		t.Fatalf("setup inventory failed: %v", err)
	}

	err = adapter.Execute(ctx, func(tx port.SaleTx) error {
		return tx.DecrementStock(ctx, product.ID, 5)
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	rec, err := adapter.GetInventory(ctx, product.ID)
	if err != nil || rec == nil {
		t.Fatalf("GetInventory failed: rec=%v err=%v", rec, err)
	}
	if rec.QuantityAvailable != 0 {
		t.Errorf("expected stock clamped to 0, got %d", rec.QuantityAvailable)
	}
}

func TestDecrementStock_MissingRowIsNoOp(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	err := adapter.Execute(ctx, func(tx port.SaleTx) error {
		return tx.DecrementStock(ctx, "no-such-product", 3)
	})
	if err != nil {
		t.Fatalf("expected no-op, got: %v", err)
	}
}

func TestCustomerCRUD(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	email := uniqueEmail()

	created, err := adapter.CreateCustomer(ctx, domain.Customer{Name: "Ana", Email: email, Phone: "123"})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected store-assigned customer ID")
	}

	// Duplicate email is rejected.
	if _, err := adapter.CreateCustomer(ctx, domain.Customer{Name: "Bia", Email: email}); !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}

	got, err := adapter.GetCustomer(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.Name != "Ana" || got.Email != email {
		t.Errorf("unexpected customer: %+v", got)
	}

	got.Name = "Ana Maria"
	updated, err := adapter.UpdateCustomer(ctx, *got)
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}

	// Value-identical update must not be mistaken for a missing row.
	if _, err := adapter.UpdateCustomer(ctx, *updated); err != nil {
		t.Errorf("no-op update failed: %v", err)
	}

	if err := adapter.DeleteCustomer(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := adapter.GetCustomer(ctx, created.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got: %v", err)
	}
	if err := adapter.DeleteCustomer(ctx, created.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound on second delete, got: %v", err)
	}
}

func TestProductCRUD(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	created, err := adapter.CreateProduct(ctx, domain.Product{
		Name: "notebook", Price: decimal.RequireFromString("999.90"), Category: "electronics",
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	got, err := adapter.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("999.90")) {
		t.Errorf("expected price 999.90, got %s", got.Price)
	}

	got.Price = decimal.RequireFromString("899.90")
	if _, err := adapter.UpdateProduct(ctx, *got); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	if err := adapter.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := adapter.GetProduct(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestGetInventory_Missing(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	rec, err := adapter.GetInventory(ctx, "nonexistent-product")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing inventory record, got %+v", rec)
	}
}

func TestGetSale_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	if _, err := adapter.GetSale(context.Background(), "no-such-sale"); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Errorf("expected ErrSaleNotFound, got: %v", err)
	}
}
