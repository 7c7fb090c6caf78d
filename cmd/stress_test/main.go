package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/storewise/sales-service/internal/adapter/storage"
	"github.com/storewise/sales-service/internal/config"
	"github.com/storewise/sales-service/internal/core/domain"
	"github.com/storewise/sales-service/internal/core/service"
)

const (
	initialStock  = 20
	totalRequests = 50
)

// Hammers the sale-creation pipeline with concurrent requests against one
// product and checks that inventory never goes negative. Every request is
// expected to succeed: excess demand is clamped at zero, not rejected.
func main() {
	ctx := context.Background()
	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	adapter := storage.NewMySQLAdapter(db)
	saleService := service.NewSaleService(adapter, adapter)

	customer, err := adapter.CreateCustomer(ctx, domain.Customer{
		Name:  "stress-customer",
		Email: fmt.Sprintf("stress-%d@example.com", time.Now().UnixNano()),
	})
	if err != nil {
		log.Fatalf("failed to create customer: %v", err)
	}
	product, err := adapter.CreateProduct(ctx, domain.Product{
		Name:  "stress-product",
		Price: decimal.RequireFromString("10.00"),
	})
	if err != nil {
		log.Fatalf("failed to create product: %v", err)
	}
	if _, err := adapter.UpsertInventory(ctx, product.ID, initialStock); err != nil {
		log.Fatalf("failed to seed inventory: %v", err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := saleService.CreateSale(ctx, customer.ID, []domain.ItemRequest{
				{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(totalRequests) {
		fmt.Println("PASS: every sale committed (oversell is clamped, not rejected)")
	} else {
		fmt.Printf("FAIL: expected %d successes, got %d\n", totalRequests, success)
	}

	rec, err := adapter.GetInventory(ctx, product.ID)
	if err != nil || rec == nil {
		log.Fatalf("failed to read back inventory: %v", err)
	}
	fmt.Printf("Final Stock:      %d\n", rec.QuantityAvailable)

	if rec.QuantityAvailable == 0 {
		fmt.Println("PASS: stock clamped at 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", rec.QuantityAvailable)
	}
}
