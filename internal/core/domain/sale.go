package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID         string          `json:"sale_id"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []LineItem      `json:"items,omitempty"`
}

type LineItem struct {
	ID        string          `json:"id,omitempty"`
	SaleID    string          `json:"sale_id,omitempty"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemRequest is one requested line of a sale before persistence.
type ItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleTotal computes the monetary total of the requested items,
// quantity times unit price summed over the list.
func SaleTotal(items []ItemRequest) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
