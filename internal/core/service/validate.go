package service

import (
	"fmt"

	"github.com/storewise/sales-service/internal/core/domain"
)

// validateSaleRequest checks structural and business validity of a sale
// request. Checks run in a fixed order: customer reference, list non-empty,
// then per item in declaration order: product reference, quantity, unit
// price. The first violation is returned; no side effects.
func validateSaleRequest(customerID string, items []domain.ItemRequest) error {
	if customerID == "" {
		return &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if len(items) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for i, it := range items {
		if it.ProductID == "" {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Reason: "required"}
		}
		if it.Quantity <= 0 {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be greater than zero"}
		}
		if it.UnitPrice.IsNegative() {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].unit_price", i), Reason: "must not be negative"}
		}
	}
	return nil
}
