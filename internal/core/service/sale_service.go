package service

import (
	"context"

	"github.com/storewise/sales-service/internal/core/domain"
	"github.com/storewise/sales-service/internal/obs"
	"github.com/storewise/sales-service/internal/port"
)

// SaleService coordinates sale creation: it validates the request, computes
// the total, and drives one transactional scope that writes the sale header,
// its line items, and the matching inventory adjustments. The scope commits
// only when every write succeeds; any persistence error rolls the whole
// sale back.
type SaleService struct {
	scope  port.TransactionScope
	reader port.SaleReader
}

func NewSaleService(scope port.TransactionScope, reader port.SaleReader) *SaleService {
	return &SaleService{scope: scope, reader: reader}
}

func (s *SaleService) CreateSale(ctx context.Context, customerID string, items []domain.ItemRequest) (*domain.Sale, error) {
	if err := validateSaleRequest(customerID, items); err != nil {
		return nil, err
	}
	total := domain.SaleTotal(items)

	var sale *domain.Sale
	err := s.scope.Execute(ctx, func(tx port.SaleTx) error {
		header, err := tx.InsertSale(ctx, customerID, total)
		if err != nil {
			return err
		}
		for _, it := range items {
			line, err := tx.InsertLineItem(ctx, domain.LineItem{
				SaleID:    header.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
			if err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			header.Items = append(header.Items, *line)
		}
		sale = header
		return nil
	})
	if err != nil {
		obs.Logger.Error("sale_create_failed",
			"customer_id", customerID,
			"item_count", len(items),
			"error", err,
		)
		// Callers get one opaque failure; the cause stays in the log.
		return nil, domain.ErrSaleCreateFailed
	}
	return sale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.reader.GetSale(ctx, id)
}

func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.reader.ListSales(ctx)
}
