package services

import (
	"errors"
	"log"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

// StockService manages the stock rows that product responses populate from.
// It keeps Product.StockID pointing at the product's stock row.
type StockService struct {
	stockRepo   repositories.StockRepository
	productRepo repositories.ProductRepository
}

// NewStockService creates a new StockService.
func NewStockService(stockRepo repositories.StockRepository, productRepo repositories.ProductRepository) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
	}
}

// SetStock creates or overwrites the stock quantity for a product and links
// the product to its stock row. Fails with repositories.ErrNotFound when the
// product does not exist.
func (s *StockService) SetStock(productID string, quantity int) (*models.Stock, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	stock := &models.Stock{
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.stockRepo.Upsert(stock); err != nil {
		return nil, err
	}

	if product.StockID == nil || *product.StockID != stock.ID {
		product.StockID = &stock.ID
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	}
	return stock, nil
}

// GetStockByProductID returns the stock row for a product.
func (s *StockService) GetStockByProductID(productID string) (*models.Stock, error) {
	return s.stockRepo.GetByProductID(productID)
}

// ReleaseStock removes the stock row for a product, typically in response to
// a products.delete event. A missing row is treated as already released.
func (s *StockService) ReleaseStock(productID string) error {
	if err := s.stockRepo.DeleteByProductID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("No stock to release for product %s", productID)
			return nil
		}
		return err
	}
	return nil
}
