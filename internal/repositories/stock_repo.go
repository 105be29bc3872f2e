package repositories

import "katalog/internal/models"

// StockRepository defines the interface for stock data access. Stock rows are
// keyed by product: one row per product ID.
type StockRepository interface {
	GetByProductID(productID string) (*models.Stock, error)
	Upsert(stock *models.Stock) error
	DeleteByProductID(productID string) error
}
