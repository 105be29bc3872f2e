package repositories

import (
	"errors"
	"fmt"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStockRepository is a GORM implementation of StockRepository.
type GORMStockRepository struct {
	db *gorm.DB
}

// NewGORMStockRepository creates a new instance of GORMStockRepository.
func NewGORMStockRepository(db *gorm.DB) *GORMStockRepository {
	return &GORMStockRepository{
		db: db,
	}
}

// GetByProductID retrieves the stock row for a product.
func (r *GORMStockRepository) GetByProductID(productID string) (*models.Stock, error) {
	var stock models.Stock
	if err := r.db.First(&stock, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stock for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get stock for product %s: %w", productID, err)
	}
	return &stock, nil
}

// Upsert creates the stock row for stock.ProductID or overwrites its
// quantity if one already exists. The stored row's ID is written back.
func (r *GORMStockRepository) Upsert(stock *models.Stock) error {
	var existing models.Stock
	err := r.db.First(&existing, "product_id = ?", stock.ProductID).Error
	switch {
	case err == nil:
		stock.ID = existing.ID
		if err := r.db.Model(&existing).Update("quantity", stock.Quantity).Error; err != nil {
			return fmt.Errorf("failed to update stock for product %s: %w", stock.ProductID, err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if stock.ID == "" {
			stock.ID = uuid.New().String()
		}
		if err := r.db.Create(stock).Error; err != nil {
			return fmt.Errorf("failed to create stock for product %s: %w", stock.ProductID, err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up stock for product %s: %w", stock.ProductID, err)
	}
}

// DeleteByProductID removes a product's stock row. Missing rows are reported
// as ErrNotFound so callers can treat them as already gone.
func (r *GORMStockRepository) DeleteByProductID(productID string) error {
	res := r.db.Delete(&models.Stock{}, "product_id = ?", productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock for product %s: %w", productID, ErrNotFound)
	}
	return nil
}
