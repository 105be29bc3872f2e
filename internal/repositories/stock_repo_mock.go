package repositories

import (
	"fmt"
	"sync"

	"katalog/internal/models"

	"github.com/google/uuid"
)

// MockStockRepository is an in-memory implementation of StockRepository.
type MockStockRepository struct {
	stocks map[string]models.Stock // keyed by product ID
	mu     sync.RWMutex
}

// NewMockStockRepository creates a new instance of MockStockRepository.
func NewMockStockRepository() *MockStockRepository {
	return &MockStockRepository{
		stocks: make(map[string]models.Stock),
	}
}

// GetByProductID returns the stock row for a product.
func (r *MockStockRepository) GetByProductID(productID string) (*models.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stock, ok := r.stocks[productID]
	if !ok {
		return nil, fmt.Errorf("stock for product %s: %w", productID, ErrNotFound)
	}
	return &stock, nil
}

// Upsert creates or overwrites the stock row for stock.ProductID.
func (r *MockStockRepository) Upsert(stock *models.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.stocks[stock.ProductID]; ok {
		stock.ID = existing.ID
	} else if stock.ID == "" {
		stock.ID = uuid.New().String()
	}
	r.stocks[stock.ProductID] = *stock
	return nil
}

// DeleteByProductID removes a product's stock row.
func (r *MockStockRepository) DeleteByProductID(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stocks[productID]; !ok {
		return fmt.Errorf("stock for product %s: %w", productID, ErrNotFound)
	}
	delete(r.stocks, productID)
	return nil
}
