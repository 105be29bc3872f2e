package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"katalog/internal/models"
	"katalog/pkg/pagination"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository,
// useful for local runs without a database. Stock population is resolved from
// a sibling MockStockRepository when one is attached.
type MockProductRepository struct {
	products map[string]models.Product
	stocks   *MockStockRepository
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository(stocks *MockStockRepository) *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		stocks:   stocks,
	}
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	r.populate(product)
	return nil
}

// GetByID returns a product by its ID with Stock populated.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	r.populate(&product)
	return &product, nil
}

// Paginate returns one page of matching products. Only name-based sorting is
// supported in memory; that covers what the handlers send by default.
func (r *MockProductRepository) Paginate(filter ProductFilter, opts pagination.Options) (*pagination.Result[models.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		r.populate(&p)
		matches = append(matches, p)
	}
	sort.Slice(matches, func(i, j int) bool {
		if strings.HasPrefix(opts.SortBy, "name:desc") {
			return matches[i].Name > matches[j].Name
		}
		return matches[i].Name < matches[j].Name
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	page := opts.Page
	if page <= 0 {
		page = pagination.DefaultPage
	}
	start := (page - 1) * limit
	if start > len(matches) {
		start = len(matches)
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	total := int64(len(matches))
	return &pagination.Result[models.Product]{
		Results:      matches[start:end],
		Page:         page,
		Limit:        limit,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		TotalResults: total,
	}, nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	r.populate(product)
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// populate resolves the Stock reference from the attached stock repository.
// Callers must hold at least the read lock.
func (r *MockProductRepository) populate(product *models.Product) {
	product.Stock = nil
	if r.stocks == nil || product.StockID == nil {
		return
	}
	if stock, err := r.stocks.GetByProductID(product.ID); err == nil {
		product.Stock = stock
	}
}
