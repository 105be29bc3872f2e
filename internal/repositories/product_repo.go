package repositories

import (
	"katalog/internal/models"
	"katalog/pkg/pagination"
)

// ProductFilter narrows a paginated product query. Zero-value fields are
// ignored.
type ProductFilter struct {
	Name   string
	UserID string
}

// ProductRepository defines the interface for product data access. Every
// read path resolves the product's Stock relation so callers always receive
// the populated shape.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	Paginate(filter ProductFilter, opts pagination.Options) (*pagination.Result[models.Product], error)
	Update(product *models.Product) error
	Delete(id string) error
}
