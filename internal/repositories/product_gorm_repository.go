package repositories

import (
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create persists a new product and reloads it with its Stock relation
// resolved, so the caller gets the same shape as every other read path.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return r.db.Preload("Stock").First(product, "id = ?", product.ID).Error
}

// GetByID retrieves a single product by its ID with Stock populated.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Stock").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Paginate returns one page of products matching filter, each with Stock
// populated. Counting, sorting, projection and offsets are delegated to the
// pagination package.
func (r *GORMProductRepository) Paginate(filter ProductFilter, opts pagination.Options) (*pagination.Result[models.Product], error) {
	query := r.db.Model(&models.Product{}).Preload("Stock")
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return pagination.Paginate[models.Product](query, opts)
}

// Update writes the full product record, zero values included. Save is not
// used here: on zero affected rows it silently falls back to an insert, which
// would hide a missing record instead of reporting ErrNotFound.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("Stock"). // products only hold a weak reference to their stock row
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product record for good. There is no soft-delete state;
// a second delete of the same ID reports ErrNotFound.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
