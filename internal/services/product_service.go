package services

import (
	"log"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/uploads"
	"katalog/pkg/pagination"
)

// Event names published by the product service. Each event carries the full
// product document as payload.
const (
	EventProductCreate = "products.create"
	EventProductUpdate = "products.update"
	EventProductDelete = "products.delete"
)

// EventPublisher is the one-way event channel the product service publishes
// to. Implemented by rabbitmq.Client.
type EventPublisher interface {
	PublishEvent(event string, payload interface{}) error
}

// CreateProductInput is a validated create payload. The owner is never part
// of it; it comes from the authenticated principal.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
}

// UpdateProductInput is a partial update. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
}

// ProductService orchestrates the product lifecycle: persistence through the
// repository, the image file side effect, and event publication. Events are
// published strictly after a successful write and publish failures never roll
// back or fail the committed mutation, they are only logged.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	uploads   *uploads.Dir
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case events are skipped (useful for local runs without a broker).
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, uploadDir *uploads.Dir) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		uploads:   uploadDir,
	}
}

// CreateProduct persists a new product owned by userID and publishes a
// products.create event. The returned record has its Stock relation
// populated (null until a stock row exists).
func (s *ProductService) CreateProduct(input CreateProductInput, userID string) (*models.Product, error) {
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		UserID:      userID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreate, product)
	return product, nil
}

// QueryProducts returns one page of products matching filter, each with
// Stock populated.
func (s *ProductService) QueryProducts(filter repositories.ProductFilter, opts pagination.Options) (*pagination.Result[models.Product], error) {
	return s.repo.Paginate(filter, opts)
}

// GetProductByID retrieves a single product. A missing ID surfaces as
// repositories.ErrNotFound.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// UpdateProductByID merges the non-nil fields of update onto the existing
// record, re-stamps the owner from userID and persists. Existence is checked
// before any mutation; a missing ID fails with repositories.ErrNotFound and
// no event is published.
func (s *ProductService) UpdateProductByID(id string, update UpdateProductInput, userID string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	// Ownership is always re-attributed from the authenticated principal,
	// never trusted from the update body.
	product.UserID = userID

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdate, product)
	return product, nil
}

// DeleteProductByID removes a product. The associated image file is removed
// first on a best-effort basis: a failed file removal is logged and never
// blocks the record deletion. The deleted record is returned.
func (s *ProductService) DeleteProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if product.Image != "" && s.uploads != nil {
		if err := s.uploads.Remove(product.Image); err != nil {
			log.Printf("Warning: failed to delete image %s: %v", product.Image, err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return nil, err
	}
	s.publish(EventProductDelete, product)
	return product, nil
}

// publish sends a domain event after a committed mutation. Failures are
// isolated here: logged, never propagated.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.publisher == nil {
		log.Printf("Event publisher is not configured, skipping %s for product %s", event, product.ID)
		return
	}
	if err := s.publisher.PublishEvent(event, product); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", event, product.ID, err)
	}
}
