package services_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/uploads"
	"katalog/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Paginate(filter repositories.ProductFilter, opts pagination.Options) (*pagination.Result[models.Product], error) {
	args := m.Called(filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Result[models.Product]), args.Error(1)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(event string, payload interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func newTestUploads(t *testing.T) *uploads.Dir {
	t.Helper()
	dir, err := uploads.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return dir
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	input := services.CreateProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
	}

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		p := args.Get(0).(*models.Product)
		p.ID = "prod-1" // the store assigns the ID
	}).Return(nil).Once()
	mockPublisher.On("PublishEvent", services.EventProductCreate, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(input, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "A widget", product.Description)
	assert.Equal(t, 9.99, product.Price)
	assert.Equal(t, "u1", product.UserID) // owner stamped from the principal
	assert.Nil(t, product.Stock)          // no stock row yet
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_CreateProduct_RepoFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("database error")).Once()

	_, err := service.CreateProduct(services.CreateProductInput{Name: "X", Description: "Y", Price: 1}, "u1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	// No event may be published when persistence failed
	mockPublisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_PublishFailureIsIsolated(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockPublisher.On("PublishEvent", services.EventProductCreate, mock.Anything).Return(fmt.Errorf("broker down")).Once()

	// A failed publish never rolls back or fails the committed write.
	product, err := service.CreateProduct(services.CreateProductInput{Name: "X", Description: "Y", Price: 1}, "u1")
	assert.NoError(t, err)
	assert.NotNil(t, product)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, newTestUploads(t))

	expected := &models.Product{ID: "prod-1", Name: "Widget", Price: 9.99, UserID: "u1"}
	mockRepo.On("GetByID", "prod-1").Return(expected, nil).Once()

	product, err := service.GetProductByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetByID", "000").Return(nil, fmt.Errorf("product with ID 000: %w", repositories.ErrNotFound)).Once()
	_, err = service.GetProductByID("000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_QueryProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, newTestUploads(t))

	filter := repositories.ProductFilter{Name: "Widget"}
	opts := pagination.Options{Limit: 5, Page: 2}
	expected := &pagination.Result[models.Product]{
		Results:      []models.Product{{ID: "prod-1", Name: "Widget"}},
		Page:         2,
		Limit:        5,
		TotalPages:   2,
		TotalResults: 6,
	}
	mockRepo.On("Paginate", filter, opts).Return(expected, nil).Once()

	page, err := service.QueryProducts(filter, opts)
	assert.NoError(t, err)
	assert.Equal(t, expected, page)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	existing := &models.Product{
		ID:          "prod-1",
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
		UserID:      "u1",
	}
	mockRepo.On("GetByID", "prod-1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockPublisher.On("PublishEvent", services.EventProductUpdate, mock.Anything).Return(nil).Once()

	newPrice := 5.0
	product, err := service.UpdateProductByID("prod-1", services.UpdateProductInput{Price: &newPrice}, "u2")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, product.Price)
	// Fields absent from the update keep their prior values
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "A widget", product.Description)
	// Ownership is re-stamped from the caller's identity
	assert.Equal(t, "u2", product.UserID)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_UpdateProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	mockRepo.On("GetByID", "000").Return(nil, fmt.Errorf("product with ID 000: %w", repositories.ErrNotFound)).Once()

	newPrice := 5.0
	_, err := service.UpdateProductByID("000", services.UpdateProductInput{Price: &newPrice}, "u1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	// Existence is checked before any mutation or side effect
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	mockPublisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	uploadDir := newTestUploads(t)
	service := services.NewProductService(mockRepo, mockPublisher, uploadDir)

	// Materialize an image file the delete should clean up.
	imagePath := uploadDir.DestinationPath("prod-1", ".jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg"), 0o644))

	existing := &models.Product{ID: "prod-1", Name: "Widget", Image: imagePath, UserID: "u1"}
	mockRepo.On("GetByID", "prod-1").Return(existing, nil).Once()
	mockRepo.On("Delete", "prod-1").Return(nil).Once()
	mockPublisher.On("PublishEvent", services.EventProductDelete, existing).Return(nil).Once()

	product, err := service.DeleteProductByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.Equal(t, imagePath, product.Image) // deleted record keeps its last-known image path
	assert.NoFileExists(t, imagePath)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_DeleteProductByID_MissingImageFile(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	uploadDir := newTestUploads(t)
	service := services.NewProductService(mockRepo, mockPublisher, uploadDir)

	// The image path points at a file that is already gone. File cleanup is
	// best-effort: the record deletion and the event must go through anyway.
	existing := &models.Product{
		ID:    "prod-1",
		Name:  "Widget",
		Image: uploadDir.DestinationPath("prod-1", ".jpg"),
	}
	mockRepo.On("GetByID", "prod-1").Return(existing, nil).Once()
	mockRepo.On("Delete", "prod-1").Return(nil).Once()
	mockPublisher.On("PublishEvent", services.EventProductDelete, existing).Return(nil).Once()

	product, err := service.DeleteProductByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_DeleteProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	mockRepo.On("GetByID", "000").Return(nil, fmt.Errorf("product with ID 000: %w", repositories.ErrNotFound)).Once()

	_, err := service.DeleteProductByID("000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
	mockPublisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProductByID_RepoFailureAfterCleanup(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher, newTestUploads(t))

	existing := &models.Product{ID: "prod-1", Name: "Widget"}
	mockRepo.On("GetByID", "prod-1").Return(existing, nil).Once()
	mockRepo.On("Delete", "prod-1").Return(fmt.Errorf("database error")).Once()

	_, err := service.DeleteProductByID("prod-1")
	assert.Error(t, err)
	// Persistence failed, so no event may be published
	mockPublisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}
