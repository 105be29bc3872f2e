package handlers

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/uploads"
	"katalog/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	uploads  *uploads.Dir
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, uploadDir *uploads.Dir) *ProductHandler {
	return &ProductHandler{
		service:  service,
		uploads:  uploadDir,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads
// require the getProducts permission, mutations require manageProducts.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	read := middleware.AuthRequired(authService, services.PermGetProducts)
	manage := middleware.AuthRequired(authService, services.PermManageProducts)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", read, h.HandleListProducts)
	productRoutes.Post("/", manage, h.HandleCreateProduct)
	productRoutes.Get("/:productId", read, h.HandleGetProduct)
	productRoutes.Patch("/:productId", manage, h.HandleUpdateProduct)
	productRoutes.Delete("/:productId", manage, h.HandleDeleteProduct)
}

// CreateProductRequest is the create payload, accepted as JSON or as
// multipart form fields next to an optional "image" file.
type CreateProductRequest struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Description string  `json:"description" form:"description" validate:"required,max=500"`
	Price       float64 `json:"price" form:"price" validate:"required,gt=0"`
}

// UpdateProductRequest is the partial update payload. At least one field (or
// an uploaded image) must be present.
type UpdateProductRequest struct {
	Name        *string  `json:"name" form:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description" form:"description" validate:"omitempty,min=1,max=500"`
	Price       *float64 `json:"price" form:"price" validate:"omitempty,gt=0"`
}

// HandleCreateProduct creates a new product owned by the authenticated user.
// An optional "image" upload is stored under a fallback token, since the
// product ID does not exist yet.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	imagePath, err := h.saveUploadedImage(c, h.uploads.FallbackToken())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not store uploaded image",
			"error":   err.Error(),
		})
	}

	input := services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       imagePath,
	}
	product, err := h.service.CreateProduct(input, authenticatedUserID(c))
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleListProducts returns one page of products. Supported query
// parameters: name, sortBy, projectBy, limit, page.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Name: c.Query("name"),
	}
	opts := pagination.Options{
		SortBy:    c.Query("sortBy"),
		ProjectBy: c.Query("projectBy"),
		Limit:     c.QueryInt("limit"),
		Page:      c.QueryInt("page"),
	}

	page, err := h.service.QueryProducts(filter, opts)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidOptions) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Error querying products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		return productErrorResponse(c, productID, err, "retrieve")
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update to an existing product. An
// uploaded "image" replaces the product's image file, stored under the
// product ID.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	imagePath, err := h.saveUploadedImage(c, productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not store uploaded image",
			"error":   err.Error(),
		})
	}

	update := services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if imagePath != "" {
		update.Image = &imagePath
	}
	if update.Name == nil && update.Description == nil && update.Price == nil && update.Image == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "At least one field must be provided for update",
		})
	}

	product, err := h.service.UpdateProductByID(productID, update, authenticatedUserID(c))
	if err != nil {
		return productErrorResponse(c, productID, err, "update")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and returns the removed record.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	product, err := h.service.DeleteProductByID(productID)
	if err != nil {
		return productErrorResponse(c, productID, err, "delete")
	}
	return c.JSON(product)
}

// saveUploadedImage stores an optional multipart "image" file under token,
// returning the stored path or "" when no file was sent.
func (h *ProductHandler) saveUploadedImage(c *fiber.Ctx, token string) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// No multipart body or no image field; nothing to store.
		return "", nil
	}
	dest := h.uploads.DestinationPath(token, filepath.Ext(file.Filename))
	if err := c.SaveFile(file, dest); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return dest, nil
}

// authenticatedUserID reads the user ID the auth middleware stored on the
// request context.
func authenticatedUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// productErrorResponse maps a service error to an HTTP response: ErrNotFound
// becomes a 404, everything else a 500.
func productErrorResponse(c *fiber.Ctx, productID string, err error, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", productID),
		})
	}
	log.Printf("Error trying to %s product %s: %v", action, productID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fmt.Sprintf("Could not %s product", action),
		"error":   err.Error(),
	})
}

// validationErrorResponse renders validator errors field by field.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
