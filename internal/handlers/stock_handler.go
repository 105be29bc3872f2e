package handlers

import (
	"errors"
	"fmt"
	"log"

	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StockHandler handles HTTP requests for product stock.
type StockHandler struct {
	service  *services.StockService
	validate *validator.Validate
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(service *services.StockService) *StockHandler {
	return &StockHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the stock routes with the Fiber app.
func (h *StockHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	read := middleware.AuthRequired(authService, services.PermGetProducts)
	manage := middleware.AuthRequired(authService, services.PermManageProducts)

	router.Get("/products/:productId/stock", read, h.HandleGetStock)
	router.Put("/products/:productId/stock", manage, h.HandleSetStock)
}

// SetStockRequest is the payload for setting a product's stock quantity.
type SetStockRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleGetStock returns the stock row for a product.
func (h *StockHandler) HandleGetStock(c *fiber.Ctx) error {
	productID := c.Params("productId")
	stock, err := h.service.GetStockByProductID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("No stock for product %s", productID),
			})
		}
		log.Printf("Error getting stock for product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stock",
			"error":   err.Error(),
		})
	}
	return c.JSON(stock)
}

// HandleSetStock creates or overwrites the stock quantity for a product.
func (h *StockHandler) HandleSetStock(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req SetStockRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing set stock request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	stock, err := h.service.SetStock(productID, req.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		log.Printf("Error setting stock for product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not set stock",
			"error":   err.Error(),
		})
	}
	return c.JSON(stock)
}
