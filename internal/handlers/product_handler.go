package handlers

import (
	"fmt"
	"log"
	"strings"

	"catalogo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:code", h.HandleGetProductByCode)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:code", h.HandleUpdateProduct)
	productRoutes.Delete("/:code", h.HandleDeleteProduct)
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByCode retrieves a single product by its code.
func (h *ProductHandler) HandleGetProductByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	product, err := h.service.GetProductByCode(code)
	if err != nil {
		return respondError(c, err, fmt.Sprintf("Could not retrieve product %s", code))
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product from the form fields in the body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces name, price and availability of a product.
// The code in the path is authoritative and cannot be changed.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	code := c.Params("code")
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body for update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if input.Code != "" && strings.TrimSpace(input.Code) != code {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "The product code cannot be changed",
		})
	}

	product, err := h.service.UpdateProduct(code, input)
	if err != nil {
		return respondError(c, err, fmt.Sprintf("Could not update product %s", code))
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product. The request must carry
// confirm=true, mirroring the confirmation step of the form.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	code := c.Params("code")
	if !c.QueryBool("confirm") {
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"message": fmt.Sprintf("Deleting product %s requires confirm=true", code),
		})
	}

	if err := h.service.DeleteProduct(code); err != nil {
		return respondError(c, err, fmt.Sprintf("Could not delete product %s", code))
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", code),
	})
}
