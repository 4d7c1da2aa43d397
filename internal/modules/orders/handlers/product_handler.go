package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts godoc
// @Summary List catalog products
// @Description List the business's products with optional filtering and pagination
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param search query string false "Search in product names"
// @Param available query bool false "Filter by availability"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	filter := repositories.ProductFilter{
		BusinessID: businessID,
		Category:   c.Query("category"),
		SearchTerm: c.Query("search"),
		Page:       1,
		PageSize:   20,
	}

	if avail := c.Query("available"); avail != "" {
		b := avail == "true"
		filter.IsAvailable = &b
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		filter.PageSize = size
	}

	products, total, err := h.productService.ListProducts(filter)
	if err != nil {
		log.Printf("❌ Failed to list products: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list products"})
	}
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(fiber.Map{
		"products":  products,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]interface{}
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	product, err := h.productService.GetProduct(businessID, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(product)
}

// CreateProduct godoc
// @Summary Create a product
// @Description Add a catalog item with optional variants and costed ingredients
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateProductRequest true "Product details"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	product, err := h.productService.CreateProduct(businessID, &req)
	if err != nil {
		log.Printf("❌ Failed to create product: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	product, err := h.productService.UpdateProduct(businessID, c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Failed to update product: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Soft-delete a catalog item; past orders keep their snapshot
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := h.productService.DeleteProduct(businessID, c.Params("id")); err != nil {
		log.Printf("❌ Failed to delete product: %v", err)
		return c.Status(404).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
