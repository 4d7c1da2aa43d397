package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	locationService *services.LocationService
}

func NewCustomerHandler(customerService *services.CustomerService, locationService *services.LocationService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		locationService: locationService,
	}
}

// SearchCustomers godoc
// @Summary Search customers
// @Description Search the business's customers by phone or name
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param q query string true "Phone or name query"
// @Success 200 {object} models.ResolveResult
// @Router /customers/search [get]
func (h *CustomerHandler) SearchCustomers(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	result := h.customerService.Resolve(businessID, c.Query("q"))
	return c.JSON(result)
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]interface{}
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	customer, err := h.customerService.GetCustomer(businessID, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "customer not found"})
	}
	return c.JSON(customer)
}

// CreateCustomer godoc
// @Summary Create a customer
// @Description Register a customer outside the draft flow
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCustomerRequest true "Customer details"
// @Success 201 {object} models.Customer
// @Failure 400 {object} map[string]interface{}
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	customer, err := h.customerService.CreateCustomer(businessID, &req)
	if err != nil {
		log.Printf("❌ Failed to create customer: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(customer)
}

// UpdateCustomer godoc
// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} models.Customer
// @Failure 400 {object} map[string]interface{}
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	customer, err := h.customerService.UpdateCustomer(businessID, c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Failed to update customer: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(customer)
}

// ListLocations godoc
// @Summary List a customer's saved locations
// @Description Returns saved delivery addresses, favorite first
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {array} models.CustomerLocation
// @Router /customers/{id}/locations [get]
func (h *CustomerHandler) ListLocations(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	locations, err := h.locationService.ListLocations(businessID, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "customer not found"})
	}
	if locations == nil {
		locations = []models.CustomerLocation{}
	}
	return c.JSON(locations)
}

// CreateLocation godoc
// @Summary Save a delivery location
// @Description Parse raw input (coordinates, Maps link or Plus Code), price it against the delivery zones and save it
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body models.CreateLocationRequest true "Location details"
// @Success 201 {object} models.CustomerLocation
// @Failure 400 {object} map[string]interface{}
// @Router /customers/{id}/locations [post]
func (h *CustomerHandler) CreateLocation(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	location, err := h.locationService.CreateLocation(businessID, c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Failed to create location: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(location)
}

// OrderHistory godoc
// @Summary List a customer's past orders
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Customer phone"
// @Param limit query int false "Max orders to return" default(20)
// @Success 200 {array} models.Order
// @Router /customers/orders [get]
func (h *CustomerHandler) OrderHistory(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	phone := c.Query("phone")
	if phone == "" {
		return c.Status(400).JSON(fiber.Map{"error": "phone is required"})
	}

	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	orders, err := h.customerService.OrderHistory(businessID, phone, limit)
	if err != nil {
		log.Printf("❌ Failed to load order history: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load order history"})
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(orders)
}
