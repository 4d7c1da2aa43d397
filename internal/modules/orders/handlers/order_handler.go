package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListOrders godoc
// @Summary List recent orders
// @Description List the business's orders, newest first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of orders" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	orders, err := h.orderService.ListByBusiness(businessID, limit)
	if err != nil {
		log.Printf("❌ Failed to list orders: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list orders"})
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

// GetOrder godoc
// @Summary Get an order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	order, err := h.orderService.GetByID(businessID, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(order)
}

// GetOrderByNumber godoc
// @Summary Look up an order by number
// @Description Resolve a scanned pickup QR (which encodes the order number) to the order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param number path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]interface{}
// @Router /orders/number/{number} [get]
func (h *OrderHandler) GetOrderByNumber(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	order, err := h.orderService.GetByOrderNumber(businessID, c.Params("number"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(order)
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Advance an order through its lifecycle, or cancel it
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]interface{}
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	order, err := h.orderService.UpdateStatus(businessID, c.Params("id"), req.Status)
	if err != nil {
		log.Printf("❌ Failed to update order status: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(order)
}

// OrderTimeline godoc
// @Summary Order event timeline
// @Description Placement and status-change history for an order, oldest first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id}/timeline [get]
func (h *OrderHandler) OrderTimeline(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	events, err := h.orderService.Timeline(businessID, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "order not found"})
	}
	if events == nil {
		events = []models.OrderEvent{}
	}
	return c.JSON(fiber.Map{"events": events})
}

// PickupQR godoc
// @Summary Pickup QR code
// @Description PNG QR code encoding the order number, shown to the customer at pickup
// @Tags Orders
// @Produce png
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {string} binary "PNG image"
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id}/qr [get]
func (h *OrderHandler) PickupQR(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	png, err := h.orderService.PickupQR(businessID, c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to generate pickup QR: %v", err)
		return c.Status(404).JSON(fiber.Map{"error": "order not found"})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
