package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

type BusinessHandler struct {
	businessService *services.BusinessService
	zoneService     *services.ZoneService
}

func NewBusinessHandler(businessService *services.BusinessService, zoneService *services.ZoneService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		zoneService:     zoneService,
	}
}

// CreateBusiness godoc
// @Summary Onboard a new business
// @Description Create a store profile; its id is then used to register staff accounts
// @Tags Business
// @Accept json
// @Produce json
// @Param request body models.CreateBusinessRequest true "Business details"
// @Success 201 {object} models.Business
// @Failure 400 {object} map[string]interface{}
// @Router /businesses [post]
func (h *BusinessHandler) CreateBusiness(c *fiber.Ctx) error {
	var req models.CreateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	business, err := h.businessService.CreateBusiness(&req)
	if err != nil {
		log.Printf("❌ Failed to create business: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(business)
}

// ListBusinesses godoc
// @Summary List active businesses
// @Description Public directory of active stores
// @Tags Business
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /businesses [get]
func (h *BusinessHandler) ListBusinesses(c *fiber.Ctx) error {
	businesses, err := h.businessService.ListActive()
	if err != nil {
		log.Printf("❌ Failed to list businesses: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list businesses"})
	}
	if businesses == nil {
		businesses = []models.Business{}
	}
	return c.JSON(fiber.Map{"businesses": businesses})
}

// GetBusiness godoc
// @Summary Get business profile
// @Description Profile, schedule and fulfillment settings for the authenticated business
// @Tags Business
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Business
// @Failure 404 {object} map[string]interface{}
// @Router /business [get]
func (h *BusinessHandler) GetBusiness(c *fiber.Ctx) error {
	business, err := h.businessService.GetBusiness(auth.BusinessID(c))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "business not found"})
	}
	return c.JSON(business)
}

// UpdateBusiness godoc
// @Summary Update business profile
// @Tags Business
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateBusinessRequest true "Fields to update"
// @Success 200 {object} models.Business
// @Failure 400 {object} map[string]interface{}
// @Router /business [put]
func (h *BusinessHandler) UpdateBusiness(c *fiber.Ctx) error {
	var req models.UpdateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	business, err := h.businessService.UpdateBusiness(auth.BusinessID(c), &req)
	if err != nil {
		log.Printf("❌ Failed to update business: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(business)
}

// ListZones godoc
// @Summary List delivery zones
// @Tags Business
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /business/zones [get]
func (h *BusinessHandler) ListZones(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	zones, err := h.zoneService.ListZones(businessID)
	if err != nil {
		log.Printf("❌ Failed to list delivery zones: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list zones"})
	}
	if zones == nil {
		zones = []models.DeliveryZone{}
	}

	return c.JSON(fiber.Map{"zones": zones})
}

// CreateZone godoc
// @Summary Create a delivery zone
// @Description Add a circular delivery zone with its own fee
// @Tags Business
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateZoneRequest true "Zone details"
// @Success 201 {object} models.DeliveryZone
// @Failure 400 {object} map[string]interface{}
// @Router /business/zones [post]
func (h *BusinessHandler) CreateZone(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.CreateZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	zone, err := h.zoneService.CreateZone(businessID, &req)
	if err != nil {
		log.Printf("❌ Failed to create delivery zone: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(zone)
}

// UpdateZone godoc
// @Summary Update a delivery zone
// @Tags Business
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Param request body models.UpdateZoneRequest true "Fields to update"
// @Success 200 {object} models.DeliveryZone
// @Failure 400 {object} map[string]interface{}
// @Router /business/zones/{id} [put]
func (h *BusinessHandler) UpdateZone(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.UpdateZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	zone, err := h.zoneService.UpdateZone(businessID, c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Failed to update delivery zone: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(zone)
}

// DeleteZone godoc
// @Summary Delete a delivery zone
// @Tags Business
// @Produce json
// @Security BearerAuth
// @Param id path string true "Zone ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /business/zones/{id} [delete]
func (h *BusinessHandler) DeleteZone(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := h.zoneService.DeleteZone(businessID, c.Params("id")); err != nil {
		log.Printf("❌ Failed to delete delivery zone: %v", err)
		return c.Status(404).JSON(fiber.Map{"error": "zone not found"})
	}
	return c.JSON(fiber.Map{"message": "Zone deleted"})
}
