package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

type LocationHandler struct {
	locationService *services.LocationService
	draftService    *services.DraftService
}

func NewLocationHandler(locationService *services.LocationService, draftService *services.DraftService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		draftService:    draftService,
	}
}

// UpdateLocation godoc
// @Summary Update a saved location
// @Description Apply a partial update; new raw location text is re-parsed and re-priced
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param request body models.UpdateLocationRequest true "Fields to update"
// @Success 200 {object} models.CustomerLocation
// @Failure 400 {object} map[string]interface{}
// @Router /locations/{id} [put]
func (h *LocationHandler) UpdateLocation(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req models.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	location, err := h.locationService.UpdateLocation(businessID, c.Params("id"), &req)
	if err != nil {
		log.Printf("❌ Failed to update location: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(location)
}

// DeleteLocation godoc
// @Summary Delete a saved location
// @Description Remove the location and clear it from any draft that selected it
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /locations/{id} [delete]
func (h *LocationHandler) DeleteLocation(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	id := c.Params("id")
	if err := h.locationService.DeleteLocation(businessID, id); err != nil {
		log.Printf("❌ Failed to delete location: %v", err)
		return c.Status(404).JSON(fiber.Map{"error": "location not found"})
	}

	// Open drafts must not keep pointing at a location that no longer
	// exists.
	h.draftService.ClearLocationReferences(id)

	return c.JSON(fiber.Map{"message": "Location deleted"})
}

// SetFavorite godoc
// @Summary Mark a location as favorite
// @Description The previous favorite is cleared in the same transaction, so the customer always has exactly one
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param request body handlers.SetFavoriteRequest true "Owning customer"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /locations/{id}/favorite [put]
func (h *LocationHandler) SetFavorite(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(auth.BusinessID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req SetFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.CustomerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "customer_id is required"})
	}

	if err := h.locationService.SetFavorite(businessID, req.CustomerID, c.Params("id")); err != nil {
		log.Printf("❌ Failed to set favorite location: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Favorite updated"})
}
