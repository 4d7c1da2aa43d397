package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
)

// DraftHandler exposes the manual-order workflow: one draft per in-progress
// order, mutated step by step and submitted at the end. Every mutation
// returns the refreshed draft view so the dashboard can re-render from it.
type DraftHandler struct {
	draftService *services.DraftService
}

func NewDraftHandler(draftService *services.DraftService) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
	}
}

// draftID authorizes the draft in the path against the caller's business
// and returns its id. Foreign drafts look exactly like missing ones.
func (h *DraftHandler) draftID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := h.draftService.Authorize(auth.BusinessID(c), id); err != nil {
		return "", err
	}
	return id, nil
}

func draftError(c *fiber.Ctx, err error) error {
	var invalid *services.DraftInvalidError
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "draft not found"})
	case errors.Is(err, services.ErrSubmitInFlight):
		return c.Status(409).JSON(fiber.Map{"error": "submission already in progress"})
	case errors.Is(err, services.ErrStaleSearch):
		return c.Status(409).JSON(fiber.Map{"error": "search superseded by a newer query"})
	case errors.As(err, &invalid):
		return c.Status(422).JSON(fiber.Map{
			"error":             "draft is not ready to submit",
			"validation_errors": invalid.Errors,
		})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}

// CreateDraft godoc
// @Summary Open a new order draft
// @Description Create an empty draft for the authenticated business
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Success 201 {object} services.DraftView
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c *fiber.Ctx) error {
	businessID := auth.BusinessID(c)
	if businessID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	view := h.draftService.Create(businessID)
	return c.Status(201).JSON(view)
}

// GetDraft godoc
// @Summary Get a draft
// @Description Get the current state of an order draft
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	view, err := h.draftService.Get(draftID)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// DeleteDraft godoc
// @Summary Discard a draft
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id} [delete]
func (h *DraftHandler) DeleteDraft(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	if err := h.draftService.Delete(draftID); err != nil {
		return draftError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Draft discarded"})
}

// ResolveCustomer godoc
// @Summary Resolve the customer for a draft
// @Description Search customers by phone or name. A single exact phone match is auto-selected.
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.ResolveCustomerRequest true "Search query"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /drafts/{id}/customer/resolve [post]
func (h *DraftHandler) ResolveCustomer(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req ResolveCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	result, view, err := h.draftService.ResolveCustomer(draftID, req.Query)
	if err != nil {
		return draftError(c, err)
	}

	return c.JSON(fiber.Map{
		"result": result,
		"draft":  view,
	})
}

// SelectCustomer godoc
// @Summary Select a customer for a draft
// @Description Pick one customer from a disambiguation list
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SelectCustomerRequest true "Customer to select"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id}/customer [put]
func (h *DraftHandler) SelectCustomer(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SelectCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.CustomerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "customer_id is required"})
	}

	view, err := h.draftService.SelectCustomer(draftID, req.CustomerID)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// CreateCustomer godoc
// @Summary Register a new customer on a draft
// @Description Create a customer (zero-match branch of the resolver) and attach it to the draft
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body models.CreateCustomerRequest true "Customer details"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/customer [post]
func (h *DraftHandler) CreateCustomer(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req models.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Phone == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "phone and name are required"})
	}

	view, err := h.draftService.CreateCustomer(draftID, &req)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Add a product line; an existing line with the same product and variant is merged
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.AddItemRequest true "Item to add"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/items [post]
func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.ProductID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "product_id is required"})
	}

	view, err := h.draftService.AddItem(draftID, req.ProductID, req.VariantName, req.Quantity)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetQuantity godoc
// @Summary Set a cart line's quantity
// @Description Change the quantity of one cart line; zero removes the line
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param index path int true "Cart line index"
// @Param request body handlers.SetQuantityRequest true "New quantity"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/items/{index} [put]
func (h *DraftHandler) SetQuantity(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid item index"})
	}

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	view, err := h.draftService.SetQuantity(draftID, index, req.Quantity)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// RemoveItem godoc
// @Summary Remove a cart line
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param index path int true "Cart line index"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/items/{index} [delete]
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid item index"})
	}

	view, err := h.draftService.RemoveItem(draftID, index)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetDeliveryType godoc
// @Summary Set pickup or delivery
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SetDeliveryTypeRequest true "Delivery type"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/delivery [put]
func (h *DraftHandler) SetDeliveryType(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SetDeliveryTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	view, err := h.draftService.SetDeliveryType(draftID, req.DeliveryType)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SelectLocation godoc
// @Summary Select a delivery location
// @Description Snapshot one of the customer's saved locations into the draft
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SelectLocationRequest true "Location to select"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/location [put]
func (h *DraftHandler) SelectLocation(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SelectLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.LocationID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "location_id is required"})
	}

	view, err := h.draftService.SelectLocation(draftID, req.LocationID)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// ClearLocation godoc
// @Summary Clear the selected delivery location
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id}/location [delete]
func (h *DraftHandler) ClearLocation(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	view, err := h.draftService.ClearLocation(draftID)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetTiming godoc
// @Summary Set immediate or scheduled timing
// @Description Immediate timing clears any scheduled date and time
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SetTimingRequest true "Timing"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/timing [put]
func (h *DraftHandler) SetTiming(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SetTimingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	view, err := h.draftService.SetTiming(draftID, req.Timing, req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetPaymentMethod godoc
// @Summary Set the payment method
// @Description Mixed payment auto-splits the total 50/50 the first time
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SetPaymentMethodRequest true "Payment method"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/payment [put]
func (h *DraftHandler) SetPaymentMethod(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SetPaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	view, err := h.draftService.SetPaymentMethod(draftID, req.Method)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetPaymentAmount godoc
// @Summary Set one side of a mixed payment
// @Description Editing the cash amount recomputes transfer to cover the rest, and vice versa
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SetPaymentAmountRequest true "Amount"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id}/payment/amount [put]
func (h *DraftHandler) SetPaymentAmount(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SetPaymentAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	var view *services.DraftView
	switch req.Side {
	case "cash":
		view, err = h.draftService.SetCashAmount(draftID, req.Amount)
	case "transfer":
		view, err = h.draftService.SetTransferAmount(draftID, req.Amount)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "side must be 'cash' or 'transfer'"})
	}
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// SetNotes godoc
// @Summary Set order notes
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body handlers.SetNotesRequest true "Notes"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id}/notes [put]
func (h *DraftHandler) SetNotes(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	var req SetNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	view, err := h.draftService.SetNotes(draftID, req.Notes)
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(view)
}

// Submit godoc
// @Summary Submit a draft as an order
// @Description Validate the draft and persist it as an order. On failure the draft is preserved for retry.
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	draftID, err := h.draftID(c)
	if err != nil {
		return draftError(c, err)
	}

	order, view, err := h.draftService.Submit(draftID)
	if err != nil {
		if errors.Is(err, services.ErrDraftNotFound) ||
			errors.Is(err, services.ErrSubmitInFlight) {
			return draftError(c, err)
		}
		var invalid *services.DraftInvalidError
		if errors.As(err, &invalid) {
			return draftError(c, err)
		}
		log.Printf("❌ Draft submission failed: %v", err)
		return c.Status(502).JSON(fiber.Map{
			"error": "order submission failed, draft preserved for retry",
			"draft": view,
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   order,
		"draft":   view,
	})
}

// EditOrder godoc
// @Summary Load an order into a draft for editing
// @Description Rehydrate a persisted order into a fresh draft with every field restored
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id}/edit [post]
func (h *DraftHandler) EditOrder(c *fiber.Ctx) error {
	view, err := h.draftService.EditOrder(auth.BusinessID(c), c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}
