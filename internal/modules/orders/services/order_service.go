package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// OrderService persists submitted orders and drives status changes. Orders
// are written once at submission; only their status moves afterwards. Every
// placement and status change is also recorded on the order's event timeline.
type OrderService struct {
	orderRepo repositories.OrderRepo
	eventRepo repositories.OrderEventRepo
}

func NewOrderService(orderRepo repositories.OrderRepo, eventRepo repositories.OrderEventRepo) *OrderService {
	return &OrderService{orderRepo: orderRepo, eventRepo: eventRepo}
}

// recordEvent appends to the order timeline. Timeline writes are best-effort;
// a failure never blocks the order operation that triggered it.
func (s *OrderService) recordEvent(orderID uuid.UUID, eventType string, payload map[string]interface{}) {
	if s.eventRepo == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := &models.OrderEvent{
		OrderID: orderID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if err := s.eventRepo.Create(event); err != nil {
		log.Printf("⚠️ Failed to record order event: %v", err)
	}
}

// Place assigns an order number and writes the order.
func (s *OrderService) Place(order *models.Order) error {
	order.OrderNumber = s.generateOrderNumber()

	if err := s.orderRepo.Create(order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	s.recordEvent(order.ID, models.EventPlaced, map[string]interface{}{
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})

	log.Printf("✅ Order created: %s (Business: %s, Total: %.2f)", order.OrderNumber, order.BusinessID, order.Total)
	return nil
}

// Amend overwrites an existing order's contents in place, keeping its
// number, status and creation time. Used when a submitted order is edited.
func (s *OrderService) Amend(businessID, orderID string, updated *models.Order) (*models.Order, error) {
	existing, err := s.orderRepo.GetByID(businessID, orderID)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.OrderNumber = existing.OrderNumber
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt

	if err := s.orderRepo.Update(updated); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.recordEvent(existing.ID, models.EventEdited, map[string]interface{}{
		"total": updated.Total,
	})

	log.Printf("✅ Order amended: %s (Total: %.2f)", updated.OrderNumber, updated.Total)
	return updated, nil
}

func (s *OrderService) generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]))
}

// GetByID fetches one of the business's orders.
func (s *OrderService) GetByID(businessID, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(businessID, id)
}

// GetByOrderNumber fetches one order by its human-facing number, the value
// encoded in the pickup QR.
func (s *OrderService) GetByOrderNumber(businessID, orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(businessID, orderNumber)
}

// ListByBusiness lists a business's orders, newest first.
func (s *OrderService) ListByBusiness(businessID string, limit int) ([]models.Order, error) {
	return s.orderRepo.GetByBusinessID(businessID, limit)
}

// UpdateStatus moves an order along the status lifecycle, rejecting
// transitions the lifecycle does not allow.
func (s *OrderService) UpdateStatus(businessID, orderID, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(businessID, orderID)
	if err != nil {
		return nil, err
	}

	if !models.ValidStatusTransition(order.Status, status) {
		return nil, fmt.Errorf("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.recordEvent(order.ID, models.EventStatusChanged, map[string]interface{}{
		"from": order.Status,
		"to":   status,
	})

	order.Status = status
	log.Printf("✅ Order %s status: %s", order.OrderNumber, status)
	return order, nil
}

// Timeline returns the order's event history, oldest first.
func (s *OrderService) Timeline(businessID, orderID string) ([]models.OrderEvent, error) {
	if _, err := s.orderRepo.GetByID(businessID, orderID); err != nil {
		return nil, err
	}
	if s.eventRepo == nil {
		return []models.OrderEvent{}, nil
	}
	return s.eventRepo.GetByOrderID(orderID)
}

// PickupQR renders the order number as a PNG QR code for pickup
// confirmation at the counter.
func (s *OrderService) PickupQR(businessID, orderID string) ([]byte, error) {
	order, err := s.orderRepo.GetByID(businessID, orderID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
}

// PromoteDueScheduled confirms pending scheduled orders whose time has
// arrived. Run from the background scheduler.
func (s *OrderService) PromoteDueScheduled(now time.Time) int {
	orders, err := s.orderRepo.GetDueScheduled(now)
	if err != nil {
		log.Printf("❌ Failed to load due scheduled orders: %v", err)
		return 0
	}

	promoted := 0
	for _, order := range orders {
		if err := s.orderRepo.UpdateStatus(order.ID.String(), models.StatusConfirmed); err != nil {
			log.Printf("❌ Failed to promote order %s: %v", order.OrderNumber, err)
			continue
		}
		s.recordEvent(order.ID, models.EventStatusChanged, map[string]interface{}{
			"from":      order.Status,
			"to":        models.StatusConfirmed,
			"scheduled": true,
		})
		promoted++
	}

	if promoted > 0 {
		log.Printf("⏰ Promoted %d scheduled order(s) to confirmed", promoted)
	}
	return promoted
}
