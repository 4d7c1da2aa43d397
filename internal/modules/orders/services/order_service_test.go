package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

func seedOrder(t *testing.T, repo *fakeOrderRepo, status string) *models.Order {
	t.Helper()
	o := &models.Order{
		BusinessID:    uuid.New(),
		OrderNumber:   "ORD-20260828-TEST1234",
		CustomerPhone: "0912345678",
		CustomerName:  "Juan Pérez",
		DeliveryType:  models.DeliveryTypePickup,
		Timing:        models.TimingImmediate,
		PaymentMethod: models.PaymentCash,
		Subtotal:      5.00,
		Total:         5.00,
		Status:        status,
	}
	if err := repo.Create(o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())
	order := seedOrder(t, repo, models.StatusPending)

	for _, status := range []string{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	} {
		updated, err := svc.UpdateStatus(order.BusinessID.String(), order.ID.String(), status)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %q, want %q", updated.Status, status)
		}
	}

	// Delivered is terminal.
	if _, err := svc.UpdateStatus(order.BusinessID.String(), order.ID.String(), models.StatusPending); err == nil {
		t.Fatal("transition out of delivered accepted")
	}
}

func TestUpdateStatusRejectsSkippedSteps(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())
	order := seedOrder(t, repo, models.StatusPending)

	if _, err := svc.UpdateStatus(order.BusinessID.String(), order.ID.String(), models.StatusDelivered); err == nil {
		t.Fatal("pending jumped straight to delivered")
	}
	if got, err := repo.GetByID(order.BusinessID.String(), order.ID.String()); err != nil || got.Status != models.StatusPending {
		t.Fatalf("order status changed by rejected transition: %v %v", got, err)
	}
}

func TestPromoteDueScheduled(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())

	now := time.Now()
	past := now.Add(-10 * time.Minute)
	future := now.Add(2 * time.Hour)

	due := seedOrder(t, repo, models.StatusPending)
	due.Timing = models.TimingScheduled
	due.ScheduledFor = &past
	if err := repo.Update(due); err != nil {
		t.Fatalf("update due order: %v", err)
	}

	notDue := seedOrder(t, repo, models.StatusPending)
	notDue.Timing = models.TimingScheduled
	notDue.ScheduledFor = &future
	if err := repo.Update(notDue); err != nil {
		t.Fatalf("update future order: %v", err)
	}

	if n := svc.PromoteDueScheduled(now); n != 1 {
		t.Fatalf("PromoteDueScheduled = %d, want 1", n)
	}

	if got, _ := repo.GetByID(due.BusinessID.String(), due.ID.String()); got.Status != models.StatusConfirmed {
		t.Errorf("due order status = %q, want %q", got.Status, models.StatusConfirmed)
	}
	if got, _ := repo.GetByID(notDue.BusinessID.String(), notDue.ID.String()); got.Status != models.StatusPending {
		t.Errorf("future order status = %q, want %q", got.Status, models.StatusPending)
	}
}

func TestTimelineRecordsPlaceAndStatusChanges(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())

	order := &models.Order{
		BusinessID:    uuid.New(),
		CustomerPhone: "0912345678",
		DeliveryType:  models.DeliveryTypePickup,
		Timing:        models.TimingImmediate,
		PaymentMethod: models.PaymentCash,
		Subtotal:      5.00,
		Total:         5.00,
		Status:        models.StatusPending,
	}
	if err := svc.Place(order); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := svc.UpdateStatus(order.BusinessID.String(), order.ID.String(), models.StatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	events, err := svc.Timeline(order.BusinessID.String(), order.ID.String())
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("timeline has %d events, want 2", len(events))
	}
	if events[0].Type != models.EventPlaced {
		t.Errorf("first event = %q, want %q", events[0].Type, models.EventPlaced)
	}
	if events[1].Type != models.EventStatusChanged {
		t.Errorf("second event = %q, want %q", events[1].Type, models.EventStatusChanged)
	}
}

// By-id lookups are scoped to the caller's business; a valid order id
// presented with another business's credentials reads as missing.
func TestOrderLookupsScopedToBusiness(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())
	order := seedOrder(t, repo, models.StatusPending)

	foreign := uuid.NewString()

	if _, err := svc.GetByID(foreign, order.ID.String()); err == nil {
		t.Fatal("GetByID returned another business's order")
	}
	if _, err := svc.GetByOrderNumber(foreign, order.OrderNumber); err == nil {
		t.Fatal("GetByOrderNumber returned another business's order")
	}
	if _, err := svc.UpdateStatus(foreign, order.ID.String(), models.StatusConfirmed); err == nil {
		t.Fatal("UpdateStatus crossed businesses")
	}
	if got, err := repo.GetByID(order.BusinessID.String(), order.ID.String()); err != nil || got.Status != models.StatusPending {
		t.Fatalf("order touched by foreign-business update: %v %v", got, err)
	}
	if _, err := svc.Timeline(foreign, order.ID.String()); err == nil {
		t.Fatal("Timeline leaked another business's order")
	}
	if _, err := svc.PickupQR(foreign, order.ID.String()); err == nil {
		t.Fatal("PickupQR issued for another business's order")
	}
}

func TestPickupQR(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, newFakeOrderEventRepo())
	order := seedOrder(t, repo, models.StatusReady)

	png, err := svc.PickupQR(order.BusinessID.String(), order.ID.String())
	if err != nil {
		t.Fatalf("PickupQR: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty QR payload")
	}
	// PNG signature
	if string(png[1:4]) != "PNG" {
		t.Errorf("payload is not a PNG: % x", png[:8])
	}
}
