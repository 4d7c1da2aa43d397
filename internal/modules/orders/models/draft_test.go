package models

import (
	"math"
	"testing"
	"time"
)

const testBusinessID = "7b0f4f3a-98f9-4b02-bc1e-0d4a4a1b9f10"

func deliveryDraft() *Draft {
	d := NewDraft(testBusinessID)
	d.SetCustomer("", "0987654321", "Juan Pérez")
	d.AddItem("p1", "Encebollado", "", 5.00, 2)
	d.SetDeliveryType(DeliveryTypeDelivery)
	d.SelectLocation(DraftLocation{
		LocationID:  "loc1",
		Coordinates: "-1.8732619,-79.9795561",
		Reference:   "frente al parque",
		DeliveryFee: 2.00,
	})
	return d
}

func TestTotalsInvariant(t *testing.T) {
	d := deliveryDraft()
	totals := d.Totals()
	if totals.Subtotal != 10.00 || totals.DeliveryFee != 2.00 || totals.Total != 12.00 {
		t.Errorf("Totals = %+v, want {10 2 12}", totals)
	}

	// total == subtotal + fee holds after every mutation
	d.AddItem("p2", "Bolón", "queso", 3.50, 1)
	d.SetQuantity(0, 3)
	d.RemoveItem(1)
	totals = d.Totals()
	if got := totals.Subtotal + totals.DeliveryFee; math.Abs(got-totals.Total) > 1e-9 {
		t.Errorf("total %v != subtotal %v + fee %v", totals.Total, totals.Subtotal, totals.DeliveryFee)
	}

	// pickup never charges the fee, even with a location still selected
	d.SetDeliveryType(DeliveryTypePickup)
	if fee := d.Totals().DeliveryFee; fee != 0 {
		t.Errorf("pickup delivery fee = %v, want 0", fee)
	}
}

func TestAddItemMergesSameProductAndVariant(t *testing.T) {
	d := NewDraft(testBusinessID)
	d.AddItem("p1", "Encebollado", "", 5.00, 1)
	d.AddItem("p1", "Encebollado", "", 5.00, 2)
	if len(d.Items) != 1 || d.Items[0].Quantity != 3 {
		t.Fatalf("expected one merged line with qty 3, got %+v", d.Items)
	}

	// different variant is a separate line
	d.AddItem("p1", "Encebollado", "grande", 6.50, 1)
	if len(d.Items) != 2 {
		t.Fatalf("expected variant to open a new line, got %+v", d.Items)
	}
}

func TestSetQuantity(t *testing.T) {
	d := NewDraft(testBusinessID)
	d.AddItem("p1", "Encebollado", "", 5.00, 2)

	// idempotent
	d.SetQuantity(0, 4)
	first := d.Totals()
	d.SetQuantity(0, 4)
	if d.Totals() != first || d.Items[0].Quantity != 4 {
		t.Errorf("SetQuantity is not idempotent: %+v", d.Items)
	}

	// zero and below removes the line, never a zero-quantity state
	d.SetQuantity(0, 0)
	if len(d.Items) != 0 {
		t.Errorf("SetQuantity(0) should remove the line, got %+v", d.Items)
	}

	if err := d.SetQuantity(5, 1); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestMixedPaymentAutoSplit(t *testing.T) {
	d := deliveryDraft() // total 12.00
	d.SetPaymentMethod(PaymentMixed)
	if d.CashAmount != 6.00 || d.TransferAmount != 6.00 {
		t.Fatalf("auto-split = cash %v transfer %v, want 6/6", d.CashAmount, d.TransferAmount)
	}

	// manual edit to one side recomputes the other
	d.SetCashAmount(10.00)
	if d.TransferAmount != 2.00 {
		t.Errorf("transfer = %v after cash edit, want 2", d.TransferAmount)
	}
	d.SetTransferAmount(12.00)
	if d.CashAmount != 0 {
		t.Errorf("cash = %v after full transfer edit, want 0", d.CashAmount)
	}

	// sum-equals-total holds after edit + paired recompute
	total := d.Totals().Total
	if !amountsEqual(d.CashAmount+d.TransferAmount, total) {
		t.Errorf("cash %v + transfer %v != total %v", d.CashAmount, d.TransferAmount, total)
	}

	// pushing one side past the total clamps the other at zero and leaves
	// the draft invalid (error-only case)
	d.SetCashAmount(50.00)
	if d.TransferAmount != 0 {
		t.Errorf("transfer = %v, want clamped 0", d.TransferAmount)
	}
	if len(d.Validate()) == 0 {
		t.Error("overshot split should fail validation")
	}
}

func TestMixedSplitFollowsTotalChanges(t *testing.T) {
	d := deliveryDraft() // total 12.00
	d.SetPaymentMethod(PaymentMixed)
	d.SetCashAmount(4.00)

	// adding an item reruns the paired recompute against the new total
	d.AddItem("p2", "Bolón", "", 3.00, 1) // total 15.00
	if d.CashAmount != 4.00 || d.TransferAmount != 11.00 {
		t.Errorf("after total change: cash %v transfer %v, want 4/11", d.CashAmount, d.TransferAmount)
	}
	if !amountsEqual(d.CashAmount+d.TransferAmount, d.Totals().Total) {
		t.Error("split lost sync with total")
	}
}

func TestValidate(t *testing.T) {
	fields := func(errs []ValidationError) map[string]bool {
		m := make(map[string]bool)
		for _, e := range errs {
			m[e.Field] = true
		}
		return m
	}

	d := NewDraft(testBusinessID)
	got := fields(d.Validate())
	for _, f := range []string{"customer_phone", "customer_name", "items", "delivery_type", "payment_method"} {
		if !got[f] {
			t.Errorf("empty draft should flag %s, got %v", f, got)
		}
	}

	d = deliveryDraft()
	d.SetPaymentMethod(PaymentCash)
	if errs := d.Validate(); len(errs) != 0 {
		t.Errorf("complete draft should validate, got %v", errs)
	}

	// delivery without a location
	d.ClearLocation()
	if !fields(d.Validate())["location"] {
		t.Error("delivery draft without location should flag location")
	}

	// unparseable scheduled date/time is a validation error, not a silent
	// default
	d = deliveryDraft()
	d.SetPaymentMethod(PaymentCash)
	d.SetTiming(TimingScheduled, "2026-02-30", "19:00")
	if !fields(d.Validate())["scheduled_for"] {
		t.Error("impossible date should flag scheduled_for")
	}
	d.SetTiming(TimingScheduled, "2026-03-01", "")
	if !fields(d.Validate())["scheduled_for"] {
		t.Error("missing time should flag scheduled_for")
	}
	d.SetTiming(TimingScheduled, "2026-03-01", "19:00")
	if fields(d.Validate())["scheduled_for"] {
		t.Error("valid schedule should pass")
	}
}

func TestEmptyCartNeverReady(t *testing.T) {
	d := deliveryDraft()
	d.SetPaymentMethod(PaymentCash)
	for len(d.Items) > 0 {
		d.RemoveItem(0)
	}
	if d.IsReadyToSubmit() {
		t.Error("draft with no items must never be ready to submit")
	}
	if d.State() == StateReadyToSubmit {
		t.Errorf("state = %v for empty cart", d.State())
	}
}

func TestStateDerivation(t *testing.T) {
	d := NewDraft(testBusinessID)
	if d.State() != StateEmpty {
		t.Errorf("new draft state = %v, want empty", d.State())
	}

	gen := d.BeginSearch()
	if d.State() != StateCustomerPending {
		t.Errorf("state during search = %v, want customer_pending", d.State())
	}
	d.FinishSearch(gen)

	d.SetCustomer("c1", "0987654321", "Juan Pérez")
	if d.State() != StateCustomerResolved {
		t.Errorf("state = %v, want customer_resolved", d.State())
	}

	d.AddItem("p1", "Encebollado", "", 5.00, 2)
	if d.State() != StateItemsSelected {
		t.Errorf("state = %v, want items_selected", d.State())
	}

	d.SetDeliveryType(DeliveryTypePickup)
	if d.State() != StateDeliverySelected {
		t.Errorf("state = %v, want delivery_selected", d.State())
	}

	d.SetPaymentMethod(PaymentCash)
	if d.State() != StateReadyToSubmit {
		t.Errorf("state = %v, want ready_to_submit", d.State())
	}

	d.Submitting = true
	if d.State() != StateSubmitting {
		t.Errorf("state = %v, want submitting", d.State())
	}
	d.Submitting = false
	d.LastSubmitFailed = true
	if d.State() != StateSubmitFailed {
		t.Errorf("state = %v, want submit_failed", d.State())
	}
	// any mutation clears the failure marker
	d.SetNotes("sin cebolla")
	if d.State() != StateReadyToSubmit {
		t.Errorf("state after mutation = %v, want ready_to_submit", d.State())
	}
}

func TestStaleSearchDiscarded(t *testing.T) {
	d := NewDraft(testBusinessID)
	gen1 := d.BeginSearch()
	gen2 := d.BeginSearch()
	if d.FinishSearch(gen1) {
		t.Error("older generation must be reported stale")
	}
	if !d.FinishSearch(gen2) {
		t.Error("latest generation must be accepted")
	}
	if d.SearchPending {
		t.Error("search should be closed")
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	d := deliveryDraft()
	d.SetPaymentMethod(PaymentMixed)
	order, err := d.BuildOrder(now)
	if err != nil {
		t.Fatalf("BuildOrder: %v", err)
	}
	if order.Total != 12.00 || order.Subtotal != 10.00 || order.DeliveryFee != 2.00 {
		t.Errorf("order totals = %v/%v/%v", order.Subtotal, order.DeliveryFee, order.Total)
	}
	if order.Status != StatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.LocationCoordinates != "-1.8732619,-79.9795561" || order.LocationReference != "frente al parque" {
		t.Errorf("location snapshot not copied: %+v", order)
	}
	if order.EstimatedReadyAt == nil || !order.EstimatedReadyAt.Equal(now.Add(30*time.Minute)) {
		t.Errorf("immediate ETA = %v, want now+30m", order.EstimatedReadyAt)
	}
	if !amountsEqual(order.CashAmount+order.TransferAmount, order.Total) {
		t.Errorf("mixed amounts %v+%v != %v", order.CashAmount, order.TransferAmount, order.Total)
	}

	// incomplete draft refuses to build
	d2 := NewDraft(testBusinessID)
	if _, err := d2.BuildOrder(now); err == nil {
		t.Error("empty draft must not build an order")
	}

	// scheduled timing records the combined timestamp
	d3 := deliveryDraft()
	d3.SetPaymentMethod(PaymentCash)
	d3.SetTiming(TimingScheduled, "2026-03-02", "19:30")
	order, err = d3.BuildOrder(now)
	if err != nil {
		t.Fatalf("BuildOrder scheduled: %v", err)
	}
	want := time.Date(2026, 3, 2, 19, 30, 0, 0, time.Local)
	if order.ScheduledFor == nil || !order.ScheduledFor.Equal(want) {
		t.Errorf("ScheduledFor = %v, want %v", order.ScheduledFor, want)
	}
	if order.EstimatedReadyAt != nil {
		t.Error("scheduled order should not carry an immediate ETA")
	}
}

func TestRehydrateRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	d := deliveryDraft()
	d.SetPaymentMethod(PaymentMixed)
	d.SetCashAmount(7.00)
	d.SetNotes("tocar el timbre")
	d.SetTiming(TimingScheduled, "2026-03-02", "19:30")

	order, err := d.BuildOrder(now)
	if err != nil {
		t.Fatalf("BuildOrder: %v", err)
	}

	r := RehydrateDraft(order)
	if r.CustomerPhone != d.CustomerPhone || r.CustomerName != d.CustomerName {
		t.Errorf("customer not recovered: %+v", r)
	}
	if len(r.Items) != len(d.Items) || r.Items[0] != d.Items[0] {
		t.Errorf("items not recovered: %+v vs %+v", r.Items, d.Items)
	}
	if r.DeliveryType != d.DeliveryType || r.Location == nil ||
		r.Location.Coordinates != d.Location.Coordinates ||
		r.Location.Reference != d.Location.Reference ||
		r.Location.DeliveryFee != d.Location.DeliveryFee {
		t.Errorf("location snapshot not recovered: %+v", r.Location)
	}
	if r.Timing != TimingScheduled || r.ScheduledDate != "2026-03-02" || r.ScheduledTime != "19:30" {
		t.Errorf("timing not recovered: %q %q %q", r.Timing, r.ScheduledDate, r.ScheduledTime)
	}
	if r.PaymentMethod != PaymentMixed || r.CashAmount != 7.00 || r.TransferAmount != 5.00 {
		t.Errorf("payment not recovered: %q %v %v", r.PaymentMethod, r.CashAmount, r.TransferAmount)
	}
	if r.Notes != d.Notes {
		t.Errorf("notes not recovered: %q", r.Notes)
	}
	if r.Totals() != d.Totals() {
		t.Errorf("totals drifted: %+v vs %+v", r.Totals(), d.Totals())
	}

	// orders that stored only the denormalized snapshot (no live id) still
	// rehydrate by value
	order.LocationID = ""
	r = RehydrateDraft(order)
	if r.Location == nil || r.Location.Reference != "frente al parque" {
		t.Errorf("snapshot-only location not recovered: %+v", r.Location)
	}
}
