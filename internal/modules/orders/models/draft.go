package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DraftState is the lifecycle position of an order under construction,
// derived from field completeness rather than explicit forward actions.
type DraftState string

const (
	StateEmpty             DraftState = "empty"
	StateCustomerPending   DraftState = "customer_pending"
	StateCustomerResolved  DraftState = "customer_resolved"
	StateItemsSelected     DraftState = "items_selected"
	StateDeliverySelected  DraftState = "delivery_selected"
	StatePaymentConfigured DraftState = "payment_configured"
	StateReadyToSubmit     DraftState = "ready_to_submit"
	StateSubmitting        DraftState = "submitting"
	StateSubmitted         DraftState = "submitted"
	StateSubmitFailed      DraftState = "submit_failed"
)

// AmountTolerance is the rounding slack accepted when comparing money sums.
const AmountTolerance = 0.01

// ImmediateReadyMinutes is the display ETA stamped on immediate orders.
const ImmediateReadyMinutes = 30

// DraftLine is a product/variant selection with quantity. Quantity is always
// at least 1: decrementing to zero removes the line.
type DraftLine struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	VariantName string  `json:"variant_name,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// DraftLocation is the by-value snapshot of the selected delivery location.
type DraftLocation struct {
	LocationID  string  `json:"location_id,omitempty"`
	Coordinates string  `json:"coordinates"`
	Reference   string  `json:"reference"`
	Sector      string  `json:"sector,omitempty"`
	DeliveryFee float64 `json:"delivery_fee"`
	OutOfZone   bool    `json:"out_of_zone,omitempty"`
}

// Totals is the recomputed money breakdown of a draft.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// ValidationError is an inline, field-scoped input error. These block
// submission locally and are never sent to the backend as an order.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Draft is the in-memory order under construction. It has no persisted
// identity until submission. Not safe for concurrent use; the draft service
// serializes access per draft.
type Draft struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`

	CustomerID    string `json:"customer_id,omitempty"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`

	Items []DraftLine `json:"items"`

	DeliveryType string         `json:"delivery_type"`
	Location     *DraftLocation `json:"location,omitempty"`

	Timing        string `json:"timing"`
	ScheduledDate string `json:"scheduled_date,omitempty"` // 2006-01-02
	ScheduledTime string `json:"scheduled_time,omitempty"` // 15:04

	PaymentMethod  string  `json:"payment_method"`
	CashAmount     float64 `json:"cash_amount"`
	TransferAmount float64 `json:"transfer_amount"`
	// SplitInitialized records that the 50/50 mixed-payment auto-split has
	// run; afterwards only paired recomputes adjust the amounts.
	SplitInitialized bool `json:"split_initialized"`

	Notes string `json:"notes,omitempty"`

	// EditingOrderID is set when the draft was rehydrated from a persisted
	// order; submitting it amends that order instead of creating a new one.
	EditingOrderID string `json:"editing_order_id,omitempty"`

	// Search bookkeeping for the customer resolver. A response carrying a
	// generation older than SearchGeneration is stale and discarded.
	SearchGeneration uint64 `json:"search_generation"`
	SearchPending    bool   `json:"search_pending"`

	Submitting       bool `json:"submitting"`
	LastSubmitFailed bool `json:"last_submit_failed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDraft creates an empty draft for a business. Timing defaults to
// immediate, the common case for manual orders.
func NewDraft(businessID string) *Draft {
	now := time.Now()
	return &Draft{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Items:      []DraftLine{},
		Timing:     TimingImmediate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= AmountTolerance+1e-9
}

// touch runs after every mutation: bumps the timestamp, clears a previous
// submit failure, and keeps the mixed-payment split in sync with the total.
func (d *Draft) touch() {
	d.UpdatedAt = time.Now()
	d.LastSubmitFailed = false
	d.syncSplit()
}

func (d *Draft) syncSplit() {
	if d.PaymentMethod != PaymentMixed {
		return
	}
	total := d.Totals().Total
	if !d.SplitInitialized {
		if d.CashAmount == 0 && d.TransferAmount == 0 && total > 0 {
			half := round2(total / 2)
			d.CashAmount = half
			d.TransferAmount = round2(total - half)
			d.SplitInitialized = true
		}
		return
	}
	// Total changed after the split: keep the cash side, recompute transfer.
	d.TransferAmount = round2(math.Max(0, total-d.CashAmount))
}

// --- customer ---

// SetCustomer records the resolved or newly created customer.
func (d *Draft) SetCustomer(id, phoneNumber, name string) {
	d.CustomerID = id
	d.CustomerPhone = phoneNumber
	d.CustomerName = name
	d.touch()
}

// BeginSearch opens a new resolver generation and returns it.
func (d *Draft) BeginSearch() uint64 {
	d.SearchGeneration++
	d.SearchPending = true
	return d.SearchGeneration
}

// FinishSearch closes the given generation. It returns false when a newer
// search has started since, in which case the response must be discarded.
func (d *Draft) FinishSearch(gen uint64) bool {
	if gen != d.SearchGeneration {
		return false
	}
	d.SearchPending = false
	return true
}

// --- cart ---

// AddItem appends a product/variant selection. Adding a line that already
// exists (same product and variant) increments its quantity instead of
// duplicating the line.
func (d *Draft) AddItem(productID, name, variantName string, unitPrice float64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i, line := range d.Items {
		if line.ProductID == productID && line.VariantName == variantName {
			d.Items[i].Quantity += quantity
			d.touch()
			return
		}
	}
	d.Items = append(d.Items, DraftLine{
		ProductID:   productID,
		Name:        name,
		VariantName: variantName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	})
	d.touch()
}

// SetQuantity sets a line's quantity. Zero or negative removes the line.
func (d *Draft) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("line index %d out of range", index)
	}
	if quantity <= 0 {
		return d.RemoveItem(index)
	}
	d.Items[index].Quantity = quantity
	d.touch()
	return nil
}

// RemoveItem removes a line by index.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("line index %d out of range", index)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.touch()
	return nil
}

// Totals recomputes subtotal, delivery fee and total. The fee counts only
// for delivery orders with a selected location.
func (d *Draft) Totals() Totals {
	subtotal := 0.0
	for _, line := range d.Items {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	subtotal = round2(subtotal)

	fee := 0.0
	if d.DeliveryType == DeliveryTypeDelivery && d.Location != nil {
		fee = d.Location.DeliveryFee
	}
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       round2(subtotal + fee),
	}
}

// --- delivery ---

// SetDeliveryType switches between pickup and delivery. Switching to pickup
// keeps the selected location around but stops charging its fee.
func (d *Draft) SetDeliveryType(deliveryType string) error {
	if deliveryType != DeliveryTypePickup && deliveryType != DeliveryTypeDelivery {
		return fmt.Errorf("unknown delivery type %q", deliveryType)
	}
	d.DeliveryType = deliveryType
	d.touch()
	return nil
}

// SelectLocation snapshots the chosen delivery location into the draft.
func (d *Draft) SelectLocation(loc DraftLocation) {
	d.Location = &loc
	d.touch()
}

// ClearLocation drops the selected location.
func (d *Draft) ClearLocation() {
	d.Location = nil
	d.touch()
}

// ClearLocationIfMatches drops the selection when it references the given
// location id. Called when a saved location is deleted, so the draft never
// holds a dangling reference.
func (d *Draft) ClearLocationIfMatches(locationID string) bool {
	if d.Location != nil && d.Location.LocationID == locationID {
		d.Location = nil
		d.touch()
		return true
	}
	return false
}

// --- timing ---

// SetTiming sets immediate or scheduled timing; the scheduled date and time
// inputs are kept raw and validated at submission time.
func (d *Draft) SetTiming(timing, date, timeOfDay string) error {
	if timing != TimingImmediate && timing != TimingScheduled {
		return fmt.Errorf("unknown timing %q", timing)
	}
	d.Timing = timing
	if timing == TimingScheduled {
		d.ScheduledDate = date
		d.ScheduledTime = timeOfDay
	} else {
		d.ScheduledDate = ""
		d.ScheduledTime = ""
	}
	d.touch()
	return nil
}

// ScheduledAt combines the raw date and time inputs into one timestamp.
func (d *Draft) ScheduledAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", d.ScheduledDate+" "+d.ScheduledTime, time.Local)
}

// --- payment ---

// SetPaymentMethod selects cash, transfer or mixed. Selecting mixed triggers
// the 50/50 auto-split on the current total.
func (d *Draft) SetPaymentMethod(method string) error {
	switch method {
	case PaymentCash, PaymentTransfer, PaymentMixed:
	default:
		return fmt.Errorf("unknown payment method %q", method)
	}
	d.PaymentMethod = method
	if method != PaymentMixed {
		d.CashAmount = 0
		d.TransferAmount = 0
		d.SplitInitialized = false
	}
	d.touch()
	return nil
}

// SetCashAmount edits the cash side of a mixed payment; the transfer side is
// recomputed as total minus cash, clamped at zero.
func (d *Draft) SetCashAmount(amount float64) error {
	if d.PaymentMethod != PaymentMixed {
		return fmt.Errorf("cash amount only applies to mixed payment")
	}
	if amount < 0 {
		return fmt.Errorf("cash amount cannot be negative")
	}
	d.CashAmount = round2(amount)
	d.TransferAmount = round2(math.Max(0, d.Totals().Total-d.CashAmount))
	d.SplitInitialized = true
	d.UpdatedAt = time.Now()
	d.LastSubmitFailed = false
	return nil
}

// SetTransferAmount edits the transfer side; the cash side is recomputed.
func (d *Draft) SetTransferAmount(amount float64) error {
	if d.PaymentMethod != PaymentMixed {
		return fmt.Errorf("transfer amount only applies to mixed payment")
	}
	if amount < 0 {
		return fmt.Errorf("transfer amount cannot be negative")
	}
	d.TransferAmount = round2(amount)
	d.CashAmount = round2(math.Max(0, d.Totals().Total-d.TransferAmount))
	d.SplitInitialized = true
	d.UpdatedAt = time.Now()
	d.LastSubmitFailed = false
	return nil
}

// SetNotes sets the free-text order notes.
func (d *Draft) SetNotes(notes string) {
	d.Notes = notes
	d.touch()
}

// --- validation and lifecycle ---

// Validate returns every rule the draft still violates. Submission is
// enabled only when the result is empty.
func (d *Draft) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if d.CustomerPhone == "" {
		add("customer_phone", "customer phone is required")
	}
	if d.CustomerName == "" {
		add("customer_name", "customer name is required")
	}
	if len(d.Items) == 0 {
		add("items", "at least one item is required")
	}
	if d.DeliveryType == "" {
		add("delivery_type", "delivery type must be chosen")
	}
	if d.DeliveryType == DeliveryTypeDelivery && d.Location == nil {
		add("location", "a delivery location must be chosen")
	}
	if d.Timing == TimingScheduled {
		if d.ScheduledDate == "" || d.ScheduledTime == "" {
			add("scheduled_for", "scheduled orders need both date and time")
		} else if _, err := d.ScheduledAt(); err != nil {
			add("scheduled_for", "scheduled date/time is not a valid timestamp")
		}
	}
	if d.PaymentMethod == "" {
		add("payment_method", "payment method must be chosen")
	}
	if d.PaymentMethod == PaymentMixed {
		if total := d.Totals().Total; !amountsEqual(d.CashAmount+d.TransferAmount, total) {
			add("payment_split", "cash plus transfer must equal the order total")
		}
	}
	return errs
}

// IsReadyToSubmit reports whether every validation rule passes.
func (d *Draft) IsReadyToSubmit() bool {
	return len(d.Validate()) == 0 && !d.Submitting
}

// State derives the lifecycle state from field completeness.
func (d *Draft) State() DraftState {
	if d.Submitting {
		return StateSubmitting
	}
	if d.LastSubmitFailed {
		return StateSubmitFailed
	}
	customerSet := d.CustomerPhone != "" || d.CustomerName != ""
	if !customerSet && len(d.Items) == 0 {
		if d.SearchPending {
			return StateCustomerPending
		}
		return StateEmpty
	}
	if len(d.Validate()) == 0 {
		return StateReadyToSubmit
	}
	if !customerSet {
		return StateCustomerPending
	}
	if len(d.Items) == 0 {
		return StateCustomerResolved
	}
	deliveryComplete := d.DeliveryType == DeliveryTypePickup ||
		(d.DeliveryType == DeliveryTypeDelivery && d.Location != nil)
	if !deliveryComplete {
		return StateItemsSelected
	}
	paymentComplete := d.PaymentMethod != "" &&
		(d.PaymentMethod != PaymentMixed || amountsEqual(d.CashAmount+d.TransferAmount, d.Totals().Total))
	if !paymentComplete {
		return StateDeliverySelected
	}
	return StatePaymentConfigured
}

// Reset clears the draft back to empty defaults, keeping its identity.
func (d *Draft) Reset() {
	id, businessID, createdAt := d.ID, d.BusinessID, d.CreatedAt
	*d = *NewDraft(businessID)
	d.ID = id
	d.CreatedAt = createdAt
}

// --- composition ---

// BuildOrder assembles the persisted-order payload from a complete draft.
// The caller supplies the clock so immediate ETAs are reproducible in tests.
func (d *Draft) BuildOrder(now time.Time) (*Order, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("draft is not ready to submit: %d validation errors", len(errs))
	}

	businessID, err := uuid.Parse(d.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business id: %w", err)
	}

	items := make(OrderItems, len(d.Items))
	for i, line := range d.Items {
		items[i] = OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    round2(line.UnitPrice * float64(line.Quantity)),
		}
	}

	totals := d.Totals()
	order := &Order{
		BusinessID:    businessID,
		CustomerPhone: d.CustomerPhone,
		CustomerName:  d.CustomerName,
		Items:         items,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		DeliveryType:  d.DeliveryType,
		Timing:        d.Timing,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		Status:        StatusPending,
	}

	if d.CustomerID != "" {
		if cid, err := uuid.Parse(d.CustomerID); err == nil {
			order.CustomerID = cid
		}
	}

	if d.DeliveryType == DeliveryTypeDelivery && d.Location != nil {
		order.LocationID = d.Location.LocationID
		order.LocationCoordinates = d.Location.Coordinates
		order.LocationReference = d.Location.Reference
		order.LocationSector = d.Location.Sector
		order.LocationOutOfZone = d.Location.OutOfZone
	}

	switch d.Timing {
	case TimingImmediate:
		eta := now.Add(ImmediateReadyMinutes * time.Minute)
		order.EstimatedReadyAt = &eta
	case TimingScheduled:
		at, err := d.ScheduledAt()
		if err != nil {
			// Validate already rejects this; belt and braces.
			return nil, fmt.Errorf("invalid scheduled timestamp: %w", err)
		}
		order.ScheduledFor = &at
	}

	if d.PaymentMethod == PaymentMixed {
		order.CashAmount = d.CashAmount
		order.TransferAmount = d.TransferAmount
	}

	return order, nil
}

// RehydrateDraft rebuilds an editable draft from a persisted order. The
// mapping is total: every draft field listed on the order round-trips,
// including the denormalized location snapshot of orders that predate live
// location ids.
func RehydrateDraft(o *Order) *Draft {
	d := NewDraft(o.BusinessID.String())
	d.CustomerPhone = o.CustomerPhone
	d.CustomerName = o.CustomerName
	if o.CustomerID != uuid.Nil {
		d.CustomerID = o.CustomerID.String()
	}

	d.Items = make([]DraftLine, len(o.Items))
	for i, item := range o.Items {
		d.Items[i] = DraftLine{
			ProductID:   item.ProductID,
			Name:        item.ProductName,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	d.DeliveryType = o.DeliveryType
	if o.DeliveryType == DeliveryTypeDelivery {
		d.Location = &DraftLocation{
			LocationID:  o.LocationID,
			Coordinates: o.LocationCoordinates,
			Reference:   o.LocationReference,
			Sector:      o.LocationSector,
			DeliveryFee: o.DeliveryFee,
			OutOfZone:   o.LocationOutOfZone,
		}
	}

	d.Timing = o.Timing
	if o.Timing == TimingScheduled && o.ScheduledFor != nil {
		d.ScheduledDate = o.ScheduledFor.Format("2006-01-02")
		d.ScheduledTime = o.ScheduledFor.Format("15:04")
	}

	d.PaymentMethod = o.PaymentMethod
	if o.PaymentMethod == PaymentMixed {
		d.CashAmount = o.CashAmount
		d.TransferAmount = o.TransferAmount
		d.SplitInitialized = true
	}

	d.Notes = o.Notes
	d.EditingOrderID = o.ID.String()
	return d
}
