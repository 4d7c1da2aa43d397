package services

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type draftTestEnv struct {
	customers *fakeCustomerRepo
	locations *fakeLocationRepo
	products  *fakeProductRepo
	orders    *fakeOrderRepo
	zones     *fakeZoneRepo

	businessID uuid.UUID
	product    *models.Product

	drafts *DraftService
}

func newDraftTestEnv(t *testing.T) *draftTestEnv {
	t.Helper()

	customers := newFakeCustomerRepo()
	env := &draftTestEnv{
		customers:  customers,
		locations:  newFakeLocationRepo(customers),
		products:   newFakeProductRepo(),
		orders:     newFakeOrderRepo(),
		zones:      newFakeZoneRepo(),
		businessID: uuid.New(),
	}

	env.product = &models.Product{
		BusinessID:  env.businessID,
		Name:        "Encebollado",
		Price:       5.00,
		IsAvailable: true,
	}
	if err := env.products.Create(env.product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	customerSvc := NewCustomerService(env.customers, env.orders)
	orderSvc := NewOrderService(env.orders, newFakeOrderEventRepo())
	env.drafts = NewDraftService(nil, customerSvc, env.customers, env.locations, env.products, orderSvc)
	return env
}

func (env *draftTestEnv) seedCustomer(t *testing.T, phone, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{BusinessID: env.businessID, Phone: phone, Name: name}
	if err := env.customers.Create(c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func (env *draftTestEnv) seedLocation(t *testing.T, customerID uuid.UUID, coords string, fee float64) *models.CustomerLocation {
	t.Helper()
	l := &models.CustomerLocation{
		CustomerID:  customerID,
		Coordinates: coords,
		Reference:   "Casa azul junto al parque",
		DeliveryFee: fee,
	}
	if err := env.locations.Create(l); err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return l
}

// Walks the whole manual-order flow: unknown phone, new customer, two units
// of a product, pickup, cash, submit.
func TestDraftPickupCashFlow(t *testing.T) {
	env := newDraftTestEnv(t)

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	if v.State != models.StateEmpty {
		t.Fatalf("new draft state = %q, want %q", v.State, models.StateEmpty)
	}

	result, _, err := env.drafts.ResolveCustomer(draftID, "0912345678")
	if err != nil {
		t.Fatalf("ResolveCustomer: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("unknown phone returned %d matches, want 0", len(result.Matches))
	}

	v, err = env.drafts.CreateCustomer(draftID, &models.CreateCustomerRequest{
		Phone: "0912345678",
		Name:  "Juan Pérez",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if v.Draft.CustomerName != "Juan Pérez" || v.Draft.CustomerPhone != "0912345678" {
		t.Fatalf("draft customer = %q/%q", v.Draft.CustomerName, v.Draft.CustomerPhone)
	}

	v, err = env.drafts.AddItem(draftID, env.product.ID.String(), "", 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if v.Totals.Subtotal != 10.00 {
		t.Fatalf("subtotal = %.2f, want 10.00", v.Totals.Subtotal)
	}

	if _, err = env.drafts.SetDeliveryType(draftID, models.DeliveryTypePickup); err != nil {
		t.Fatalf("SetDeliveryType: %v", err)
	}
	v, err = env.drafts.SetPaymentMethod(draftID, models.PaymentCash)
	if err != nil {
		t.Fatalf("SetPaymentMethod: %v", err)
	}
	if !v.IsReadyToSubmit {
		t.Fatalf("draft not ready to submit, errors: %v", v.Errors)
	}

	before := time.Now()
	order, v, err := env.drafts.Submit(draftID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.Total != 10.00 {
		t.Errorf("order total = %.2f, want 10.00", order.Total)
	}
	if order.Status != models.StatusPending {
		t.Errorf("order status = %q, want %q", order.Status, models.StatusPending)
	}
	if order.OrderNumber == "" {
		t.Error("order number not assigned")
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("order items = %+v", order.Items)
	}
	if order.EstimatedReadyAt == nil {
		t.Fatal("immediate order has no estimated ready time")
	}
	gotLead := order.EstimatedReadyAt.Sub(before)
	if gotLead < 29*time.Minute || gotLead > 31*time.Minute {
		t.Errorf("estimated ready lead = %v, want about 30m", gotLead)
	}

	// The draft resets after a successful submit.
	if v.State != models.StateEmpty {
		t.Errorf("post-submit draft state = %q, want %q", v.State, models.StateEmpty)
	}
	if len(v.Draft.Items) != 0 || v.Draft.CustomerPhone != "" {
		t.Errorf("post-submit draft not reset: %+v", v.Draft)
	}
}

func TestResolveCustomerExactMatchAutoSelects(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0987654321", "María García")

	v := env.drafts.Create(env.businessID.String())

	// International format must resolve to the same stored customer.
	result, v, err := env.drafts.ResolveCustomer(v.Draft.ID, "+593 98 765 4321")
	if err != nil {
		t.Fatalf("ResolveCustomer: %v", err)
	}
	if !result.Exact || len(result.Matches) != 1 {
		t.Fatalf("result = %+v, want single exact match", result)
	}
	if v.Draft.CustomerID != c.ID.String() {
		t.Errorf("draft customer id = %q, want %q", v.Draft.CustomerID, c.ID)
	}
	if v.State != models.StateCustomerResolved {
		t.Errorf("state = %q, want %q", v.State, models.StateCustomerResolved)
	}
}

func TestResolveCustomerNameSearchDoesNotAutoSelect(t *testing.T) {
	env := newDraftTestEnv(t)
	env.seedCustomer(t, "0987654321", "María García")
	env.seedCustomer(t, "0991112233", "María Fernanda")

	v := env.drafts.Create(env.businessID.String())
	result, v, err := env.drafts.ResolveCustomer(v.Draft.ID, "María")
	if err != nil {
		t.Fatalf("ResolveCustomer: %v", err)
	}
	if result.Exact || len(result.Matches) != 2 {
		t.Fatalf("result = %+v, want 2 non-exact matches", result)
	}
	if v.Draft.CustomerID != "" {
		t.Errorf("ambiguous search selected customer %q", v.Draft.CustomerID)
	}
}

func TestStaleSearchSuperseded(t *testing.T) {
	env := newDraftTestEnv(t)
	env.seedCustomer(t, "0987654321", "María García")

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	env.customers.onSearch = func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
	}

	errCh := make(chan error, 1)
	go func() {
		_, _, err := env.drafts.ResolveCustomer(draftID, "Juan")
		errCh <- err
	}()

	// While the first search is held at the repository, a newer one runs to
	// completion.
	<-started
	result, _, err := env.drafts.ResolveCustomer(draftID, "María")
	if err != nil {
		t.Fatalf("second ResolveCustomer: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("second search matches = %d, want 1", len(result.Matches))
	}

	close(release)
	if err := <-errCh; !errors.Is(err, ErrStaleSearch) {
		t.Fatalf("first search error = %v, want ErrStaleSearch", err)
	}
}

func TestSubmitEmptyDraftReturnsValidationErrors(t *testing.T) {
	env := newDraftTestEnv(t)
	v := env.drafts.Create(env.businessID.String())

	_, _, err := env.drafts.Submit(v.Draft.ID)
	var invalid *DraftInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Submit error = %v, want DraftInvalidError", err)
	}
	if len(invalid.Errors) == 0 {
		t.Fatal("validation error list is empty")
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	if _, err := env.drafts.SelectCustomer(draftID, c.ID.String()); err != nil {
		t.Fatalf("SelectCustomer: %v", err)
	}
	if _, err := env.drafts.AddItem(draftID, env.product.ID.String(), "", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.drafts.SetDeliveryType(draftID, models.DeliveryTypePickup); err != nil {
		t.Fatalf("SetDeliveryType: %v", err)
	}
	if _, err := env.drafts.SetPaymentMethod(draftID, models.PaymentCash); err != nil {
		t.Fatalf("SetPaymentMethod: %v", err)
	}

	env.orders.failCreate = errors.New("connection refused")
	_, v, err := env.drafts.Submit(draftID)
	if err == nil {
		t.Fatal("Submit succeeded against a failing store")
	}
	if v.State != models.StateSubmitFailed {
		t.Errorf("state = %q, want %q", v.State, models.StateSubmitFailed)
	}
	if len(v.Draft.Items) != 1 || v.Draft.CustomerPhone != "0912345678" {
		t.Errorf("failed submit lost draft data: %+v", v.Draft)
	}

	// Retry succeeds once the store recovers, without re-entering anything.
	env.orders.failCreate = nil
	order, v, err := env.drafts.Submit(draftID)
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if order.Total != 5.00 {
		t.Errorf("retry order total = %.2f, want 5.00", order.Total)
	}
	if v.State != models.StateEmpty {
		t.Errorf("post-retry state = %q, want %q", v.State, models.StateEmpty)
	}
}

func TestSubmitRejectedWhileInFlight(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	env.drafts.SelectCustomer(draftID, c.ID.String())
	env.drafts.AddItem(draftID, env.product.ID.String(), "", 1)
	env.drafts.SetDeliveryType(draftID, models.DeliveryTypePickup)
	env.drafts.SetPaymentMethod(draftID, models.PaymentCash)

	e, err := env.drafts.entry(draftID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	e.draft.Submitting = true

	if _, _, err := env.drafts.Submit(draftID); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("Submit error = %v, want ErrSubmitInFlight", err)
	}
}

func TestSelectLocationOwnershipEnforced(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")
	other := env.seedCustomer(t, "0987654321", "María García")
	foreign := env.seedLocation(t, other.ID, "-2.17,-79.92", 2.00)

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	if _, err := env.drafts.SelectCustomer(draftID, c.ID.String()); err != nil {
		t.Fatalf("SelectCustomer: %v", err)
	}

	if _, err := env.drafts.SelectLocation(draftID, foreign.ID.String()); err == nil {
		t.Fatal("selecting another customer's location succeeded")
	}
}

func TestClearLocationReferences(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")
	loc := env.seedLocation(t, c.ID, "-2.17,-79.92", 2.00)

	attach := func() string {
		v := env.drafts.Create(env.businessID.String())
		if _, err := env.drafts.SelectCustomer(v.Draft.ID, c.ID.String()); err != nil {
			t.Fatalf("SelectCustomer: %v", err)
		}
		if _, err := env.drafts.SetDeliveryType(v.Draft.ID, models.DeliveryTypeDelivery); err != nil {
			t.Fatalf("SetDeliveryType: %v", err)
		}
		if _, err := env.drafts.SelectLocation(v.Draft.ID, loc.ID.String()); err != nil {
			t.Fatalf("SelectLocation: %v", err)
		}
		return v.Draft.ID
	}
	first, second := attach(), attach()
	untouched := env.drafts.Create(env.businessID.String()).Draft.ID

	env.drafts.ClearLocationReferences(loc.ID.String())

	for _, id := range []string{first, second} {
		v, err := env.drafts.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if v.Draft.Location != nil {
			t.Errorf("draft %s kept a dangling location reference", id)
		}
	}
	if _, err := env.drafts.Get(untouched); err != nil {
		t.Errorf("unrelated draft disappeared: %v", err)
	}
}

func TestEditOrderRehydratesDraft(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")
	loc := env.seedLocation(t, c.ID, "-2.17,-79.92", 2.00)

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	env.drafts.SelectCustomer(draftID, c.ID.String())
	env.drafts.AddItem(draftID, env.product.ID.String(), "", 2)
	env.drafts.SetDeliveryType(draftID, models.DeliveryTypeDelivery)
	env.drafts.SelectLocation(draftID, loc.ID.String())
	env.drafts.SetPaymentMethod(draftID, models.PaymentMixed)
	if _, err := env.drafts.SetCashAmount(draftID, 5.00); err != nil {
		t.Fatalf("SetCashAmount: %v", err)
	}
	env.drafts.SetNotes(draftID, "sin cebolla")

	order, _, err := env.drafts.Submit(draftID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	edit, err := env.drafts.EditOrder(env.businessID.String(), order.ID.String())
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}
	d := edit.Draft
	if d.CustomerPhone != "0912345678" || d.CustomerName != "Juan Pérez" {
		t.Errorf("rehydrated customer = %q/%q", d.CustomerName, d.CustomerPhone)
	}
	if len(d.Items) != 1 || d.Items[0].Quantity != 2 || d.Items[0].UnitPrice != 5.00 {
		t.Errorf("rehydrated items = %+v", d.Items)
	}
	if d.DeliveryType != models.DeliveryTypeDelivery || d.Location == nil {
		t.Fatalf("rehydrated delivery = %q, location = %+v", d.DeliveryType, d.Location)
	}
	if d.Location.DeliveryFee != 2.00 {
		t.Errorf("rehydrated delivery fee = %.2f, want 2.00", d.Location.DeliveryFee)
	}
	if d.PaymentMethod != models.PaymentMixed || d.CashAmount != 5.00 || d.TransferAmount != 7.00 {
		t.Errorf("rehydrated payment = %q %.2f/%.2f", d.PaymentMethod, d.CashAmount, d.TransferAmount)
	}
	if d.Notes != "sin cebolla" {
		t.Errorf("rehydrated notes = %q", d.Notes)
	}
	if !edit.IsReadyToSubmit {
		t.Errorf("rehydrated draft not ready to submit, errors: %v", edit.Errors)
	}
}

func TestEditSubmitAmendsOriginalOrder(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	env.drafts.SelectCustomer(draftID, c.ID.String())
	env.drafts.AddItem(draftID, env.product.ID.String(), "", 1)
	env.drafts.SetDeliveryType(draftID, models.DeliveryTypePickup)
	env.drafts.SetPaymentMethod(draftID, models.PaymentCash)

	original, _, err := env.drafts.Submit(draftID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	edit, err := env.drafts.EditOrder(env.businessID.String(), original.ID.String())
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}
	if _, err := env.drafts.SetQuantity(edit.Draft.ID, 0, 3); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	amended, _, err := env.drafts.Submit(edit.Draft.ID)
	if err != nil {
		t.Fatalf("Submit (edit): %v", err)
	}

	if amended.ID != original.ID {
		t.Errorf("amended order ID = %s, want original %s", amended.ID, original.ID)
	}
	if amended.OrderNumber != original.OrderNumber {
		t.Errorf("amended order number = %s, want %s", amended.OrderNumber, original.OrderNumber)
	}
	if amended.Total != 15.00 {
		t.Errorf("amended total = %.2f, want 15.00", amended.Total)
	}
	if len(env.orders.orders) != 1 {
		t.Errorf("store holds %d orders after edit, want 1", len(env.orders.orders))
	}
}

func TestExpireStaleDrafts(t *testing.T) {
	env := newDraftTestEnv(t)

	stale := env.drafts.Create(env.businessID.String()).Draft.ID
	fresh := env.drafts.Create(env.businessID.String()).Draft.ID

	e, err := env.drafts.entry(stale)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	e.draft.UpdatedAt = time.Now().Add(-48 * time.Hour)

	if n := env.drafts.ExpireStale(24 * time.Hour); n != 1 {
		t.Fatalf("ExpireStale = %d, want 1", n)
	}
	if _, err := env.drafts.Get(stale); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("stale draft still loadable: %v", err)
	}
	if _, err := env.drafts.Get(fresh); err != nil {
		t.Errorf("fresh draft expired: %v", err)
	}
}

func TestDeleteUnknownDraft(t *testing.T) {
	env := newDraftTestEnv(t)
	if err := env.drafts.Delete("nope"); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Delete error = %v, want ErrDraftNotFound", err)
	}
}

// A product id belonging to another business must not land on this
// business's draft, even when the id itself is valid.
func TestAddItemRejectsForeignBusinessProduct(t *testing.T) {
	env := newDraftTestEnv(t)

	foreign := &models.Product{
		BusinessID:  uuid.New(),
		Name:        "Ceviche",
		Price:       8.00,
		IsAvailable: true,
	}
	if err := env.products.Create(foreign); err != nil {
		t.Fatalf("seed foreign product: %v", err)
	}

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID

	if _, err := env.drafts.AddItem(draftID, foreign.ID.String(), "", 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("AddItem with foreign product = %v, want record-not-found", err)
	}

	v, err := env.drafts.Get(draftID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(v.Draft.Items) != 0 {
		t.Fatalf("foreign product ended up on the draft: %+v", v.Draft.Items)
	}
}

func TestAuthorizeRejectsForeignBusinessDraft(t *testing.T) {
	env := newDraftTestEnv(t)

	draftID := env.drafts.Create(env.businessID.String()).Draft.ID

	if err := env.drafts.Authorize(env.businessID.String(), draftID); err != nil {
		t.Fatalf("Authorize for owning business: %v", err)
	}
	// Another business's token sees the draft as missing, not forbidden.
	if err := env.drafts.Authorize(uuid.NewString(), draftID); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Authorize for foreign business = %v, want ErrDraftNotFound", err)
	}
}

func TestEditOrderRejectsForeignBusinessOrder(t *testing.T) {
	env := newDraftTestEnv(t)
	c := env.seedCustomer(t, "0912345678", "Juan Pérez")

	v := env.drafts.Create(env.businessID.String())
	draftID := v.Draft.ID
	if _, err := env.drafts.SelectCustomer(draftID, c.ID.String()); err != nil {
		t.Fatalf("SelectCustomer: %v", err)
	}
	env.drafts.AddItem(draftID, env.product.ID.String(), "", 1)
	env.drafts.SetDeliveryType(draftID, models.DeliveryTypePickup)
	env.drafts.SetPaymentMethod(draftID, models.PaymentCash)

	order, _, err := env.drafts.Submit(draftID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := env.drafts.EditOrder(uuid.NewString(), order.ID.String()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("EditOrder for foreign business = %v, want record-not-found", err)
	}
}
