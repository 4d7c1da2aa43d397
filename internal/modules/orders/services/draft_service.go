package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/session"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

var (
	// ErrDraftNotFound is returned for unknown or expired draft ids.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrSubmitInFlight guards against double submission of a draft.
	ErrSubmitInFlight = errors.New("draft submission already in progress")
	// ErrStaleSearch marks a resolver response superseded by a newer query.
	ErrStaleSearch = errors.New("search superseded by a newer query")
)

// DraftInvalidError carries the validation errors that block a submission.
type DraftInvalidError struct {
	Errors []models.ValidationError
}

func (e *DraftInvalidError) Error() string {
	return fmt.Sprintf("draft is not ready to submit: %d validation errors", len(e.Errors))
}

// DraftView is the read model handed to the presentation layer after every
// mutation: the draft plus its derived values.
type DraftView struct {
	Draft           *models.Draft            `json:"draft"`
	Totals          models.Totals            `json:"totals"`
	State           models.DraftState        `json:"state"`
	Errors          []models.ValidationError `json:"validation_errors"`
	IsReadyToSubmit bool                     `json:"is_ready_to_submit"`
}

type draftEntry struct {
	mu    sync.Mutex
	draft *models.Draft
}

// DraftService owns every in-progress order draft. Drafts live in memory,
// are mirrored to the local session store so a restart does not lose them,
// and gain persisted identity only at submission.
type DraftService struct {
	mu     sync.RWMutex
	drafts map[string]*draftEntry

	store *session.Store // optional

	customerSvc  *CustomerService
	customerRepo repositories.CustomerRepo
	locationRepo repositories.LocationRepo
	productRepo  repositories.ProductRepo
	orderSvc     *OrderService
}

func NewDraftService(
	store *session.Store,
	customerSvc *CustomerService,
	customerRepo repositories.CustomerRepo,
	locationRepo repositories.LocationRepo,
	productRepo repositories.ProductRepo,
	orderSvc *OrderService,
) *DraftService {
	s := &DraftService{
		drafts:       make(map[string]*draftEntry),
		store:        store,
		customerSvc:  customerSvc,
		customerRepo: customerRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		orderSvc:     orderSvc,
	}
	s.restore()
	return s
}

// restore rebuilds the in-memory registry from the session store.
func (s *DraftService) restore() {
	if s.store == nil {
		return
	}
	payloads, err := s.store.LoadAll()
	if err != nil {
		log.Printf("⚠️ Failed to restore drafts: %v", err)
		return
	}
	for _, payload := range payloads {
		var draft models.Draft
		if err := json.Unmarshal(payload, &draft); err != nil {
			log.Printf("⚠️ Skipping unreadable draft: %v", err)
			continue
		}
		// A submit can never survive a restart in-flight.
		draft.Submitting = false
		s.drafts[draft.ID] = &draftEntry{draft: &draft}
	}
	if len(s.drafts) > 0 {
		log.Printf("✅ Restored %d draft(s) from session store", len(s.drafts))
	}
}

func (s *DraftService) persist(draft *models.Draft) {
	if s.store == nil {
		return
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		log.Printf("⚠️ Failed to serialize draft %s: %v", draft.ID, err)
		return
	}
	if err := s.store.Save(draft.ID, draft.BusinessID, payload, draft.UpdatedAt); err != nil {
		log.Printf("⚠️ Failed to persist draft %s: %v", draft.ID, err)
	}
}

func (s *DraftService) entry(id string) (*draftEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return e, nil
}

func (s *DraftService) register(draft *models.Draft) {
	s.mu.Lock()
	s.drafts[draft.ID] = &draftEntry{draft: draft}
	s.mu.Unlock()
	s.persist(draft)
}

// businessOf returns the draft's owning business id.
func businessOf(e *draftEntry) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	businessID, err := uuid.Parse(e.draft.BusinessID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid business id: %w", err)
	}
	return businessID, nil
}

// Authorize checks that a draft belongs to the given business. Foreign
// drafts are indistinguishable from missing ones.
func (s *DraftService) Authorize(businessID, draftID string) error {
	e, err := s.entry(draftID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.BusinessID != businessID {
		return ErrDraftNotFound
	}
	return nil
}

func view(d *models.Draft) *DraftView {
	// Copy so the handler serializes a stable snapshot.
	snapshot := *d
	snapshot.Items = append([]models.DraftLine(nil), d.Items...)
	if d.Location != nil {
		loc := *d.Location
		snapshot.Location = &loc
	}
	errs := d.Validate()
	if errs == nil {
		errs = []models.ValidationError{}
	}
	return &DraftView{
		Draft:           &snapshot,
		Totals:          d.Totals(),
		State:           d.State(),
		Errors:          errs,
		IsReadyToSubmit: d.IsReadyToSubmit(),
	}
}

// Create opens a new empty draft for a business.
func (s *DraftService) Create(businessID string) *DraftView {
	draft := models.NewDraft(businessID)
	s.register(draft)
	return view(draft)
}

// Get returns the current view of a draft.
func (s *DraftService) Get(id string) (*DraftView, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return view(e.draft), nil
}

// mutate runs fn on the locked draft and persists the result.
func (s *DraftService) mutate(id string, fn func(*models.Draft) error) (*DraftView, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.draft); err != nil {
		return nil, err
	}
	s.persist(e.draft)
	return view(e.draft), nil
}

// --- customer resolution ---

// ResolveCustomer runs the customer search for a draft. Each call opens a
// new search generation; if another search starts while this one is at the
// repository, the late response is discarded (ErrStaleSearch) instead of
// overwriting the newer one. A single exact phone match auto-selects.
func (s *DraftService) ResolveCustomer(draftID, query string) (*models.ResolveResult, *DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	businessID, err := uuid.Parse(e.draft.BusinessID)
	if err != nil {
		e.mu.Unlock()
		return nil, nil, fmt.Errorf("invalid business id: %w", err)
	}
	gen := e.draft.BeginSearch()
	e.mu.Unlock()

	// Repository round-trip happens unlocked; the generation check below
	// decides whether this response still matters.
	result := s.customerSvc.Resolve(businessID, query)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.draft.FinishSearch(gen) {
		return nil, nil, ErrStaleSearch
	}

	if result.Exact && len(result.Matches) == 1 {
		match := result.Matches[0]
		e.draft.SetCustomer(match.ID.String(), match.Phone, match.Name)
	}
	s.persist(e.draft)
	return result, view(e.draft), nil
}

// SelectCustomer manually picks one customer from a disambiguation list.
// The customer must belong to the draft's business.
func (s *DraftService) SelectCustomer(draftID, customerID string) (*DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, err
	}
	businessID, err := businessOf(e)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(businessID, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	return s.mutate(draftID, func(d *models.Draft) error {
		d.SetCustomer(customer.ID.String(), customer.Phone, customer.Name)
		return nil
	})
}

// CreateCustomer registers a new customer (zero-match branch) and attaches
// it to the draft.
func (s *DraftService) CreateCustomer(draftID string, req *models.CreateCustomerRequest) (*DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, err
	}

	businessID, err := businessOf(e)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerSvc.CreateCustomer(businessID, req)
	if err != nil {
		return nil, err
	}

	return s.mutate(draftID, func(d *models.Draft) error {
		d.SetCustomer(customer.ID.String(), customer.Phone, customer.Name)
		return nil
	})
}

// --- cart ---

// AddItem looks the product up in the draft's business catalog and appends
// it to the cart at the variant's current price. Products of another
// business and unavailable products are rejected.
func (s *DraftService) AddItem(draftID, productID, variantName string, quantity int) (*DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, err
	}
	businessID, err := businessOf(e)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(businessID, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("product %s is not available", product.Name)
	}

	name := product.Name
	if variantName != "" {
		name = product.Name + " (" + variantName + ")"
	}
	price := product.VariantPrice(variantName)

	return s.mutate(draftID, func(d *models.Draft) error {
		d.AddItem(product.ID.String(), name, variantName, price, quantity)
		return nil
	})
}

func (s *DraftService) SetQuantity(draftID string, index, quantity int) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetQuantity(index, quantity)
	})
}

func (s *DraftService) RemoveItem(draftID string, index int) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.RemoveItem(index)
	})
}

// --- delivery, timing, payment, notes ---

func (s *DraftService) SetDeliveryType(draftID, deliveryType string) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetDeliveryType(deliveryType)
	})
}

// SelectLocation snapshots a saved location into the draft by value. The
// location must belong to the draft's customer.
func (s *DraftService) SelectLocation(draftID, locationID string) (*DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, err
	}
	businessID, err := businessOf(e)
	if err != nil {
		return nil, err
	}

	location, err := s.locationRepo.GetByID(businessID, locationID)
	if err != nil {
		return nil, fmt.Errorf("location not found: %w", err)
	}

	return s.mutate(draftID, func(d *models.Draft) error {
		if d.CustomerID != "" && d.CustomerID != location.CustomerID.String() {
			return fmt.Errorf("location belongs to a different customer")
		}
		d.SelectLocation(models.DraftLocation{
			LocationID:  location.ID.String(),
			Coordinates: location.Coordinates,
			Reference:   location.Reference,
			Sector:      location.Sector,
			DeliveryFee: location.DeliveryFee,
			OutOfZone:   location.OutOfZone,
		})
		return nil
	})
}

func (s *DraftService) ClearLocation(draftID string) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		d.ClearLocation()
		return nil
	})
}

// ClearLocationReferences drops the selection from every draft that points
// at a deleted location, so no draft keeps a dangling reference.
func (s *DraftService) ClearLocationReferences(locationID string) {
	s.mu.RLock()
	entries := make([]*draftEntry, 0, len(s.drafts))
	for _, e := range s.drafts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		if e.draft.ClearLocationIfMatches(locationID) {
			s.persist(e.draft)
		}
		e.mu.Unlock()
	}
}

func (s *DraftService) SetTiming(draftID, timing, date, timeOfDay string) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetTiming(timing, date, timeOfDay)
	})
}

func (s *DraftService) SetPaymentMethod(draftID, method string) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetPaymentMethod(method)
	})
}

func (s *DraftService) SetCashAmount(draftID string, amount float64) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetCashAmount(amount)
	})
}

func (s *DraftService) SetTransferAmount(draftID string, amount float64) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		return d.SetTransferAmount(amount)
	})
}

func (s *DraftService) SetNotes(draftID, notes string) (*DraftView, error) {
	return s.mutate(draftID, func(d *models.Draft) error {
		d.SetNotes(notes)
		return nil
	})
}

// --- submission ---

// Submit validates, builds the order payload and writes it. On success the
// draft resets to empty defaults; on failure it is preserved untouched so
// the operator can retry without re-entering anything. The submit is
// rejected while another one is in flight.
func (s *DraftService) Submit(draftID string) (*models.Order, *DraftView, error) {
	e, err := s.entry(draftID)
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft.Submitting {
		return nil, view(e.draft), ErrSubmitInFlight
	}
	if errs := e.draft.Validate(); len(errs) > 0 {
		return nil, view(e.draft), &DraftInvalidError{Errors: errs}
	}

	order, err := e.draft.BuildOrder(time.Now())
	if err != nil {
		return nil, view(e.draft), err
	}

	e.draft.Submitting = true
	if e.draft.EditingOrderID != "" {
		amended, amendErr := s.orderSvc.Amend(e.draft.BusinessID, e.draft.EditingOrderID, order)
		if amendErr != nil {
			err = amendErr
		} else {
			order = amended
		}
	} else {
		err = s.orderSvc.Place(order)
	}
	if err != nil {
		e.draft.Submitting = false
		e.draft.LastSubmitFailed = true
		s.persist(e.draft)
		log.Printf("❌ Draft %s submission failed: %v", draftID, err)
		return nil, view(e.draft), fmt.Errorf("order submission failed: %w", err)
	}

	e.draft.Submitting = false
	e.draft.Reset()
	s.persist(e.draft)

	return order, view(e.draft), nil
}

// EditOrder rehydrates one of the business's persisted orders into a fresh
// draft for editing.
func (s *DraftService) EditOrder(businessID, orderID string) (*DraftView, error) {
	order, err := s.orderSvc.GetByID(businessID, orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	draft := models.RehydrateDraft(order)
	s.register(draft)
	return view(draft), nil
}

// Delete discards a draft.
func (s *DraftService) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()
	if !ok {
		return ErrDraftNotFound
	}
	if s.store != nil {
		if err := s.store.Delete(id); err != nil {
			log.Printf("⚠️ Failed to delete stored draft %s: %v", id, err)
		}
	}
	return nil
}

// ExpireStale drops drafts untouched for the given TTL. Run from the
// background scheduler.
func (s *DraftService) ExpireStale(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	expired := 0
	for id, e := range s.drafts {
		if e.draft.UpdatedAt.Before(cutoff) && !e.draft.Submitting {
			delete(s.drafts, id)
			expired++
		}
	}
	s.mu.Unlock()

	if s.store != nil {
		if _, err := s.store.DeleteStale(cutoff); err != nil {
			log.Printf("⚠️ Failed to prune stored drafts: %v", err)
		}
	}

	if expired > 0 {
		log.Printf("🧹 Expired %d stale draft(s)", expired)
	}
	return expired
}
