package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// In-memory repository fakes backing the service tests.

var errTest = errors.New("backend unavailable")

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
	failWith  error
	// onSearch, when set, runs at the start of every lookup. Tests use it
	// to hold a search open while a newer one overtakes it.
	onSearch func()
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (r *fakeCustomerRepo) Create(c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.RegisteredAt = time.Now()
	cp := *c
	r.customers[c.ID.String()] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(businessID uuid.UUID, id string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindByPhone(businessID uuid.UUID, candidates []string) (*models.Customer, error) {
	if r.onSearch != nil {
		r.onSearch()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, candidate := range candidates {
		for _, c := range r.customers {
			if c.BusinessID == businessID && c.Phone == candidate {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) SearchByName(businessID uuid.UUID, q string, limit int) ([]models.Customer, error) {
	if r.onSearch != nil {
		r.onSearch()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []models.Customer
	for _, c := range r.customers {
		if c.BusinessID == businessID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			out = append(out, *c)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.customers[c.ID.String()] = &cp
	return nil
}

type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[string]*models.CustomerLocation
	// Business scoping goes through the owning customer, so the fake
	// needs the customer store to answer scoped lookups.
	customers *fakeCustomerRepo
}

func newFakeLocationRepo(customers *fakeCustomerRepo) *fakeLocationRepo {
	return &fakeLocationRepo{
		locations: make(map[string]*models.CustomerLocation),
		customers: customers,
	}
}

func (r *fakeLocationRepo) Create(l *models.CustomerLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.locations[l.ID.String()] = &cp
	return nil
}

func (r *fakeLocationRepo) GetByID(businessID uuid.UUID, id string) (*models.CustomerLocation, error) {
	r.mu.Lock()
	l, ok := r.locations[id]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	r.mu.Unlock()

	owner, err := r.customers.GetByID(businessID, cp.CustomerID.String())
	if err != nil || owner.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	return &cp, nil
}

func (r *fakeLocationRepo) GetByCustomerID(customerID string) ([]models.CustomerLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CustomerLocation
	for _, l := range r.locations {
		if l.CustomerID.String() == customerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(l *models.CustomerLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.locations[l.ID.String()] = &cp
	return nil
}

func (r *fakeLocationRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locations, id)
	return nil
}

func (r *fakeLocationRepo) SetFavorite(customerID, locationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.locations[locationID]
	if !ok || target.CustomerID.String() != customerID {
		return gorm.ErrRecordNotFound
	}
	for _, l := range r.locations {
		if l.CustomerID.String() == customerID {
			l.IsFavorite = false
		}
	}
	target.IsFavorite = true
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (r *fakeProductRepo) Create(p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID.String()] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(businessID uuid.UUID, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if p.BusinessID == filter.BusinessID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID.String()] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(businessID uuid.UUID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]*models.Order
	failCreate error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (r *fakeOrderRepo) Create(o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID.String()] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(businessID, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.BusinessID.String() != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(businessID, orderNumber string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber && o.BusinessID.String() == businessID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetByBusinessID(businessID string, limit int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.BusinessID.String() == businessID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByCustomerPhone(businessID, customerPhone string, limit int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.BusinessID.String() == businessID && o.CustomerPhone == customerPhone {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetDueScheduled(cutoff time.Time) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.Timing == models.TimingScheduled && o.Status == models.StatusPending &&
			o.ScheduledFor != nil && !o.ScheduledFor.After(cutoff) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) Update(o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID.String()] = &cp
	return nil
}

type fakeOrderEventRepo struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func newFakeOrderEventRepo() *fakeOrderEventRepo {
	return &fakeOrderEventRepo{}
}

func (r *fakeOrderEventRepo) Create(e *models.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeOrderEventRepo) GetByOrderID(orderID string) ([]models.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OrderEvent
	for _, e := range r.events {
		if e.OrderID.String() == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeZoneRepo struct {
	mu    sync.Mutex
	zones map[string]*models.DeliveryZone
}

func newFakeZoneRepo() *fakeZoneRepo {
	return &fakeZoneRepo{zones: make(map[string]*models.DeliveryZone)}
}

func (r *fakeZoneRepo) Create(z *models.DeliveryZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	cp := *z
	r.zones[z.ID.String()] = &cp
	return nil
}

func (r *fakeZoneRepo) GetByID(businessID uuid.UUID, id string) (*models.DeliveryZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok || z.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *z
	return &cp, nil
}

func (r *fakeZoneRepo) GetByBusinessID(businessID uuid.UUID) ([]models.DeliveryZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DeliveryZone
	for _, z := range r.zones {
		if z.BusinessID == businessID && z.IsActive {
			out = append(out, *z)
		}
	}
	// smallest radius first, matching the real repo's ordering
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].RadiusKm < out[i].RadiusKm {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) Update(z *models.DeliveryZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *z
	r.zones[z.ID.String()] = &cp
	return nil
}

func (r *fakeZoneRepo) Delete(businessID uuid.UUID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok || z.BusinessID != businessID {
		return gorm.ErrRecordNotFound
	}
	delete(r.zones, id)
	return nil
}
