package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/core/phone"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// CustomerService resolves free-text queries to customer records and manages
// customer CRUD for the manual-order workflow.
type CustomerService struct {
	customerRepo repositories.CustomerRepo
	orderRepo    repositories.OrderRepo
}

func NewCustomerService(customerRepo repositories.CustomerRepo, orderRepo repositories.OrderRepo) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

const nameSearchLimit = 10

// Resolve finds customers matching a free-text query. Phone-shaped queries
// try each normalization variant in order until one matches; anything else
// is a name substring search. A backend failure degrades to an empty match
// set so the caller can offer the create-customer path instead of crashing.
func (s *CustomerService) Resolve(businessID uuid.UUID, query string) *models.ResolveResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return &models.ResolveResult{Matches: []models.Customer{}}
	}

	if phone.IsPhoneLike(query) {
		customer, err := s.customerRepo.FindByPhone(businessID, phone.Candidates(query))
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("❌ Customer phone lookup failed: %v", err)
			}
			return &models.ResolveResult{Matches: []models.Customer{}}
		}
		return &models.ResolveResult{Matches: []models.Customer{*customer}, Exact: true}
	}

	customers, err := s.customerRepo.SearchByName(businessID, query, nameSearchLimit)
	if err != nil {
		log.Printf("❌ Customer name search failed: %v", err)
		return &models.ResolveResult{Matches: []models.Customer{}}
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return &models.ResolveResult{Matches: customers}
}

// CreateCustomer registers a new customer with a normalized phone.
func (s *CustomerService) CreateCustomer(businessID uuid.UUID, req *models.CreateCustomerRequest) (*models.Customer, error) {
	normalized := phone.Normalize(req.Phone)
	if normalized == "" {
		return nil, errors.New("customer phone is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("customer name is required")
	}

	if existing, err := s.customerRepo.FindByPhone(businessID, []string{normalized}); err == nil {
		return nil, fmt.Errorf("a customer with phone %s already exists: %s", normalized, existing.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer := &models.Customer{
		BusinessID: businessID,
		Phone:      normalized,
		Name:       strings.TrimSpace(req.Name),
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	log.Printf("✅ Customer created: %s (%s)", customer.Name, customer.Phone)
	return customer, nil
}

// GetCustomer fetches one of the business's customers by id.
func (s *CustomerService) GetCustomer(businessID uuid.UUID, id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(businessID, id)
}

// UpdateCustomer applies a partial update.
func (s *CustomerService) UpdateCustomer(businessID uuid.UUID, id string, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		normalized := phone.Normalize(*req.Phone)
		if normalized == "" {
			return nil, errors.New("customer phone cannot be empty")
		}
		customer.Phone = normalized
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.New("customer name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// OrderHistory lists past orders for a customer phone, newest first.
func (s *CustomerService) OrderHistory(businessID uuid.UUID, rawPhone string, limit int) ([]models.Order, error) {
	return s.orderRepo.GetByCustomerPhone(businessID.String(), phone.Normalize(rawPhone), limit)
}
