package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type CustomerRepo interface {
	Create(customer *models.Customer) error
	// GetByID only returns customers owned by the given business; foreign
	// ids come back as gorm.ErrRecordNotFound.
	GetByID(businessID uuid.UUID, id string) (*models.Customer, error)
	// FindByPhone tries each phone variant in order and returns the first
	// match, or gorm.ErrRecordNotFound when all are exhausted.
	FindByPhone(businessID uuid.UUID, phoneCandidates []string) (*models.Customer, error)
	SearchByName(businessID uuid.UUID, nameQuery string, limit int) ([]models.Customer, error)
	Update(customer *models.Customer) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepo {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) GetByID(businessID uuid.UUID, id string) (*models.Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID: %w", err)
	}

	var customer models.Customer
	err = r.db.First(&customer, "id = ? AND business_id = ?", uid, businessID).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByPhone(businessID uuid.UUID, phoneCandidates []string) (*models.Customer, error) {
	for _, candidate := range phoneCandidates {
		var customer models.Customer
		err := r.db.Where("business_id = ? AND phone = ?", businessID, candidate).
			First(&customer).Error
		if err == nil {
			return &customer, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *customerRepo) SearchByName(businessID uuid.UUID, nameQuery string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	query := r.db.Where("business_id = ? AND name ILIKE ?", businessID, "%"+nameQuery+"%").
		Order("name ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}
