package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type BusinessRepo interface {
	Create(business *models.Business) error
	GetByID(id string) (*models.Business, error)
	GetActive() ([]models.Business, error)
	Update(business *models.Business) error
}

type businessRepo struct {
	db *gorm.DB
}

func NewBusinessRepo(db *gorm.DB) BusinessRepo {
	return &businessRepo{db: db}
}

func (r *businessRepo) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

func (r *businessRepo) GetByID(id string) (*models.Business, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid business ID: %w", err)
	}

	var business models.Business
	err = r.db.First(&business, "id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepo) GetActive() ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Where("is_active = true").Find(&businesses).Error
	return businesses, err
}

func (r *businessRepo) Update(business *models.Business) error {
	return r.db.Save(business).Error
}
