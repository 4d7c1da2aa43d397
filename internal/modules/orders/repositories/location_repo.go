package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type LocationRepo interface {
	Create(location *models.CustomerLocation) error
	// GetByID only returns locations whose owning customer belongs to the
	// given business; foreign ids come back as gorm.ErrRecordNotFound.
	GetByID(businessID uuid.UUID, id string) (*models.CustomerLocation, error)
	GetByCustomerID(customerID string) ([]models.CustomerLocation, error)
	Update(location *models.CustomerLocation) error
	Delete(id string) error
	// SetFavorite marks one location favorite and clears any other favorite
	// of the same customer in a single transaction, so the customer never
	// ends up with zero or two favorites.
	SetFavorite(customerID, locationID string) error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepo {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(location *models.CustomerLocation) error {
	return r.db.Create(location).Error
}

func (r *locationRepo) GetByID(businessID uuid.UUID, id string) (*models.CustomerLocation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid location ID: %w", err)
	}

	var location models.CustomerLocation
	err = r.db.
		Joins("JOIN customers ON customers.id = customer_locations.customer_id").
		Where("customer_locations.id = ? AND customers.business_id = ?", uid, businessID).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) GetByCustomerID(customerID string) ([]models.CustomerLocation, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID: %w", err)
	}

	var locations []models.CustomerLocation
	err = r.db.Where("customer_id = ?", uid).
		Order("is_favorite DESC, created_at ASC").
		Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(location *models.CustomerLocation) error {
	return r.db.Save(location).Error
}

func (r *locationRepo) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid location ID: %w", err)
	}
	return r.db.Delete(&models.CustomerLocation{}, "id = ?", uid).Error
}

func (r *locationRepo) SetFavorite(customerID, locationID string) error {
	cid, err := uuid.Parse(customerID)
	if err != nil {
		return fmt.Errorf("invalid customer ID: %w", err)
	}
	lid, err := uuid.Parse(locationID)
	if err != nil {
		return fmt.Errorf("invalid location ID: %w", err)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CustomerLocation{}).
			Where("customer_id = ? AND is_favorite = true", cid).
			Update("is_favorite", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.CustomerLocation{}).
			Where("id = ? AND customer_id = ?", lid, cid).
			Update("is_favorite", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
