package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type ZoneRepo interface {
	Create(zone *models.DeliveryZone) error
	// GetByID only returns zones owned by the given business; foreign ids
	// come back as gorm.ErrRecordNotFound.
	GetByID(businessID uuid.UUID, id string) (*models.DeliveryZone, error)
	GetByBusinessID(businessID uuid.UUID) ([]models.DeliveryZone, error)
	Update(zone *models.DeliveryZone) error
	Delete(businessID uuid.UUID, id string) error
}

type zoneRepo struct {
	db *gorm.DB
}

func NewZoneRepo(db *gorm.DB) ZoneRepo {
	return &zoneRepo{db: db}
}

func (r *zoneRepo) Create(zone *models.DeliveryZone) error {
	return r.db.Create(zone).Error
}

func (r *zoneRepo) GetByID(businessID uuid.UUID, id string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	err := r.db.Where("id = ? AND business_id = ?", id, businessID).First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) GetByBusinessID(businessID uuid.UUID) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.db.Where("business_id = ? AND is_active = true", businessID).
		Order("radius_km ASC").
		Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) Update(zone *models.DeliveryZone) error {
	return r.db.Save(zone).Error
}

func (r *zoneRepo) Delete(businessID uuid.UUID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid zone ID: %w", err)
	}
	result := r.db.Delete(&models.DeliveryZone{}, "id = ? AND business_id = ?", uid, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
