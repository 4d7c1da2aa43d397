package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

// ProductFilter represents product filtering options
type ProductFilter struct {
	BusinessID  uuid.UUID
	Category    string
	IsAvailable *bool
	SearchTerm  string
	Page        int
	PageSize    int
}

type ProductRepo interface {
	Create(product *models.Product) error
	// GetByID only returns products owned by the given business; foreign
	// ids come back as gorm.ErrRecordNotFound.
	GetByID(businessID uuid.UUID, id string) (*models.Product, error)
	List(filter ProductFilter) ([]models.Product, int64, error)
	Update(product *models.Product) error
	Delete(businessID uuid.UUID, id string) error // Soft delete
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) GetByID(businessID uuid.UUID, id string) (*models.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID: %w", err)
	}

	var product models.Product
	err = r.db.First(&product, "id = ? AND business_id = ?", uid, businessID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(filter ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.Model(&models.Product{}).Where("business_id = ?", filter.BusinessID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}

	if filter.SearchTerm != "" {
		searchPattern := "%" + filter.SearchTerm + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err = query.Offset(offset).Limit(filter.PageSize).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(businessID uuid.UUID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	result := r.db.Delete(&models.Product{}, "id = ? AND business_id = ?", uid, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
