package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type OrderRepo interface {
	Create(order *models.Order) error
	// GetByID only returns orders owned by the given business; foreign ids
	// come back as gorm.ErrRecordNotFound.
	GetByID(businessID, id string) (*models.Order, error)
	GetByOrderNumber(businessID, orderNumber string) (*models.Order, error)
	GetByBusinessID(businessID string, limit int) ([]models.Order, error)
	GetByCustomerPhone(businessID, customerPhone string, limit int) ([]models.Order, error)
	// GetDueScheduled returns pending scheduled orders whose timestamp has
	// passed, for the background promoter.
	GetDueScheduled(cutoff time.Time) ([]models.Order, error)
	UpdateStatus(orderID, status string) error
	Update(order *models.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) GetByID(businessID, id string) (*models.Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = r.db.First(&order, "id = ? AND business_id = ?", uid, businessID).Error
	return &order, err
}

func (r *orderRepo) GetByOrderNumber(businessID, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("order_number = ? AND business_id = ?", orderNumber, businessID).First(&order).Error
	return &order, err
}

func (r *orderRepo) GetByBusinessID(businessID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) GetByCustomerPhone(businessID, customerPhone string, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("business_id = ? AND customer_phone = ?", businessID, customerPhone).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) GetDueScheduled(cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("timing = ? AND status = ? AND scheduled_for <= ?",
		models.TimingScheduled, models.StatusPending, cutoff).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateStatus(orderID, status string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepo) Update(order *models.Order) error {
	return r.db.Save(order).Error
}
