package repositories

import (
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
)

type OrderEventRepo interface {
	Create(event *models.OrderEvent) error
	GetByOrderID(orderID string) ([]models.OrderEvent, error)
}

type orderEventRepo struct {
	db *gorm.DB
}

func NewOrderEventRepo(db *gorm.DB) OrderEventRepo {
	return &orderEventRepo{db: db}
}

func (r *orderEventRepo) Create(event *models.OrderEvent) error {
	return r.db.Create(event).Error
}

func (r *orderEventRepo) GetByOrderID(orderID string) ([]models.OrderEvent, error) {
	var events []models.OrderEvent
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
