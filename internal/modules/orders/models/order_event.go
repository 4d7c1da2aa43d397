package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event types recorded on the order timeline.
const (
	EventPlaced        = "placed"
	EventStatusChanged = "status_changed"
	EventEdited        = "edited"
)

// OrderEvent is one entry in an order's timeline. The payload is free-form
// JSONB; its shape depends on the event type.
type OrderEvent struct {
	ID      uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	Type    string         `gorm:"type:text;not null" json:"type"`
	Payload datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (OrderEvent) TableName() string {
	return "order_events"
}
