package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is a denormalized line-item snapshot inside a persisted order.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderItems is a custom type for JSONB array
type OrderItems []OrderItem

// Scan implements sql.Scanner interface
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = []OrderItem{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer interface
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal([]OrderItem{})
	}
	return json.Marshal(o)
}

// Order is the immutable-on-write snapshot of a submitted draft. Status is
// changed afterwards through the status-update call, never by re-submission.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID  uuid.UUID `gorm:"type:uuid;not null" json:"business_id"`
	OrderNumber string    `gorm:"type:text;unique;not null" json:"order_number"`

	// Customer
	CustomerID    uuid.UUID `gorm:"type:uuid" json:"customer_id"`
	CustomerPhone string    `gorm:"type:text;not null" json:"customer_phone"`
	CustomerName  string    `gorm:"type:text" json:"customer_name"`

	// Items and totals
	Items       OrderItems `gorm:"type:jsonb;not null" json:"items"`
	Subtotal    float64    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DeliveryFee float64    `gorm:"type:decimal(8,2);default:0" json:"delivery_fee"`
	Total       float64    `gorm:"type:decimal(12,2);not null" json:"total"`

	// Delivery. Location fields are copied by value from the selected
	// location at submission time; LocationID is informational only.
	DeliveryType         string  `gorm:"type:text;not null" json:"delivery_type"`
	LocationID           string  `gorm:"type:text" json:"location_id,omitempty"`
	LocationCoordinates  string  `gorm:"type:text" json:"location_coordinates,omitempty"`
	LocationReference    string  `gorm:"type:text" json:"location_reference,omitempty"`
	LocationSector       string  `gorm:"type:text" json:"location_sector,omitempty"`
	LocationOutOfZone    bool    `gorm:"type:boolean;default:false" json:"location_out_of_zone,omitempty"`

	// Timing
	Timing           string     `gorm:"type:text;not null" json:"timing"`
	ScheduledFor     *time.Time `json:"scheduled_for,omitempty"`
	EstimatedReadyAt *time.Time `json:"estimated_ready_at,omitempty"`

	// Payment
	PaymentMethod  string  `gorm:"type:text;not null" json:"payment_method"`
	CashAmount     float64 `gorm:"type:decimal(12,2);default:0" json:"cash_amount"`
	TransferAmount float64 `gorm:"type:decimal(12,2);default:0" json:"transfer_amount"`

	Notes  string `gorm:"type:text" json:"notes,omitempty"`
	Status string `gorm:"type:text;default:'pending'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Delivery type constants
const (
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDelivery = "delivery"
)

// Timing constants
const (
	TimingImmediate = "immediate"
	TimingScheduled = "scheduled"
)

// Payment method constants
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentMixed    = "mixed"
)

// Order status constants
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
}

// ValidStatusTransition reports whether an order may move from one status to
// another. Delivered and cancelled are terminal.
func ValidStatusTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
