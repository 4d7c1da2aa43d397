package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a person who places orders with a business. Created on first
// manual order when no phone match is found; never deleted by the order
// workflow.
type Customer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null" json:"business_id"`

	// Canonical local dialing format (phone.Normalize)
	Phone string `gorm:"type:text;not null" json:"phone"`
	Name  string `gorm:"type:text" json:"name"`

	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateCustomerRequest represents customer creation request
type CreateCustomerRequest struct {
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

// UpdateCustomerRequest represents customer update request
type UpdateCustomerRequest struct {
	Phone *string `json:"phone,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// ResolveResult is the outcome of a free-text customer search.
type ResolveResult struct {
	Matches []Customer `json:"matches"`
	// Exact is true when a single customer matched the phone query exactly;
	// the caller may auto-select it.
	Exact bool `json:"exact"`
}
