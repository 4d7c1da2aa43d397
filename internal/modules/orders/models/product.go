package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductVariant is a sellable variation of a product with its own price.
type ProductVariant struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductVariants is a custom type for JSONB array
type ProductVariants []ProductVariant

// Scan implements sql.Scanner interface
func (v *ProductVariants) Scan(value interface{}) error {
	if value == nil {
		*v = []ProductVariant{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, v)
}

// Value implements driver.Valuer interface
func (v ProductVariants) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]ProductVariant{})
	}
	return json.Marshal(v)
}

// Ingredient is a costed component of a product, used for margin display
// only. There is no inventory enforcement.
type Ingredient struct {
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
	Quantity float64 `json:"quantity"`
}

// Ingredients is a custom type for JSONB array
type Ingredients []Ingredient

// Scan implements sql.Scanner interface
func (in *Ingredients) Scan(value interface{}) error {
	if value == nil {
		*in = []Ingredient{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, in)
}

// Value implements driver.Valuer interface
func (in Ingredients) Value() (driver.Value, error) {
	if in == nil {
		return json.Marshal([]Ingredient{})
	}
	return json.Marshal(in)
}

// Product represents a catalog item
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null" json:"business_id"`

	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Category    string `gorm:"type:text" json:"category,omitempty"`

	Price       float64         `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Variants    ProductVariants `gorm:"type:jsonb" json:"variants,omitempty"`
	Ingredients Ingredients     `gorm:"type:jsonb" json:"ingredients,omitempty"`

	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"`
	IsAvailable bool   `gorm:"type:boolean;default:true" json:"is_available"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// VariantPrice returns the price for the named variant, falling back to the
// base price when the name is empty or unknown.
func (p *Product) VariantPrice(variantName string) float64 {
	if variantName == "" {
		return p.Price
	}
	for _, v := range p.Variants {
		if v.Name == variantName {
			return v.Price
		}
	}
	return p.Price
}

// EstimatedCost sums the ingredient costs.
func (p *Product) EstimatedCost() float64 {
	cost := 0.0
	for _, in := range p.Ingredients {
		cost += in.UnitCost * in.Quantity
	}
	return cost
}

// EstimatedMargin returns price minus ingredient cost.
func (p *Product) EstimatedMargin() float64 {
	return p.Price - p.EstimatedCost()
}

// CreateProductRequest represents product creation request
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description,omitempty" validate:"max=1000"`
	Category    string           `json:"category,omitempty" validate:"max=100"`
	Price       float64          `json:"price" validate:"required,gte=0"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Ingredients []Ingredient     `json:"ingredients,omitempty"`
	ImageURL    string           `json:"image_url,omitempty" validate:"omitempty,url"`
	IsAvailable *bool            `json:"is_available,omitempty"` // Pointer to allow explicit false
}

// UpdateProductRequest represents product update request
type UpdateProductRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string           `json:"category,omitempty" validate:"omitempty,max=100"`
	Price       *float64          `json:"price,omitempty" validate:"omitempty,gte=0"`
	Variants    *[]ProductVariant `json:"variants,omitempty"`
	Ingredients *[]Ingredient     `json:"ingredients,omitempty"`
	ImageURL    *string           `json:"image_url,omitempty" validate:"omitempty,url"`
	IsAvailable *bool             `json:"is_available,omitempty"`
}
