package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/core/geo"
)

// CustomerLocation is a saved delivery address owned by exactly one customer.
// Orders copy its fields by value at creation time, so later edits never
// retroactively change past orders.
type CustomerLocation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null" json:"customer_id"`

	// "" | "lat,lng" | "pluscode:CODE"
	Coordinates string `gorm:"type:text" json:"coordinates"`
	Reference   string `gorm:"type:text" json:"reference"`
	Sector      string `gorm:"type:text" json:"sector"`

	DeliveryFee float64 `gorm:"type:decimal(8,2);default:0" json:"delivery_fee"`
	// OutOfZone marks locations whose coordinates fell outside every
	// configured delivery zone; the fallback fee was applied and an
	// operator should review the tariff.
	OutOfZone  bool `gorm:"type:boolean;default:false" json:"out_of_zone"`
	IsFavorite bool `gorm:"type:boolean;default:false" json:"is_favorite"`

	PhotoURL string `gorm:"type:text" json:"photo_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerLocation) TableName() string {
	return "customer_locations"
}

func (l *CustomerLocation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Point returns the lat/lng pair when the stored coordinates are a decimal
// pair. Plus-Code and empty locations have no point.
func (l *CustomerLocation) Point() (geo.Point, bool) {
	if l.Coordinates == "" || strings.HasPrefix(l.Coordinates, geo.PlusCodePrefix) {
		return geo.Point{}, false
	}
	p, err := geo.ParseCoordinates(l.Coordinates)
	if err != nil {
		return geo.Point{}, false
	}
	return p, true
}

// CreateLocationRequest carries the raw operator input for a new location.
// RawLocation accepts decimal coordinates, a Google Maps link or a Plus Code.
type CreateLocationRequest struct {
	RawLocation string `json:"raw_location"`
	Reference   string `json:"reference"`
	Sector      string `json:"sector,omitempty"`
	IsFavorite  bool   `json:"is_favorite,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// UpdateLocationRequest represents a partial location update.
type UpdateLocationRequest struct {
	RawLocation *string `json:"raw_location,omitempty"`
	Reference   *string `json:"reference,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}
