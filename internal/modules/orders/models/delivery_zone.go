package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/core/geo"
)

// DeliveryZone is a circular geofence with a flat delivery tariff. Fee
// lookup picks the smallest zone containing the point, so nested zones act
// as overrides.
type DeliveryZone struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null" json:"business_id"`

	Sector    string  `gorm:"type:text;not null" json:"sector"`
	CenterLat float64 `gorm:"type:decimal(10,7);not null" json:"center_lat"`
	CenterLng float64 `gorm:"type:decimal(10,7);not null" json:"center_lng"`
	RadiusKm  float64 `gorm:"type:decimal(6,2);not null" json:"radius_km"`
	Fee       float64 `gorm:"type:decimal(8,2);not null" json:"fee"`

	IsActive bool `gorm:"type:boolean;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DeliveryZone) TableName() string {
	return "delivery_zones"
}

func (z *DeliveryZone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}

// Contains reports whether the point falls inside the zone.
func (z *DeliveryZone) Contains(p geo.Point) bool {
	center := geo.Point{Lat: z.CenterLat, Lng: z.CenterLng}
	return geo.HaversineKm(center, p) <= z.RadiusKm
}

// CreateZoneRequest represents delivery-zone creation request
type CreateZoneRequest struct {
	Sector    string  `json:"sector" validate:"required"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	RadiusKm  float64 `json:"radius_km" validate:"gt=0"`
	Fee       float64 `json:"fee" validate:"gte=0"`
}

// UpdateZoneRequest represents delivery-zone update request
type UpdateZoneRequest struct {
	Sector    *string  `json:"sector,omitempty"`
	CenterLat *float64 `json:"center_lat,omitempty"`
	CenterLng *float64 `json:"center_lng,omitempty"`
	RadiusKm  *float64 `json:"radius_km,omitempty"`
	Fee       *float64 `json:"fee,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}
