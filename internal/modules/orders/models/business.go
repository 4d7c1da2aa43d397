package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DaySchedule is the opening window for one weekday, "15:04" strings.
type DaySchedule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// WeekSchedule maps lowercase weekday names to their opening windows.
type WeekSchedule map[string]DaySchedule

// Scan implements sql.Scanner interface
func (s *WeekSchedule) Scan(value interface{}) error {
	if value == nil {
		*s = WeekSchedule{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer interface
func (s WeekSchedule) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(WeekSchedule{})
	}
	return json.Marshal(s)
}

// Business is a store profile: identity, hours, images and order settings.
// Each staff user belongs to exactly one business.
type Business struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Phone       string `gorm:"type:text" json:"phone,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`

	LogoURL  string `gorm:"type:text" json:"logo_url,omitempty"`
	CoverURL string `gorm:"type:text" json:"cover_url,omitempty"`

	Schedule WeekSchedule `gorm:"type:jsonb" json:"schedule,omitempty"`

	PickupEnabled    bool `gorm:"type:boolean;default:true" json:"pickup_enabled"`
	DeliveryEnabled  bool `gorm:"type:boolean;default:true" json:"delivery_enabled"`
	PickupEtaMinutes int  `gorm:"type:integer;default:30" json:"pickup_eta_minutes"`

	IsActive bool `gorm:"type:boolean;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsOpenAt checks the weekly schedule against a point in time. A business
// with no schedule configured counts as always open.
func (b *Business) IsOpenAt(t time.Time) bool {
	if len(b.Schedule) == 0 {
		return true
	}
	day, ok := b.Schedule[strings.ToLower(t.Weekday().String())]
	if !ok || day.Closed {
		return false
	}
	open, err1 := time.Parse("15:04", day.Open)
	close, err2 := time.Parse("15:04", day.Close)
	if err1 != nil || err2 != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	openM := open.Hour()*60 + open.Minute()
	closeM := close.Hour()*60 + close.Minute()
	return minutes >= openM && minutes < closeM
}

// CreateBusinessRequest represents store onboarding.
type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

// UpdateBusinessRequest represents a partial store-profile update.
type UpdateBusinessRequest struct {
	Name             *string       `json:"name,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	Address          *string       `json:"address,omitempty"`
	LogoURL          *string       `json:"logo_url,omitempty"`
	CoverURL         *string       `json:"cover_url,omitempty"`
	Schedule         *WeekSchedule `json:"schedule,omitempty"`
	PickupEnabled    *bool         `json:"pickup_enabled,omitempty"`
	DeliveryEnabled  *bool         `json:"delivery_enabled,omitempty"`
	PickupEtaMinutes *int          `json:"pickup_eta_minutes,omitempty"`
}
