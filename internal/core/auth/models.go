package auth

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// StaffUser represents an operator that can log into the dashboard of one
// business. Owners manage staff accounts, zones and the store profile;
// admins and staff take orders.
type StaffUser struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null" json:"business_id"`

	Email       string `gorm:"type:text;unique;not null" json:"email"`
	Name        string `gorm:"type:text" json:"name"`
	PhoneNumber string `gorm:"type:text" json:"phone_number,omitempty"`
	Role        string `gorm:"type:text;not null" json:"role"`

	PasswordHash string `gorm:"type:text" json:"-"` // Hidden from JSON

	IsActive bool `gorm:"type:boolean;default:true" json:"is_active"`

	RefreshToken          string     `gorm:"type:text" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (StaffUser) TableName() string {
	return "staff_users"
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest represents staff registration request payload
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number,omitempty"`
	BusinessID  string `json:"business_id" validate:"required,uuid"`
	Role        string `json:"role" validate:"required,oneof=owner admin staff"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"` // seconds
	User         *UserInfo     `json:"user"`
	Business     *BusinessInfo `json:"business,omitempty"`
}

// UserInfo represents user information in auth response
type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// BusinessInfo represents the business a staff user belongs to
type BusinessInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id"`
}

// ValidRole reports whether the role is one of the staff roles.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin || role == RoleStaff
}
