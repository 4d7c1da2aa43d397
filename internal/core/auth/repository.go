package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new staff user
func (r *Repository) CreateUser(user *StaffUser) error {
	return r.db.Create(user).Error
}

// GetUserByEmail retrieves an active staff user by email
func (r *Repository) GetUserByEmail(email string) (*StaffUser, error) {
	var user StaffUser
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves an active staff user by ID
func (r *Repository) GetUserByID(id string) (*StaffUser, error) {
	var user StaffUser
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByRefreshToken retrieves a staff user by refresh token
func (r *Repository) GetUserByRefreshToken(refreshToken string) (*StaffUser, error) {
	var user StaffUser
	err := r.db.Where("refresh_token = ? AND is_active = ?", refreshToken, true).First(&user).Error
	if err != nil {
		return nil, err
	}

	if user.RefreshTokenExpiresAt != nil && user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("refresh token expired")
	}

	return &user, nil
}

// UpdateUser updates staff user information
func (r *Repository) UpdateUser(user *StaffUser) error {
	return r.db.Save(user).Error
}

// UpdateRefreshToken updates a user's refresh token
func (r *Repository) UpdateRefreshToken(userID string, refreshToken string, expiresAt time.Time) error {
	return r.db.Model(&StaffUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            refreshToken,
			"refresh_token_expires_at": expiresAt,
		}).Error
}

// UpdateLastLogin updates a user's last login timestamp
func (r *Repository) UpdateLastLogin(userID string) error {
	now := time.Now()
	return r.db.Model(&StaffUser{}).
		Where("id = ?", userID).
		Update("last_login_at", now).Error
}

// RevokeRefreshToken revokes (clears) a user's refresh token
func (r *Repository) RevokeRefreshToken(userID string) error {
	return r.db.Model(&StaffUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		}).Error
}

// EmailExists checks if email already exists
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&StaffUser{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserWithBusiness retrieves a staff user with the business they belong to
func (r *Repository) GetUserWithBusiness(userID string) (*StaffUser, *BusinessInfo, error) {
	var user StaffUser
	var business struct {
		ID   uuid.UUID
		Name string
	}

	err := r.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if err != nil {
		return nil, nil, err
	}

	err = r.db.Table("businesses").
		Select("id, name").
		Where("id = ?", user.BusinessID).
		First(&business).Error
	if err != nil {
		return &user, nil, nil // User exists but business not found
	}

	return &user, &BusinessInfo{
		ID:   business.ID.String(),
		Name: business.Name,
	}, nil
}
