package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// BusinessService manages store profiles.
type BusinessService struct {
	businessRepo repositories.BusinessRepo
}

func NewBusinessService(businessRepo repositories.BusinessRepo) *BusinessService {
	return &BusinessService{businessRepo: businessRepo}
}

// CreateBusiness onboards a new store. Both fulfillment modes start enabled;
// the owner tunes the profile afterwards.
func (s *BusinessService) CreateBusiness(req *models.CreateBusinessRequest) (*models.Business, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("business name is required")
	}

	business := &models.Business{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Phone:            req.Phone,
		Address:          req.Address,
		PickupEnabled:    true,
		DeliveryEnabled:  true,
		PickupEtaMinutes: 30,
		IsActive:         true,
	}
	if err := s.businessRepo.Create(business); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return business, nil
}

// ListActive lists active stores, the public storefront directory.
func (s *BusinessService) ListActive() ([]models.Business, error) {
	return s.businessRepo.GetActive()
}

func (s *BusinessService) GetBusiness(id string) (*models.Business, error) {
	return s.businessRepo.GetByID(id)
}

func (s *BusinessService) UpdateBusiness(id string, req *models.UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.Description != nil {
		business.Description = *req.Description
	}
	if req.Phone != nil {
		business.Phone = *req.Phone
	}
	if req.Address != nil {
		business.Address = *req.Address
	}
	if req.LogoURL != nil {
		business.LogoURL = *req.LogoURL
	}
	if req.CoverURL != nil {
		business.CoverURL = *req.CoverURL
	}
	if req.Schedule != nil {
		business.Schedule = *req.Schedule
	}
	if req.PickupEnabled != nil {
		business.PickupEnabled = *req.PickupEnabled
	}
	if req.DeliveryEnabled != nil {
		business.DeliveryEnabled = *req.DeliveryEnabled
	}
	if req.PickupEtaMinutes != nil {
		business.PickupEtaMinutes = *req.PickupEtaMinutes
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return business, nil
}
