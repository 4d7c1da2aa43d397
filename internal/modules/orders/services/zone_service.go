package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/geo"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// ZoneService manages the geofence tariff table behind delivery-fee lookups.
type ZoneService struct {
	zoneRepo repositories.ZoneRepo
}

func NewZoneService(zoneRepo repositories.ZoneRepo) *ZoneService {
	return &ZoneService{zoneRepo: zoneRepo}
}

func (s *ZoneService) CreateZone(businessID uuid.UUID, req *models.CreateZoneRequest) (*models.DeliveryZone, error) {
	if strings.TrimSpace(req.Sector) == "" {
		return nil, errors.New("zone sector is required")
	}
	if req.RadiusKm <= 0 {
		return nil, errors.New("zone radius must be positive")
	}
	if req.Fee < 0 {
		return nil, errors.New("zone fee cannot be negative")
	}
	if err := geo.Validate(geo.Point{Lat: req.CenterLat, Lng: req.CenterLng}); err != nil {
		return nil, fmt.Errorf("invalid zone center: %w", err)
	}

	zone := &models.DeliveryZone{
		BusinessID: businessID,
		Sector:     strings.TrimSpace(req.Sector),
		CenterLat:  req.CenterLat,
		CenterLng:  req.CenterLng,
		RadiusKm:   req.RadiusKm,
		Fee:        req.Fee,
		IsActive:   true,
	}
	if err := s.zoneRepo.Create(zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}
	return zone, nil
}

func (s *ZoneService) ListZones(businessID uuid.UUID) ([]models.DeliveryZone, error) {
	return s.zoneRepo.GetByBusinessID(businessID)
}

func (s *ZoneService) UpdateZone(businessID uuid.UUID, id string, req *models.UpdateZoneRequest) (*models.DeliveryZone, error) {
	zone, err := s.zoneRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Sector != nil {
		if strings.TrimSpace(*req.Sector) == "" {
			return nil, errors.New("zone sector cannot be empty")
		}
		zone.Sector = strings.TrimSpace(*req.Sector)
	}
	if req.CenterLat != nil {
		zone.CenterLat = *req.CenterLat
	}
	if req.CenterLng != nil {
		zone.CenterLng = *req.CenterLng
	}
	if req.CenterLat != nil || req.CenterLng != nil {
		if err := geo.Validate(geo.Point{Lat: zone.CenterLat, Lng: zone.CenterLng}); err != nil {
			return nil, fmt.Errorf("invalid zone center: %w", err)
		}
	}
	if req.RadiusKm != nil {
		if *req.RadiusKm <= 0 {
			return nil, errors.New("zone radius must be positive")
		}
		zone.RadiusKm = *req.RadiusKm
	}
	if req.Fee != nil {
		if *req.Fee < 0 {
			return nil, errors.New("zone fee cannot be negative")
		}
		zone.Fee = *req.Fee
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	if err := s.zoneRepo.Update(zone); err != nil {
		return nil, fmt.Errorf("failed to update zone: %w", err)
	}
	return zone, nil
}

func (s *ZoneService) DeleteZone(businessID uuid.UUID, id string) error {
	return s.zoneRepo.Delete(businessID, id)
}
