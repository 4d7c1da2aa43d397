package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/core/geo"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/models"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
)

// FallbackDeliveryFee is charged when a location's coordinates fall outside
// every configured delivery zone (or cannot be geocoded at all). The
// location is flagged out-of-zone for operator review; order creation is
// never blocked by it.
const FallbackDeliveryFee = 1.5

// LocationService manages a customer's saved delivery addresses: raw input
// parsing, geofence fee lookup and the exactly-one-favorite rule.
type LocationService struct {
	locationRepo repositories.LocationRepo
	customerRepo repositories.CustomerRepo
	zoneRepo     repositories.ZoneRepo
}

func NewLocationService(
	locationRepo repositories.LocationRepo,
	customerRepo repositories.CustomerRepo,
	zoneRepo repositories.ZoneRepo,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		zoneRepo:     zoneRepo,
	}
}

// resolveFee maps a parsed location to a delivery fee and sector. Zones are
// checked smallest-radius first, so nested zones act as overrides. Plus-Code
// and reference-only locations cannot be geofenced and get the fallback fee.
func (s *LocationService) resolveFee(businessID uuid.UUID, in geo.LocationInput) (fee float64, sector string, outOfZone bool, err error) {
	if in.Kind != geo.KindLatLng {
		return FallbackDeliveryFee, "", true, nil
	}

	zones, err := s.zoneRepo.GetByBusinessID(businessID)
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to load delivery zones: %w", err)
	}

	for _, zone := range zones {
		if zone.Contains(in.Point) && zone.Fee > 0 {
			return zone.Fee, zone.Sector, false, nil
		}
	}
	return FallbackDeliveryFee, "", true, nil
}

// CreateLocation parses the raw input, computes the delivery fee and saves
// the location. When the request asks for favorite, the swap runs after the
// insert in one transaction.
func (s *LocationService) CreateLocation(businessID uuid.UUID, customerID string, req *models.CreateLocationRequest) (*models.CustomerLocation, error) {
	customer, err := s.customerRepo.GetByID(businessID, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	in, err := geo.ParseLocationInput(req.RawLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid location input: %w", err)
	}

	fee, sector, outOfZone, err := s.resolveFee(customer.BusinessID, in)
	if err != nil {
		return nil, err
	}
	if req.Sector != "" {
		sector = req.Sector
	}

	location := &models.CustomerLocation{
		CustomerID:  customer.ID,
		Coordinates: in.Canonical(),
		Reference:   req.Reference,
		Sector:      sector,
		DeliveryFee: fee,
		OutOfZone:   outOfZone,
		PhotoURL:    req.PhotoURL,
	}
	if err := s.locationRepo.Create(location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	if outOfZone {
		log.Printf("⚠️ Location %s is outside every delivery zone, fallback fee applied", location.ID)
	}

	if req.IsFavorite {
		if err := s.locationRepo.SetFavorite(customerID, location.ID.String()); err != nil {
			return nil, fmt.Errorf("location saved but favorite swap failed: %w", err)
		}
		location.IsFavorite = true
	}

	return location, nil
}

// UpdateLocation applies a partial update, re-parsing and re-pricing when the
// raw location text changed. Past orders keep their snapshot values.
func (s *LocationService) UpdateLocation(businessID uuid.UUID, id string, req *models.UpdateLocationRequest) (*models.CustomerLocation, error) {
	location, err := s.locationRepo.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.RawLocation != nil {
		in, err := geo.ParseLocationInput(*req.RawLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid location input: %w", err)
		}
		fee, sector, outOfZone, err := s.resolveFee(businessID, in)
		if err != nil {
			return nil, err
		}
		location.Coordinates = in.Canonical()
		location.DeliveryFee = fee
		location.OutOfZone = outOfZone
		if sector != "" {
			location.Sector = sector
		}
	}
	if req.Reference != nil {
		location.Reference = *req.Reference
	}
	if req.Sector != nil {
		location.Sector = *req.Sector
	}
	if req.PhotoURL != nil {
		location.PhotoURL = *req.PhotoURL
	}

	if err := s.locationRepo.Update(location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

// DeleteLocation removes a saved location. The caller is responsible for
// clearing the selection from any draft that referenced it.
func (s *LocationService) DeleteLocation(businessID uuid.UUID, id string) error {
	if _, err := s.locationRepo.GetByID(businessID, id); err != nil {
		return err
	}
	return s.locationRepo.Delete(id)
}

// SetFavorite makes a location the customer's favorite, clearing the
// previous one in the same transaction.
func (s *LocationService) SetFavorite(businessID uuid.UUID, customerID, locationID string) error {
	if _, err := s.customerRepo.GetByID(businessID, customerID); err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	return s.locationRepo.SetFavorite(customerID, locationID)
}

// ListLocations returns a customer's saved locations, favorite first.
func (s *LocationService) ListLocations(businessID uuid.UUID, customerID string) ([]models.CustomerLocation, error) {
	if _, err := s.customerRepo.GetByID(businessID, customerID); err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	return s.locationRepo.GetByCustomerID(customerID)
}
