package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/geo"
	"github.com/alsetso/alsetmaps-backend/internal/logger"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"gorm.io/gorm"
)

// PinService manages a user's dropped map pins
type PinService struct {
	db       *database.DB
	cache    *PropertyCacheService
	geocoder AddressGeocoder
}

func NewPinService(db *database.DB, cache *PropertyCacheService, geocoder AddressGeocoder) *PinService {
	return &PinService{db: db, cache: cache, geocoder: geocoder}
}

type CreatePinRequest struct {
	Address string  `json:"address"`
	Name    *string `json:"name,omitempty"`
	Notes   *string `json:"notes,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Create drops a pin. The address goes through the property cache first so
// a record always exists before its pin counter is bumped.
func (s *PinService) Create(ctx context.Context, userID uint, req *CreatePinRequest) (*models.Pin, error) {
	log := logger.GetLogger("pins")

	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidInput)
	}

	var coords *Coordinates
	if req.Lat != 0 || req.Lng != 0 {
		coords = &Coordinates{Lat: req.Lat, Lng: req.Lng}
	} else {
		lat, lng, found, err := s.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			return nil, fmt.Errorf("geocode failed: %w", err)
		}
		if !found {
			return nil, fmt.Errorf("%w: address could not be located", ErrInvalidInput)
		}
		coords = &Coordinates{Lat: lat, Lng: lng}
	}

	// Ensure the property record exists; a provider outage only costs us
	// the enrichment, not the pin
	if _, err := s.cache.Lookup(ctx, req.Address, coords, false); err != nil {
		log.Warnf("Property lookup during pin creation failed for %q: %v", req.Address, err)
	}

	pin := models.Pin{
		UserID:      userID,
		AddressHash: geo.HashAddress(req.Address),
		Address:     req.Address,
		Name:        req.Name,
		Notes:       req.Notes,
		Lat:         coords.Lat,
		Lng:         coords.Lng,
	}
	if err := s.db.WithContext(ctx).Create(&pin).Error; err != nil {
		return nil, err
	}

	if err := s.cache.IncrementPinCount(ctx, req.Address); err != nil {
		// The record can be missing when both provider and store were down
		// during the lookup above; the pin itself is already saved
		log.Warnf("Failed to bump pin count for %q: %v", req.Address, err)
	}

	return &pin, nil
}

// List returns the user's pins, newest first
func (s *PinService) List(ctx context.Context, userID uint) ([]models.Pin, error) {
	var pins []models.Pin
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pins).Error
	return pins, err
}

// Delete removes a pin owned by the user
func (s *PinService) Delete(ctx context.Context, userID, pinID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", pinID, userID).
		Delete(&models.Pin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a single pin owned by the user
func (s *PinService) Get(ctx context.Context, userID, pinID uint) (*models.Pin, error) {
	var pin models.Pin
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", pinID, userID).
		First(&pin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pin, nil
}
