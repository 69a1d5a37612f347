package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/config"
	"github.com/alsetso/alsetmaps-backend/internal/logger"
)

// AddressGeocoder resolves a free-text address to coordinates
type AddressGeocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, found bool, err error)
}

// SearchService runs credit-gated smart searches: debit first, then
// geocode and enrich through the property cache.
type SearchService struct {
	cfg      *config.Config
	credits  *CreditService
	cache    *PropertyCacheService
	geocoder AddressGeocoder
}

func NewSearchService(cfg *config.Config, credits *CreditService, cache *PropertyCacheService, geocoder AddressGeocoder) *SearchService {
	return &SearchService{cfg: cfg, credits: credits, cache: cache, geocoder: geocoder}
}

type SmartSearchRequest struct {
	Address      string  `json:"address"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
	ForceRefresh bool    `json:"force_refresh,omitempty"`
}

type SmartSearchResponse struct {
	Address          string          `json:"address"`
	Lat              float64         `json:"lat"`
	Lng              float64         `json:"lng"`
	Located          bool            `json:"located"`
	Enriched         bool            `json:"enriched"`
	WasCacheHit      bool            `json:"was_cache_hit"`
	PropertyData     json.RawMessage `json:"property_data,omitempty" swaggertype:"object"`
	CreditsRemaining int64           `json:"credits_remaining"`
}

// SmartSearch consumes one search's worth of credits, then resolves and
// enriches the address. Once the debit has gone through, enrichment
// failures degrade the response instead of failing it: the user paid, so
// they get at least the basic located result.
func (s *SearchService) SmartSearch(ctx context.Context, userID uint, req *SmartSearchRequest) (*SmartSearchResponse, error) {
	log := logger.GetLogger("search")

	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidInput)
	}

	account, err := s.credits.Consume(ctx, userID, s.cfg.SmartSearchCreditCost, "smart_search")
	if err != nil {
		return nil, err
	}

	resp := &SmartSearchResponse{
		Address:          req.Address,
		CreditsRemaining: account.Balance,
	}

	// Caller-supplied coordinates win; otherwise ask the geocoder
	var coords *Coordinates
	if req.Lat != 0 || req.Lng != 0 {
		coords = &Coordinates{Lat: req.Lat, Lng: req.Lng}
	} else {
		lat, lng, found, geoErr := s.geocoder.Geocode(ctx, req.Address)
		if geoErr != nil {
			log.Warnf("Geocode failed for %q: %v", req.Address, geoErr)
		} else if found {
			coords = &Coordinates{Lat: lat, Lng: lng}
		}
	}
	if coords != nil {
		resp.Lat = coords.Lat
		resp.Lng = coords.Lng
		resp.Located = true
	}

	result, err := s.cache.Lookup(ctx, req.Address, coords, req.ForceRefresh)
	if err != nil {
		log.Warnf("Property enrichment failed for %q: %v", req.Address, err)
		return resp, nil
	}

	resp.Enriched = len(result.Payload) > 0
	resp.WasCacheHit = result.WasCacheHit
	resp.PropertyData = result.Payload
	if !resp.Located {
		resp.Lat = result.Record.Lat
		resp.Lng = result.Record.Lng
		resp.Located = result.Record.Lat != 0 || result.Record.Lng != 0
	}

	return resp, nil
}
