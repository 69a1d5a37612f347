package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/geo"
	"github.com/alsetso/alsetmaps-backend/internal/logger"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// FreshnessWindow is how long provider data stays usable before a lookup
// refetches it. Fixed, no sliding TTL.
const FreshnessWindow = 24 * time.Hour

// PropertyDataProvider is the external property-data API
type PropertyDataProvider interface {
	FetchByAddress(ctx context.Context, address string) (json.RawMessage, error)
}

// Coordinates are caller-supplied and used only when creating a record for
// a never-seen address. Range validation is the caller's job.
type Coordinates struct {
	Lat float64
	Lng float64
}

// LookupResult is what a property lookup hands back to its caller
type LookupResult struct {
	Record      *models.PropertyRecord
	Payload     json.RawMessage
	WasCacheHit bool
}

// PropertyCacheService is the read-through/write-through cache over the
// property-data provider, keyed by normalized-address hash. It also tracks
// per-address search and pin counters.
type PropertyCacheService struct {
	db       *database.DB
	provider PropertyDataProvider
	flight   singleflight.Group
}

func NewPropertyCacheService(db *database.DB, provider PropertyDataProvider) *PropertyCacheService {
	return &PropertyCacheService{db: db, provider: provider}
}

// Lookup returns the best-available property payload for an address,
// fetching from the provider only when the cached copy is missing, stale,
// flagged unfresh, empty, or a refresh is forced. Concurrent lookups for
// the same address share one in-flight refresh instead of issuing
// duplicate provider calls.
//
// Every call increments the record's search counter, including calls whose
// refresh failed; an attempted search is still a search.
func (s *PropertyCacheService) Lookup(ctx context.Context, address string, coords *Coordinates, forceRefresh bool) (*LookupResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidInput)
	}

	hash := geo.HashAddress(address)

	// Forced lookups get their own flight so they can never be satisfied
	// by a concurrent non-forced cache hit.
	key := hash
	if forceRefresh {
		key = hash + ":force"
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.lookup(ctx, address, hash, coords, forceRefresh)
	})

	counted := s.bumpSearchCount(ctx, hash)

	if err != nil {
		return nil, err
	}

	result := v.(*LookupResult)
	if counted {
		// Reflect only this caller's increment in the copy we hand back.
		// Under a shared flight the store has absorbed one increment per
		// caller, so this snapshot can lag the stored total_searches.
		rec := *result.Record
		rec.TotalSearches++
		return &LookupResult{Record: &rec, Payload: result.Payload, WasCacheHit: result.WasCacheHit}, nil
	}
	return result, nil
}

func (s *PropertyCacheService) lookup(ctx context.Context, address, hash string, coords *Coordinates, forceRefresh bool) (*LookupResult, error) {
	var rec models.PropertyRecord
	err := s.db.WithContext(ctx).Where("address_hash = ?", hash).First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.PropertyRecord{
			AddressHash:       hash,
			NormalizedAddress: geo.NormalizeAddress(address),
		}
		if coords != nil {
			rec.Lat = coords.Lat
			rec.Lng = coords.Lng
		}
		if createErr := s.db.WithContext(ctx).Create(&rec).Error; createErr != nil {
			// Lost a create race: the unique index on address_hash kicked in,
			// so the row exists now. Re-read it.
			if readErr := s.db.WithContext(ctx).Where("address_hash = ?", hash).First(&rec).Error; readErr != nil {
				return nil, fmt.Errorf("store create failed: %w", createErr)
			}
		}
		return s.refresh(ctx, address, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("store read failed: %w", err)
	}

	if !s.needsRefresh(&rec, forceRefresh) {
		return &LookupResult{Record: &rec, Payload: rec.ProviderData, WasCacheHit: true}, nil
	}

	return s.refresh(ctx, address, &rec)
}

func (s *PropertyCacheService) needsRefresh(rec *models.PropertyRecord, forceRefresh bool) bool {
	if forceRefresh {
		return true
	}
	if !rec.ProviderDataFresh {
		return true
	}
	if rec.LastRefreshedAt == nil || !s.IsFresh(*rec.LastRefreshedAt) {
		return true
	}
	if len(rec.ProviderData) == 0 {
		return true
	}
	return false
}

// refresh replaces the payload wholesale. Payload, freshness flag and
// refresh timestamp change in one UPDATE; a provider failure leaves the
// stored record exactly as it was.
func (s *PropertyCacheService) refresh(ctx context.Context, address string, rec *models.PropertyRecord) (*LookupResult, error) {
	payload, err := s.provider.FetchByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("provider fetch failed: %w", err)
	}

	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.PropertyRecord{}).
		Where("address_hash = ?", rec.AddressHash).
		Updates(map[string]interface{}{
			"provider_data":       []byte(payload),
			"provider_data_fresh": true,
			"last_refreshed_at":   now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("store write failed: %w", res.Error)
	}

	rec.ProviderData = payload
	rec.ProviderDataFresh = true
	rec.LastRefreshedAt = &now

	return &LookupResult{Record: rec, Payload: payload, WasCacheHit: false}, nil
}

// bumpSearchCount does a single atomic increment so concurrent lookups
// never lose updates. Returns false when the record row does not exist
// (store failure before creation), which only costs us the count.
func (s *PropertyCacheService) bumpSearchCount(ctx context.Context, hash string) bool {
	res := s.db.WithContext(ctx).Model(&models.PropertyRecord{}).
		Where("address_hash = ?", hash).
		Updates(map[string]interface{}{"total_searches": gorm.Expr("total_searches + 1")})
	if res.Error != nil {
		logger.GetLogger("property-cache").Warnf("Failed to bump search count for %s: %v", hash, res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// IncrementPinCount bumps the pin counter for an already-cached address.
// Pins can only target addresses a prior lookup has seen; anything else is
// a caller error.
func (s *PropertyCacheService) IncrementPinCount(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidInput)
	}

	hash := geo.HashAddress(address)
	res := s.db.WithContext(ctx).Model(&models.PropertyRecord{}).
		Where("address_hash = ?", hash).
		Updates(map[string]interface{}{"total_pins": gorm.Expr("total_pins + 1")})
	if res.Error != nil {
		return fmt.Errorf("store write failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no property record for address", ErrNotFound)
	}
	return nil
}

// IsFresh reports whether provider data refreshed at the given time is
// still inside the freshness window
func (s *PropertyCacheService) IsFresh(lastRefreshedAt time.Time) bool {
	return time.Since(lastRefreshedAt) < FreshnessWindow
}

// MostSearched returns the properties with the highest search counts
func (s *PropertyCacheService) MostSearched(ctx context.Context, limit int) ([]models.PropertyRecord, error) {
	var records []models.PropertyRecord
	err := s.db.WithContext(ctx).
		Order("total_searches DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// RecentlyRefreshed returns the properties with the newest provider data
func (s *PropertyCacheService) RecentlyRefreshed(ctx context.Context, limit int) ([]models.PropertyRecord, error) {
	var records []models.PropertyRecord
	err := s.db.WithContext(ctx).
		Where("last_refreshed_at IS NOT NULL").
		Order("last_refreshed_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
