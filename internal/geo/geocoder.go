package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/alsetso/alsetmaps-backend/internal/config"
	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/logger"
	"github.com/alsetso/alsetmaps-backend/internal/models"
)

const (
	// geocodeCacheTTL is how long a geocoder result stays usable
	geocodeCacheTTL = 30 * 24 * time.Hour
	maxRetries      = 3
)

// Geocoder resolves free-text addresses to coordinates through the Mapbox
// forward-geocoding API, with a database read-through cache in front.
type Geocoder struct {
	cfg        *config.Config
	db         *database.DB
	httpClient *http.Client
}

func NewGeocoder(cfg *config.Config, db *database.DB) *Geocoder {
	return &Geocoder{
		cfg: cfg,
		db:  db,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type mapboxResponse struct {
	Features []struct {
		Center    []float64 `json:"center"`
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

// Geocode resolves an address to (lat, lng). found is false when the
// geocoder has no match for the address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (lat, lng float64, found bool, err error) {
	log := logger.GetLogger("geocoder")

	// Cache first
	var cached models.GeocodeCache
	if err := g.db.Where("address = ? AND expires_at > ?", NormalizeAddress(address), time.Now()).
		First(&cached).Error; err == nil {
		return cached.Lat, cached.Lng, true, nil
	}

	lat, lng, found, err = g.forwardGeocode(ctx, address)
	if err != nil || !found {
		return 0, 0, false, err
	}

	// Write back, best effort. Unique index on address makes a racing
	// duplicate insert fail; the fresh row already there is just as good.
	entry := models.GeocodeCache{
		Address:   NormalizeAddress(address),
		Lat:       lat,
		Lng:       lng,
		ExpiresAt: time.Now().Add(geocodeCacheTTL),
	}
	if err := g.db.Create(&entry).Error; err != nil {
		log.Warnf("Failed to cache geocode result for %q: %v", address, err)
	}

	return lat, lng, true, nil
}

// forwardGeocode calls the Mapbox API with backoff on quota errors
func (g *Geocoder) forwardGeocode(ctx context.Context, address string) (lat, lng float64, found bool, err error) {
	log := logger.GetLogger("geocoder")

	apiURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json",
		g.cfg.MapboxBaseURL, url.PathEscape(address))

	backoffFactor := 1.0

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return 0, 0, false, fmt.Errorf("failed to create request: %w", err)
		}

		q := req.URL.Query()
		q.Add("access_token", g.cfg.MapboxAccessToken)
		q.Add("limit", "1")
		req.URL.RawQuery = q.Encode()

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return 0, 0, false, fmt.Errorf("geocode request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			waitTime := backoffFactor * math.Pow(2, float64(attempt))
			log.Warnf("Geocode quota exceeded for %q, retrying in %.0fs (%d/%d)",
				address, waitTime, attempt+1, maxRetries)
			select {
			case <-ctx.Done():
				return 0, 0, false, ctx.Err()
			case <-time.After(time.Duration(waitTime) * time.Second):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return 0, 0, false, fmt.Errorf("geocode failed with status %d", resp.StatusCode)
		}

		var result mapboxResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			return 0, 0, false, fmt.Errorf("failed to decode geocode response: %w", err)
		}
		resp.Body.Close()

		if len(result.Features) == 0 || len(result.Features[0].Center) < 2 {
			return 0, 0, false, nil
		}

		// Mapbox returns [lng, lat]
		return result.Features[0].Center[1], result.Features[0].Center[0], true, nil
	}

	return 0, 0, false, fmt.Errorf("geocode retries exhausted for %q", address)
}
