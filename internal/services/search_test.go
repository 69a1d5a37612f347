package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alsetso/alsetmaps-backend/internal/config"
)

type fakeGeocoder struct {
	lat, lng float64
	found    bool
	err      error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, bool, error) {
	return f.lat, f.lng, f.found, f.err
}

func newSearchFixture(t *testing.T, p *fakeProvider, g *fakeGeocoder) (*SearchService, *CreditService) {
	t.Helper()
	db := newTestDB(t)
	credits := NewCreditService(db)
	cache := NewPropertyCacheService(db, p)
	cfg := &config.Config{SmartSearchCreditCost: 1}
	return NewSearchService(cfg, credits, cache, g), credits
}

func TestSmartSearch(t *testing.T) {
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	g := &fakeGeocoder{lat: 30.26, lng: -97.74, found: true}
	svc, credits := newSearchFixture(t, p, g)
	ctx := context.Background()

	if _, err := credits.Add(ctx, 1, 5, "signup_bonus"); err != nil {
		t.Fatalf("Add credits failed: %v", err)
	}

	resp, err := svc.SmartSearch(ctx, 1, &SmartSearchRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("SmartSearch failed: %v", err)
	}

	if !resp.Located || resp.Lat != 30.26 || resp.Lng != -97.74 {
		t.Errorf("Expected located result at geocoded coords, got %+v", resp)
	}
	if !resp.Enriched {
		t.Error("Expected enriched result")
	}
	if string(resp.PropertyData) != `{"estimatedValue": 450000}` {
		t.Errorf("Unexpected property data: %s", resp.PropertyData)
	}
	if resp.CreditsRemaining != 4 {
		t.Errorf("Expected 4 credits remaining, got %d", resp.CreditsRemaining)
	}
}

func TestSmartSearchInsufficientCredits(t *testing.T) {
	svc, _ := newSearchFixture(t, &fakeProvider{}, &fakeGeocoder{})

	_, err := svc.SmartSearch(context.Background(), 1, &SmartSearchRequest{Address: testAddress})
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Errorf("Expected ErrInsufficientCredits, got %v", err)
	}
}

func TestSmartSearchDegradesOnProviderFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("provider down")}
	g := &fakeGeocoder{lat: 30.26, lng: -97.74, found: true}
	svc, credits := newSearchFixture(t, p, g)
	ctx := context.Background()

	if _, err := credits.Add(ctx, 1, 5, "signup_bonus"); err != nil {
		t.Fatalf("Add credits failed: %v", err)
	}

	resp, err := svc.SmartSearch(ctx, 1, &SmartSearchRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("Provider outage should degrade, not fail: %v", err)
	}

	if !resp.Located {
		t.Error("Basic geocoded result should survive a provider outage")
	}
	if resp.Enriched {
		t.Error("Result must not claim enrichment after a provider failure")
	}
	if resp.CreditsRemaining != 4 {
		t.Errorf("Expected the debit to stand, got %d remaining", resp.CreditsRemaining)
	}
}
