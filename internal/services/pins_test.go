package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/geo"
	"github.com/alsetso/alsetmaps-backend/internal/models"
)

func newPinFixture(t *testing.T, p *fakeProvider, g *fakeGeocoder) (*PinService, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	cache := NewPropertyCacheService(db, p)
	return NewPinService(db, cache, g), db
}

func propertyRecordByAddress(t *testing.T, db *database.DB, address string) *models.PropertyRecord {
	t.Helper()
	var rec models.PropertyRecord
	if err := db.Where("address_hash = ?", geo.HashAddress(address)).First(&rec).Error; err != nil {
		t.Fatalf("property record for %q missing: %v", address, err)
	}
	return &rec
}

func TestPinCreateWithCoordinates(t *testing.T) {
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc, db := newPinFixture(t, p, &fakeGeocoder{})

	pin, err := svc.Create(context.Background(), 1, &CreatePinRequest{
		Address: testAddress,
		Lat:     30.26,
		Lng:     -97.74,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pin.AddressHash != geo.HashAddress(testAddress) {
		t.Errorf("AddressHash = %q, want hash of %q", pin.AddressHash, testAddress)
	}
	if pin.Lat != 30.26 || pin.Lng != -97.74 {
		t.Errorf("coordinates = (%v, %v), want (30.26, -97.74)", pin.Lat, pin.Lng)
	}

	// the lookup during creation must have seeded the property record and
	// bumped its pin counter
	rec := propertyRecordByAddress(t, db, testAddress)
	if rec.TotalPins != 1 {
		t.Errorf("TotalPins = %d, want 1", rec.TotalPins)
	}
}

func TestPinCreateGeocodesWhenNoCoordinates(t *testing.T) {
	p := &fakeProvider{payload: json.RawMessage(`{}`)}
	g := &fakeGeocoder{lat: 30.26, lng: -97.74, found: true}
	svc, _ := newPinFixture(t, p, g)

	pin, err := svc.Create(context.Background(), 1, &CreatePinRequest{Address: testAddress})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pin.Lat != 30.26 || pin.Lng != -97.74 {
		t.Errorf("coordinates = (%v, %v), want geocoder result", pin.Lat, pin.Lng)
	}
}

func TestPinCreateRejectsUnlocatableAddress(t *testing.T) {
	svc, _ := newPinFixture(t, &fakeProvider{}, &fakeGeocoder{found: false})

	_, err := svc.Create(context.Background(), 1, &CreatePinRequest{Address: "nowhere at all"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestPinCreateRejectsEmptyAddress(t *testing.T) {
	svc, _ := newPinFixture(t, &fakeProvider{}, &fakeGeocoder{})

	_, err := svc.Create(context.Background(), 1, &CreatePinRequest{Address: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestPinCreateSurvivesProviderOutage(t *testing.T) {
	p := &fakeProvider{err: errors.New("provider down")}
	svc, _ := newPinFixture(t, p, &fakeGeocoder{})

	pin, err := svc.Create(context.Background(), 1, &CreatePinRequest{
		Address: testAddress,
		Lat:     30.26,
		Lng:     -97.74,
	})
	if err != nil {
		t.Fatalf("Create should not fail on provider outage: %v", err)
	}
	if pin.ID == 0 {
		t.Error("pin was not persisted")
	}
}

func TestPinListAndOwnership(t *testing.T) {
	p := &fakeProvider{payload: json.RawMessage(`{}`)}
	svc, _ := newPinFixture(t, p, &fakeGeocoder{})

	mine, err := svc.Create(context.Background(), 1, &CreatePinRequest{
		Address: testAddress, Lat: 30.26, Lng: -97.74,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 2, &CreatePinRequest{
		Address: "456 Oak Ave, Dallas, TX", Lat: 32.78, Lng: -96.80,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	pins, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pins) != 1 || pins[0].ID != mine.ID {
		t.Fatalf("List returned %d pins, want only user 1's pin", len(pins))
	}

	// another user cannot see or delete the pin
	if _, err := svc.Get(context.Background(), 2, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get by non-owner: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), 2, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by non-owner: err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(context.Background(), 1, mine.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestPinCreateKeepsOneRecordForRepeatPins(t *testing.T) {
	p := &fakeProvider{payload: json.RawMessage(`{}`)}
	svc, db := newPinFixture(t, p, &fakeGeocoder{})

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), uint(i+1), &CreatePinRequest{
			Address: testAddress, Lat: 30.26, Lng: -97.74,
		}); err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
	}

	rec := propertyRecordByAddress(t, db, testAddress)
	if rec.TotalPins != 3 {
		t.Errorf("TotalPins = %d, want 3", rec.TotalPins)
	}
}
