package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/geo"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeProvider struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (f *fakeProvider) FetchByAddress(ctx context.Context, address string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	// busy timeout keeps concurrent counter updates from hitting sqlite
	// lock errors
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.CreditAccount{},
		&models.CreditTransaction{},
		&models.PropertyRecord{},
		&models.GeocodeCache{},
		&models.Pin{},
		&models.Agent{},
		&models.BuyerIntent{},
		&models.RefinanceRequest{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &database.DB{DB: gdb}
}

const testAddress = "123 Main St, Austin, TX"

func TestLookupFirstCreatesRecord(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	res, err := svc.Lookup(context.Background(), testAddress, &Coordinates{Lat: 30.26, Lng: -97.74}, false)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if res.WasCacheHit {
		t.Error("First lookup should not be a cache hit")
	}
	if string(res.Payload) != `{"estimatedValue": 450000}` {
		t.Errorf("Unexpected payload: %s", res.Payload)
	}
	if p.calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", p.calls)
	}
	if res.Record.TotalSearches != 1 {
		t.Errorf("Expected total_searches=1, got %d", res.Record.TotalSearches)
	}

	var stored models.PropertyRecord
	if err := db.Where("address_hash = ?", geo.HashAddress(testAddress)).First(&stored).Error; err != nil {
		t.Fatalf("Record not persisted: %v", err)
	}
	if stored.NormalizedAddress != "123 main st austin tx" {
		t.Errorf("Unexpected normalized address: %q", stored.NormalizedAddress)
	}
	if stored.Lat != 30.26 || stored.Lng != -97.74 {
		t.Errorf("Coordinates not stored: %f, %f", stored.Lat, stored.Lng)
	}
	if !stored.ProviderDataFresh {
		t.Error("Fresh flag should be set after a successful refresh")
	}
	if stored.LastRefreshedAt == nil {
		t.Error("last_refreshed_at should be set after a successful refresh")
	}
}

func TestLookupHitWithinWindow(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
		t.Fatalf("First lookup failed: %v", err)
	}

	res, err := svc.Lookup(ctx, testAddress, nil, false)
	if err != nil {
		t.Fatalf("Second lookup failed: %v", err)
	}

	if !res.WasCacheHit {
		t.Error("Second lookup within the window should be a cache hit")
	}
	if string(res.Payload) != `{"estimatedValue": 450000}` {
		t.Errorf("Hit should return the stored payload, got %s", res.Payload)
	}
	if p.calls != 1 {
		t.Errorf("Expected exactly 1 provider call across both lookups, got %d", p.calls)
	}
	if res.Record.TotalSearches != 2 {
		t.Errorf("Expected total_searches=2, got %d", res.Record.TotalSearches)
	}
}

func TestStalenessTriggersRefetch(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
		t.Fatalf("First lookup failed: %v", err)
	}

	// Age the record past the 24h window
	staleTime := time.Now().UTC().Add(-25 * time.Hour)
	hash := geo.HashAddress(testAddress)
	if err := db.Model(&models.PropertyRecord{}).Where("address_hash = ?", hash).
		Update("last_refreshed_at", staleTime).Error; err != nil {
		t.Fatalf("Failed to age record: %v", err)
	}

	p.payload = json.RawMessage(`{"estimatedValue": 460000}`)

	res, err := svc.Lookup(ctx, testAddress, nil, false)
	if err != nil {
		t.Fatalf("Stale lookup failed: %v", err)
	}

	if res.WasCacheHit {
		t.Error("Stale record should trigger a refetch")
	}
	if string(res.Payload) != `{"estimatedValue": 460000}` {
		t.Errorf("Expected updated payload, got %s", res.Payload)
	}
	if p.calls != 2 {
		t.Errorf("Expected 2 provider calls, got %d", p.calls)
	}

	var stored models.PropertyRecord
	if err := db.Where("address_hash = ?", hash).First(&stored).Error; err != nil {
		t.Fatalf("Failed to re-read record: %v", err)
	}
	if string(stored.ProviderData) != `{"estimatedValue": 460000}` {
		t.Errorf("Stored payload not replaced, got %s", stored.ProviderData)
	}
	if stored.LastRefreshedAt == nil || !stored.LastRefreshedAt.After(staleTime) {
		t.Error("last_refreshed_at should have advanced")
	}
}

func TestForceRefreshBypassesFreshness(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
		t.Fatalf("First lookup failed: %v", err)
	}

	res, err := svc.Lookup(ctx, testAddress, nil, true)
	if err != nil {
		t.Fatalf("Forced lookup failed: %v", err)
	}

	if res.WasCacheHit {
		t.Error("Forced lookup should never be a cache hit")
	}
	if p.calls != 2 {
		t.Errorf("Expected forced provider call, got %d total calls", p.calls)
	}
}

func TestFailurePreservesPriorState(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
		t.Fatalf("First lookup failed: %v", err)
	}

	hash := geo.HashAddress(testAddress)
	var before models.PropertyRecord
	if err := db.Where("address_hash = ?", hash).First(&before).Error; err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}

	p.err = errors.New("provider down")

	if _, err := svc.Lookup(ctx, testAddress, nil, true); err == nil {
		t.Fatal("Expected provider error to propagate")
	}

	var after models.PropertyRecord
	if err := db.Where("address_hash = ?", hash).First(&after).Error; err != nil {
		t.Fatalf("Failed to re-read record: %v", err)
	}

	if string(after.ProviderData) != string(before.ProviderData) {
		t.Error("Provider failure must not mutate the stored payload")
	}
	if !after.LastRefreshedAt.Equal(*before.LastRefreshedAt) {
		t.Error("Provider failure must not advance last_refreshed_at")
	}
	// A failed refresh still counts as an attempted search
	if after.TotalSearches != before.TotalSearches+1 {
		t.Errorf("Expected total_searches=%d after failed lookup, got %d",
			before.TotalSearches+1, after.TotalSearches)
	}
}

func TestSearchCounterMonotonicity(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
			t.Fatalf("Lookup %d failed: %v", i, err)
		}
	}

	var stored models.PropertyRecord
	if err := db.Where("address_hash = ?", geo.HashAddress(testAddress)).First(&stored).Error; err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if stored.TotalSearches != n {
		t.Errorf("Expected total_searches=%d, got %d", n, stored.TotalSearches)
	}
}

// gatedProvider blocks every fetch until release is closed, letting a test
// pile up concurrent lookups behind one in-flight refresh.
type gatedProvider struct {
	payload json.RawMessage
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (g *gatedProvider) FetchByAddress(ctx context.Context, address string) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return g.payload, nil
}

func (g *gatedProvider) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestConcurrentLookupsShareOneRefresh(t *testing.T) {
	db := newTestDB(t)
	p := &gatedProvider{
		payload: json.RawMessage(`{"estimatedValue": 450000}`),
		release: make(chan struct{}),
	}
	svc := NewPropertyCacheService(db, p)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	results := make(chan *LookupResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Lookup(context.Background(), testAddress, nil, false)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}

	// Hold the provider until the first lookup has reached it; the other
	// lookups can then only join that flight or hit the refreshed cache.
	for p.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	close(p.release)
	wg.Wait()
	close(errs)
	close(results)

	for err := range errs {
		t.Fatalf("Concurrent lookup failed: %v", err)
	}
	for res := range results {
		if string(res.Payload) != `{"estimatedValue": 450000}` {
			t.Errorf("Unexpected payload: %s", res.Payload)
		}
	}
	if got := p.callCount(); got != 1 {
		t.Errorf("Expected 1 provider call across %d concurrent lookups, got %d", n, got)
	}

	var stored models.PropertyRecord
	if err := db.Where("address_hash = ?", geo.HashAddress(testAddress)).First(&stored).Error; err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if stored.TotalSearches != n {
		t.Errorf("Expected total_searches=%d, got %d", n, stored.TotalSearches)
	}
}

func TestIncrementPinCount(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{"estimatedValue": 450000}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	if _, err := svc.Lookup(ctx, testAddress, nil, false); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	const m = 3
	for i := 0; i < m; i++ {
		if err := svc.IncrementPinCount(ctx, testAddress); err != nil {
			t.Fatalf("IncrementPinCount %d failed: %v", i, err)
		}
	}

	var stored models.PropertyRecord
	if err := db.Where("address_hash = ?", geo.HashAddress(testAddress)).First(&stored).Error; err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if stored.TotalPins != m {
		t.Errorf("Expected total_pins=%d, got %d", m, stored.TotalPins)
	}
}

func TestIncrementPinCountUnknownAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewPropertyCacheService(db, &fakeProvider{})

	err := svc.IncrementPinCount(context.Background(), "999 Nowhere Ave")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookupEmptyAddress(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{}
	svc := NewPropertyCacheService(db, p)

	_, err := svc.Lookup(context.Background(), "   ", nil, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if p.calls != 0 {
		t.Error("Invalid input must be rejected before any provider I/O")
	}
}

func TestIsFresh(t *testing.T) {
	svc := NewPropertyCacheService(newTestDB(t), &fakeProvider{})

	if !svc.IsFresh(time.Now().Add(-1 * time.Hour)) {
		t.Error("Data refreshed 1 hour ago should be fresh")
	}
	if svc.IsFresh(time.Now().Add(-25 * time.Hour)) {
		t.Error("Data refreshed 25 hours ago should be stale")
	}
}

func TestMostSearchedOrdering(t *testing.T) {
	db := newTestDB(t)
	p := &fakeProvider{payload: json.RawMessage(`{}`)}
	svc := NewPropertyCacheService(db, p)

	ctx := context.Background()
	busy := "500 Congress Ave, Austin, TX"
	quiet := "12 Quiet Ln, Waco, TX"

	for i := 0; i < 3; i++ {
		if _, err := svc.Lookup(ctx, busy, nil, false); err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
	}
	if _, err := svc.Lookup(ctx, quiet, nil, false); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	records, err := svc.MostSearched(ctx, 10)
	if err != nil {
		t.Fatalf("MostSearched failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].NormalizedAddress != geo.NormalizeAddress(busy) {
		t.Errorf("Expected busiest address first, got %q", records[0].NormalizedAddress)
	}
}
