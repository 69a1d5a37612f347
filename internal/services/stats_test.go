package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func seedStatsFixture(t *testing.T) *StatsService {
	t.Helper()
	db := newTestDB(t)
	cache := NewPropertyCacheService(db, &fakeProvider{payload: json.RawMessage(`{}`)})

	addresses := []string{
		"123 Main St, Austin, TX",
		"456 Oak Ave, Dallas, TX",
	}
	// first address searched twice so it ranks on top
	for _, addr := range append(addresses, addresses[0]) {
		if _, err := cache.Lookup(context.Background(), addr, nil, false); err != nil {
			t.Fatalf("Lookup(%q): %v", addr, err)
		}
	}
	return NewStatsService(cache)
}

func TestStatsMostSearchedOrdering(t *testing.T) {
	svc := seedStatsFixture(t)

	rows, err := svc.MostSearched(context.Background(), 10)
	if err != nil {
		t.Fatalf("MostSearched: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].TotalSearches != 2 || rows[1].TotalSearches != 1 {
		t.Errorf("search counts = (%d, %d), want (2, 1)", rows[0].TotalSearches, rows[1].TotalSearches)
	}
	if !strings.Contains(rows[0].Address, "main st") {
		t.Errorf("top row = %q, want the twice-searched address", rows[0].Address)
	}
}

func TestStatsExportCSV(t *testing.T) {
	svc := seedStatsFixture(t)

	data, err := svc.ExportCSV(context.Background(), 10)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want header plus 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "address,total_searches,total_pins") {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "main st") {
		t.Errorf("first data row = %q, want the most-searched address", lines[1])
	}
}

func TestStatsRecentlyRefreshed(t *testing.T) {
	svc := seedStatsFixture(t)

	rows, err := svc.RecentlyRefreshed(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentlyRefreshed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want limit of 1 applied", len(rows))
	}
	if rows[0].LastRefreshedAt == nil {
		t.Error("LastRefreshedAt should be set after a successful refresh")
	}
}
