package services

import (
	"context"
	"time"

	"github.com/alsetso/alsetmaps-backend/internal/models"
	"github.com/jszwec/csvutil"
)

// StatsService exposes aggregate property activity for listing pages and
// the staff dashboard
type StatsService struct {
	cache *PropertyCacheService
}

func NewStatsService(cache *PropertyCacheService) *StatsService {
	return &StatsService{cache: cache}
}

type PropertyStatsRow struct {
	Address         string     `csv:"address" json:"address"`
	TotalSearches   int64      `csv:"total_searches" json:"total_searches"`
	TotalPins       int64      `csv:"total_pins" json:"total_pins"`
	LastRefreshedAt *time.Time `csv:"last_refreshed_at,omitempty" json:"last_refreshed_at,omitempty"`
}

// MostSearched returns the most looked-up properties
func (s *StatsService) MostSearched(ctx context.Context, limit int) ([]PropertyStatsRow, error) {
	records, err := s.cache.MostSearched(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toStatsRows(records), nil
}

// RecentlyRefreshed returns properties with the newest provider data
func (s *StatsService) RecentlyRefreshed(ctx context.Context, limit int) ([]PropertyStatsRow, error) {
	records, err := s.cache.RecentlyRefreshed(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toStatsRows(records), nil
}

// ExportCSV renders the most-searched report as CSV for the dashboard
// download button
func (s *StatsService) ExportCSV(ctx context.Context, limit int) ([]byte, error) {
	rows, err := s.MostSearched(ctx, limit)
	if err != nil {
		return nil, err
	}
	return csvutil.Marshal(rows)
}

func toStatsRows(records []models.PropertyRecord) []PropertyStatsRow {
	rows := make([]PropertyStatsRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, PropertyStatsRow{
			Address:         rec.NormalizedAddress,
			TotalSearches:   rec.TotalSearches,
			TotalPins:       rec.TotalPins,
			LastRefreshedAt: rec.LastRefreshedAt,
		})
	}
	return rows
}
