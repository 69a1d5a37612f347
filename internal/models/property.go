package models

import (
	"encoding/json"
	"time"
)

// PropertyRecord is the cache entry for third-party property data,
// one row per unique normalized address.
// DB: property_records
type PropertyRecord struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	AddressHash       string          `gorm:"column:address_hash;size:64;not null;uniqueIndex:property_records_address_hash_key" json:"address_hash"`
	NormalizedAddress string          `gorm:"column:normalized_address;size:500;not null" json:"normalized_address"`
	Lat               float64         `gorm:"column:lat;type:double precision" json:"lat"`
	Lng               float64         `gorm:"column:lng;type:double precision" json:"lng"`
	ProviderData      json.RawMessage `gorm:"column:provider_data;type:jsonb" json:"provider_data,omitempty" swaggertype:"object"`
	ProviderDataFresh bool            `gorm:"column:provider_data_fresh;not null;default:false" json:"provider_data_fresh"`
	LastRefreshedAt   *time.Time      `gorm:"column:last_refreshed_at" json:"last_refreshed_at,omitempty"`
	TotalSearches     int64           `gorm:"column:total_searches;not null;default:0" json:"total_searches"`
	TotalPins         int64           `gorm:"column:total_pins;not null;default:0" json:"total_pins"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PropertyRecord) TableName() string {
	return "property_records"
}

// GeocodeCache stores geocoder results so repeated searches for the same
// address do not burn Mapbox quota.
// DB: geocode_cache
type GeocodeCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"size:500;not null;uniqueIndex" json:"address"`
	Lat       float64   `gorm:"type:double precision;not null" json:"lat"`
	Lng       float64   `gorm:"type:double precision;not null" json:"lng"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (GeocodeCache) TableName() string {
	return "geocode_cache"
}
