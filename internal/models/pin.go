package models

import (
	"time"

	"gorm.io/gorm"
)

// Pin is a map marker a user dropped on a property.
// DB: pins
type Pin struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"column:user_id;not null;index:idx_pins_user" json:"user_id"`
	AddressHash string         `gorm:"column:address_hash;size:64;not null;index:idx_pins_address_hash" json:"address_hash"`
	Address     string         `gorm:"column:address;size:500;not null" json:"address"`
	Name        *string        `gorm:"column:name;size:255" json:"name,omitempty"`
	Notes       *string        `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Lat         float64        `gorm:"column:lat;type:double precision;not null" json:"lat"`
	Lng         float64        `gorm:"column:lng;type:double precision;not null" json:"lng"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index:idx_pins_deleted" json:"deleted_at,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Pin) TableName() string {
	return "pins"
}
