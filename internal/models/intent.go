package models

import (
	"time"

	"gorm.io/gorm"
)

// Buyer intent states
const (
	IntentStatusActive    = "active"
	IntentStatusMatched   = "matched"
	IntentStatusWithdrawn = "withdrawn"
)

// BuyerIntent is a public "looking to buy" listing: the area a buyer wants,
// their budget and their timeline.
// DB: buyer_intents
type BuyerIntent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"column:user_id;not null;index:idx_intents_user" json:"user_id"`
	Location  string         `gorm:"column:location;size:255;not null" json:"location"`
	Lat       *float64       `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng       *float64       `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	MinPrice  *int64         `gorm:"column:min_price" json:"min_price,omitempty"`
	MaxPrice  *int64         `gorm:"column:max_price" json:"max_price,omitempty"`
	Bedrooms  *int           `gorm:"column:bedrooms" json:"bedrooms,omitempty"`
	Timeline  *string        `gorm:"column:timeline;size:100" json:"timeline,omitempty"`
	Notes     *string        `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Status    string         `gorm:"column:status;size:20;not null;default:'active';index:idx_intents_status" json:"status"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_intents_deleted" json:"deleted_at,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BuyerIntent) TableName() string {
	return "buyer_intents"
}
