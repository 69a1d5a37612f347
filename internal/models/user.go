package models

import (
	"time"
)

// User is the local profile row for an externally authenticated user.
// Signup and login happen at the auth provider; we only validate its JWTs
// and keep the profile for dashboard features.
// DB: users
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"column:email;size:255;not null;uniqueIndex:users_email_key" json:"email"`
	Name         string     `gorm:"column:name;size:100;not null" json:"name"`
	ProfileImage string     `gorm:"column:profile_image;size:500" json:"profile_image,omitempty"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	DateJoined   time.Time  `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
	LastSeen     *time.Time `gorm:"column:last_seen" json:"last_seen,omitempty"`

	// Relations
	Pins    []Pin         `gorm:"foreignKey:UserID" json:"pins,omitempty"`
	Intents []BuyerIntent `gorm:"foreignKey:UserID" json:"intents,omitempty"`
}

func (User) TableName() string {
	return "users"
}
