package models

import (
	"time"
)

// Refinance request states
const (
	RefinanceStatusNew       = "new"
	RefinanceStatusContacted = "contacted"
	RefinanceStatusClosed    = "closed"
)

// RefinanceRequest is an inbound refinance lead from the intake form.
// DB: refinance_requests
type RefinanceRequest struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          *uint     `gorm:"column:user_id;index:idx_refi_user" json:"user_id,omitempty"`
	Name            string    `gorm:"column:name;size:255;not null" json:"name"`
	Email           string    `gorm:"column:email;size:255;not null" json:"email"`
	Phone           *string   `gorm:"column:phone;size:50" json:"phone,omitempty"`
	PropertyAddress string    `gorm:"column:property_address;size:500;not null" json:"property_address"`
	CurrentBalance  *int64    `gorm:"column:current_balance" json:"current_balance,omitempty"`
	CurrentRate     *float64  `gorm:"column:current_rate" json:"current_rate,omitempty"`
	DesiredRate     *float64  `gorm:"column:desired_rate" json:"desired_rate,omitempty"`
	Notes           *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Status          string    `gorm:"column:status;size:20;not null;default:'new';index:idx_refi_status" json:"status"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RefinanceRequest) TableName() string {
	return "refinance_requests"
}
