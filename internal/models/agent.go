package models

import (
	"time"
)

// Agent onboarding states
const (
	AgentStatusPending  = "pending"
	AgentStatusApproved = "approved"
	AgentStatusRejected = "rejected"
)

// Agent is a directory entry for a licensed real-estate agent.
// DB: agents
type Agent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        *uint     `gorm:"column:user_id;index:idx_agents_user" json:"user_id,omitempty"`
	Name          string    `gorm:"column:name;size:255;not null" json:"name"`
	Email         string    `gorm:"column:email;size:255;not null" json:"email"`
	Phone         *string   `gorm:"column:phone;size:50" json:"phone,omitempty"`
	Brokerage     *string   `gorm:"column:brokerage;size:255" json:"brokerage,omitempty"`
	LicenseNumber string    `gorm:"column:license_number;size:100;not null;uniqueIndex:agents_license_number_key" json:"license_number"`
	LicenseState  string    `gorm:"column:license_state;size:2;not null" json:"license_state"`
	ServiceAreas  *string   `gorm:"column:service_areas;type:text" json:"service_areas,omitempty"`
	Bio           *string   `gorm:"column:bio;type:text" json:"bio,omitempty"`
	PhotoURL      *string   `gorm:"column:photo_url;size:500" json:"photo_url,omitempty"`
	Status        string    `gorm:"column:status;size:20;not null;default:'pending';index:idx_agents_status" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Agent) TableName() string {
	return "agents"
}
